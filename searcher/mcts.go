package searcher

import (
	"math"
	"time"

	"golang.org/x/exp/rand"

	"minichess/experiments/metrics"
	"minichess/game"
)

// RolloutPolicy names a rollout move-selection rule.
type RolloutPolicy string

const (
	// PolicyCaptureBias picks uniformly among capturing moves when any
	// exist, otherwise uniformly among all legal moves.
	PolicyCaptureBias RolloutPolicy = "capture_bias"
	// PolicyUniform picks uniformly among all legal moves.
	PolicyUniform RolloutPolicy = "uniform"
)

// MCTS is a Monte Carlo Tree Search agent: UCB1 selection over a
// transposition-keyed node table, capture-biased rollouts, and robust
// child move selection. The node table is rebuilt for every call; no
// tree survives across plies.
type MCTS struct {
	simulations  int
	timeLimit    time.Duration
	hasLimit     bool
	exploration  float64
	rolloutDepth int
	policy       RolloutPolicy
	rng          *rand.Rand
	collector    metrics.Collector
	last         metrics.SearchMetric
}

type MCTSOption func(*MCTS)

// WithSimulations sets the simulation count budget per call.
func WithSimulations(simulations int) MCTSOption {
	return func(m *MCTS) {
		m.simulations = simulations
	}
}

// WithTimeLimit sets a soft wall-clock budget per call; whichever of
// the two budgets runs out first ends the search.
func WithTimeLimit(limit time.Duration) MCTSOption {
	return func(m *MCTS) {
		m.timeLimit = limit
		m.hasLimit = true
	}
}

// WithExploration sets the UCB1 exploration constant.
func WithExploration(c float64) MCTSOption {
	return func(m *MCTS) {
		m.exploration = c
	}
}

// WithRolloutDepth caps rollout length in plies.
func WithRolloutDepth(depth int) MCTSOption {
	return func(m *MCTS) {
		m.rolloutDepth = depth
	}
}

// WithRolloutPolicy selects the rollout move rule.
func WithRolloutPolicy(policy RolloutPolicy) MCTSOption {
	return func(m *MCTS) {
		m.policy = policy
	}
}

// WithSeed gives the agent a private random source. Unseeded agents
// share the package-global source, so they are not isolated from each
// other.
func WithSeed(seed uint64) MCTSOption {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

// WithCollector injects a metrics collector; searches report through
// a dummy otherwise.
func WithCollector(c metrics.Collector) MCTSOption {
	return func(m *MCTS) {
		if c != nil {
			m.collector = c
		}
	}
}

func NewMCTS(options ...MCTSOption) (*MCTS, error) {
	m := &MCTS{
		simulations:  500,
		exploration:  math.Sqrt2,
		rolloutDepth: 20,
		policy:       PolicyCaptureBias,
		collector:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.simulations <= 0 {
		return nil, ErrInvalidConfig
	}
	if m.hasLimit && m.timeLimit <= 0 {
		return nil, ErrInvalidConfig
	}
	if m.exploration <= 0 {
		return nil, ErrInvalidConfig
	}
	if m.rolloutDepth <= 0 {
		return nil, ErrInvalidConfig
	}
	return m, nil
}

// Metric returns the statistics of the last completed search.
func (m *MCTS) Metric() metrics.SearchMetric {
	return m.last
}

func (m *MCTS) ChooseMove(state game.State) (game.Move, error) {
	legal := state.LegalMoves()
	if len(legal) == 0 {
		return game.Move{}, ErrNoLegalMoves
	}
	if len(legal) == 1 {
		return legal[0], nil
	}

	m.collector.Start(m.rolloutDepth)

	nodes := make(nodeTable)
	root := nodes.fetch(state, legal)

	var deadline time.Time
	if m.hasLimit {
		deadline = time.Now().Add(m.timeLimit)
	}

	for run := 0; run < m.simulations && !timedOut(deadline); run++ {
		m.simulate(root, nodes, deadline)
		m.collector.AddSimulation()
	}
	m.last = m.collector.Complete()

	if move, ok := root.robustChild(); ok {
		return move, nil
	}
	// No child expanded at all; budget must have expired immediately.
	return legal[0], nil
}

// simulate runs one selection-expansion-rollout-backpropagation pass.
func (m *MCTS) simulate(root *node, nodes nodeTable, deadline time.Time) {
	path := []*node{root}
	current := root
	state := root.state

	// Selection: descend fully expanded nodes by UCB1.
	for len(current.untried) == 0 && len(current.children) > 0 {
		current = current.selectChild(m.exploration)
		state = current.state
		path = append(path, current)
		if timedOut(deadline) {
			break
		}
	}

	// Expansion: take the next untried move and link its node, shared
	// through the table when the position transposes.
	if !timedOut(deadline) && len(current.untried) > 0 {
		move := current.untried[0]
		current.untried = current.untried[1:]
		next := state.Apply(move)
		child := nodes.fetch(next, next.LegalMoves())
		current.moves = append(current.moves, move)
		current.children = append(current.children, child)
		current = child
		state = next
		path = append(path, current)
	}

	// Simulation.
	result := m.rollout(state, deadline)

	// Backpropagation: rewards flip to each node's own side to move.
	for _, n := range path {
		n.visits++
		if n.state.ToMove == game.White {
			n.value += result
		} else {
			n.value -= result
		}
	}
}

// rollout plays policy moves to the depth cap and returns a result in
// White's perspective: exact for terminal states, normalized material
// otherwise. Lopsided positions cut out early once past five plies.
func (m *MCTS) rollout(state game.State, deadline time.Time) float64 {
	current := state
	for depth := 0; depth < m.rolloutDepth; depth++ {
		if timedOut(deadline) {
			break
		}
		moves := current.LegalMoves()
		if len(moves) == 0 {
			m.collector.AddFullPlayout()
			return current.NoMovesResult()
		}
		if depth > 5 {
			if score := normalizedEvaluation(current); math.Abs(score) > 0.5 {
				return score
			}
		}
		current = current.Apply(m.rolloutMove(current, moves))
	}
	return normalizedEvaluation(current)
}

func (m *MCTS) rolloutMove(state game.State, moves []game.Move) game.Move {
	if m.policy == PolicyCaptureBias {
		var captures []game.Move
		for _, mv := range moves {
			if state.Board[mv.To.Row][mv.To.Col] != game.NoPiece {
				captures = append(captures, mv)
			}
		}
		if len(captures) > 0 {
			return captures[m.intn(len(captures))]
		}
	}
	return moves[m.intn(len(moves))]
}

func (m *MCTS) intn(n int) int {
	if m.rng != nil {
		return m.rng.Intn(n)
	}
	return rand.Intn(n)
}

// normalizedEvaluation is material balance in White's perspective
// divided by the total non-king material, floored at 20 so sparse
// boards do not blow the scale past terminal results.
func normalizedEvaluation(state game.State) float64 {
	score := 0
	total := 0
	for r := 0; r < game.Size; r++ {
		for c := 0; c < game.Size; c++ {
			piece := state.Board[r][c]
			if piece == game.NoPiece {
				continue
			}
			value := game.PieceValue(piece)
			if piece.Kind() != game.King {
				total += value
			}
			if piece.Color() == game.White {
				score += value
			} else {
				score -= value
			}
		}
	}
	if total < 20 {
		total = 20
	}
	return float64(score) / float64(total)
}
