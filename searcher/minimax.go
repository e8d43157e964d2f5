package searcher

import (
	"math"
	"sort"
	"time"

	"minichess/game"
)

const (
	// Terminal results are scaled so a forced win dominates any material
	// heuristic (the maximum material swing is far below 10000).
	terminalScale = 10000.0
	// winThreshold stops deepening once a forced win is committed; the
	// margin below terminalScale leaves room for search-distance
	// attenuation if that is ever added.
	winThreshold = 9000.0
)

// Minimax is a depth-limited alpha-beta searcher with a transposition
// table and iterative deepening.
type Minimax struct {
	depth     int
	timeLimit time.Duration
	hasLimit  bool
	table     transTable
}

type MinimaxOption func(*Minimax)

// WithDepth sets the maximum search depth in plies. Depth 0 means
// static evaluation only: the agent returns the first legal move.
func WithDepth(depth int) MinimaxOption {
	return func(m *Minimax) {
		m.depth = depth
	}
}

// WithSearchTime sets a soft wall-clock budget per ChooseMove call.
func WithSearchTime(limit time.Duration) MinimaxOption {
	return func(m *Minimax) {
		m.timeLimit = limit
		m.hasLimit = true
	}
}

func NewMinimax(options ...MinimaxOption) (*Minimax, error) {
	m := &Minimax{depth: 3}
	for _, option := range options {
		option(m)
	}
	if m.depth < 0 {
		return nil, ErrInvalidConfig
	}
	if m.hasLimit && m.timeLimit <= 0 {
		return nil, ErrInvalidConfig
	}
	return m, nil
}

// ChooseMove runs iterative deepening to the configured depth, keeping
// the best move of the last iteration that completed in budget.
func (m *Minimax) ChooseMove(state game.State) (game.Move, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, ErrNoLegalMoves
	}

	// The position space shifts every ply; stale entries are worthless.
	m.table = make(transTable)

	rootColor := state.ToMove
	var deadline time.Time
	if m.hasLimit {
		deadline = time.Now().Add(m.timeLimit)
	}

	best := moves[0]
	bestScore := math.Inf(-1)

	for currentDepth := 1; currentDepth <= m.depth; currentDepth++ {
		if timedOut(deadline) {
			break
		}

		// Previous iteration's best move leads; captures next.
		ordered := orderMoves(state, moves, best)

		iterBest := ordered[0]
		iterScore := math.Inf(-1)
		alpha, beta := math.Inf(-1), math.Inf(1)

		for _, mv := range ordered {
			if timedOut(deadline) {
				break
			}
			score := m.search(state.Apply(mv), currentDepth-1, alpha, beta, rootColor, deadline)
			if score > iterScore {
				iterScore = score
				iterBest = mv
			}
			if iterScore > alpha {
				alpha = iterScore
			}
		}

		// Commit only iterations that finished before the deadline.
		if !timedOut(deadline) {
			best = iterBest
			bestScore = iterScore
			if bestScore >= winThreshold {
				break
			}
		}
	}

	return best, nil
}

// search is alpha-beta over an explicit maximizing color: nodes where
// the side to move equals maximizingColor maximize, others minimize.
func (m *Minimax) search(state game.State, depth int, alpha, beta float64, maximizingColor game.Color, deadline time.Time) float64 {
	if timedOut(deadline) {
		return evaluate(state, maximizingColor)
	}

	if terminal, result := state.TerminalResult(); terminal {
		score := result * terminalScale
		if maximizingColor == game.Black {
			score = -score
		}
		return score
	}

	if depth <= 0 {
		return evaluate(state, maximizingColor)
	}

	key := state.Key()
	entryAlpha, entryBeta := alpha, beta
	entry, found, cutoff := m.table.probe(key, depth, &alpha, &beta)
	if cutoff {
		return entry.score
	}
	var ttMove game.Move
	if found {
		ttMove = entry.move
	}

	ordered := orderMoves(state, state.LegalMoves(), ttMove)

	var best game.Move
	if state.ToMove == maximizingColor {
		value := math.Inf(-1)
		for _, mv := range ordered {
			childValue := m.search(state.Apply(mv), depth-1, alpha, beta, maximizingColor, deadline)
			if childValue > value {
				value = childValue
				best = mv
			}
			if value > alpha {
				alpha = value
			}
			if beta <= alpha || timedOut(deadline) {
				break
			}
		}
		// Never cache values cut short by the clock.
		if !timedOut(deadline) {
			m.table.store(key, depth, value, entryAlpha, entryBeta, best)
		}
		return value
	}

	value := math.Inf(1)
	for _, mv := range ordered {
		childValue := m.search(state.Apply(mv), depth-1, alpha, beta, maximizingColor, deadline)
		if childValue < value {
			value = childValue
			best = mv
		}
		if value < beta {
			beta = value
		}
		if beta <= alpha || timedOut(deadline) {
			break
		}
	}
	if !timedOut(deadline) {
		m.table.store(key, depth, value, entryAlpha, entryBeta, best)
	}
	return value
}

func evaluate(state game.State, perspective game.Color) float64 {
	return float64(game.MaterialBalanceFor(state, perspective))
}

// orderMoves sorts the PV/TT move first, then captures by captured
// piece value descending, then quiet moves. The sort is stable so move
// generation order breaks ties deterministically.
func orderMoves(state game.State, moves []game.Move, pv game.Move) []game.Move {
	ordered := make([]game.Move, len(moves))
	copy(ordered, moves)
	score := func(m game.Move) int {
		if m == pv {
			return 1000
		}
		if target := state.Board[m.To.Row][m.To.Col]; target != game.NoPiece {
			return 100 + game.PieceValue(target)
		}
		return 0
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return score(ordered[i]) > score(ordered[j])
	})
	return ordered
}

// timedOut reports whether the soft deadline has passed; the zero time
// means no budget.
func timedOut(deadline time.Time) bool {
	return !deadline.IsZero() && !time.Now().Before(deadline)
}
