package searcher

import (
	"math"

	"minichess/game"
)

// node is one MCTS tree node. Nodes are shared through the per-call
// table keyed by (board, side to move), so a position reached via
// different move orders accumulates statistics in one place. value is
// always the accumulated reward from this node's side-to-move
// perspective.
type node struct {
	state  game.State
	visits int
	value  float64
	// untried holds moves not yet expanded, captures first. moves and
	// children grow in parallel as untried moves are expanded, which
	// fixes the insertion order used for tie-breaking.
	untried  []game.Move
	moves    []game.Move
	children []*node
}

// nodeTable is the per-call transposition table of tree nodes.
type nodeTable map[game.PositionKey]*node

// fetch returns the node for the position, creating it with its legal
// moves pre-ordered captures-first on a miss.
func (nt nodeTable) fetch(state game.State, legal []game.Move) *node {
	key := state.Key()
	if n, ok := nt[key]; ok {
		return n
	}
	untried := make([]game.Move, 0, len(legal))
	for _, m := range legal {
		if state.Board[m.To.Row][m.To.Col] != game.NoPiece {
			untried = append(untried, m)
		}
	}
	for _, m := range legal {
		if state.Board[m.To.Row][m.To.Col] == game.NoPiece {
			untried = append(untried, m)
		}
	}
	n := &node{state: state, untried: untried}
	nt[key] = n
	return n
}

// selectChild returns the child maximizing UCB1 from this node's
// side-to-move perspective. Unvisited children score infinite and are
// taken first; ties keep the earliest-inserted child.
func (n *node) selectChild(c float64) *node {
	logParent := math.Log(float64(n.visits))

	var best *node
	bestScore := math.Inf(-1)
	for _, child := range n.children {
		if child.visits == 0 {
			return child
		}
		// Child values are from the child's perspective; flip when the
		// side to move changes across the edge.
		mean := child.value / float64(child.visits)
		if n.state.ToMove != child.state.ToMove {
			mean = -mean
		}
		score := mean + c*math.Sqrt(logParent/float64(child.visits))
		if score > bestScore {
			bestScore = score
			best = child
		}
	}
	return best
}

// robustChild returns the move to the most-visited child, or false
// when the node has no children.
func (n *node) robustChild() (game.Move, bool) {
	if len(n.children) == 0 {
		return game.Move{}, false
	}
	best := 0
	for i, child := range n.children[1:] {
		if child.visits > n.children[best].visits {
			best = i + 1
		}
	}
	return n.moves[best], true
}
