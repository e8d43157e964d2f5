package searcher

import "minichess/game"

// Greedy is the one-ply material maximizer: no search, ties broken by
// move-generation order.
type Greedy struct{}

func NewGreedy() *Greedy {
	return &Greedy{}
}

func (a *Greedy) ChooseMove(state game.State) (game.Move, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, ErrNoLegalMoves
	}

	player := state.ToMove
	best := moves[0]
	bestScore := game.MaterialBalanceFor(state.Apply(moves[0]), player)
	for _, m := range moves[1:] {
		score := game.MaterialBalanceFor(state.Apply(m), player)
		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best, nil
}
