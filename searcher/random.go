package searcher

import (
	"golang.org/x/exp/rand"

	"minichess/game"
)

// Random picks a legal move uniformly at random.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns an agent drawing from the shared global source.
func NewRandom() *Random {
	return &Random{}
}

// NewSeededRandom returns an agent with a private seeded source.
func NewSeededRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (a *Random) ChooseMove(state game.State) (game.Move, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, ErrNoLegalMoves
	}
	return moves[a.intn(len(moves))], nil
}

func (a *Random) intn(n int) int {
	if a.rng != nil {
		return a.rng.Intn(n)
	}
	return rand.Intn(n)
}
