package searcher

import (
	"errors"

	"minichess/game"
)

var (
	// ErrNoLegalMoves is returned when an agent is asked to move from a
	// position with an empty move list.
	ErrNoLegalMoves = errors.New("no legal moves available")

	// ErrInvalidConfig is returned by agent constructors given
	// out-of-range parameters.
	ErrInvalidConfig = errors.New("invalid agent configuration")
)

// Agent chooses a move for the side to move. Implementations own
// their search state and RNG and are not safe for concurrent calls to
// the same instance.
type Agent interface {
	ChooseMove(state game.State) (game.Move, error)
}
