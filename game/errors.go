package game

import "errors"

var (
	// ErrIllegalMove is returned by a validated MakeMove when the move
	// is not in LegalMoves.
	ErrIllegalMove = errors.New("illegal move")

	// ErrGameNotFinished is returned by Result on a non-terminal state.
	ErrGameNotFinished = errors.New("game not finished")
)
