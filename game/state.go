package game

import (
	"fmt"
	"strings"
)

// PositionKey identifies a position by content: board plus side to
// move. Histories are excluded on purpose so transpositions reached by
// different paths share a key.
type PositionKey struct {
	Board  Board
	ToMove Color
}

// State is an immutable Gardner MiniChess position. Every transition
// returns a new State; callers never mutate one in place.
type State struct {
	Board         Board
	ToMove        Color
	MoveHistory   []Move
	HalfmoveClock int
	// PositionHistory holds the (board, side) pairs preceding this
	// state, oldest first, for repetition detection.
	PositionHistory []PositionKey
}

// InitialState returns the starting position with White to move.
func InitialState() State {
	return State{Board: InitialBoard(), ToMove: White}
}

// Key returns the transposition key for this state.
func (s State) Key() PositionKey {
	return PositionKey{Board: s.Board, ToMove: s.ToMove}
}

// LegalMoves enumerates every move of the side to move that does not
// leave its own king attacked. Order is deterministic for a fixed
// board: squares row-major, then per-piece generation order.
func (s State) LegalMoves() []Move {
	pseudo := s.Board.pseudoMoves(s.ToMove)
	legal := pseudo[:0]
	for _, m := range pseudo {
		next := s.Board.apply(m)
		if !next.InCheck(s.ToMove) {
			legal = append(legal, m)
		}
	}
	return legal
}

// MakeMove applies a move and returns the successor state. Leave
// validate true when consuming user or agent input; pass false only
// when the move already came from LegalMoves, skipping the duplicate
// generation work.
func (s State) MakeMove(m Move, validate bool) (State, error) {
	if validate {
		found := false
		for _, legal := range s.LegalMoves() {
			if legal == m {
				found = true
				break
			}
		}
		if !found {
			return State{}, fmt.Errorf("%w: %v", ErrIllegalMove, m)
		}
	}
	return s.Apply(m), nil
}

// Apply is the unvalidated transition: the caller guarantees the move
// is legal. Search code uses this for every internal expansion.
func (s State) Apply(m Move) State {
	moving := s.Board[m.From.Row][m.From.Col]
	isCapture := s.Board[m.To.Row][m.To.Col] != NoPiece
	isPawnMove := moving != NoPiece && moving.Kind() == Pawn

	halfmove := s.HalfmoveClock + 1
	if isPawnMove || isCapture {
		halfmove = 0
	}

	history := make([]Move, len(s.MoveHistory), len(s.MoveHistory)+1)
	copy(history, s.MoveHistory)
	history = append(history, m)

	positions := make([]PositionKey, len(s.PositionHistory), len(s.PositionHistory)+1)
	copy(positions, s.PositionHistory)
	positions = append(positions, s.Key())

	return State{
		Board:           s.Board.apply(m),
		ToMove:          s.ToMove.Opponent(),
		MoveHistory:     history,
		HalfmoveClock:   halfmove,
		PositionHistory: positions,
	}
}

// IsDraw reports draw by threefold repetition, the 50-move rule, or
// insufficient material (bare kings).
func (s State) IsDraw() bool {
	repetitions := 0
	current := s.Key()
	for _, key := range s.PositionHistory {
		if key == current {
			repetitions++
		}
	}
	if repetitions >= 2 { // current occurrence makes three
		return true
	}
	if s.HalfmoveClock >= 100 {
		return true
	}
	return s.insufficientMaterial()
}

func (s State) insufficientMaterial() bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			piece := s.Board[r][c]
			if piece != NoPiece && piece.Kind() != King {
				return false
			}
		}
	}
	return true
}

// IsTerminal reports whether the game is over: draw by rule, or no
// legal moves (checkmate or stalemate).
func (s State) IsTerminal() bool {
	if s.IsDraw() {
		return true
	}
	return len(s.LegalMoves()) == 0
}

// Result returns +1 for a White win, -1 for a Black win, 0 for a draw.
// It fails with ErrGameNotFinished on a non-terminal state.
func (s State) Result() (float64, error) {
	terminal, result := s.TerminalResult()
	if !terminal {
		return 0, ErrGameNotFinished
	}
	return result, nil
}

// TerminalResult combines terminality and outcome with a single move
// generation: draw checks first, then one LegalMoves call. When the
// state is not terminal the result is 0.
func (s State) TerminalResult() (bool, float64) {
	if s.IsDraw() {
		return true, 0
	}
	if len(s.LegalMoves()) > 0 {
		return false, 0
	}
	return true, s.NoMovesResult()
}

// NoMovesResult returns the outcome assuming the side to move has no
// legal moves: the mover in check is checkmated, otherwise stalemate.
// Call only after confirming LegalMoves is empty.
func (s State) NoMovesResult() float64 {
	if s.Board.InCheck(s.ToMove) {
		if s.ToMove == Black {
			return 1
		}
		return -1
	}
	return 0
}

// InCheck reports whether the side to move is in check.
func (s State) InCheck() bool {
	return s.Board.InCheck(s.ToMove)
}

// Render returns a rank-labeled text diagram for debugging.
func (s State) Render() string {
	var b strings.Builder
	for r, rank := range s.Board {
		fmt.Fprintf(&b, "%d", Size-1-r)
		for _, piece := range rank {
			b.WriteByte(' ')
			b.WriteString(piece.String())
		}
		b.WriteByte('\n')
	}
	b.WriteString("  a b c d e")
	return b.String()
}
