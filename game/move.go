package game

import "fmt"

// Move is a value type: from-square, to-square, and the piece code to
// place at the destination for pawn promotions (NoPiece otherwise).
// Moves compare by field equality; the zero Move is never legal since
// no legal move starts and ends on the same square.
type Move struct {
	From      Square
	To        Square
	Promotion Piece
}

// String renders the move in file+rank coordinates, e.g. "b0c2" or
// "a3a4=Q" for a promotion.
func (m Move) String() string {
	s := fmt.Sprintf("%c%d%c%d",
		'a'+rune(m.From.Col), m.From.Row,
		'a'+rune(m.To.Col), m.To.Row)
	if m.Promotion != NoPiece {
		s += "=" + string(rune(m.Promotion.Kind()))
	}
	return s
}
