package game

// PieceValue returns the material value of a piece, color-blind. The
// king is priced high enough that no material swing outweighs it.
func PieceValue(p Piece) int {
	switch p.Kind() {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	case King:
		return 1000
	}
	return 0
}

// MaterialBalance sums piece values over the whole board, positive for
// White pieces and negative for Black.
func MaterialBalance(s State) int {
	score := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			piece := s.Board[r][c]
			if piece == NoPiece {
				continue
			}
			value := PieceValue(piece)
			if piece.Color() == White {
				score += value
			} else {
				score -= value
			}
		}
	}
	return score
}

// MaterialBalanceFor returns the balance from the given side's
// perspective: positive when that side is ahead.
func MaterialBalanceFor(s State, perspective Color) int {
	balance := MaterialBalance(s)
	if perspective == Black {
		return -balance
	}
	return balance
}
