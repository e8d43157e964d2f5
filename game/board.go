package game

// Size is the board width and height of the Gardner variant.
const Size = 5

// Color identifies a side, 'W' or 'B'.
type Color byte

const (
	White Color = 'W'
	Black Color = 'B'
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Piece is a single-letter piece code: P, N, B, R, Q, K for White,
// lowercase for Black. The zero value means an empty square.
type Piece byte

const NoPiece Piece = 0

const (
	Pawn   Piece = 'P'
	Knight Piece = 'N'
	Bishop Piece = 'B'
	Rook   Piece = 'R'
	Queen  Piece = 'Q'
	King   Piece = 'K'
)

// Color returns the side owning the piece. Undefined for NoPiece.
func (p Piece) Color() Color {
	if p >= 'a' {
		return Black
	}
	return White
}

// Kind maps the piece to its uppercase code regardless of color.
func (p Piece) Kind() Piece {
	if p >= 'a' {
		return p - ('a' - 'A')
	}
	return p
}

func (p Piece) String() string {
	if p == NoPiece {
		return "."
	}
	return string(rune(p))
}

// Square addresses a board cell. Row 0 is White's back rank.
type Square struct {
	Row, Col int
}

func (s Square) inBounds() bool {
	return s.Row >= 0 && s.Row < Size && s.Col >= 0 && s.Col < Size
}

// Board is a fixed 5x5 grid of piece codes. It is a comparable value
// type, so (Board, Color) pairs key transposition tables directly.
type Board [Size][Size]Piece

// InitialBoard returns the canonical Gardner starting position, White
// on rows 0-1.
func InitialBoard() Board {
	var b Board
	back := [Size]Piece{Rook, Knight, Bishop, Queen, King}
	for c := 0; c < Size; c++ {
		b[0][c] = back[c]
		b[1][c] = Pawn
		b[3][c] = Pawn + ('a' - 'A')
		b[4][c] = back[c] + ('a' - 'A')
	}
	return b
}

func (b Board) at(s Square) Piece {
	return b[s.Row][s.Col]
}

// apply moves the piece without any legality checks, substituting the
// promotion piece at the destination when set.
func (b Board) apply(m Move) Board {
	piece := b[m.From.Row][m.From.Col]
	b[m.From.Row][m.From.Col] = NoPiece
	if m.Promotion != NoPiece {
		piece = m.Promotion
	}
	b[m.To.Row][m.To.Col] = piece
	return b
}

func (b Board) findKing(color Color) (Square, bool) {
	target := King
	if color == Black {
		target += 'a' - 'A'
	}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == target {
				return Square{r, c}, true
			}
		}
	}
	return Square{}, false
}

// InCheck reports whether color's king is attacked. A missing king is
// treated as in check so that king capture reads as a loss.
func (b Board) InCheck(color Color) bool {
	king, ok := b.findKing(color)
	if !ok {
		return true
	}
	return b.SquareAttacked(king, color.Opponent())
}

var knightDeltas = [8][2]int{
	{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
	{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
}

var diagonalDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var orthogonalDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// SquareAttacked reports whether any piece of the given color attacks
// the square.
func (b Board) SquareAttacked(sq Square, by Color) bool {
	// Pawns capture diagonally toward their advance direction.
	pawnDir := 1
	pawn := Pawn
	knight := Knight
	king := King
	if by == Black {
		pawnDir = -1
		pawn += 'a' - 'A'
		knight += 'a' - 'A'
		king += 'a' - 'A'
	}
	for _, dc := range [2]int{-1, 1} {
		from := Square{sq.Row - pawnDir, sq.Col - dc}
		if from.inBounds() && b.at(from) == pawn {
			return true
		}
	}
	for _, d := range knightDeltas {
		from := Square{sq.Row + d[0], sq.Col + d[1]}
		if from.inBounds() && b.at(from) == knight {
			return true
		}
	}
	if b.slideAttacked(sq, by, diagonalDirs, Bishop) {
		return true
	}
	if b.slideAttacked(sq, by, orthogonalDirs, Rook) {
		return true
	}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			from := Square{sq.Row + dr, sq.Col + dc}
			if from.inBounds() && b.at(from) == king {
				return true
			}
		}
	}
	return false
}

// slideAttacked walks each ray until the first blocker; only an enemy
// slider of matching geometry (or a queen) attacks through it.
func (b Board) slideAttacked(sq Square, by Color, dirs [4][2]int, slider Piece) bool {
	for _, d := range dirs {
		cur := Square{sq.Row + d[0], sq.Col + d[1]}
		for cur.inBounds() {
			piece := b.at(cur)
			if piece == NoPiece {
				cur = Square{cur.Row + d[0], cur.Col + d[1]}
				continue
			}
			if piece.Color() == by {
				kind := piece.Kind()
				if kind == slider || kind == Queen {
					return true
				}
			}
			break
		}
	}
	return false
}

// pseudoMoves generates geometry-legal moves for all pieces of the
// side, iterating squares row-major so move order is deterministic.
func (b Board) pseudoMoves(side Color) []Move {
	var moves []Move
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			piece := b[r][c]
			if piece == NoPiece || piece.Color() != side {
				continue
			}
			moves = b.pieceMoves(moves, Square{r, c}, piece)
		}
	}
	return moves
}

func (b Board) pieceMoves(moves []Move, from Square, piece Piece) []Move {
	switch piece.Kind() {
	case Pawn:
		return b.pawnMoves(moves, from, piece.Color())
	case Knight:
		return b.stepMoves(moves, from, piece.Color(), knightDeltas[:])
	case Bishop:
		return b.sliderMoves(moves, from, piece.Color(), diagonalDirs[:])
	case Rook:
		return b.sliderMoves(moves, from, piece.Color(), orthogonalDirs[:])
	case Queen:
		moves = b.sliderMoves(moves, from, piece.Color(), diagonalDirs[:])
		return b.sliderMoves(moves, from, piece.Color(), orthogonalDirs[:])
	case King:
		return b.kingMoves(moves, from, piece.Color())
	}
	return moves
}

func (b Board) pawnMoves(moves []Move, from Square, color Color) []Move {
	dir := 1
	promotionRank := Size - 1
	promotion := Queen
	if color == Black {
		dir = -1
		promotionRank = 0
		promotion += 'a' - 'A'
	}
	push := Square{from.Row + dir, from.Col}
	if push.inBounds() && b.at(push) == NoPiece {
		if push.Row == promotionRank {
			moves = append(moves, Move{From: from, To: push, Promotion: promotion})
		} else {
			moves = append(moves, Move{From: from, To: push})
		}
	}
	for _, dc := range [2]int{-1, 1} {
		target := Square{from.Row + dir, from.Col + dc}
		if !target.inBounds() {
			continue
		}
		piece := b.at(target)
		if piece == NoPiece || piece.Color() == color {
			continue
		}
		if target.Row == promotionRank {
			moves = append(moves, Move{From: from, To: target, Promotion: promotion})
		} else {
			moves = append(moves, Move{From: from, To: target})
		}
	}
	return moves
}

func (b Board) stepMoves(moves []Move, from Square, color Color, deltas [][2]int) []Move {
	for _, d := range deltas {
		to := Square{from.Row + d[0], from.Col + d[1]}
		if !to.inBounds() {
			continue
		}
		piece := b.at(to)
		if piece == NoPiece || piece.Color() != color {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

func (b Board) sliderMoves(moves []Move, from Square, color Color, dirs [][2]int) []Move {
	for _, d := range dirs {
		to := Square{from.Row + d[0], from.Col + d[1]}
		for to.inBounds() {
			piece := b.at(to)
			if piece == NoPiece {
				moves = append(moves, Move{From: from, To: to})
				to = Square{to.Row + d[0], to.Col + d[1]}
				continue
			}
			if piece.Color() != color {
				moves = append(moves, Move{From: from, To: to})
			}
			break
		}
	}
	return moves
}

func (b Board) kingMoves(moves []Move, from Square, color Color) []Move {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			to := Square{from.Row + dr, from.Col + dc}
			if !to.inBounds() {
				continue
			}
			piece := b.at(to)
			if piece == NoPiece || piece.Color() != color {
				moves = append(moves, Move{From: from, To: to})
			}
		}
	}
	return moves
}
