package board

// Ray directions for the sliding pieces.
var (
	bishopDirs = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	rookDirs   = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	queenDirs  = [8][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}}

	knightOffsets = [8][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// PseudoMoves returns the destinations the piece on from may reach,
// ignoring whether the move would leave its own king in check. With
// allowAlly true the result is the set of squares the piece defends:
// ally-occupied cells are included and pawn forward pushes are not.
// Returns nil when from is empty or out of range.
func PseudoMoves(b *Board, from Coord, hist History, allowAlly bool) []Coord {
	p := b.PieceAt(from)
	if p == NoPiece {
		return nil
	}

	c := p.Color()
	switch p.Type() {
	case Pawn:
		return pawnMoves(b, from, c, hist, allowAlly)
	case Knight:
		return knightMoves(b, from, c, allowAlly)
	case Bishop:
		return slideMoves(b, from, c, bishopDirs[:], allowAlly)
	case Rook:
		return slideMoves(b, from, c, rookDirs[:], allowAlly)
	case Queen:
		return slideMoves(b, from, c, queenDirs[:], allowAlly)
	case King:
		return kingMoves(b, from, c, allowAlly)
	default:
		return nil
	}
}

// ProtectedSquares returns the squares the piece on from attacks or
// defends, including cells occupied by its own side.
func ProtectedSquares(b *Board, from Coord, hist History) []Coord {
	return PseudoMoves(b, from, hist, true)
}

// LegalMoves returns the destinations the piece on from may actually
// play: pseudo-legal moves minus any that leave the mover's own king in
// check, plus castling for an eligible king. Castling destinations are
// the king's two-file moves (g- and c-file columns).
func LegalMoves(b *Board, from Coord, hist History) []Coord {
	p := b.PieceAt(from)
	if p == NoPiece {
		return nil
	}

	var legal []Coord
	for _, to := range PseudoMoves(b, from, hist, false) {
		if leavesKingInCheck(b, from, to, hist) {
			continue
		}
		legal = append(legal, to)
	}

	if p.Type() == King {
		legal = append(legal, castleMoves(b, from, p.Color(), hist)...)
	}

	return legal
}

// slideMoves walks each ray one cell at a time: stop at the board
// edge; on an empty cell record and continue; on an ally stop (record
// it only in the protected variant); on an enemy record and stop.
func slideMoves(b *Board, from Coord, c Color, dirs [][2]int, allowAlly bool) []Coord {
	var out []Coord
	for _, d := range dirs {
		cur := Coord{Row: from.Row + d[0], Col: from.Col + d[1]}
		for cur.IsValid() {
			t := b.PieceAt(cur)
			if t == NoPiece {
				out = append(out, cur)
				cur = Coord{Row: cur.Row + d[0], Col: cur.Col + d[1]}
				continue
			}
			if t.Color() != c || allowAlly {
				out = append(out, cur)
			}
			break
		}
	}
	return out
}

func knightMoves(b *Board, from Coord, c Color, allowAlly bool) []Coord {
	var out []Coord
	for _, o := range knightOffsets {
		to := Coord{Row: from.Row + o[0], Col: from.Col + o[1]}
		if !to.IsValid() {
			continue
		}
		t := b.PieceAt(to)
		if t != NoPiece && t.Color() == c && !allowAlly {
			continue
		}
		out = append(out, to)
	}
	return out
}

func pawnMoves(b *Board, from Coord, c Color, hist History, allowAlly bool) []Coord {
	dir := -1
	startRow := 6
	if c == Black {
		dir = 1
		startRow = 1
	}

	var out []Coord

	// Forward pushes are moves, not attacks; the protected variant
	// skips them.
	if !allowAlly {
		one := Coord{Row: from.Row + dir, Col: from.Col}
		if one.IsValid() && b.IsEmpty(one) {
			out = append(out, one)
			two := Coord{Row: from.Row + 2*dir, Col: from.Col}
			if from.Row == startRow && two.IsValid() && b.IsEmpty(two) {
				out = append(out, two)
			}
		}
	}

	for _, dc := range [2]int{-1, 1} {
		diag := Coord{Row: from.Row + dir, Col: from.Col + dc}
		if !diag.IsValid() {
			continue
		}
		if allowAlly {
			out = append(out, diag)
			continue
		}
		t := b.PieceAt(diag)
		if t != NoPiece && t.Color() == c.Other() {
			out = append(out, diag)
			continue
		}
		if t == NoPiece && enPassantTarget(from, c, hist) == diag {
			out = append(out, diag)
		}
	}

	return out
}

// enPassantTarget returns the square the pawn on from may capture en
// passant, or Undefined. The capture exists only when the immediately
// preceding move was an enemy pawn two-cell advance landing adjacent
// on the same row.
func enPassantTarget(from Coord, c Color, hist History) Coord {
	last, ok := hist.Last()
	if !ok || last.Piece != Pawn || last.Color != c.Other() || !last.IsDoublePush() {
		return Undefined
	}
	if last.To.Row != from.Row {
		return Undefined
	}
	dc := last.To.Col - from.Col
	if dc != 1 && dc != -1 {
		return Undefined
	}

	dir := -1
	if c == Black {
		dir = 1
	}
	return Coord{Row: from.Row + dir, Col: last.To.Col}
}

func kingMoves(b *Board, from Coord, c Color, allowAlly bool) []Coord {
	var out []Coord
	for _, o := range kingOffsets {
		to := Coord{Row: from.Row + o[0], Col: from.Col + o[1]}
		if !to.IsValid() {
			continue
		}
		t := b.PieceAt(to)
		if t != NoPiece && t.Color() == c && !allowAlly {
			continue
		}
		out = append(out, to)
	}
	return out
}

// castleMoves returns the castling destinations available to the king
// on from. Each condition independently disables castling: the king
// and the rook must be unmoved on their home squares, the king must
// not be in check, no square the king crosses or lands on may be
// attacked, and every cell strictly between king and rook must be
// empty.
func castleMoves(b *Board, from Coord, c Color, hist History) []Coord {
	homeRow := 7
	if c == Black {
		homeRow = 0
	}
	kingHome := Coord{Row: homeRow, Col: 4}
	if from != kingHome || b.PieceAt(kingHome).Type() != King {
		return nil
	}
	if hist.HasMoved(King, kingHome) {
		return nil
	}
	if IsInCheck(b, c, hist) {
		return nil
	}

	var out []Coord

	// King side: rook on the h-file, king crosses f and lands on g.
	if canCastleSide(b, c, hist, homeRow, 7, []int{5, 6}, []int{5, 6}) {
		out = append(out, Coord{Row: homeRow, Col: 6})
	}
	// Queen side: rook on the a-file, b-file need only be empty.
	if canCastleSide(b, c, hist, homeRow, 0, []int{1, 2, 3}, []int{3, 2}) {
		out = append(out, Coord{Row: homeRow, Col: 2})
	}

	return out
}

func canCastleSide(b *Board, c Color, hist History, homeRow, rookCol int, emptyCols, safeCols []int) bool {
	rookHome := Coord{Row: homeRow, Col: rookCol}
	rook := b.PieceAt(rookHome)
	if rook.Type() != Rook || rook.Color() != c {
		return false
	}
	if hist.HasMoved(Rook, rookHome) {
		return false
	}
	for _, col := range emptyCols {
		if !b.IsEmpty(Coord{Row: homeRow, Col: col}) {
			return false
		}
	}
	for _, col := range safeCols {
		if IsAttacked(b, Coord{Row: homeRow, Col: col}, c.Other(), hist) {
			return false
		}
	}
	return true
}
