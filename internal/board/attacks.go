package board

// AttackedSquares returns the union of all squares the given color
// attacks or defends: the protected-squares variant of every piece of
// that color on the board. The result may contain duplicates.
func AttackedSquares(b *Board, c Color, hist History) []Coord {
	var out []Coord
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			from := Coord{Row: row, Col: col}
			p := b.PieceAt(from)
			if p == NoPiece || p.Color() != c {
				continue
			}
			out = append(out, ProtectedSquares(b, from, hist)...)
		}
	}
	return out
}

// IsAttacked returns true if any piece of color by attacks or defends
// the target square.
func IsAttacked(b *Board, target Coord, by Color, hist History) bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			from := Coord{Row: row, Col: col}
			p := b.PieceAt(from)
			if p == NoPiece || p.Color() != by {
				continue
			}
			for _, sq := range ProtectedSquares(b, from, hist) {
				if sq == target {
					return true
				}
			}
		}
	}
	return false
}

// IsInCheck returns true if the given color's king stands on a square
// attacked by the opposing color.
func IsInCheck(b *Board, c Color, hist History) bool {
	king := b.KingCoord(c)
	if !king.IsValid() {
		return false
	}
	return IsAttacked(b, king, c.Other(), hist)
}

// leavesKingInCheck simulates the candidate move on a scratch copy of
// the board and re-tests the mover's own king. This single mechanism
// covers both pins and moving into check; no separate pin detection
// exists.
func leavesKingInCheck(b *Board, from, to Coord, hist History) bool {
	p := b.PieceAt(from)
	if p == NoPiece {
		return false
	}

	scratch := *b

	// En-passant shape: the captured pawn sits beside the mover, not
	// on the destination.
	if p.Type() == Pawn && to.Col != from.Col && scratch.IsEmpty(to) {
		scratch.ClearSquare(Coord{Row: from.Row, Col: to.Col})
	}

	scratch.SetPiece(to, p)
	scratch.ClearSquare(from)

	return IsInCheck(&scratch, p.Color(), hist)
}
