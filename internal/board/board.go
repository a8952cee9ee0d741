// Package board implements the chess board, piece movement rules and
// check detection on a plain 8x8 mailbox representation.
package board

import "strings"

// Board is a fixed 8x8 grid of optional pieces, passed and copied by
// value. Row 0 holds rank 8 (Black's back rank); White starts on rows
// 6 and 7. The zero value is an empty board.
type Board [8][8]Piece

// NewBoard returns a board with the standard starting setup.
func NewBoard() Board {
	var b Board

	backRank := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col := 0; col < 8; col++ {
		b[0][col] = NewPiece(backRank[col], Black)
		b[1][col] = NewPiece(Pawn, Black)
		b[6][col] = NewPiece(Pawn, White)
		b[7][col] = NewPiece(backRank[col], White)
	}

	return b
}

// PieceAt returns the piece at the coordinate, or NoPiece when the
// coordinate is out of range or the cell is empty.
func (b *Board) PieceAt(c Coord) Piece {
	if !c.IsValid() {
		return NoPiece
	}
	return b[c.Row][c.Col]
}

// SetPiece places a piece on the cell. Out-of-range coordinates are
// ignored.
func (b *Board) SetPiece(c Coord, p Piece) {
	if !c.IsValid() {
		return
	}
	b[c.Row][c.Col] = p
}

// ClearSquare empties the cell. Out-of-range coordinates are ignored.
func (b *Board) ClearSquare(c Coord) {
	if !c.IsValid() {
		return
	}
	b[c.Row][c.Col] = NoPiece
}

// IsEmpty returns true if the cell holds no piece. Out-of-range
// coordinates report empty.
func (b *Board) IsEmpty(c Coord) bool {
	return b.PieceAt(c) == NoPiece
}

// Flipped returns the board rotated 180 degrees, used when the acting
// player's visual perspective changes.
func (b Board) Flipped() Board {
	var f Board
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			f[row][col] = b[7-row][7-col]
		}
	}
	return f
}

// KingCoord returns the coordinate of the given color's king, or
// Undefined if the king is not on the board.
func (b *Board) KingCoord(c Color) Coord {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b[row][col]
			if p.Type() == King && p.Color() == c {
				return Coord{Row: row, Col: col}
			}
		}
	}
	return Undefined
}

// String returns a visual representation of the board.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for row := 0; row < 8; row++ {
		sb.WriteByte('0' + byte(8-row))
		sb.WriteString("  ")
		for col := 0; col < 8; col++ {
			p := b[row][col]
			if p == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(p.String())
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
