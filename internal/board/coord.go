package board

import "fmt"

// Coord addresses a cell on the board. Row 0 is rank 8 and col 0 is
// file a, matching the stored orientation (Black's back rank on top).
type Coord struct {
	Row, Col int
}

// Undefined is the sentinel coordinate for "no selection". It must
// never be used to index a board; IsValid rejects it.
var Undefined = Coord{Row: -1, Col: -1}

// NewCoord creates a coordinate from row and column.
func NewCoord(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

// IsValid returns true if the coordinate addresses a board cell.
func (c Coord) IsValid() bool {
	return c.Row >= 0 && c.Row <= 7 && c.Col >= 0 && c.Col <= 7
}

// IsUndefined returns true if the coordinate does not address a cell.
func (c Coord) IsUndefined() bool {
	return !c.IsValid()
}

// String returns the algebraic notation for the coordinate (e.g. "e4").
func (c Coord) String() string {
	if !c.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+c.Col, '0'+8-c.Row)
}

// ParseCoord parses algebraic notation (e.g. "e4") into a Coord.
func ParseCoord(s string) (Coord, error) {
	if len(s) != 2 {
		return Undefined, fmt.Errorf("invalid square: %s", s)
	}

	col := int(s[0] - 'a')
	rank := int(s[1] - '1')

	if col < 0 || col > 7 || rank < 0 || rank > 7 {
		return Undefined, fmt.Errorf("invalid square: %s", s)
	}

	return Coord{Row: 7 - rank, Col: col}, nil
}
