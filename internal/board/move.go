package board

// Move records one executed half-move. Immutable once created; used
// for history, notation and repetition/undo bookkeeping.
type Move struct {
	Piece PieceType
	Color Color
	From  Coord
	To    Coord
}

// String returns the move as origin and destination squares ("e2e4").
func (m Move) String() string {
	return m.From.String() + m.To.String()
}

// IsDoublePush returns true if the move is a two-cell pawn advance.
func (m Move) IsDoublePush() bool {
	if m.Piece != Pawn {
		return false
	}
	d := m.To.Row - m.From.Row
	return d == 2 || d == -2
}

// History is the ordered list of executed moves of a game.
type History []Move

// Last returns the most recent move, if any.
func (h History) Last() (Move, bool) {
	if len(h) == 0 {
		return Move{}, false
	}
	return h[len(h)-1], true
}

// HasMoved reports whether any recorded move of the given piece kind
// left the given origin square. Castling eligibility derives from this
// scan: the home-square occupant has castling rights only while no
// such move exists.
func (h History) HasMoved(pt PieceType, from Coord) bool {
	for _, m := range h {
		if m.Piece == pt && m.From == from {
			return true
		}
	}
	return false
}
