package game

import "github.com/hailam/chesscore/internal/board"

// Position history is an append-only log with a separate viewing
// index: callers page through past positions without mutating the log,
// and making a move while viewing a past position truncates everything
// after the viewing index.

// ViewIndex returns the index of the position currently viewed.
func (s *Session) ViewIndex() int {
	return s.viewIndex
}

// ViewingLive returns true if the viewing index points at the latest
// position.
func (s *Session) ViewingLive() bool {
	return s.viewIndex == len(s.positions)-1
}

// ViewedBoard returns the position snapshot at the viewing index.
func (s *Session) ViewedBoard() board.Board {
	return s.positions[s.viewIndex]
}

// ViewPrevious moves the viewing index one position back. Returns
// false at the initial position.
func (s *Session) ViewPrevious() bool {
	if s.viewIndex == 0 {
		return false
	}
	s.viewIndex--
	return true
}

// ViewNext moves the viewing index one position forward. Returns false
// at the live position.
func (s *Session) ViewNext() bool {
	if s.ViewingLive() {
		return false
	}
	s.viewIndex++
	return true
}

// ViewLive resets the viewing index to the latest position.
func (s *Session) ViewLive() {
	s.viewIndex = len(s.positions) - 1
}

// truncateToView drops every history entry after the viewing index and
// rebuilds the derived state from the surviving snapshots.
func (s *Session) truncateToView() {
	last := len(s.positions) - 1
	if s.viewIndex >= last {
		return
	}

	k := s.viewIndex
	s.positions = s.positions[:k+1]
	s.moves = s.moves[:k]
	s.Board = s.positions[k]

	if m, ok := s.moves.Last(); ok {
		s.turn = m.Color.Other()
	} else {
		s.turn = s.initialTurn
	}

	black := 0
	for _, m := range s.moves {
		if m.Color == board.Black {
			black++
		}
	}
	s.fullmove = s.fullmoveBase + black

	s.rebuildCounters()

	// Two-player sessions alternate the perspective per completed
	// move; the flag must match the parity of the surviving moves.
	if s.opponent == nil {
		s.flipped = len(s.moves)%2 == 1
	}

	s.state = Playing
	s.promotionSquare = board.Undefined
}

// rebuildCounters recomputes the fifty-move clock and the captured
// lists by diffing consecutive snapshots. The clock restarts from the
// seeded base, not zero, so a session created mid-game keeps its draw
// progress. Only the victim color's counts are compared per step, so
// promotions (which change the mover's own counts) never register as
// captures.
func (s *Session) rebuildCounters() {
	s.fiftyClock = s.fiftyBase
	s.taken = [2][]board.PieceType{}

	for i, m := range s.moves {
		captured := capturedBetween(&s.positions[i], &s.positions[i+1], m.Color.Other())
		if len(captured) > 0 {
			s.addTaken(m.Color, captured...)
		}
		if m.Piece == board.Pawn || len(captured) > 0 {
			s.fiftyClock = 0
		} else {
			s.fiftyClock++
		}
	}
}

func capturedBetween(before, after *board.Board, victim board.Color) []board.PieceType {
	var delta [6]int
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := before[row][col]; p != board.NoPiece && p.Color() == victim {
				delta[p.Type()]++
			}
			if p := after[row][col]; p != board.NoPiece && p.Color() == victim {
				delta[p.Type()]--
			}
		}
	}

	var out []board.PieceType
	for pt := board.Pawn; pt <= board.King; pt++ {
		for n := 0; n < delta[pt]; n++ {
			out = append(out, pt)
		}
	}
	return out
}
