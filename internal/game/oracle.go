package game

import "github.com/hailam/chesscore/internal/board"

// FiftyMoveThreshold is the number of consecutive half-moves without a
// pawn move or capture after which the game is drawn. The rule counts
// 50 half-moves, not the conventional 100 (50 full moves).
const FiftyMoveThreshold = 50

// RepetitionThreshold is the number of times a single placement must
// occur before the game is drawn by repetition.
const RepetitionThreshold = 3

// evaluateEnd decides terminal conditions for the side to move: no
// legal response while in check is checkmate, without check a draw;
// otherwise the fifty-move counter and repetition tally are consulted.
func (s *Session) evaluateEnd() {
	if s.state != Playing {
		return
	}

	if s.legalMoveCount(s.turn) == 0 {
		if board.IsInCheck(&s.Board, s.turn, s.rules()) {
			s.state = Checkmate
		} else {
			s.state = Draw
		}
		return
	}

	if s.fiftyClock >= FiftyMoveThreshold {
		s.state = Draw
		return
	}
	if s.repetitions() >= RepetitionThreshold {
		s.state = Draw
	}
}

// legalMoveCount sums the legal-move sets of every piece the given
// color owns. Zero means no legal response exists.
func (s *Session) legalMoveCount(c board.Color) int {
	n := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			from := board.Coord{Row: row, Col: col}
			p := s.Board.PieceAt(from)
			if p == board.NoPiece || p.Color() != c {
				continue
			}
			n += len(s.legalMovesAt(from))
		}
	}
	return n
}

// repetitions returns the highest occurrence count of any single board
// layout across position history. Layouts compare by piece placement
// alone, ignoring side to move and castling or en-passant rights.
func (s *Session) repetitions() int {
	counts := make(map[uint64]int, len(s.positions))
	most := 0
	for i := range s.positions {
		h := s.positions[i].Hash()
		counts[h]++
		if counts[h] > most {
			most = counts[h]
		}
	}
	return most
}
