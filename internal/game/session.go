// Package game owns the per-game state machine: one board, the move
// and position histories, captured pieces, draw bookkeeping and the
// Playing/Promotion/Checkmate/Draw lifecycle. A Session is exclusively
// owned by one turn loop; it performs no I/O and never blocks.
package game

import (
	"sort"

	"github.com/hailam/chesscore/internal/board"
)

// State is the finite game state of a session.
type State uint8

const (
	Playing State = iota
	Promotion
	Checkmate
	Draw
)

// String returns the state name.
func (st State) String() string {
	switch st {
	case Playing:
		return "Playing"
	case Promotion:
		return "Promotion"
	case Checkmate:
		return "Checkmate"
	case Draw:
		return "Draw"
	default:
		return "Unknown"
	}
}

// PromotionCandidates are the piece kinds a promoting pawn may become,
// in cursor order.
var PromotionCandidates = [4]board.PieceType{board.Queen, board.Rook, board.Bishop, board.Knight}

// Opponent describes an automated move source (external engine or
// remote peer) playing one side of the session.
type Opponent struct {
	Color      board.Color
	MovesFirst bool
}

// Session is one chess game. The board is stored in a fixed
// orientation (White on rows 6-7); the flip flag only tracks the
// visual perspective for renderers.
type Session struct {
	Board board.Board

	moves     board.History
	positions []board.Board
	viewIndex int

	turn        board.Color
	initialTurn board.Color
	state       State

	fiftyClock      int
	fiftyBase       int
	fullmove        int
	fullmoveBase    int
	taken           [2][]board.PieceType
	rights          castleRights
	promotionSquare board.Coord

	flipped  bool
	opponent *Opponent

	// Synthetic double-push seeding en passant for FEN-created
	// sessions; consulted only while the move history is empty.
	epSeed *board.Move
}

// NewSession creates a session from the standard starting layout with
// White to move.
func NewSession() *Session {
	return NewSessionFrom(board.NewBoard(), board.White)
}

// NewSessionWithOpponent creates a standard session where one side is
// played by an automated opponent. The board perspective is flipped
// once at start when the automated side moves first and is never
// flipped again.
func NewSessionWithOpponent(op *Opponent) *Session {
	s := NewSessionFrom(board.NewBoard(), board.White)
	s.opponent = op
	if op != nil && op.MovesFirst {
		s.flipped = true
	}
	return s
}

// NewSessionFrom creates a session from a supplied board and side to
// move, e.g. after PGN replay or a position received from a server.
// Terminal conditions already present on the board are detected
// immediately.
func NewSessionFrom(b board.Board, turn board.Color) *Session {
	s := &Session{
		Board:           b,
		positions:       []board.Board{b},
		turn:            turn,
		initialTurn:     turn,
		fullmove:        1,
		fullmoveBase:    1,
		rights:          allCastleRights,
		promotionSquare: board.Undefined,
	}
	s.evaluateEnd()
	return s
}

// Turn returns the side to move.
func (s *Session) Turn() board.Color {
	return s.turn
}

// State returns the current game state.
func (s *Session) State() State {
	return s.state
}

// IsCheckmate returns true once the session reached checkmate.
func (s *Session) IsCheckmate() bool {
	return s.state == Checkmate
}

// IsDraw returns true once the session reached a draw.
func (s *Session) IsDraw() bool {
	return s.state == Draw
}

// InCheck returns true if the side to move is in check.
func (s *Session) InCheck() bool {
	return board.IsInCheck(&s.Board, s.turn, s.rules())
}

// Moves returns the move history.
func (s *Session) Moves() board.History {
	return s.moves
}

// Positions returns the position history. Its length is always one
// more than the move history's.
func (s *Session) Positions() []board.Board {
	return s.positions
}

// HalfMoveClock returns the consecutive non-pawn, non-capture counter.
func (s *Session) HalfMoveClock() int {
	return s.fiftyClock
}

// Taken returns the pieces the given color has captured, sorted by
// display rank.
func (s *Session) Taken(c board.Color) []board.PieceType {
	return s.taken[c]
}

// Flipped reports whether renderers should draw the board rotated 180
// degrees.
func (s *Session) Flipped() bool {
	return s.flipped
}

// PendingPromotion returns the square awaiting a promotion choice, or
// Undefined when no promotion is pending.
func (s *Session) PendingPromotion() board.Coord {
	if s.state != Promotion {
		return board.Undefined
	}
	return s.promotionSquare
}

// rules is the history the movement rules consult. A FEN-created
// session substitutes the synthetic en-passant seed until a real move
// is recorded.
func (s *Session) rules() board.History {
	if s.epSeed != nil && len(s.moves) == 0 {
		return board.History{*s.epSeed}
	}
	return s.moves
}

// LegalMoves returns the destinations the piece on from may play.
// Empty unless the game is in progress and the piece belongs to the
// side to move; callers are expected to offer only these coordinates
// to the move executor.
func (s *Session) LegalMoves(from board.Coord) []board.Coord {
	if s.state != Playing {
		return nil
	}
	p := s.Board.PieceAt(from)
	if p == board.NoPiece || p.Color() != s.turn {
		return nil
	}
	return s.legalMovesAt(from)
}

func (s *Session) legalMovesAt(from board.Coord) []board.Coord {
	p := s.Board.PieceAt(from)
	moves := board.LegalMoves(&s.Board, from, s.rules())
	if p.Type() == board.King {
		moves = s.filterCastles(from, moves)
	}
	return moves
}

// filterCastles removes castling destinations whose rights were ceded
// in the position the session was created from. For sessions started
// from the standard layout this is a no-op.
func (s *Session) filterCastles(from board.Coord, moves []board.Coord) []board.Coord {
	c := s.Board.PieceAt(from).Color()
	out := moves[:0]
	for _, to := range moves {
		d := to.Col - from.Col
		if d == 2 && !s.rights.has(c, true) {
			continue
		}
		if d == -2 && !s.rights.has(c, false) {
			continue
		}
		out = append(out, to)
	}
	return out
}

// ExecuteMove applies one validated move and returns its record. It
// no-ops when either coordinate is invalid, the origin is empty or the
// game is over; illegality beyond that must be prevented upstream by
// only offering legal destinations.
func (s *Session) ExecuteMove(from, to board.Coord) (board.Move, bool) {
	if s.state == Checkmate || s.state == Draw || s.state == Promotion {
		return board.Move{}, false
	}
	if !from.IsValid() || !to.IsValid() {
		return board.Move{}, false
	}

	// A move made while viewing a past position branches from there.
	s.truncateToView()

	moved := s.Board.PieceAt(from)
	if moved == board.NoPiece {
		return board.Move{}, false
	}

	target := s.Board.PieceAt(to)
	isCastle := moved.Type() == board.King && abs(to.Col-from.Col) >= 2

	if moved.Type() == board.Pawn || (target != board.NoPiece && !isCastle) {
		s.fiftyClock = 0
	} else {
		s.fiftyClock++
	}

	if target != board.NoPiece && target.Color() == moved.Color().Other() && !isCastle {
		s.addTaken(moved.Color(), target.Type())
	}

	normTo := to
	switch {
	case moved.Type() == board.Pawn && target == board.NoPiece && to.Col != from.Col:
		// En passant: the captured pawn sits behind the destination,
		// on the mover's row.
		passed := board.Coord{Row: from.Row, Col: to.Col}
		victim := s.Board.PieceAt(passed)
		if victim.Type() == board.Pawn && victim.Color() == moved.Color().Other() {
			s.Board.ClearSquare(passed)
			s.addTaken(moved.Color(), board.Pawn)
		}
		s.Board.SetPiece(to, moved)
		s.Board.ClearSquare(from)
	case isCastle:
		normTo = s.applyCastle(from, to, moved)
	default:
		s.Board.SetPiece(to, moved)
		s.Board.ClearSquare(from)
	}

	mv := board.Move{Piece: moved.Type(), Color: moved.Color(), From: from, To: normTo}
	s.moves = append(s.moves, mv)
	s.positions = append(s.positions, s.Board)
	s.viewIndex = len(s.positions) - 1

	if moved.Type() == board.Pawn && to.Row == promotionRow(moved.Color()) {
		// Turn advancement and perspective flip wait for the
		// promotion choice.
		s.state = Promotion
		s.promotionSquare = to
		return mv, true
	}

	s.finishMove(moved.Color())
	return mv, true
}

// applyCastle relocates king and rook. Move feeds encode the
// destination either as the king's landing file or as the rook's
// corner; both normalize to the same resulting position. Returns the
// king's landing square.
func (s *Session) applyCastle(from, to board.Coord, king board.Piece) board.Coord {
	row := from.Row
	kingDest := board.Coord{Row: row, Col: 6}
	rookFrom := board.Coord{Row: row, Col: 7}
	rookDest := board.Coord{Row: row, Col: 5}
	if to.Col < from.Col {
		kingDest = board.Coord{Row: row, Col: 2}
		rookFrom = board.Coord{Row: row, Col: 0}
		rookDest = board.Coord{Row: row, Col: 3}
	}

	s.Board.ClearSquare(from)
	s.Board.ClearSquare(rookFrom)
	s.Board.SetPiece(kingDest, king)
	s.Board.SetPiece(rookDest, board.NewPiece(board.Rook, king.Color()))

	return kingDest
}

// Promote resolves a pending promotion with the chosen piece kind,
// then advances the turn. Returns false if no promotion is pending or
// the kind is not a candidate.
func (s *Session) Promote(pt board.PieceType) bool {
	if s.state != Promotion {
		return false
	}
	valid := false
	for _, cand := range PromotionCandidates {
		if cand == pt {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}

	c := s.Board.PieceAt(s.promotionSquare).Color()
	s.Board.SetPiece(s.promotionSquare, board.NewPiece(pt, c))
	// The snapshot appended by the pawn move still shows the pawn;
	// replace it so repetition counting sees the real layout.
	s.positions[len(s.positions)-1] = s.Board
	s.promotionSquare = board.Undefined
	s.state = Playing

	s.finishMove(c)
	return true
}

// finishMove advances the turn, re-evaluates terminal conditions and
// applies the perspective-flip rule.
func (s *Session) finishMove(mover board.Color) {
	if mover == board.Black {
		s.fullmove++
	}
	s.turn = mover.Other()
	s.evaluateEnd()
	s.applyFlipRule()
}

// applyFlipRule toggles the visual perspective after each completed
// move of a two-player session. Against an automated opponent the
// orientation was fixed at session start and never changes; renderers
// depend on this asymmetry.
func (s *Session) applyFlipRule() {
	if s.opponent != nil {
		return
	}
	s.flipped = !s.flipped
}

func (s *Session) addTaken(capturer board.Color, pts ...board.PieceType) {
	list := append(s.taken[capturer], pts...)
	sort.Slice(list, func(i, j int) bool {
		if list[i].DisplayRank() != list[j].DisplayRank() {
			return list[i].DisplayRank() < list[j].DisplayRank()
		}
		return list[i] < list[j]
	})
	s.taken[capturer] = list
}

func promotionRow(c board.Color) int {
	if c == board.White {
		return 0
	}
	return 7
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
