package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hailam/chesscore/internal/board"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// castleRights tracks the rights a FEN-created session was seeded
// with. Sessions started from the standard layout carry all four; the
// per-move eligibility scan over the history further restricts them.
type castleRights uint8

const (
	whiteKingSide castleRights = 1 << iota // K
	whiteQueenSide                         // Q
	blackKingSide                          // k
	blackQueenSide                         // q

	noCastleRights  castleRights = 0
	allCastleRights              = whiteKingSide | whiteQueenSide | blackKingSide | blackQueenSide
)

func (cr castleRights) has(c board.Color, kingSide bool) bool {
	if c == board.White {
		if kingSide {
			return cr&whiteKingSide != 0
		}
		return cr&whiteQueenSide != 0
	}
	if kingSide {
		return cr&blackKingSide != 0
	}
	return cr&blackQueenSide != 0
}

// FEN serializes the session into the six-field Forsyth-Edwards
// string: piece placement from rank 8 to rank 1 with empty runs
// encoded as digits, side to move, castling rights, en-passant target,
// half-move clock and full-move number. This string is the sole
// contract handed to an external move-suggestion engine.
func (s *Session) FEN() string {
	var sb strings.Builder

	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			p := s.Board[row][col]
			if p == board.NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if s.turn == board.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(s.castlingField())

	sb.WriteByte(' ')
	sb.WriteString(s.enPassantField())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(s.fiftyClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(s.fullmove))

	return sb.String()
}

// castlingField derives the rights field from the seeded mask plus the
// unmoved-king-and-rook scan over the move history.
func (s *Session) castlingField() string {
	out := ""
	if s.castleAvailable(board.White, true) {
		out += "K"
	}
	if s.castleAvailable(board.White, false) {
		out += "Q"
	}
	if s.castleAvailable(board.Black, true) {
		out += "k"
	}
	if s.castleAvailable(board.Black, false) {
		out += "q"
	}
	if out == "" {
		return "-"
	}
	return out
}

func (s *Session) castleAvailable(c board.Color, kingSide bool) bool {
	if !s.rights.has(c, kingSide) {
		return false
	}

	homeRow := 7
	if c == board.Black {
		homeRow = 0
	}
	rookCol := 7
	if !kingSide {
		rookCol = 0
	}

	kingHome := board.Coord{Row: homeRow, Col: 4}
	rookHome := board.Coord{Row: homeRow, Col: rookCol}

	king := s.Board.PieceAt(kingHome)
	if king.Type() != board.King || king.Color() != c || s.moves.HasMoved(board.King, kingHome) {
		return false
	}
	rook := s.Board.PieceAt(rookHome)
	if rook.Type() != board.Rook || rook.Color() != c || s.moves.HasMoved(board.Rook, rookHome) {
		return false
	}
	return true
}

func (s *Session) enPassantField() string {
	last, ok := s.rules().Last()
	if !ok || !last.IsDoublePush() {
		return "-"
	}
	mid := board.Coord{Row: (last.From.Row + last.To.Row) / 2, Col: last.From.Col}
	return mid.String()
}

// NewSessionFromFEN creates a session from a FEN string. The castling
// field seeds the rights mask and the en-passant field seeds a
// synthetic double-push record so the movement rules see the preceding
// advance.
func NewSessionFromFEN(fen string) (*Session, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	b, err := parsePlacement(parts[0])
	if err != nil {
		return nil, err
	}
	if !b.KingCoord(board.White).IsValid() || !b.KingCoord(board.Black).IsValid() {
		return nil, fmt.Errorf("invalid FEN: both kings must be on the board")
	}

	var turn board.Color
	switch parts[1] {
	case "w":
		turn = board.White
	case "b":
		turn = board.Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	rights, err := parseCastleRights(parts[2])
	if err != nil {
		return nil, err
	}

	s := &Session{
		Board:           b,
		positions:       []board.Board{b},
		turn:            turn,
		initialTurn:     turn,
		fullmove:        1,
		fullmoveBase:    1,
		rights:          rights,
		promotionSquare: board.Undefined,
	}

	if parts[3] != "-" {
		seed, err := enPassantSeed(parts[3])
		if err != nil {
			return nil, err
		}
		s.epSeed = &seed
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		s.fiftyClock = hmc
		s.fiftyBase = hmc
	}
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		s.fullmove = fmn
		s.fullmoveBase = fmn
	}

	s.evaluateEnd()
	return s, nil
}

func parsePlacement(placement string) (board.Board, error) {
	var b board.Board

	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return b, fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for row, rankStr := range ranks {
		col := 0
		for _, c := range rankStr {
			if col > 7 {
				return b, fmt.Errorf("too many squares in rank %d", 8-row)
			}
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			p := board.PieceFromChar(byte(c))
			if p == board.NoPiece {
				return b, fmt.Errorf("invalid piece character: %c", c)
			}
			b[row][col] = p
			col++
		}
		if col != 8 {
			return b, fmt.Errorf("invalid number of squares in rank %d: got %d", 8-row, col)
		}
	}

	return b, nil
}

func parseCastleRights(field string) (castleRights, error) {
	if field == "-" {
		return noCastleRights, nil
	}
	var cr castleRights
	for _, c := range field {
		switch c {
		case 'K':
			cr |= whiteKingSide
		case 'Q':
			cr |= whiteQueenSide
		case 'k':
			cr |= blackKingSide
		case 'q':
			cr |= blackQueenSide
		default:
			return noCastleRights, fmt.Errorf("invalid castling character: %c", c)
		}
	}
	return cr, nil
}

// enPassantSeed reconstructs the double push that produced the given
// en-passant target square.
func enPassantSeed(field string) (board.Move, error) {
	sq, err := board.ParseCoord(field)
	if err != nil {
		return board.Move{}, fmt.Errorf("invalid en passant square: %s", field)
	}

	switch sq.Row {
	case 5: // rank 3: White just pushed two
		return board.Move{
			Piece: board.Pawn,
			Color: board.White,
			From:  board.Coord{Row: 6, Col: sq.Col},
			To:    board.Coord{Row: 4, Col: sq.Col},
		}, nil
	case 2: // rank 6: Black just pushed two
		return board.Move{
			Piece: board.Pawn,
			Color: board.Black,
			From:  board.Coord{Row: 1, Col: sq.Col},
			To:    board.Coord{Row: 3, Col: sq.Col},
		}, nil
	default:
		return board.Move{}, fmt.Errorf("invalid en passant square: %s", field)
	}
}
