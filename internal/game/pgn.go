package game

import (
	"fmt"
	"strings"

	"github.com/hailam/chesscore/internal/board"
)

// TokenError reports a PGN move token that could not be resolved
// against the current position. Replay aborts at the first such token.
type TokenError struct {
	Token  string
	Reason string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("pgn: token %q: %s", e.Token, e.Reason)
}

// ReplayPGN replays the move text of a recorded game onto a fresh
// session. Bracketed header lines, comments, variations, move numbers
// and result markers are stripped; every remaining token must resolve
// to exactly one legal move. The returned session carries the final
// board and the side to move after the last applied token.
func ReplayPGN(text string) (*Session, error) {
	s := NewSession()
	if err := s.ApplyPGN(text); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyPGN applies PGN move text to the session's current position.
func (s *Session) ApplyPGN(text string) error {
	for _, tok := range tokenizePGN(text) {
		if err := s.applySAN(tok); err != nil {
			return err
		}
	}
	return nil
}

// tokenizePGN reduces PGN text to the bare move tokens.
func tokenizePGN(text string) []string {
	var body strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "[") {
			continue
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}

	clean := stripBlocks(body.String(), '{', '}')
	clean = stripBlocks(clean, '(', ')')

	var tokens []string
	for _, f := range strings.Fields(clean) {
		switch f {
		case "1-0", "0-1", "1/2-1/2", "*":
			continue
		}
		if strings.HasPrefix(f, "$") {
			continue
		}
		f = stripMoveNumber(f)
		if f == "" {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// stripBlocks removes delimited blocks, tolerating nesting.
func stripBlocks(s string, open, close byte) string {
	var sb strings.Builder
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				sb.WriteByte(s[i])
			}
		}
	}
	return sb.String()
}

// stripMoveNumber drops a leading move number ("12." or "12...") from
// a field, which may be glued to the move itself.
func stripMoveNumber(f string) string {
	i := 0
	for i < len(f) && f[i] >= '0' && f[i] <= '9' {
		i++
	}
	if i == 0 {
		return f
	}
	if i == len(f) {
		return "" // bare move number
	}
	if f[i] != '.' {
		return f
	}
	for i < len(f) && f[i] == '.' {
		i++
	}
	return f[i:]
}

// applySAN resolves one SAN-like token against the current legal-move
// set and executes it, resolving any resulting promotion with the
// token's promotion piece (queen when absent).
func (s *Session) applySAN(tok string) error {
	if s.state != Playing {
		return &TokenError{Token: tok, Reason: "game is already over"}
	}

	from, to, promo, err := s.resolveSAN(tok)
	if err != nil {
		return err
	}

	if _, ok := s.ExecuteMove(from, to); !ok {
		return &TokenError{Token: tok, Reason: "move could not be executed"}
	}

	if s.state == Promotion {
		if promo == board.NoPieceType {
			promo = board.Queen
		}
		if !s.Promote(promo) {
			return &TokenError{Token: tok, Reason: "invalid promotion piece"}
		}
	}
	return nil
}

// resolveSAN disambiguates a move token by piece kind, origin hints
// and destination.
func (s *Session) resolveSAN(tok string) (from, to board.Coord, promo board.PieceType, err error) {
	promo = board.NoPieceType
	t := strings.TrimRight(tok, "+#!?")

	homeRow := 7
	if s.turn == board.Black {
		homeRow = 0
	}
	if t == "O-O" || t == "0-0" {
		return s.resolveCastle(tok, homeRow, 6)
	}
	if t == "O-O-O" || t == "0-0-0" {
		return s.resolveCastle(tok, homeRow, 2)
	}

	if idx := strings.Index(t, "="); idx >= 0 {
		if idx+1 >= len(t) {
			return from, to, promo, &TokenError{Token: tok, Reason: "missing promotion piece"}
		}
		promo = promotionPiece(t[idx+1])
		if promo == board.NoPieceType {
			return from, to, promo, &TokenError{Token: tok, Reason: "invalid promotion piece"}
		}
		t = t[:idx]
	} else if len(t) >= 3 && t[len(t)-2] >= '1' && t[len(t)-2] <= '8' {
		// Tolerate the "e8Q" form without the equals sign.
		if pt := promotionPiece(t[len(t)-1]); pt != board.NoPieceType && t[0] >= 'a' && t[0] <= 'h' {
			promo = pt
			t = t[:len(t)-1]
		}
	}

	t = strings.ReplaceAll(t, "x", "")

	pt := board.Pawn
	if len(t) > 0 && t[0] >= 'A' && t[0] <= 'Z' {
		switch t[0] {
		case 'N':
			pt = board.Knight
		case 'B':
			pt = board.Bishop
		case 'R':
			pt = board.Rook
		case 'Q':
			pt = board.Queen
		case 'K':
			pt = board.King
		default:
			return from, to, promo, &TokenError{Token: tok, Reason: "unknown piece letter"}
		}
		t = t[1:]
	}

	if len(t) < 2 {
		return from, to, promo, &TokenError{Token: tok, Reason: "missing destination square"}
	}
	to, cerr := board.ParseCoord(t[len(t)-2:])
	if cerr != nil {
		return from, to, promo, &TokenError{Token: tok, Reason: "invalid destination square"}
	}
	t = t[:len(t)-2]

	hintCol, hintRow := -1, -1
	for _, c := range t {
		switch {
		case c >= 'a' && c <= 'h':
			hintCol = int(c - 'a')
		case c >= '1' && c <= '8':
			hintRow = 7 - int(c-'1')
		default:
			return from, to, promo, &TokenError{Token: tok, Reason: "invalid origin hint"}
		}
	}

	var matches []board.Coord
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			origin := board.Coord{Row: row, Col: col}
			p := s.Board.PieceAt(origin)
			if p == board.NoPiece || p.Color() != s.turn || p.Type() != pt {
				continue
			}
			if hintCol >= 0 && col != hintCol {
				continue
			}
			if hintRow >= 0 && row != hintRow {
				continue
			}
			if containsCoord(s.LegalMoves(origin), to) {
				matches = append(matches, origin)
			}
		}
	}

	switch len(matches) {
	case 0:
		return from, to, promo, &TokenError{Token: tok, Reason: "no legal move matches"}
	case 1:
		return matches[0], to, promo, nil
	default:
		return from, to, promo, &TokenError{Token: tok, Reason: "ambiguous move"}
	}
}

func (s *Session) resolveCastle(tok string, homeRow, destCol int) (board.Coord, board.Coord, board.PieceType, error) {
	from := board.Coord{Row: homeRow, Col: 4}
	to := board.Coord{Row: homeRow, Col: destCol}
	if !containsCoord(s.LegalMoves(from), to) {
		return from, to, board.NoPieceType, &TokenError{Token: tok, Reason: "castling is not legal here"}
	}
	return from, to, board.NoPieceType, nil
}

func promotionPiece(c byte) board.PieceType {
	switch c {
	case 'Q', 'q':
		return board.Queen
	case 'R', 'r':
		return board.Rook
	case 'B', 'b':
		return board.Bishop
	case 'N', 'n':
		return board.Knight
	default:
		return board.NoPieceType
	}
}

func containsCoord(list []board.Coord, c board.Coord) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}
