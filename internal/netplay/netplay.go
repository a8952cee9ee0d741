// Package netplay exchanges moves with a remote peer over a blocking
// byte channel, typically a net.Conn. Transport setup, retries and
// reconnection are the caller's concern; a channel failure is a
// game-ending condition, not something the rules engine sees.
package netplay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hailam/chesscore/internal/board"
)

var log = slog.Default().With("package", "netplay")

// endToken signals game termination by the remote side.
const endToken = "ended"

// ErrGameEnded is returned by Receive when the remote side terminates
// the game.
var ErrGameEnded = errors.New("netplay: remote ended the game")

// MoveToken is the compact peer-to-peer move encoding: the four board
// index digits (from row, from col, to row, to col) with an optional
// promotion letter.
type MoveToken struct {
	From, To  board.Coord
	Promotion board.PieceType
}

// Encode returns the wire form of the token.
func (t MoveToken) Encode() string {
	s := fmt.Sprintf("%d%d%d%d", t.From.Row, t.From.Col, t.To.Row, t.To.Col)
	switch t.Promotion {
	case board.Queen:
		s += "q"
	case board.Rook:
		s += "r"
	case board.Bishop:
		s += "b"
	case board.Knight:
		s += "n"
	}
	return s
}

// Decode parses a wire token back into coordinates.
func Decode(s string) (MoveToken, error) {
	if len(s) != 4 && len(s) != 5 {
		return MoveToken{}, fmt.Errorf("netplay: malformed move token %q", s)
	}

	var idx [4]int
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '7' {
			return MoveToken{}, fmt.Errorf("netplay: malformed move token %q", s)
		}
		idx[i] = int(s[i] - '0')
	}

	t := MoveToken{
		From:      board.Coord{Row: idx[0], Col: idx[1]},
		To:        board.Coord{Row: idx[2], Col: idx[3]},
		Promotion: board.NoPieceType,
	}

	if len(s) == 5 {
		switch s[4] {
		case 'q':
			t.Promotion = board.Queen
		case 'r':
			t.Promotion = board.Rook
		case 'b':
			t.Promotion = board.Bishop
		case 'n':
			t.Promotion = board.Knight
		default:
			return MoveToken{}, fmt.Errorf("netplay: invalid promotion letter in token %q", s)
		}
	}
	return t, nil
}

// Channel frames newline-delimited tokens over an io.ReadWriter.
type Channel struct {
	rw io.ReadWriter
	sc *bufio.Scanner
}

// NewChannel wraps an established peer connection.
func NewChannel(rw io.ReadWriter) *Channel {
	return &Channel{rw: rw, sc: bufio.NewScanner(rw)}
}

// SendMove writes one move token to the peer.
func (ch *Channel) SendMove(t MoveToken) error {
	if _, err := fmt.Fprintln(ch.rw, t.Encode()); err != nil {
		return fmt.Errorf("netplay: send: %w", err)
	}
	log.Debug("sent move", "token", t.Encode())
	return nil
}

// SendEnd notifies the peer that the game is over on this side.
func (ch *Channel) SendEnd() error {
	if _, err := fmt.Fprintln(ch.rw, endToken); err != nil {
		return fmt.Errorf("netplay: send: %w", err)
	}
	return nil
}

// Receive blocks until the next move token arrives. It returns
// ErrGameEnded for the termination token; any transport failure is
// surfaced as an error and ends the game from the caller's point of
// view.
func (ch *Channel) Receive() (MoveToken, error) {
	for ch.sc.Scan() {
		line := strings.TrimSpace(ch.sc.Text())
		if line == "" {
			continue
		}
		if line == endToken {
			return MoveToken{}, ErrGameEnded
		}
		t, err := Decode(line)
		if err != nil {
			return MoveToken{}, err
		}
		log.Debug("received move", "token", line)
		return t, nil
	}
	if err := ch.sc.Err(); err != nil {
		return MoveToken{}, fmt.Errorf("netplay: receive: %w", err)
	}
	return MoveToken{}, fmt.Errorf("netplay: connection closed")
}
