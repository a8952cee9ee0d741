package netplay

import (
	"errors"
	"net"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestMoveTokenRoundTrip(t *testing.T) {
	tokens := []MoveToken{
		{From: board.Coord{Row: 6, Col: 4}, To: board.Coord{Row: 4, Col: 4}, Promotion: board.NoPieceType},
		{From: board.Coord{Row: 0, Col: 0}, To: board.Coord{Row: 7, Col: 7}, Promotion: board.NoPieceType},
		{From: board.Coord{Row: 1, Col: 0}, To: board.Coord{Row: 0, Col: 0}, Promotion: board.Queen},
		{From: board.Coord{Row: 6, Col: 7}, To: board.Coord{Row: 7, Col: 7}, Promotion: board.Knight},
	}

	for _, tok := range tokens {
		got, err := Decode(tok.Encode())
		if err != nil {
			t.Errorf("Decode(%q): %v", tok.Encode(), err)
			continue
		}
		if got != tok {
			t.Errorf("Decode(%q) = %+v, want %+v", tok.Encode(), got, tok)
		}
	}

	if enc := (MoveToken{
		From: board.Coord{Row: 6, Col: 4}, To: board.Coord{Row: 4, Col: 4},
	}).Encode(); enc != "6444" {
		t.Errorf("Encode = %q, want 6444", enc)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "644", "644444", "8444", "64a4", "6444x", "ended"} {
		if _, err := Decode(s); err == nil {
			t.Errorf("Decode(%q): expected error", s)
		}
	}
}

func TestChannelExchange(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	sender := NewChannel(a)
	receiver := NewChannel(b)

	tok := MoveToken{
		From: board.Coord{Row: 6, Col: 4}, To: board.Coord{Row: 4, Col: 4},
		Promotion: board.NoPieceType,
	}

	errc := make(chan error, 1)
	go func() { errc <- sender.SendMove(tok) }()

	got, err := receiver.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if got != tok {
		t.Errorf("Receive = %+v, want %+v", got, tok)
	}
	if err := <-errc; err != nil {
		t.Fatalf("SendMove: %v", err)
	}
}

func TestChannelEndToken(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	sender := NewChannel(a)
	receiver := NewChannel(b)

	go sender.SendEnd()

	if _, err := receiver.Receive(); !errors.Is(err, ErrGameEnded) {
		t.Fatalf("Receive error = %v, want ErrGameEnded", err)
	}
}

func TestChannelConnectionLoss(t *testing.T) {
	a, b := net.Pipe()
	receiver := NewChannel(b)

	a.Close()
	defer b.Close()

	_, err := receiver.Receive()
	if err == nil {
		t.Fatal("Receive on a closed peer must fail")
	}
	if errors.Is(err, ErrGameEnded) {
		t.Error("transport loss must not masquerade as a clean game end")
	}
}
