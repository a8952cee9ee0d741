package game

import (
	"testing"

	"github.com/notnil/chess"
)

// Legal-move counts are verified against an independent rules
// implementation. The probe positions contain no promotion moves, which
// the reference library expands per target piece.
func TestLegalMoveCountCrossCheck(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
		"4k3/4r3/8/8/8/8/8/4K3 w - - 0 1",
	}

	for _, fen := range fens {
		s := fromFEN(t, fen)

		opt, err := chess.FEN(fen)
		if err != nil {
			t.Fatalf("reference FEN parse %q: %v", fen, err)
		}
		ref := chess.NewGame(opt)

		want := len(ref.ValidMoves())
		if got := s.legalMoveCount(s.Turn()); got != want {
			t.Errorf("%s: legal move count %d, reference says %d", fen, got, want)
		}
	}
}

func TestGamePlayCrossCheck(t *testing.T) {
	// Replay a short game move by move, comparing the legal-move count
	// after every half-move.
	moves := []string{
		"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6",
		"b5c6", "d7c6", "e1g1", "f7f6", "d2d4", "e5d4",
	}

	s := NewSession()
	ref := chess.NewGame(chess.UseNotation(chess.UCINotation{}))

	for _, m := range moves {
		play(t, s, m)
		if err := ref.MoveStr(m); err != nil {
			t.Fatalf("reference rejected %s: %v", m, err)
		}

		want := len(ref.ValidMoves())
		if got := s.legalMoveCount(s.Turn()); got != want {
			t.Fatalf("after %s: legal move count %d, reference says %d", m, got, want)
		}
	}
}
