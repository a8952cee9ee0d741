package engine

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// fakeEngine writes a shell script that speaks just enough UCI for the
// adapter: it greets, acknowledges readiness and answers every search
// with the given bestmove line.
func fakeEngine(t *testing.T, bestmove string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake engine script requires a POSIX shell")
	}

	script := `#!/bin/sh
echo "id name fake"
echo "uciok"
echo "readyok"
while read line; do
	case "$line" in
	go*) echo "` + bestmove + `" ;;
	quit) exit 0 ;;
	esac
done
`
	path := filepath.Join(t.TempDir(), "fake-engine")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEngineRoundTrip(t *testing.T) {
	e, err := New(fakeEngine(t, "bestmove e2e4"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()

	got, err := e.BestMove("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", 1)
	if err != nil {
		t.Fatalf("BestMove: %v", err)
	}
	if got != "e2e4" {
		t.Errorf("BestMove = %q, want e2e4", got)
	}
}

func TestEngineReportsNoMove(t *testing.T) {
	e, err := New(fakeEngine(t, "bestmove (none)"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()

	if _, err := e.BestMove("8/8/8/8/8/8/8/k6K w - - 0 1", 1); err == nil {
		t.Error("a (none) reply must surface as an error")
	}
}

func TestSendFailureSurfaces(t *testing.T) {
	e, err := New(fakeEngine(t, "bestmove e2e4"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// The stdin pipe is gone; the write failure must come back as an
	// error, not hang waiting for output.
	if _, err := e.BestMove("8/8/8/8/8/8/8/k6K w - - 0 1", 1); err == nil {
		t.Error("BestMove on a closed engine must fail")
	}
}

func TestCloseUnblocksChattyEngine(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake engine script requires a POSIX shell")
	}

	// An engine that volunteers far more output than the response
	// buffer holds must not pin the reader goroutine.
	script := `#!/bin/sh
echo "uciok"
echo "readyok"
i=0
while [ $i -lt 300 ]; do
	echo "info string chatter $i"
	i=$((i+1))
done
while read line; do
	case "$line" in
	quit) exit 0 ;;
	esac
done
`
	path := filepath.Join(t.TempDir(), "chatty-engine")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	baseline := runtime.NumGoroutine()
	e, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > baseline {
		if time.Now().After(deadline) {
			t.Fatal("output reader still running after Close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestEngineBadPath(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing-binary")); err == nil {
		t.Error("a missing engine binary must be a recoverable error")
	}
}

func TestParseBestMove(t *testing.T) {
	cases := []struct {
		in       string
		from, to string
		promo    board.PieceType
		wantErr  bool
	}{
		{in: "e2e4", from: "e2", to: "e4", promo: board.NoPieceType},
		{in: "g8f6", from: "g8", to: "f6", promo: board.NoPieceType},
		{in: "e7e8q", from: "e7", to: "e8", promo: board.Queen},
		{in: "a2a1n", from: "a2", to: "a1", promo: board.Knight},
		{in: "", wantErr: true},
		{in: "e2", wantErr: true},
		{in: "e2e9", wantErr: true},
		{in: "i2e4", wantErr: true},
		{in: "e7e8x", wantErr: true},
		{in: "e7e8qq", wantErr: true},
	}

	for _, tc := range cases {
		from, to, promo, err := ParseBestMove(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseBestMove(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBestMove(%q): %v", tc.in, err)
			continue
		}
		wantFrom, _ := board.ParseCoord(tc.from)
		wantTo, _ := board.ParseCoord(tc.to)
		if from != wantFrom || to != wantTo || promo != tc.promo {
			t.Errorf("ParseBestMove(%q) = (%v, %v, %v), want (%v, %v, %v)",
				tc.in, from, to, promo, wantFrom, wantTo, tc.promo)
		}
	}
}
