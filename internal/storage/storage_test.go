package storage

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndListGames(t *testing.T) {
	s := openTestStorage(t)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []*GameRecord{
		{Moves: []string{"e2e4", "e7e5"}, Result: "1-0", Termination: TerminationCheckmate, PlayedAt: base},
		{Moves: []string{"d2d4"}, Result: "1/2-1/2", Termination: TerminationDraw, PlayedAt: base.Add(time.Hour)},
		{Moves: []string{"c2c4"}, Result: "0-1", Termination: TerminationEnded, PlayedAt: base.Add(2 * time.Hour)},
	}
	// Insert out of order; listing must come back chronological.
	for _, i := range []int{1, 2, 0} {
		if err := s.SaveGame(records[i]); err != nil {
			t.Fatalf("SaveGame: %v", err)
		}
	}

	games, err := s.Games()
	if err != nil {
		t.Fatalf("Games: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("archived %d games, want 3", len(games))
	}
	for i, rec := range records {
		if !games[i].PlayedAt.Equal(rec.PlayedAt) {
			t.Errorf("game %d played at %v, want %v", i, games[i].PlayedAt, rec.PlayedAt)
		}
		if games[i].Result != rec.Result {
			t.Errorf("game %d result %q, want %q", i, games[i].Result, rec.Result)
		}
	}
}

func TestStatsAccumulate(t *testing.T) {
	s := openTestStorage(t)

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesPlayed != 0 {
		t.Fatalf("fresh archive reports %d games", stats.GamesPlayed)
	}

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	results := []string{"1-0", "1-0", "0-1", "1/2-1/2"}
	for i, r := range results {
		rec := &GameRecord{Result: r, PlayedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := s.SaveGame(rec); err != nil {
			t.Fatalf("SaveGame: %v", err)
		}
	}

	stats, err = s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesPlayed != 4 || stats.WhiteWins != 2 || stats.BlackWins != 1 || stats.Draws != 1 {
		t.Errorf("stats = %+v, want 4 played, 2 white, 1 black, 1 draw", stats)
	}
	if got := stats.DrawRate(); got != 0.25 {
		t.Errorf("DrawRate = %v, want 0.25", got)
	}
}

func TestRecordFromSession(t *testing.T) {
	sess := game.NewSession()
	for _, m := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		from, _ := board.ParseCoord(m[:2])
		to, _ := board.ParseCoord(m[2:])
		if _, ok := sess.ExecuteMove(from, to); !ok {
			t.Fatalf("ExecuteMove(%s) rejected", m)
		}
	}
	if !sess.IsCheckmate() {
		t.Fatal("expected a checkmate session")
	}

	rec := RecordFromSession(sess)
	if rec.Result != "0-1" {
		t.Errorf("result = %q for a mated White, want 0-1", rec.Result)
	}
	if rec.Termination != TerminationCheckmate {
		t.Errorf("termination = %q, want checkmate", rec.Termination)
	}
	if len(rec.Moves) != 4 || rec.Moves[3] != "d8h4" {
		t.Errorf("moves = %v, want the four played moves", rec.Moves)
	}
	if rec.FinalFEN != sess.FEN() {
		t.Error("final FEN must match the session")
	}
	if rec.PlayedAt.IsZero() {
		t.Error("record must carry a timestamp")
	}
}

func TestRecordFromUnfinishedSession(t *testing.T) {
	rec := RecordFromSession(game.NewSession())
	if rec.Result != "*" || rec.Termination != TerminationUnknown {
		t.Errorf("record = %q/%q for an unfinished game, want */unknown", rec.Result, rec.Termination)
	}
}

func TestDataDirHonorsXDG(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG_DATA_HOME applies to Unix-like platforms only")
	}

	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir: %v", err)
	}
	if got != filepath.Join(dir, appName) {
		t.Errorf("GetDataDir = %q, want it under %q", got, dir)
	}
	if _, err := os.Stat(got); err != nil {
		t.Errorf("data directory not created: %v", err)
	}
}
