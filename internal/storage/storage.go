package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
)

// Storage keys
const (
	keyStats   = "stats"
	gamePrefix = "game:"
)

// Termination records how a game ended.
type Termination string

const (
	TerminationCheckmate Termination = "checkmate"
	TerminationDraw      Termination = "draw"
	TerminationEnded     Termination = "ended" // remote side terminated
	TerminationUnknown   Termination = "unknown"
)

// GameRecord is one archived game.
type GameRecord struct {
	Moves       []string    `json:"moves"` // origin-destination squares, in order
	Result      string      `json:"result"`
	Termination Termination `json:"termination"`
	FinalFEN    string      `json:"final_fen"`
	PlayedAt    time.Time   `json:"played_at"`
}

// Stats stores aggregate game statistics.
type Stats struct {
	GamesPlayed int `json:"games_played"`
	WhiteWins   int `json:"white_wins"`
	BlackWins   int `json:"black_wins"`
	Draws       int `json:"draws"`
}

// DrawRate returns the fraction of archived games that were drawn
// (0-1).
func (st *Stats) DrawRate() float64 {
	if st.GamesPlayed == 0 {
		return 0
	}
	return float64(st.Draws) / float64(st.GamesPlayed)
}

// RecordFromSession builds an archive record from a finished session.
func RecordFromSession(s *game.Session) *GameRecord {
	moves := make([]string, 0, len(s.Moves()))
	for _, m := range s.Moves() {
		moves = append(moves, m.String())
	}

	result := "*"
	termination := TerminationUnknown
	switch s.State() {
	case game.Checkmate:
		// The side to move is the side that was mated.
		if s.Turn() == board.White {
			result = "0-1"
		} else {
			result = "1-0"
		}
		termination = TerminationCheckmate
	case game.Draw:
		result = "1/2-1/2"
		termination = TerminationDraw
	}

	return &GameRecord{
		Moves:       moves,
		Result:      result,
		Termination: termination,
		FinalFEN:    s.FEN(),
		PlayedAt:    time.Now(),
	}
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the archive in the given directory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// OpenDefault opens the archive in the platform data directory.
func OpenDefault() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// OpenInMemory opens a non-persistent archive, used in tests.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame archives a completed game and updates the aggregate
// statistics.
func (s *Storage) SaveGame(rec *GameRecord) error {
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s%020d", gamePrefix, rec.PlayedAt.UnixNano())
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	}); err != nil {
		return err
	}

	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	switch rec.Result {
	case "1-0":
		stats.WhiteWins++
	case "0-1":
		stats.BlackWins++
	case "1/2-1/2":
		stats.Draws++
	}

	return s.saveStats(stats)
}

// Games returns all archived games in chronological order.
func (s *Storage) Games() ([]GameRecord, error) {
	var out []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})

	return out, err
}

// LoadStats loads aggregate statistics, returning empty stats if none
// were saved yet.
func (s *Storage) LoadStats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil // Use empty stats
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

func (s *Storage) saveStats(stats *Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}
