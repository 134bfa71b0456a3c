// Package storage provides SQLite-based persistence for best scores, run
// history and settings.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/star-strike/internal/engine"
)

// Store manages the SQLite database connection.
// It implements engine.Store and engine.RunRecorder.
type Store struct {
	db *sql.DB
}

var (
	_ engine.Store       = (*Store)(nil)
	_ engine.RunRecorder = (*Store)(nil)
)

// RunEntry is a finished run as stored in the history table.
type RunEntry struct {
	ID        int64
	MapID     string
	Score     int
	Round     int
	Level     int
	Kills     int
	Frames    uint64
	CreatedAt time.Time
}

// MapStats aggregates the run history of one map.
type MapStats struct {
	MapID      string
	Runs       int
	BestScore  int
	AvgScore   float64
	TotalKills int
	BestRound  int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS best_scores (
			map_id TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			map_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			round INTEGER NOT NULL DEFAULT 1,
			level INTEGER NOT NULL DEFAULT 1,
			kills INTEGER NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_map_id ON runs(map_id);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(map_id, score DESC);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BestScore returns the best score recorded for a map.
// Returns 0 if the map has never been played.
func (s *Store) BestScore(mapID string) (int, error) {
	var score int
	err := s.db.QueryRow("SELECT score FROM best_scores WHERE map_id = ?", mapID).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	return score, nil
}

// SetBestScore records a best score. A lower score never replaces a
// higher one.
func (s *Store) SetBestScore(mapID string, score int) error {
	_, err := s.db.Exec(
		`INSERT INTO best_scores (map_id, score) VALUES (?, ?)
		 ON CONFLICT(map_id) DO UPDATE SET
		   score = MAX(score, excluded.score),
		   updated_at = CURRENT_TIMESTAMP`,
		mapID, score,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save best score: %w", err)
	}
	return nil
}

// Setting returns a stored setting and whether it exists.
func (s *Store) Setting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot query setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores a setting, replacing any previous value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save setting %s: %w", key, err)
	}
	return nil
}

// Settings returns every stored setting.
func (s *Store) Settings() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query settings: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// SaveRun records a finished run.
func (s *Store) SaveRun(run engine.RunSummary) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (map_id, score, round, level, kills, frames)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.MapID, run.Score, run.Round, run.Level, run.Kills, int64(run.Frames),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save run: %w", err)
	}
	return nil
}

// TopRuns retrieves the best N runs for a map, ordered by score descending.
func (s *Store) TopRuns(mapID string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, map_id, score, round, level, kills, frames, created_at
		 FROM runs
		 WHERE map_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		mapID, limit,
	)
}

// RecentRuns retrieves the most recent runs across all maps.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT id, map_id, score, round, level, kills, frames, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]RunEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var frames int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.MapID, &e.Score, &e.Round, &e.Level, &e.Kills, &frames, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Frames = uint64(frames)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// MapStats aggregates the run history of a map.
func (s *Store) MapStats(mapID string) (MapStats, error) {
	st := MapStats{MapID: mapID}
	var best, kills, round sql.NullInt64
	var avg sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT COUNT(*), MAX(score), AVG(score), SUM(kills), MAX(round)
		 FROM runs WHERE map_id = ?`,
		mapID,
	).Scan(&st.Runs, &best, &avg, &kills, &round)
	if err != nil {
		return st, fmt.Errorf("storage: cannot query map stats: %w", err)
	}
	st.BestScore = int(best.Int64)
	st.AvgScore = avg.Float64
	st.TotalKills = int(kills.Int64)
	st.BestRound = int(round.Int64)
	return st, nil
}

// ClearRuns deletes the run history and best score of a map.
func (s *Store) ClearRuns(mapID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec("DELETE FROM runs WHERE map_id = ?", mapID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM best_scores WHERE map_id = ?", mapID); err != nil {
		return fmt.Errorf("storage: cannot clear best score: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
