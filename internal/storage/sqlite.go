// Package storage provides SQLite-based persistence for the ride log: one row
// per finished attempt at a level, for exercise history and best times.
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
)

// Result values stored in the rides table.
const (
	ResultComplete = "complete"
	ResultVictory  = "victory"
	ResultGameOver = "game over"
)

// Store manages the SQLite database connection for the ride log.
type Store struct {
	db *sql.DB
}

// Ride is one finished attempt at a level.
type Ride struct {
	ID        int64
	Rider     string  // "local" or the SSH user name
	Level     int     // 1-based level index
	Result    string  // ResultComplete, ResultVictory or ResultGameOver
	Reason    string  // Game over reason: "hazard", "timeout", "fell"
	Elapsed   float64 // Seconds on the level clock
	AvgRPM    float64
	Distance  float64 // World units ridden
	CreatedAt time.Time
}

// Finished reports whether the rider reached the goal.
func (r Ride) Finished() bool {
	return r.Result == ResultComplete || r.Result == ResultVictory
}

// LevelBest is the fastest finish on a level.
type LevelBest struct {
	Level     int
	Rider     string
	Elapsed   float64
	AvgRPM    float64
	CreatedAt time.Time
}

// RideStats contains aggregated statistics for a rider (or all riders).
type RideStats struct {
	Rider         string
	Rides         int
	Finished      int
	TotalTime     float64 // seconds
	TotalDistance float64
	AvgRPM        float64 // mean over rides with a cadence
	LastRide      time.Time
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

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS rides (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			rider TEXT NOT NULL DEFAULT 'local',
			level INTEGER NOT NULL,
			result TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			elapsed REAL NOT NULL DEFAULT 0,
			avg_rpm REAL NOT NULL DEFAULT 0,
			distance REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rides_rider ON rides(rider);
		CREATE INDEX IF NOT EXISTS idx_rides_level_elapsed ON rides(level, elapsed);
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

// SaveRide records a finished attempt.
// Returns the ID of the inserted record.
func (s *Store) SaveRide(r Ride) (int64, error) {
	if r.Rider == "" {
		r.Rider = "local"
	}

	result, err := s.db.Exec(
		`INSERT INTO rides (rider, level, result, reason, elapsed, avg_rpm, distance)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Rider, r.Level, r.Result, r.Reason, r.Elapsed, r.AvgRPM, r.Distance,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save ride: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRides retrieves the most recent rides of a rider, newest first.
// An empty rider matches everyone.
func (s *Store) RecentRides(rider string, limit int) ([]Ride, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, rider, level, result, reason, elapsed, avg_rpm, distance, created_at
		 FROM rides
		 WHERE ? = '' OR rider = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		rider, rider, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rides: %w", err)
	}
	defer rows.Close()

	var rides []Ride
	for rows.Next() {
		var r Ride
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Rider, &r.Level, &r.Result, &r.Reason,
			&r.Elapsed, &r.AvgRPM, &r.Distance, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		rides = append(rides, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return rides, nil
}

// BestTimes returns the fastest finish on each level, ordered by level.
func (s *Store) BestTimes() ([]LevelBest, error) {
	rows, err := s.db.Query(
		`SELECT r.level, r.rider, r.elapsed, r.avg_rpm, r.created_at
		 FROM rides r
		 WHERE r.result IN (?, ?)
		   AND r.id = (
			SELECT b.id FROM rides b
			WHERE b.level = r.level AND b.result IN (?, ?)
			ORDER BY b.elapsed ASC, b.id ASC
			LIMIT 1
		   )
		 ORDER BY r.level`,
		ResultComplete, ResultVictory, ResultComplete, ResultVictory,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best times: %w", err)
	}
	defer rows.Close()

	var bests []LevelBest
	for rows.Next() {
		var b LevelBest
		var createdAt any
		if err := rows.Scan(&b.Level, &b.Rider, &b.Elapsed, &b.AvgRPM, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan best time: %w", err)
		}
		b.CreatedAt = parseTime(createdAt)
		bests = append(bests, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return bests, nil
}

// BestTime returns the fastest finish on a level, or 0 if it was never finished.
func (s *Store) BestTime(level int) (float64, error) {
	var best sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT MIN(elapsed) FROM rides WHERE level = ? AND result IN (?, ?)`,
		level, ResultComplete, ResultVictory,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get best time: %w", err)
	}
	return best.Float64, nil
}

// Stats aggregates the ride log of a rider. An empty rider matches everyone.
func (s *Store) Stats(rider string) (*RideStats, error) {
	stats := &RideStats{Rider: rider}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN result IN (?, ?) THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(elapsed), 0),
		        COALESCE(SUM(distance), 0),
		        COALESCE(AVG(CASE WHEN avg_rpm > 0 THEN avg_rpm END), 0)
		 FROM rides WHERE ? = '' OR rider = ?`,
		ResultComplete, ResultVictory, rider, rider,
	).Scan(&stats.Rides, &stats.Finished, &stats.TotalTime, &stats.TotalDistance, &stats.AvgRPM)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get ride stats: %w", err)
	}

	// Get last ride
	var lastRide any
	err = s.db.QueryRow(
		`SELECT created_at FROM rides WHERE ? = '' OR rider = ? ORDER BY id DESC LIMIT 1`,
		rider, rider,
	).Scan(&lastRide)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last ride: %w", err)
	}
	if err == nil {
		stats.LastRide = parseTime(lastRide)
	}

	return stats, nil
}

// ClearRides deletes the ride log of a rider. An empty rider clears everything.
func (s *Store) ClearRides(rider string) error {
	_, err := s.db.Exec("DELETE FROM rides WHERE ? = '' OR rider = ?", rider, rider)
	if err != nil {
		return fmt.Errorf("storage: cannot clear rides: %w", err)
	}
	return nil
}

// parseTime converts a DATETIME column - handle both time.Time and string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
