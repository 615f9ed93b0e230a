package collector

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists series points and events to a SQLite database via
// the pure-Go modernc.org/sqlite driver, so a simulation run's recorded
// history can outlive the process or be shared across tools.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) a SQLite-backed Store at
// the given data source name. Use ":memory:" for an ephemeral store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS points (
		run_id TEXT NOT NULL,
		place_id TEXT NOT NULL,
		time REAL NOT NULL,
		value REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_points_run_place ON points(run_id, place_id);

	CREATE TABLE IF NOT EXISTS events (
		run_id TEXT NOT NULL,
		transition_id TEXT NOT NULL,
		time REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_run_transition ON events(run_id, transition_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SavePoints implements Store.
func (s *SQLiteStore) SavePoints(runID, placeID string, points []Point) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO points (run_id, place_id, time, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, p := range points {
		if _, err := stmt.Exec(runID, placeID, p.Time, p.Value); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// LoadSeries implements Store.
func (s *SQLiteStore) LoadSeries(runID, placeID string) ([]Point, error) {
	rows, err := s.db.Query(
		`SELECT time, value FROM points WHERE run_id = ? AND place_id = ? ORDER BY time`,
		runID, placeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.Time, &p.Value); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveEvents implements Store.
func (s *SQLiteStore) SaveEvents(runID string, events []EventRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO events (run_id, transition_id, time) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, e := range events {
		if _, err := stmt.Exec(runID, e.TransitionID, e.Time); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// LoadEvents implements Store.
func (s *SQLiteStore) LoadEvents(runID, transitionID string) ([]EventRecord, error) {
	rows, err := s.db.Query(
		`SELECT time, transition_id FROM events WHERE run_id = ? AND transition_id = ? ORDER BY time`,
		runID, transitionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var e EventRecord
		if err := rows.Scan(&e.Time, &e.TransitionID); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close implements Store.
func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
