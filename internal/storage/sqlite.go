package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const slotKey = "todos"

// SQLite is a slot stored as a single row in a SQLite database. The
// driver is CGo-free, so the backend works anywhere the binary runs.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and ensures the
// slots table exists.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS slots (
			key  TEXT PRIMARY KEY,
			data BLOB NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *SQLite) Load() ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM slots WHERE key = ?`, slotKey).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load slot: %w", err)
	}
	return data, nil
}

func (s *SQLite) Save(data []byte) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO slots (key, data) VALUES (?, ?)`, slotKey, data)
	if err != nil {
		return fmt.Errorf("save slot: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
