package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// StateDB persists the session across runs. The layout is two string
// entries, written and cleared together: the raw token under key "token"
// and the JSON-serialized user identity under key "user".
type StateDB struct {
	db *sql.DB
}

const (
	keyToken = "token"
	keyUser  = "user"
)

// OpenStateDB opens (or creates) the SQLite session database at
// dir/session.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "session.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS session (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session table: %w", err)
	}

	return &StateDB{db: db}, nil
}

func (s *StateDB) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *StateDB) put(key, value string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO session (key, value) VALUES (?, ?)`,
		key, value,
	)
	return err
}

func (s *StateDB) clear() error {
	_, err := s.db.Exec(`DELETE FROM session WHERE key IN (?, ?)`, keyToken, keyUser)
	return err
}

// Close closes the session database.
func (s *StateDB) Close() error {
	return s.db.Close()
}
