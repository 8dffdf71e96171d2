// Package sqlite stores the saved session in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/dacharyc/wypal/store"
)

// Store keeps the state as JSON in a key/value table.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`)
	return err
}

func (s *Store) Load(ctx context.Context) (store.State, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, store.Key)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.State{}, false, nil
		}
		return store.State{}, false, fmt.Errorf("load state: %w", err)
	}
	st, err := store.Decode([]byte(value))
	if err != nil {
		return store.State{}, false, err
	}
	return st, true, nil
}

func (s *Store) Save(ctx context.Context, st store.State) error {
	data, err := store.Encode(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO kv(key, value) VALUES(?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, store.Key, string(data))
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
