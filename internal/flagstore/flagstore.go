// Package flagstore persists feature flag values in SQLite.
package flagstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers "sqlite3" (cgo)
	_ "modernc.org/sqlite"          // registers "sqlite" (pure Go)
)

const (
	// DriverPureGo is the modernc.org/sqlite driver name.
	DriverPureGo = "sqlite"
	// DriverCgo is the mattn/go-sqlite3 driver name.
	DriverCgo = "sqlite3"
)

// ErrUnsupportedDriver is returned by Open for drivers other than sqlite and sqlite3.
var ErrUnsupportedDriver = errors.New("unsupported flag store driver")

const schema = `
CREATE TABLE IF NOT EXISTS feature_flags (
	name       TEXT PRIMARY KEY,
	enabled    INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Entry is a stored flag value.
type Entry struct {
	Name      string
	Enabled   bool
	UpdatedAt time.Time
}

// Store is a SQLite-backed flag store. It satisfies features.FlagStore and
// features.Provider.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the flag database at path using driver.
// An empty driver selects the pure Go driver.
func Open(driver, path string) (*Store, error) {
	if driver == "" {
		driver = DriverPureGo
	}
	if driver != DriverPureGo && driver != DriverCgo {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create flag store dir: %w", err)
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("open flag store: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate flag store: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Get returns the stored value for name. found is false when nothing is stored.
func (s *Store) Get(ctx context.Context, name string) (enabled bool, found bool, err error) {
	var v int
	err = s.db.QueryRowContext(ctx, `SELECT enabled FROM feature_flags WHERE name = ?`, name).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("get flag %s: %w", name, err)
	}
	return v != 0, true, nil
}

// Set stores a value for name, replacing any previous one.
func (s *Store) Set(ctx context.Context, name string, enabled bool) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO feature_flags (name, enabled, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET enabled = excluded.enabled, updated_at = excluded.updated_at`,
		name, boolToInt(enabled), s.now().Unix())
	if err != nil {
		return fmt.Errorf("set flag %s: %w", name, err)
	}
	return nil
}

// Delete removes the stored value for name. Deleting a missing flag is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM feature_flags WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete flag %s: %w", name, err)
	}
	return nil
}

// All returns every stored flag.
func (s *Store) All(ctx context.Context) (map[string]bool, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(entries))
	for _, e := range entries {
		out[e.Name] = e.Enabled
	}
	return out, nil
}

// Entries returns every stored flag ordered by name.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, enabled, updated_at FROM feature_flags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			enabled int
			updated int64
		)
		if err := rows.Scan(&e.Name, &enabled, &updated); err != nil {
			return nil, fmt.Errorf("scan flag: %w", err)
		}
		e.Enabled = enabled != 0
		e.UpdatedAt = time.Unix(updated, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// IsEnabled reports the stored value for name; missing values and read errors
// read as disabled.
func (s *Store) IsEnabled(name string) bool {
	if s == nil || s.db == nil {
		return false
	}
	enabled, _, err := s.Get(context.Background(), name)
	return err == nil && enabled
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
