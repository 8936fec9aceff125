package state

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteBackend stores documents as JSON in a single-table sqlite database.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// DefaultSQLitePath returns ~/.config/tickergrid/state.db.
func DefaultSQLitePath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(dir), "state.db"), nil
}

// NewSQLiteBackend opens (creating if needed) the database at path and
// applies pending schema migrations. If path is empty, defaults to
// [DefaultSQLitePath].
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	if path == "" {
		p, err := DefaultSQLitePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &SQLiteBackend{db: db, path: path}, nil
}

// migrateUp applies the embedded migrations. The migrate instance is not
// closed because closing it would close db.
func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Name implements Backend.
func (b *SQLiteBackend) Name() string { return "sqlite" }

// Path returns the database file.
func (b *SQLiteBackend) Path() string { return b.path }

// Load implements Backend.
func (b *SQLiteBackend) Load(ctx context.Context, key string) (*State, error) {
	var doc string
	err := b.db.QueryRowContext(ctx, `SELECT doc FROM state WHERE id = ?`, key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite select %s: %w", key, err)
	}

	var s State
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return &s, nil
}

// Save implements Backend.
func (b *SQLiteBackend) Save(ctx context.Context, key string, s *State) error {
	if s == nil {
		s = &State{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO state (id, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().Truncate(time.Second))
	if err != nil {
		return fmt.Errorf("sqlite upsert %s: %w", key, err)
	}
	return nil
}

// Delete implements Backend.
func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM state WHERE id = ?`, key); err != nil {
		return fmt.Errorf("sqlite delete %s: %w", key, err)
	}
	return nil
}

// Close implements Backend.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

var _ Backend = (*SQLiteBackend)(nil)
