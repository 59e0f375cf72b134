// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/tango/internal/generator"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout has fixed-width fractions so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// MaxHistory is the number of history rows kept; older rows are pruned.
const MaxHistory = 1000

// ErrWordNotFound is returned when a word ID does not exist.
var ErrWordNotFound = errors.New("word not found")

// Store wraps SQLite access for words, history and settings.
// It is safe for use by one writer at a time.
type Store struct {
	db  *sql.DB
	gen *generator.Generator
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	store := &Store{db: db, gen: generator.New(), now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetGenerator replaces the random source used for sampling words.
func (s *Store) SetGenerator(gen *generator.Generator) {
	s.gen = gen
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS words (
			id INTEGER PRIMARY KEY,
			native TEXT NOT NULL,
			reading TEXT NOT NULL,
			translation TEXT NOT NULL,
			audio_ref TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			word_id INTEGER NOT NULL,
			word_native TEXT NOT NULL,
			word_reading TEXT NOT NULL,
			word_translation TEXT NOT NULL,
			quiz_type TEXT NOT NULL,
			answer_native TEXT NOT NULL,
			answer_reading TEXT NOT NULL,
			answer_translation TEXT NOT NULL,
			is_correct INTEGER NOT NULL,
			score INTEGER NOT NULL,
			max_score INTEGER NOT NULL,
			time_spent_ms INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_history_word_id ON history(word_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ResetAll deletes all words, history and settings, then seeds the sample words.
func (s *Store) ResetAll(ctx context.Context) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"words", "history", "settings"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	_, err = s.SeedSampleWords(ctx)
	return err
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}
