package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/tango/internal/model"
)

// SampleWords are seeded into an empty database.
var SampleWords = []model.Word{
	{Native: "本", Reading: "ほん", Translation: "书"},
	{Native: "学生", Reading: "がくせい", Translation: "学生"},
	{Native: "先生", Reading: "せんせい", Translation: "老师"},
	{Native: "学校", Reading: "がっこう", Translation: "学校"},
	{Native: "友達", Reading: "ともだち", Translation: "朋友"},
}

// ValidateWord trims the text fields and checks they are all present.
func ValidateWord(w model.Word) (model.Word, error) {
	w.Native = strings.TrimSpace(w.Native)
	w.Reading = strings.TrimSpace(w.Reading)
	w.Translation = strings.TrimSpace(w.Translation)
	w.AudioRef = strings.TrimSpace(w.AudioRef)
	if w.Native == "" || w.Reading == "" || w.Translation == "" {
		return w, errors.New("native, reading and translation are required")
	}
	return w, nil
}

// AddWord inserts a word and returns it with its new ID.
func (s *Store) AddWord(ctx context.Context, w model.Word) (model.Word, error) {
	w, err := ValidateWord(w)
	if err != nil {
		return model.Word{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO words (native, reading, translation, audio_ref, created_at) VALUES (?, ?, ?, ?, ?)`,
		w.Native, w.Reading, w.Translation, w.AudioRef, formatTime(s.now()))
	if err != nil {
		return model.Word{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Word{}, err
	}
	w.ID = id
	return w, nil
}

// AddWords inserts words in one transaction and returns how many were added.
func (s *Store) AddWords(ctx context.Context, words []model.Word) (int, error) {
	added := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO words (native, reading, translation, audio_ref, created_at) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		now := formatTime(s.now())
		for i, w := range words {
			w, err := ValidateWord(w)
			if err != nil {
				return fmt.Errorf("word %d: %w", i+1, err)
			}
			if _, err := stmt.ExecContext(ctx, w.Native, w.Reading, w.Translation, w.AudioRef, now); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// UpdateWord replaces the fields of an existing word.
func (s *Store) UpdateWord(ctx context.Context, w model.Word) error {
	w, err := ValidateWord(w)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE words SET native = ?, reading = ?, translation = ?, audio_ref = ? WHERE id = ?`,
		w.Native, w.Reading, w.Translation, w.AudioRef, w.ID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// DeleteWord removes a word. History rows keep their snapshot.
func (s *Store) DeleteWord(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM words WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// GetWord returns a word by ID.
func (s *Store) GetWord(ctx context.Context, id int64) (model.Word, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, native, reading, translation, audio_ref FROM words WHERE id = ?`, id)
	var w model.Word
	if err := row.Scan(&w.ID, &w.Native, &w.Reading, &w.Translation, &w.AudioRef); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Word{}, ErrWordNotFound
		}
		return model.Word{}, err
	}
	return w, nil
}

// AllWords returns every word ordered by ID.
func (s *Store) AllWords(ctx context.Context) ([]model.Word, error) {
	return s.queryWords(ctx,
		`SELECT id, native, reading, translation, audio_ref FROM words ORDER BY id ASC`)
}

// SearchWords returns words whose native, reading or translation contains
// query, ignoring case.
func (s *Store) SearchWords(ctx context.Context, query string) ([]model.Word, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.AllWords(ctx)
	}
	all, err := s.AllWords(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Word
	for _, w := range all {
		if strings.Contains(strings.ToLower(w.Native), query) ||
			strings.Contains(strings.ToLower(w.Reading), query) ||
			strings.Contains(strings.ToLower(w.Translation), query) {
			out = append(out, w)
		}
	}
	return out, nil
}

// CountWords returns the number of stored words.
func (s *Store) CountWords(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// RandomWord returns a uniformly chosen word. ok is false when there are none.
func (s *Store) RandomWord(ctx context.Context) (model.Word, bool, error) {
	all, err := s.AllWords(ctx)
	if err != nil {
		return model.Word{}, false, err
	}
	w, ok := s.gen.Pick(all)
	return w, ok, nil
}

// RandomWords returns n distinct words in random order, or every word
// shuffled when n is at least the word count.
func (s *Store) RandomWords(ctx context.Context, n int) ([]model.Word, error) {
	all, err := s.AllWords(ctx)
	if err != nil {
		return nil, err
	}
	return s.gen.Sample(all, n), nil
}

// SeedSampleWords inserts SampleWords when the table is empty. It reports
// whether anything was inserted.
func (s *Store) SeedSampleWords(ctx context.Context) (bool, error) {
	n, err := s.CountWords(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.AddWords(ctx, SampleWords); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) queryWords(ctx context.Context, query string, args ...any) ([]model.Word, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var words []model.Word
	for rows.Next() {
		var w model.Word
		if err := rows.Scan(&w.ID, &w.Native, &w.Reading, &w.Translation, &w.AudioRef); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrWordNotFound
	}
	return nil
}
