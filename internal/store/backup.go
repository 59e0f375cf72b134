package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/tango/internal/model"
)

// BackupVersion is written to every export.
const BackupVersion = "1.0"

type backup struct {
	Words      []backupWord    `json:"words"`
	History    []backupRecord  `json:"history"`
	Settings   *backupSettings `json:"settings,omitempty"`
	ExportDate time.Time       `json:"exportDate"`
	Version    string          `json:"version"`
}

type backupWord struct {
	ID          int64  `json:"id"`
	Native      string `json:"native"`
	Reading     string `json:"reading"`
	Translation string `json:"translation"`
	Audio       string `json:"audio,omitempty"`
}

type backupAnswer struct {
	Native      string `json:"native"`
	Reading     string `json:"reading"`
	Translation string `json:"translation"`
}

type backupRecord struct {
	ID          int64        `json:"id"`
	SessionID   string       `json:"sessionId,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
	WordID      int64        `json:"wordId"`
	Word        backupWord   `json:"word"`
	QuizType    string       `json:"quizType"`
	UserAnswer  backupAnswer `json:"userAnswer"`
	IsCorrect   bool         `json:"isCorrect"`
	Score       int          `json:"score"`
	MaxScore    int          `json:"maxScore"`
	TimeSpentMs int64        `json:"timeSpent"`
}

type backupSettings map[string]string

// Export writes all words, history and settings as indented JSON.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	words, err := s.AllWords(ctx)
	if err != nil {
		return err
	}
	history, err := s.ListHistory(ctx, model.HistoryFilter{})
	if err != nil {
		return err
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return err
	}

	doc := backup{
		Words:      make([]backupWord, 0, len(words)),
		History:    make([]backupRecord, 0, len(history)),
		ExportDate: s.now().UTC(),
		Version:    BackupVersion,
	}
	for _, word := range words {
		doc.Words = append(doc.Words, toBackupWord(word))
	}
	for _, rec := range history {
		doc.History = append(doc.History, backupRecord{
			ID:          rec.ID,
			SessionID:   rec.SessionID,
			Timestamp:   rec.Timestamp.UTC(),
			WordID:      rec.WordID,
			Word:        toBackupWord(rec.Word),
			QuizType:    rec.QuizType.String(),
			UserAnswer:  backupAnswer(rec.UserAnswer),
			IsCorrect:   rec.IsCorrect,
			Score:       rec.Score,
			MaxScore:    rec.MaxScore,
			TimeSpentMs: rec.TimeSpentMs,
		})
	}
	values := backupSettings(SettingValues(settings))
	doc.Settings = &values

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ImportResult reports what an import replaced.
type ImportResult struct {
	Words    int
	History  int
	Settings bool
}

// Import replaces stored data with a backup document. Words are replaced
// only when the document has any; history and settings only when present.
// The import runs in one transaction, so on failure the previous data stays.
func (s *Store) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return ImportResult{}, fmt.Errorf("decode backup: %w", err)
	}
	if _, ok := raw["words"]; !ok {
		return ImportResult{}, errors.New("invalid backup: missing words")
	}
	var doc backup
	if err := json.Unmarshal(data, &doc); err != nil {
		return ImportResult{}, fmt.Errorf("decode backup: %w", err)
	}
	if doc.Version != "" && doc.Version != BackupVersion {
		return ImportResult{}, fmt.Errorf("unsupported backup version %q", doc.Version)
	}

	words := make([]model.Word, 0, len(doc.Words))
	for i, bw := range doc.Words {
		w, err := ValidateWord(fromBackupWord(bw))
		if err != nil {
			return ImportResult{}, fmt.Errorf("word %d: %w", i+1, err)
		}
		words = append(words, w)
	}
	_, hasHistory := raw["history"]
	records := make([]model.AnswerRecord, 0, len(doc.History))
	for i, br := range doc.History {
		qt, err := model.ParseQuizType(br.QuizType)
		if err != nil {
			return ImportResult{}, fmt.Errorf("history %d: %w", i+1, err)
		}
		word := fromBackupWord(br.Word)
		word.ID = br.WordID
		records = append(records, model.AnswerRecord{
			ID:            br.ID,
			SessionID:     br.SessionID,
			WordID:        br.WordID,
			Word:          word,
			QuizType:      qt,
			UserAnswer:    model.Answer(br.UserAnswer),
			CorrectAnswer: word.Answer(),
			IsCorrect:     br.IsCorrect,
			Score:         br.Score,
			MaxScore:      br.MaxScore,
			TimeSpentMs:   br.TimeSpentMs,
			Timestamp:     br.Timestamp,
		})
	}

	result := ImportResult{}
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if len(words) > 0 {
			if _, err := tx.ExecContext(ctx, `DELETE FROM words`); err != nil {
				return err
			}
			now := formatTime(s.now())
			for _, w := range words {
				var id any
				if w.ID > 0 {
					id = w.ID
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO words (id, native, reading, translation, audio_ref, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
					id, w.Native, w.Reading, w.Translation, w.AudioRef, now); err != nil {
					return fmt.Errorf("insert word %q: %w", w.Native, err)
				}
			}
			result.Words = len(words)
		}
		if hasHistory {
			if _, err := tx.ExecContext(ctx, `DELETE FROM history`); err != nil {
				return err
			}
			for _, rec := range records {
				if _, err := insertHistory(ctx, tx, rec); err != nil {
					return fmt.Errorf("insert history %d: %w", rec.ID, err)
				}
			}
			result.History = len(records)
		}
		if doc.Settings != nil {
			current, err := s.settingsTx(ctx, tx)
			if err != nil {
				return err
			}
			for key, value := range *doc.Settings {
				if err := applySetting(&current, key, value); err != nil {
					return fmt.Errorf("settings: %w", err)
				}
			}
			if err := putSettings(ctx, tx, SettingValues(current)); err != nil {
				return err
			}
			result.Settings = true
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

func (s *Store) settingsTx(ctx context.Context, tx *sql.Tx) (model.Settings, error) {
	rows, err := tx.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return model.Settings{}, err
	}
	defer closeRows(rows)
	settings := model.DefaultSettings()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return model.Settings{}, err
		}
		_ = applySetting(&settings, key, value)
	}
	return settings, rows.Err()
}

func toBackupWord(w model.Word) backupWord {
	return backupWord{ID: w.ID, Native: w.Native, Reading: w.Reading, Translation: w.Translation, Audio: w.AudioRef}
}

func fromBackupWord(bw backupWord) model.Word {
	return model.Word{ID: bw.ID, Native: bw.Native, Reading: bw.Reading, Translation: bw.Translation, AudioRef: bw.Audio}
}
