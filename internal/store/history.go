package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/tango/internal/model"
)

// AppendHistory stores rec, assigns its ID and prunes rows beyond MaxHistory.
func (s *Store) AppendHistory(ctx context.Context, rec *model.AnswerRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now()
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := insertHistory(ctx, tx, *rec)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM history WHERE id NOT IN (
				SELECT id FROM history ORDER BY created_at DESC, id DESC LIMIT ?
			)`, MaxHistory); err != nil {
			return err
		}
		rec.ID = id
		return nil
	})
}

func insertHistory(ctx context.Context, tx *sql.Tx, rec model.AnswerRecord) (int64, error) {
	cols := `session_id, word_id, word_native, word_reading, word_translation, quiz_type,
		answer_native, answer_reading, answer_translation, is_correct, score, max_score,
		time_spent_ms, created_at`
	args := []any{
		rec.SessionID,
		rec.WordID,
		rec.Word.Native,
		rec.Word.Reading,
		rec.Word.Translation,
		rec.QuizType.String(),
		rec.UserAnswer.Native,
		rec.UserAnswer.Reading,
		rec.UserAnswer.Translation,
		boolInt(rec.IsCorrect),
		rec.Score,
		rec.MaxScore,
		rec.TimeSpentMs,
		formatTime(rec.Timestamp),
	}
	query := `INSERT INTO history (` + cols + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if rec.ID != 0 {
		query = `INSERT INTO history (id, ` + cols + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		args = append([]any{rec.ID}, args...)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListHistory returns records newest first, filtered by date range and
// optionally limited.
func (s *Store) ListHistory(ctx context.Context, filter model.HistoryFilter) ([]model.AnswerRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Range != model.RangeAll {
		now := filter.Now
		if now.IsZero() {
			now = s.now()
		}
		clauses = append(clauses, "created_at >= ?")
		args = append(args, formatTime(filter.Range.Since(now)))
	}
	query := fmt.Sprintf(`SELECT id, session_id, word_id, word_native, word_reading, word_translation,
		quiz_type, answer_native, answer_reading, answer_translation, is_correct, score, max_score,
		time_spent_ms, created_at
		FROM history
		WHERE %s
		ORDER BY created_at DESC, id DESC`, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var records []model.AnswerRecord
	for rows.Next() {
		var rec model.AnswerRecord
		var quizType, createdAt string
		var correct int
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.WordID,
			&rec.Word.Native, &rec.Word.Reading, &rec.Word.Translation,
			&quizType,
			&rec.UserAnswer.Native, &rec.UserAnswer.Reading, &rec.UserAnswer.Translation,
			&correct, &rec.Score, &rec.MaxScore, &rec.TimeSpentMs, &createdAt,
		); err != nil {
			return nil, err
		}
		qt, err := model.ParseQuizType(quizType)
		if err != nil {
			return nil, err
		}
		ts, err := parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		rec.Word.ID = rec.WordID
		rec.QuizType = qt
		rec.IsCorrect = correct != 0
		rec.CorrectAnswer = rec.Word.Answer()
		rec.Timestamp = ts.In(time.Local)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ClearHistory deletes every history row.
func (s *Store) ClearHistory(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM history`)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
