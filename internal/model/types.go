// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Field is one representation of a word the learner may have to supply.
type Field int

const (
	FieldNative Field = iota
	FieldReading
	FieldTranslation
)

// AllFields lists every answerable field in display order.
var AllFields = []Field{FieldNative, FieldReading, FieldTranslation}

func (f Field) String() string {
	switch f {
	case FieldNative:
		return "native"
	case FieldReading:
		return "reading"
	case FieldTranslation:
		return "translation"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// QuizType selects which representation of a word is revealed.
type QuizType int

const (
	QuizNative QuizType = iota
	QuizReading
	QuizTranslation
	QuizAudio
)

// AllQuizTypes lists the quiz types in their canonical order.
var AllQuizTypes = []QuizType{QuizNative, QuizReading, QuizTranslation, QuizAudio}

func (q QuizType) String() string {
	switch q {
	case QuizNative:
		return "native"
	case QuizReading:
		return "reading"
	case QuizTranslation:
		return "translation"
	case QuizAudio:
		return "audio"
	default:
		return fmt.Sprintf("quiztype(%d)", int(q))
	}
}

// Revealed returns the field shown to the learner. Audio reveals none.
func (q QuizType) Revealed() (Field, bool) {
	switch q {
	case QuizNative:
		return FieldNative, true
	case QuizReading:
		return FieldReading, true
	case QuizTranslation:
		return FieldTranslation, true
	default:
		return 0, false
	}
}

// ParseQuizType parses a quiz type name.
func ParseQuizType(s string) (QuizType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native", "japanese":
		return QuizNative, nil
	case "reading", "kana":
		return QuizReading, nil
	case "translation", "chinese":
		return QuizTranslation, nil
	case "audio":
		return QuizAudio, nil
	default:
		return 0, fmt.Errorf("unknown quiz type %q", s)
	}
}

// Mode is the session drive mode.
type Mode int

const (
	ModeManual Mode = iota
	ModeAuto
)

func (m Mode) String() string {
	if m == ModeAuto {
		return "auto"
	}
	return "manual"
}

// ParseMode parses "manual" or "auto".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "manual":
		return ModeManual, nil
	case "auto":
		return ModeAuto, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// Word is a vocabulary entry.
type Word struct {
	ID          int64
	Native      string
	Reading     string
	Translation string
	AudioRef    string
}

// Get returns the value of a field.
func (w Word) Get(f Field) string {
	switch f {
	case FieldNative:
		return w.Native
	case FieldReading:
		return w.Reading
	case FieldTranslation:
		return w.Translation
	default:
		return ""
	}
}

// Answer returns the word's correct answer for every field.
func (w Word) Answer() Answer {
	return Answer{Native: w.Native, Reading: w.Reading, Translation: w.Translation}
}

// Answer holds learner input (or a correct answer) per field.
type Answer struct {
	Native      string
	Reading     string
	Translation string
}

// Get returns the value of a field.
func (a Answer) Get(f Field) string {
	switch f {
	case FieldNative:
		return a.Native
	case FieldReading:
		return a.Reading
	case FieldTranslation:
		return a.Translation
	default:
		return ""
	}
}

// Set assigns the value of a field.
func (a *Answer) Set(f Field, v string) {
	switch f {
	case FieldNative:
		a.Native = v
	case FieldReading:
		a.Reading = v
	case FieldTranslation:
		a.Translation = v
	}
}

// IsBlank reports whether every field is empty after trimming.
func (a Answer) IsBlank() bool {
	return strings.TrimSpace(a.Native) == "" &&
		strings.TrimSpace(a.Reading) == "" &&
		strings.TrimSpace(a.Translation) == ""
}

// FieldResult is the outcome for one field.
type FieldResult struct {
	Expected string
	Actual   string
	Checked  bool
	Correct  bool
}

// EvaluationResult scores one answer.
type EvaluationResult struct {
	Fields    map[Field]FieldResult
	Score     int
	MaxScore  int
	IsCorrect bool
}

// AnswerRecord is a single attempt written to history.
type AnswerRecord struct {
	ID            int64
	SessionID     string
	WordID        int64
	Word          Word
	QuizType      QuizType
	UserAnswer    Answer
	CorrectAnswer Answer
	IsCorrect     bool
	Score         int
	MaxScore      int
	TimeSpentMs   int64
	Timestamp     time.Time
}

// Settings are the persisted quiz preferences.
type Settings struct {
	AutoPlayAudio   bool
	ShowHints       bool
	DefaultQuizType *QuizType
	Enabled         map[QuizType]bool
}

// DefaultSettings enables every quiz type with a random default.
func DefaultSettings() Settings {
	enabled := make(map[QuizType]bool, len(AllQuizTypes))
	for _, qt := range AllQuizTypes {
		enabled[qt] = true
	}
	return Settings{
		AutoPlayAudio: true,
		ShowHints:     true,
		Enabled:       enabled,
	}
}

// EnabledTypes returns the enabled quiz types in canonical order.
func (s Settings) EnabledTypes() []QuizType {
	var out []QuizType
	for _, qt := range AllQuizTypes {
		if s.Enabled[qt] {
			out = append(out, qt)
		}
	}
	return out
}

// IsEnabled reports whether a quiz type is enabled.
func (s Settings) IsEnabled(qt QuizType) bool {
	return s.Enabled[qt]
}

// DateRange limits history queries.
type DateRange int

const (
	RangeAll DateRange = iota
	RangeToday
	RangeWeek
	RangeMonth
)

func (r DateRange) String() string {
	switch r {
	case RangeToday:
		return "today"
	case RangeWeek:
		return "week"
	case RangeMonth:
		return "month"
	default:
		return "all"
	}
}

// ParseDateRange parses all, today, week or month.
func ParseDateRange(s string) (DateRange, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return RangeAll, nil
	case "today":
		return RangeToday, nil
	case "week":
		return RangeWeek, nil
	case "month":
		return RangeMonth, nil
	default:
		return 0, fmt.Errorf("unknown range %q (want all, today, week or month)", s)
	}
}

// Since returns the inclusive lower bound for the range relative to now.
// RangeAll returns the zero time.
func (r DateRange) Since(now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch r {
	case RangeToday:
		return today
	case RangeWeek:
		return today.AddDate(0, 0, -7)
	case RangeMonth:
		return today.AddDate(0, 0, -30)
	default:
		return time.Time{}
	}
}

// HistoryFilter defines filters for history queries.
type HistoryFilter struct {
	Range DateRange
	Limit int
	Now   time.Time
}
