// Package session drives quiz sessions: drawing cards, scoring answers,
// recording history and running timed auto-play.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tango/internal/generator"
	"github.com/verte-zerg/tango/internal/model"
	"github.com/verte-zerg/tango/internal/quiz"
)

// Auto session defaults, used when AutoSettings leaves a field at zero.
const (
	DefaultCardCount = 5
	DefaultInterval  = 3 * time.Second
)

// WordStore supplies words.
type WordStore interface {
	RandomWord(ctx context.Context) (model.Word, bool, error)
	RandomWords(ctx context.Context, n int) ([]model.Word, error)
}

// SettingsStore supplies quiz settings.
type SettingsStore interface {
	Settings(ctx context.Context) (model.Settings, error)
}

// HistoryStore persists answer records. AppendHistory assigns rec.ID.
type HistoryStore interface {
	AppendHistory(ctx context.Context, rec *model.AnswerRecord) error
}

// AudioPlayer plays an audio reference until done or ctx is cancelled.
type AudioPlayer interface {
	Play(ctx context.Context, ref string) error
}

// InputSource reports what the learner has typed for the current card.
type InputSource interface {
	PendingInput() (model.Answer, bool)
}

// AutoSettings configures an auto session.
type AutoSettings struct {
	CardCount int
	Interval  time.Duration
}

// Card is a drawn word with its quiz type.
type Card struct {
	Word     model.Word
	QuizType model.QuizType
	Prompt   quiz.Prompt
}

// State is a snapshot of the session.
type State struct {
	Mode      model.Mode
	Active    bool
	SessionID string
	Word      *model.Word
	QuizType  *model.QuizType
	StartedAt time.Time
	AutoQueue []model.Word
	AutoIndex int
	Interval  time.Duration
}

// Engine is the quiz session state machine. It is not safe for concurrent use.
type Engine struct {
	words    WordStore
	settings SettingsStore
	history  HistoryStore

	audio    AudioPlayer
	input    InputSource
	sched    Scheduler
	selector *quiz.Selector
	now      func() time.Time
	logf     func(format string, args ...any)
	newID    func() string

	ctx         context.Context
	audioCancel context.CancelFunc

	active    bool
	mode      model.Mode
	sessionID string
	word      *model.Word
	quizType  *model.QuizType
	startedAt time.Time

	queue    []model.Word
	index    int
	interval time.Duration

	timer    Timer
	timerGen uint64

	subs      []subscription
	nextSubID int
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler sets the timer source for auto sessions.
func WithScheduler(s Scheduler) Option { return func(e *Engine) { e.sched = s } }

// WithAudio sets the player used for audio cards.
func WithAudio(p AudioPlayer) Option { return func(e *Engine) { e.audio = p } }

// WithInputSource sets where timed-out auto cards read pending input from.
func WithInputSource(s InputSource) Option { return func(e *Engine) { e.input = s } }

// WithRand seeds quiz type selection.
func WithRand(r quiz.Rand) Option { return func(e *Engine) { e.selector = quiz.NewSelector(r) } }

// WithClock replaces time.Now for timing answers.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithIDFunc replaces the session ID generator.
func WithIDFunc(newID func() string) Option { return func(e *Engine) { e.newID = newID } }

// WithLogf sets the sink for non-fatal errors. It defaults to stderr.
func WithLogf(f func(string, ...any)) Option { return func(e *Engine) { e.logf = f } }

// New constructs an engine over the given stores.
func New(words WordStore, settings SettingsStore, history HistoryStore, opts ...Option) *Engine {
	e := &Engine{
		words:    words,
		settings: settings,
		history:  history,
		selector: quiz.NewSelector(generator.New()),
		now:      time.Now,
		logf:     logErrf,
		newID:    func() string { return uuid.New().String() },
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetInputSource replaces the pending-input source.
func (e *Engine) SetInputSource(s InputSource) {
	e.input = s
}

// Active reports whether a session is running.
func (e *Engine) Active() bool {
	return e.active
}

// Mode returns the mode of the current or last session.
func (e *Engine) Mode() model.Mode {
	return e.mode
}

// Current returns the drawn card, if any.
func (e *Engine) Current() (Card, bool) {
	if e.word == nil || e.quizType == nil {
		return Card{}, false
	}
	return newCard(*e.word, *e.quizType), true
}

// State returns a snapshot of the session.
func (e *Engine) State() State {
	st := State{
		Mode:      e.mode,
		Active:    e.active,
		SessionID: e.sessionID,
		StartedAt: e.startedAt,
		AutoIndex: e.index,
		Interval:  e.interval,
	}
	if e.word != nil {
		w := *e.word
		st.Word = &w
	}
	if e.quizType != nil {
		qt := *e.quizType
		st.QuizType = &qt
	}
	if e.queue != nil {
		st.AutoQueue = append([]model.Word(nil), e.queue...)
	}
	return st
}

// Start begins a session. Any running session is stopped first.
// In auto mode the queue is sampled and the first card is drawn immediately.
func (e *Engine) Start(ctx context.Context, mode model.Mode, auto AutoSettings) error {
	settings, err := e.settings.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if len(settings.EnabledTypes()) == 0 {
		return ErrNoEnabledTypes
	}

	var queue []model.Word
	if mode == model.ModeAuto {
		if e.sched == nil {
			return ErrNoScheduler
		}
		if auto.CardCount <= 0 {
			auto.CardCount = DefaultCardCount
		}
		if auto.Interval <= 0 {
			auto.Interval = DefaultInterval
		}
		queue, err = e.words.RandomWords(ctx, auto.CardCount)
		if err != nil {
			return fmt.Errorf("sample words: %w", err)
		}
		if len(queue) == 0 {
			return ErrNoWordsAvailable
		}
	}

	if e.active {
		e.Stop()
	}

	e.ctx = ctx
	e.active = true
	e.mode = mode
	e.sessionID = e.newID()
	e.clearCard()
	e.emit(Event{Kind: EventStarted, Mode: mode})

	if mode == model.ModeAuto {
		e.queue = queue
		e.index = 0
		e.interval = auto.Interval
		e.nextAutoCard()
	}
	return nil
}

// DrawCard draws a random word. A non-nil quizType is used as is; otherwise
// the type comes from the selector honoring the default type setting.
func (e *Engine) DrawCard(ctx context.Context, quizType *model.QuizType) (Card, error) {
	if !e.active {
		return Card{}, ErrGameNotActive
	}
	word, ok, err := e.words.RandomWord(ctx)
	if err != nil {
		return Card{}, fmt.Errorf("draw word: %w", err)
	}
	if !ok {
		return Card{}, ErrNoWordsAvailable
	}

	var qt model.QuizType
	if quizType != nil {
		qt = *quizType
	} else {
		settings, err := e.settings.Settings(ctx)
		if err != nil {
			return Card{}, fmt.Errorf("load settings: %w", err)
		}
		qt, err = e.selector.Select(settings, settings.DefaultQuizType)
		if err != nil {
			return Card{}, err
		}
	}

	card := e.setCard(word, qt)
	e.emit(Event{Kind: EventCardDrawn, Mode: e.mode, Card: card})
	return card, nil
}

// SubmitAnswer scores ans against the drawn card and records it. The card
// stays drawn.
func (e *Engine) SubmitAnswer(ctx context.Context, ans model.Answer) (model.EvaluationResult, error) {
	if e.word == nil || e.quizType == nil {
		return model.EvaluationResult{}, ErrNoActiveCard
	}
	return e.submit(ctx, ans)
}

// SkipCard records the drawn card, if any, as wrong and clears it. In auto
// mode the next card is drawn.
func (e *Engine) SkipCard(ctx context.Context) error {
	if !e.active {
		return ErrGameNotActive
	}
	if err := e.recordSkip(ctx); err != nil {
		return err
	}
	e.clearCard()
	if e.mode == model.ModeAuto {
		e.cancelTimer()
		e.index++
		e.nextAutoCard()
	}
	return nil
}

// Stop ends the session. It is a no-op when no session is running.
func (e *Engine) Stop() {
	if !e.active {
		return
	}
	e.cancelTimer()
	e.cancelAudio()
	e.active = false
	e.clearCard()
	e.queue = nil
	e.index = 0
	e.interval = 0
	e.sessionID = ""
	e.emit(Event{Kind: EventStopped, Mode: e.mode})
}

// PlayAudio starts playback of the drawn card's audio in the background.
func (e *Engine) PlayAudio() error {
	if e.word == nil {
		return ErrNoActiveCard
	}
	if e.audio == nil || e.word.AudioRef == "" {
		return ErrNoAudio
	}
	e.playAsync(e.word.AudioRef)
	return nil
}

func (e *Engine) submit(ctx context.Context, ans model.Answer) (model.EvaluationResult, error) {
	word, qt := *e.word, *e.quizType
	res := quiz.Evaluate(word, qt, ans)
	rec := e.newRecord(word, qt, ans, res.IsCorrect, res.Score, res.MaxScore)
	if err := e.history.AppendHistory(ctx, &rec); err != nil {
		return model.EvaluationResult{}, fmt.Errorf("append history: %w", err)
	}
	e.emit(Event{Kind: EventAnswerChecked, Mode: e.mode, Card: newCard(word, qt), Result: res, Record: rec})
	return res, nil
}

func (e *Engine) recordSkip(ctx context.Context) error {
	if e.word == nil || e.quizType == nil {
		return nil
	}
	word, qt := *e.word, *e.quizType
	rec := e.newRecord(word, qt, model.Answer{}, false, 0, len(quiz.CheckedFields(qt)))
	if err := e.history.AppendHistory(ctx, &rec); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	e.emit(Event{Kind: EventCardSkipped, Mode: e.mode, Card: newCard(word, qt), Record: rec})
	return nil
}

func (e *Engine) newRecord(word model.Word, qt model.QuizType, ans model.Answer, correct bool, score, maxScore int) model.AnswerRecord {
	now := e.now()
	return model.AnswerRecord{
		SessionID:     e.sessionID,
		WordID:        word.ID,
		Word:          word,
		QuizType:      qt,
		UserAnswer:    ans,
		CorrectAnswer: word.Answer(),
		IsCorrect:     correct,
		Score:         score,
		MaxScore:      maxScore,
		TimeSpentMs:   now.Sub(e.startedAt).Milliseconds(),
		Timestamp:     now,
	}
}

func (e *Engine) setCard(word model.Word, qt model.QuizType) Card {
	e.word = &word
	e.quizType = &qt
	e.startedAt = e.now()
	return newCard(word, qt)
}

func (e *Engine) clearCard() {
	e.word = nil
	e.quizType = nil
	e.startedAt = time.Time{}
}

func (e *Engine) playAsync(ref string) {
	e.cancelAudio()
	ctx, cancel := context.WithCancel(e.ctx)
	e.audioCancel = cancel
	player, logf := e.audio, e.logf
	go func() {
		defer cancel()
		if err := player.Play(ctx, ref); err != nil && !errors.Is(err, context.Canceled) {
			logf("audio: %v\n", err)
		}
	}()
}

func (e *Engine) cancelAudio() {
	if e.audioCancel != nil {
		e.audioCancel()
		e.audioCancel = nil
	}
}

func newCard(word model.Word, qt model.QuizType) Card {
	return Card{Word: word, QuizType: qt, Prompt: quiz.PromptFor(word, qt)}
}

func logErrf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}
