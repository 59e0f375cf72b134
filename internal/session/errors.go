package session

import (
	"errors"

	"github.com/verte-zerg/tango/internal/quiz"
)

var (
	// ErrGameNotActive is returned when an operation needs a running session.
	ErrGameNotActive = errors.New("no active session")
	// ErrNoActiveCard is returned when an answer is submitted with no card drawn.
	ErrNoActiveCard = errors.New("no card drawn")
	// ErrNoWordsAvailable is returned when the word store is empty.
	ErrNoWordsAvailable = errors.New("no words available; add words first")
	// ErrNoEnabledTypes is returned when settings leave no quiz type enabled.
	ErrNoEnabledTypes = quiz.ErrNoEnabledTypes
	// ErrNotAutoMode is returned by auto-only operations in a manual session.
	ErrNotAutoMode = errors.New("session is not in auto mode")
	// ErrNoScheduler is returned when an auto session is started without a scheduler.
	ErrNoScheduler = errors.New("auto mode requires a scheduler")
	// ErrNoAudio is returned when the current card has no audio to play.
	ErrNoAudio = errors.New("no audio for current card")
)
