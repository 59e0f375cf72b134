package quiz

import (
	"errors"
	"testing"

	"github.com/verte-zerg/tango/internal/generator"
	"github.com/verte-zerg/tango/internal/model"
)

type fixedRand int

func (f fixedRand) Intn(n int) int { return int(f) % n }

func settingsWith(types ...model.QuizType) model.Settings {
	s := model.DefaultSettings()
	for _, qt := range model.AllQuizTypes {
		s.Enabled[qt] = false
	}
	for _, qt := range types {
		s.Enabled[qt] = true
	}
	return s
}

func TestSelectNoEnabledTypes(t *testing.T) {
	sel := NewSelector(fixedRand(0))
	forced := model.QuizNative
	_, err := sel.Select(settingsWith(), &forced)
	if !errors.Is(err, ErrNoEnabledTypes) {
		t.Fatalf("expected ErrNoEnabledTypes, got %v", err)
	}
}

func TestSelectStaysInEnabledSet(t *testing.T) {
	sel := NewSelector(generator.NewSeeded(7))
	settings := settingsWith(model.QuizReading, model.QuizAudio)
	seen := map[model.QuizType]int{}
	for i := 0; i < 200; i++ {
		qt, err := sel.Select(settings, nil)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if !settings.IsEnabled(qt) {
			t.Fatalf("selected disabled type %s", qt)
		}
		seen[qt]++
	}
	if seen[model.QuizReading] == 0 || seen[model.QuizAudio] == 0 {
		t.Fatalf("expected both enabled types to be drawn, got %v", seen)
	}
}

func TestSelectForcedDefault(t *testing.T) {
	sel := NewSelector(fixedRand(0))
	settings := settingsWith(model.QuizNative, model.QuizTranslation)

	forced := model.QuizTranslation
	for i := 0; i < 10; i++ {
		qt, err := sel.Select(settings, &forced)
		if err != nil || qt != model.QuizTranslation {
			t.Fatalf("expected forced translation, got %s (%v)", qt, err)
		}
	}

	disabled := model.QuizAudio
	qt, err := sel.Select(settings, &disabled)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if qt != model.QuizNative {
		t.Fatalf("disabled forced type must fall back to random choice, got %s", qt)
	}
}
