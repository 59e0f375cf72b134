package session

import (
	"context"
	"fmt"

	"github.com/verte-zerg/tango/internal/model"
)

// SubmitAnswerInAutoMode scores ans, cancels the pending timer and moves to
// the next card without waiting for the interval.
func (e *Engine) SubmitAnswerInAutoMode(ctx context.Context, ans model.Answer) (model.EvaluationResult, error) {
	if !e.active {
		return model.EvaluationResult{}, ErrGameNotActive
	}
	if e.mode != model.ModeAuto {
		return model.EvaluationResult{}, ErrNotAutoMode
	}
	if e.word == nil || e.quizType == nil {
		return model.EvaluationResult{}, ErrNoActiveCard
	}
	res, err := e.submit(ctx, ans)
	if err != nil {
		return model.EvaluationResult{}, err
	}
	e.cancelTimer()
	e.clearCard()
	e.index++
	e.nextAutoCard()
	return res, nil
}

// Progress returns the 1-based position of the current auto card and the
// queue length.
func (e *Engine) Progress() (current, total int) {
	if e.mode != model.ModeAuto || !e.active {
		return 0, 0
	}
	return e.index + 1, len(e.queue)
}

func (e *Engine) nextAutoCard() {
	if e.index >= len(e.queue) {
		e.Stop()
		return
	}
	settings, err := e.settings.Settings(e.ctx)
	if err != nil {
		e.fail(fmt.Errorf("load settings: %w", err))
		return
	}
	qt, err := e.selector.Select(settings, settings.DefaultQuizType)
	if err != nil {
		e.fail(err)
		return
	}

	word := e.queue[e.index]
	card := e.setCard(word, qt)
	e.emit(Event{Kind: EventCardDrawn, Mode: e.mode, Card: card})
	e.emit(Event{Kind: EventProgress, Mode: e.mode, Current: e.index + 1, Total: len(e.queue)})

	if qt == model.QuizAudio && settings.AutoPlayAudio && e.audio != nil && word.AudioRef != "" {
		e.playAsync(word.AudioRef)
	}
	if !e.active {
		return
	}
	e.armTimer()
}

func (e *Engine) onTimer(token uint64) {
	if token != e.timerGen || !e.active || e.mode != model.ModeAuto {
		return
	}
	e.timer = nil

	var err error
	ans, ok := e.pendingInput()
	if ok {
		_, err = e.submit(e.ctx, ans)
	} else {
		err = e.recordSkip(e.ctx)
	}
	if err != nil {
		e.fail(err)
		return
	}
	e.clearCard()
	e.index++
	e.nextAutoCard()
}

func (e *Engine) pendingInput() (model.Answer, bool) {
	if e.input == nil {
		return model.Answer{}, false
	}
	return e.input.PendingInput()
}

func (e *Engine) fail(err error) {
	e.logf("auto session stopped: %v\n", err)
	e.Stop()
}
