package session

import (
	"github.com/verte-zerg/tango/internal/model"
)

// EventKind identifies an engine notification.
type EventKind int

const (
	EventStarted EventKind = iota
	EventStopped
	EventCardDrawn
	EventAnswerChecked
	EventCardSkipped
	EventProgress
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventCardDrawn:
		return "card-drawn"
	case EventAnswerChecked:
		return "answer-checked"
	case EventCardSkipped:
		return "card-skipped"
	case EventProgress:
		return "progress"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners. Only the fields relevant to Kind are set.
//
// AnswerChecked and CardSkipped fire after the record has been stored.
type Event struct {
	Kind    EventKind
	Mode    model.Mode
	Card    Card
	Result  model.EvaluationResult
	Record  model.AnswerRecord
	Current int
	Total   int
}

// Listener receives engine events on the engine's thread.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnEvent implements Listener.
func (f ListenerFunc) OnEvent(ev Event) { f(ev) }

type subscription struct {
	id       int
	listener Listener
}

// Subscribe registers l and returns a function that removes it.
func (e *Engine) Subscribe(l Listener) func() {
	e.nextSubID++
	id := e.nextSubID
	e.subs = append(e.subs, subscription{id: id, listener: l})
	return func() {
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) emit(ev Event) {
	subs := append([]subscription(nil), e.subs...)
	for _, s := range subs {
		s.listener.OnEvent(ev)
	}
}
