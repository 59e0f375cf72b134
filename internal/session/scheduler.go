package session

import "time"

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the timer
	// was still pending.
	Stop() bool
}

// Scheduler arms one-shot callbacks. Callbacks must run on the engine's
// thread; the engine is not safe for concurrent use.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

func (e *Engine) armTimer() {
	e.cancelTimer()
	token := e.timerGen
	e.timer = e.sched.AfterFunc(e.interval, func() {
		e.onTimer(token)
	})
}

// cancelTimer stops the pending timer and invalidates its token so a
// callback already in flight is ignored.
func (e *Engine) cancelTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.timerGen++
}
