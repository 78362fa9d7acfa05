package docsync

import "time"

// Clock abstracts timer scheduling and wall time so tests can drive the
// debounce deterministically.
type Clock interface {
	// AfterFunc schedules fn to run after d on its own goroutine.
	AfterFunc(d time.Duration, fn func()) Timer

	// Now returns the current time.
	Now() time.Time
}

// Timer is a cancellable scheduled call.
type Timer interface {
	// Stop cancels the timer. It reports whether the call was stopped
	// before firing.
	Stop() bool
}

// SystemClock returns the real-time clock.
func SystemClock() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return systemTimer{time.AfterFunc(d, fn)}
}

func (systemClock) Now() time.Time { return time.Now() }

type systemTimer struct{ t *time.Timer }

func (st systemTimer) Stop() bool { return st.t.Stop() }
