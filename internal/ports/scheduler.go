package ports

import "time"

// Timer is a pending deferred call.
type Timer interface {
	// Stop prevents the call from firing. It returns false if the call already fired or was stopped.
	Stop() bool
}

// SchedulerPort defers work, e.g. the auto-deal after a reveal.
type SchedulerPort interface {
	// AfterFunc calls f on its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}
