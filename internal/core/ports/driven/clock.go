package driven

import "time"

// Clock supplies the current time. Components with time-based state
// (caches, backoff windows) take a Clock so tests can control time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }
