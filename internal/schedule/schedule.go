// Package schedule provides the dashboard's single logical thread.
//
// Every callback that touches widget state (timer fires, fetch completions)
// is posted onto one loop and runs to completion before the next one starts.
// In production the loop is the Bubble Tea Update loop; tests use the manual
// clock in schedule/testing.
package schedule

import (
	"context"
	"time"
)

// Timer is a handle on a pending or repeating callback.
type Timer interface {
	// Stop cancels the timer. A callback that was already queued when Stop
	// is called does not run. Stop reports whether the timer was active.
	Stop() bool
}

// Work runs off the loop and returns a continuation to run on it. A nil
// continuation is ignored.
type Work func(ctx context.Context) func()

// Scheduler serializes callbacks onto a single logical thread.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time
	// Post queues fn to run on the loop.
	Post(fn func())
	// Go runs work in the background and posts its continuation.
	Go(work Work)
	// AfterFunc posts fn once after d.
	AfterFunc(d time.Duration, fn func()) Timer
	// Every posts fn every d until stopped.
	Every(d time.Duration, fn func()) Timer
}
