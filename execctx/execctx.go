// Package execctx provides the execution context abstraction that decides
// how and where a Node's handler actually runs: inline under the caller's
// stack, serialized behind a mutex, posted to a dedicated goroutine, bounded
// by a worker pool, or deterministically stepped for tests.
//
// Grounded on the dispatch model of eventloop.Loop (task queue + single
// dispatching goroutine) and eventloop.FastState (atomic lifecycle), but
// decoupled from I/O polling, which is out of scope for this package.
package execctx

import "time"

// Context decides how a unit of work is executed relative to the caller.
type Context interface {
	// Invoke runs f, following this Context's scheduling policy. Invoke
	// may return before f has run (for async contexts) or only after
	// (for immediate/mutex contexts, and threadBound when called on its
	// target thread).
	Invoke(f func())

	// InvokeAsync always schedules f to run without blocking the caller,
	// even on a Context that is otherwise synchronous.
	InvokeAsync(f func())

	// InvokeSync runs f and blocks until it has completed, returning its
	// result. Used by tests and diagnostics that need a round trip.
	InvokeSync(f func() any) any

	// SingleTimer schedules f to run once after d elapses, returning a
	// Lifetime that cancels it.
	SingleTimer(d time.Duration, f func()) Lifetime

	// PeriodicTimer schedules f to run repeatedly every d, returning a
	// Lifetime that cancels it.
	PeriodicTimer(d time.Duration, f func()) Lifetime

	// Timestamp returns this Context's notion of "now", which for Debug
	// is the virtual clock rather than wall time.
	Timestamp() time.Time
}

// Lifetime is a cancellation handle for a scheduled timer. Cancel is
// idempotent and guarantees no further firing once it returns.
type Lifetime interface {
	Cancel()
}

type lifetimeFunc func()

func (f lifetimeFunc) Cancel() { f() }
