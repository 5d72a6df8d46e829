package execctx

import "time"

// threadBound runs Invoke inline when isTargetThread reports true, and
// otherwise hands the work to a fallback async context. This models a
// context affined to one specific goroutine/thread (e.g. a UI thread or a
// test's main goroutine), matching the source's thread-affinity contexts.
type threadBound struct {
	isTargetThread func() bool
	fallback       Context
}

// ThreadBound returns a Context that runs inline only when called from the
// thread isTargetThread identifies as current; otherwise it posts the work
// to an internal serial goroutine so ordering is still preserved.
func ThreadBound(isTargetThread func() bool) Context {
	return &threadBound{isTargetThread: isTargetThread, fallback: SerialAsync()}
}

func (c *threadBound) Invoke(f func()) {
	if c.isTargetThread() {
		f()
		return
	}
	c.fallback.Invoke(f)
}

func (c *threadBound) InvokeAsync(f func()) { c.fallback.InvokeAsync(f) }

func (c *threadBound) InvokeSync(f func() any) any {
	if c.isTargetThread() {
		return f()
	}
	return c.fallback.InvokeSync(f)
}

func (c *threadBound) SingleTimer(d time.Duration, f func()) Lifetime {
	return c.fallback.SingleTimer(d, f)
}

func (c *threadBound) PeriodicTimer(d time.Duration, f func()) Lifetime {
	return c.fallback.PeriodicTimer(d, f)
}

func (c *threadBound) Timestamp() time.Time { return c.fallback.Timestamp() }

// conditionallyAsync runs inline on the target thread, and asynchronously
// (not serially) everywhere else — unlike ThreadBound it does not
// guarantee cross-thread ordering, trading that for not pinning a second
// goroutine.
type conditionallyAsync struct {
	isTargetThread func() bool
	base           Context
}

// ConditionallyAsync returns a Context that runs inline on the identified
// thread and via a fresh goroutine everywhere else.
func ConditionallyAsync(isTargetThread func() bool) Context {
	return &conditionallyAsync{isTargetThread: isTargetThread, base: Immediate()}
}

func (c *conditionallyAsync) Invoke(f func()) {
	if c.isTargetThread() {
		f()
		return
	}
	go f()
}

func (c *conditionallyAsync) InvokeAsync(f func()) { go f() }

func (c *conditionallyAsync) InvokeSync(f func() any) any {
	if c.isTargetThread() {
		return f()
	}
	result := make(chan any, 1)
	go func() { result <- f() }()
	return <-result
}

func (c *conditionallyAsync) SingleTimer(d time.Duration, f func()) Lifetime {
	return c.base.SingleTimer(d, func() { c.Invoke(f) })
}

func (c *conditionallyAsync) PeriodicTimer(d time.Duration, f func()) Lifetime {
	return c.base.PeriodicTimer(d, func() { c.Invoke(f) })
}

func (c *conditionallyAsync) Timestamp() time.Time { return c.base.Timestamp() }
