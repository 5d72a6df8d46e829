package execctx

import (
	"sync"
	"time"
)

// mutexContext serializes every Invoke/InvokeSync behind a single mutex,
// so concurrent callers from different goroutines observe the same total
// order a single-threaded consumer would.
type mutexContext struct {
	mu   sync.Mutex
	base Context
}

// Mutex returns a Context that runs work inline, like Immediate, but
// serializes all callers behind a mutex so overlapping Invoke calls from
// different goroutines cannot interleave.
func Mutex() Context {
	return &mutexContext{base: Immediate()}
}

func (c *mutexContext) Invoke(f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f()
}

func (c *mutexContext) InvokeAsync(f func()) {
	go c.Invoke(f)
}

func (c *mutexContext) InvokeSync(f func() any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return f()
}

func (c *mutexContext) SingleTimer(d time.Duration, f func()) Lifetime {
	return c.base.SingleTimer(d, func() { c.Invoke(f) })
}

func (c *mutexContext) PeriodicTimer(d time.Duration, f func()) Lifetime {
	return c.base.PeriodicTimer(d, func() { c.Invoke(f) })
}

func (c *mutexContext) Timestamp() time.Time { return c.base.Timestamp() }
