package execctx

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
)

// concurrentAsync runs posted work on its own goroutine, but bounds the
// number of goroutines active at once with a weighted semaphore. Grounded
// on golang.org/x/sync usage across the example pack.
type concurrentAsync struct {
	sem  *semaphore.Weighted
	base Context
}

// ConcurrentAsync returns a Context that runs each Invoke/InvokeAsync on
// its own goroutine, never allowing more than maxParallel to run at once.
// maxParallel must be positive.
func ConcurrentAsync(maxParallel int64) Context {
	if maxParallel <= 0 {
		maxParallel = 1
	}
	return &concurrentAsync{
		sem:  semaphore.NewWeighted(maxParallel),
		base: Immediate(),
	}
}

func (c *concurrentAsync) run(f func()) {
	_ = c.sem.Acquire(context.Background(), 1)
	defer c.sem.Release(1)
	f()
}

func (c *concurrentAsync) Invoke(f func())      { go c.run(f) }
func (c *concurrentAsync) InvokeAsync(f func()) { go c.run(f) }

func (c *concurrentAsync) InvokeSync(f func() any) any {
	result := make(chan any, 1)
	go c.run(func() { result <- f() })
	return <-result
}

func (c *concurrentAsync) SingleTimer(d time.Duration, f func()) Lifetime {
	return c.base.SingleTimer(d, func() { c.Invoke(f) })
}

func (c *concurrentAsync) PeriodicTimer(d time.Duration, f func()) Lifetime {
	return c.base.PeriodicTimer(d, func() { c.Invoke(f) })
}

func (c *concurrentAsync) Timestamp() time.Time { return c.base.Timestamp() }
