package execctx

import "time"

// serialAsync runs every posted task on a single dedicated goroutine, in
// FIFO order, without blocking the caller. Grounded on eventloop.Loop's
// single-dispatcher-goroutine-plus-task-queue model, generalized away from
// I/O polling.
type serialAsync struct {
	submit chan func()
	base   Context
}

// SerialAsync returns a Context backed by one dedicated goroutine that
// drains a FIFO queue of posted work, preserving submission order.
func SerialAsync() Context {
	c := &serialAsync{
		submit: make(chan func(), 256),
		base:   Immediate(),
	}
	go c.run()
	return c
}

func (c *serialAsync) run() {
	for f := range c.submit {
		f()
	}
}

func (c *serialAsync) Invoke(f func())      { c.submit <- f }
func (c *serialAsync) InvokeAsync(f func()) { c.submit <- f }

func (c *serialAsync) InvokeSync(f func() any) any {
	result := make(chan any, 1)
	c.submit <- func() { result <- f() }
	return <-result
}

func (c *serialAsync) SingleTimer(d time.Duration, f func()) Lifetime {
	return c.base.SingleTimer(d, func() { c.Invoke(f) })
}

func (c *serialAsync) PeriodicTimer(d time.Duration, f func()) Lifetime {
	return c.base.PeriodicTimer(d, func() { c.Invoke(f) })
}

func (c *serialAsync) Timestamp() time.Time { return c.base.Timestamp() }
