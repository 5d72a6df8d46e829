package execctx

import (
	"container/heap"
	"sync"
	"time"
)

// DebugContext is a deterministic coordinator with a virtual clock: no work
// happens in the background, and timers only fire when Advance is called.
// Grounded on eventloop's timer-heap scheduling model (container/heap),
// adapted into a fully synchronous, test-driven scheduler.
type DebugContext struct {
	mu      sync.Mutex
	now     time.Time
	pending timerHeapDebug
	seq     int
	queue   []func()
}

// Debug returns a new DebugContext with its virtual clock starting at the
// zero time.Time. Use Advance to move it forward.
func Debug() *DebugContext {
	return &DebugContext{}
}

func (c *DebugContext) Invoke(f func())      { c.mu.Lock(); c.queue = append(c.queue, f); c.mu.Unlock(); c.drain() }
func (c *DebugContext) InvokeAsync(f func()) { c.Invoke(f) }

func (c *DebugContext) InvokeSync(f func() any) any {
	var result any
	c.Invoke(func() { result = f() })
	return result
}

func (c *DebugContext) drain() {
	for {
		c.mu.Lock()
		if len(c.queue) == 0 {
			c.mu.Unlock()
			return
		}
		f := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()
		f()
	}
}

func (c *DebugContext) Timestamp() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Now is an alias of Timestamp, returning the current virtual time.
func (c *DebugContext) Now() time.Time { return c.Timestamp() }

// SingleTimer schedules f to run the first time Advance crosses d past the
// current virtual time.
func (c *DebugContext) SingleTimer(d time.Duration, f func()) Lifetime {
	return c.schedule(d, 0, f)
}

// PeriodicTimer schedules f to run every d of virtual time elapsed,
// re-arming itself after each firing.
func (c *DebugContext) PeriodicTimer(d time.Duration, f func()) Lifetime {
	return c.schedule(d, d, f)
}

func (c *DebugContext) schedule(delay, period time.Duration, f func()) Lifetime {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	entry := &debugTimer{
		deadline: c.now.Add(delay),
		period:   period,
		seq:      c.seq,
		fire:     f,
	}
	heap.Push(&c.pending, entry)
	return lifetimeFunc(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		entry.cancelled = true
	})
}

// Advance moves the virtual clock forward by d, running every timer whose
// deadline falls at or before the new time, in (deadline, sequence) order;
// a timer cancelled by an earlier one in the same call does not fire.
// A periodic timer fires at most once per Advance call and is then
// re-armed one period after its previous deadline, or one period after the
// new time if that deadline would not be later than the new time.
func (c *DebugContext) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	var due []*debugTimer
	for c.pending.Len() > 0 && !c.pending[0].deadline.After(target) {
		entry := heap.Pop(&c.pending).(*debugTimer)
		if entry.cancelled {
			continue
		}
		due = append(due, entry)
	}
	c.now = target
	c.mu.Unlock()

	for _, entry := range due {
		c.mu.Lock()
		cancelled := entry.cancelled
		c.mu.Unlock()
		if cancelled {
			continue
		}
		entry.fire()
		if entry.period > 0 {
			c.mu.Lock()
			if !entry.cancelled {
				entry.deadline = entry.deadline.Add(entry.period)
				if !entry.deadline.After(target) {
					entry.deadline = target.Add(entry.period)
				}
				heap.Push(&c.pending, entry)
			}
			c.mu.Unlock()
		}
	}
	c.drain()
}

type debugTimer struct {
	deadline  time.Time
	period    time.Duration
	seq       int
	cancelled bool
	fire      func()
}

type timerHeapDebug []*debugTimer

func (h timerHeapDebug) Len() int { return len(h) }
func (h timerHeapDebug) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}
func (h timerHeapDebug) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeapDebug) Push(x any)   { *h = append(*h, x.(*debugTimer)) }
func (h *timerHeapDebug) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
