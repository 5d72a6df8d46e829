package execctx

import (
	"sync"
	"time"
)

// immediate runs work inline, on the calling goroutine, with no
// serialization of its own. Async work is pushed onto a throwaway
// goroutine, since "async" on an immediate context still must not block
// the caller.
type immediate struct{}

// Immediate returns a Context that runs everything synchronously on the
// calling goroutine. It is the default for newly constructed nodes,
// matching the source library's single-threaded default.
func Immediate() Context { return immediate{} }

func (immediate) Invoke(f func())      { f() }
func (immediate) InvokeAsync(f func()) { go f() }
func (immediate) InvokeSync(f func() any) any { return f() }

func (immediate) SingleTimer(d time.Duration, f func()) Lifetime {
	t := time.AfterFunc(d, f)
	return lifetimeFunc(func() { t.Stop() })
}

func (immediate) PeriodicTimer(d time.Duration, f func()) Lifetime {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	var once sync.Once
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				f()
			}
		}
	}()
	return lifetimeFunc(func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	})
}

func (immediate) Timestamp() time.Time { return time.Now() }
