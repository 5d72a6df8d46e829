package signal

import (
	"sync"
	"weak"

	"github.com/google/uuid"
	"github.com/signalgraph/signal/internal/queue"
	"github.com/signalgraph/signal/metrics"
)

// Output is a terminal subscription: it runs a user handler once per
// delivered Result and holds its upstream chain alive for as long as it
// exists. Unlike Node it is never rebound, so its acceptance token is
// fixed at zero for its entire lifetime.
type Output[T any] struct {
	id      uuid.UUID
	name    string
	cfg     *nodeConfig
	handler func(Result[T])

	mu     sync.Mutex
	busy   bool
	closed bool
	queue  *queue.Chunked[Result[T]]

	upstream activatable
}

// newSubscription builds and binds an Output whose handler is given the
// Output itself alongside each Result, so a convenience wrapper (like
// SubscribeUntilEnd or SubscribeWhile) can call back into Cancel without
// the forward-reference problem of a handler that closes over an *Output
// not yet assigned by its own constructor: handler is wired in before
// bindSuccessor ever runs, even though bindSuccessor may invoke it
// synchronously (e.g. replaying a cache) before this function returns.
func newSubscription[T any](producer Producer[T], cfg *nodeConfig, handler func(*Output[T], Result[T])) *Output[T] {
	id := newID()
	out := &Output[T]{
		id:    id,
		cfg:   cfg,
		queue: queue.New[Result[T]](),
	}
	out.name = diagName(cfg.name, id)
	out.upstream = producer
	out.handler = func(r Result[T]) { handler(out, r) }

	in := newOutputInput(out)
	if err := producer.bindSuccessor(in); err != nil {
		// Surface the rejection as the output's only delivered result.
		out.closed = true
		out.handler(Failure[T](EndOther(err)))
	}
	return out
}

// Subscribe attaches handler as a new terminal Output of producer,
// activating the upstream chain if this is its first subscriber.
func Subscribe[T any](producer Producer[T], handler func(Result[T]), opts ...NodeOption) *Output[T] {
	cfg := resolveOptions(opts)
	return newSubscription(producer, cfg, func(_ *Output[T], r Result[T]) { handler(r) })
}

// SubscribeValues is a convenience wrapper that only observes successful
// values, ignoring the terminal end.
func SubscribeValues[T any](producer Producer[T], onValue func(T), opts ...NodeOption) *Output[T] {
	return Subscribe(producer, func(r Result[T]) {
		if v, ok := r.Get(); ok {
			onValue(v)
		}
	}, opts...)
}

// SubscribeUntilEnd observes only successful values, like SubscribeValues,
// but additionally cancels the output (tearing down its upstream chain via
// Cancel) as soon as a terminal End arrives, rather than leaving the
// producer's chain for something else to release.
func SubscribeUntilEnd[T any](producer Producer[T], onValue func(T), opts ...NodeOption) *Output[T] {
	cfg := resolveOptions(opts)
	return newSubscription(producer, cfg, func(out *Output[T], r Result[T]) {
		if v, ok := r.Get(); ok {
			onValue(v)
			return
		}
		out.Cancel()
	})
}

// SubscribeWhile observes values for as long as predicate returns true.
// The first time predicate returns false, the output cancels itself (and
// its upstream chain via Cancel) and observes nothing further.
func SubscribeWhile[T any](producer Producer[T], predicate func(T) bool, opts ...NodeOption) *Output[T] {
	cfg := resolveOptions(opts)
	return newSubscription(producer, cfg, func(out *Output[T], r Result[T]) {
		v, ok := r.Get()
		if !ok {
			return
		}
		if !predicate(v) {
			out.Cancel()
		}
	})
}

type outputRef[T any] struct {
	w weak.Pointer[Output[T]]
}

func (r outputRef[T]) acceptInternal(_ uint64, v Result[T]) *SendError {
	o := r.w.Value()
	if o == nil {
		return newSendError(ReasonInactive, nil)
	}
	return o.accept(v)
}

func (r outputRef[T]) targetID() (uuid.UUID, bool) {
	o := r.w.Value()
	if o == nil {
		return uuid.UUID{}, false
	}
	return o.id, true
}

func newOutputInput[T any](o *Output[T]) *Input[T] {
	return &Input[T]{acc: outputRef[T]{w: weak.Make(o)}}
}

func (o *Output[T]) accept(r Result[T]) *SendError {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return newSendError(ReasonDisconnected, nil)
	}
	o.queue.Push(r)
	if o.busy {
		o.mu.Unlock()
		return nil
	}
	o.busy = true
	o.mu.Unlock()
	o.pump()
	return nil
}

func (o *Output[T]) pump() {
	o.mu.Lock()
	if o.closed {
		o.queue.Clear()
		o.busy = false
		o.mu.Unlock()
		return
	}
	item, ok := o.queue.Pop()
	if !ok {
		o.busy = false
		o.mu.Unlock()
		return
	}
	handler := o.handler
	ctx := o.cfg.ctx
	_, isEnd := item.End()
	o.mu.Unlock()

	ctx.Invoke(func() {
		handler(item)
		if isEnd {
			o.mu.Lock()
			o.closed = true
			o.mu.Unlock()
			o.cfg.metrics.RecordDelivery(o.name, metrics.OutcomeSuccess)
		}
		o.pump()
	})
}

// Cancel tears this Output down, releasing its upstream chain. Resources
// held by the output are released before any further send is attempted.
func (o *Output[T]) Cancel() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.queue.Clear()
	o.mu.Unlock()
	if o.upstream != nil {
		o.upstream.cancel()
	}
}

// Name returns this output's diagnostic name.
func (o *Output[T]) Name() string { return o.name }

// ID returns this output's diagnostic identity.
func (o *Output[T]) ID() uuid.UUID { return o.id }
