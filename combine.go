package signal

import (
	"sync"

	"github.com/google/uuid"
)

// combineSlot is one of a combiner's N input slots. It carries its own
// activation token, independent of the other slots and of the shared
// core, so each source can be disconnected and rebound on its own.
type combineSlot[X any] struct {
	activation activationCounter
	forward    func(Result[X]) *SendError
}

func (s *combineSlot[X]) acceptInternal(token uint64, r Result[X]) *SendError {
	if token != s.activation.current() {
		return newSendError(ReasonDisconnected, nil)
	}
	return s.forward(r)
}

func (s *combineSlot[X]) targetID() (uuid.UUID, bool) { return uuid.UUID{}, true }

func newCombineInput[X any](slot *combineSlot[X]) *Input[X] {
	return &Input[X]{acc: slot, activation: slot.activation.current()}
}

// lazyActivator wires a node's upstream dependency the first time the
// node's own output activates, rather than eagerly at construction, so
// activation only ever cascades upward from a real subscriber. Used by
// Transform (a single deferred bind) and the combinators (one deferred
// bind per source).
type lazyActivator struct {
	once     sync.Once
	wire     func()
	cancelFn func()
}

func (a *lazyActivator) activate() { a.once.Do(a.wire) }
func (a *lazyActivator) cancel()   { a.cancelFn() }

// Either2 tags a result from one of two combined sources.
type Either2[A, B any] struct {
	Index int
	A     Result[A]
	B     Result[B]
}

// NewCombine2 combines two typed sources into one node. fn observes every
// result from either source, tagged by Index, and decides what (if
// anything) the combined output emits.
func NewCombine2[A, B, T any](a Producer[A], b Producer[B], fn func(Either2[A, B], *Sink[T]), opts ...NodeOption) *Node[Either2[A, B], T] {
	core := newNode[Either2[A, B], T](func(r Result[Either2[A, B]], sink *Sink[T]) {
		v, _ := r.Get() // combine's own input edge never fails; sources fail through A/B fields
		fn(v, sink)
	}, opts...)

	slotA := &combineSlot[A]{}
	slotB := &combineSlot[B]{}
	slotA.forward = func(r Result[A]) *SendError {
		return core.acceptNoAuth(Value(Either2[A, B]{Index: 0, A: r}))
	}
	slotB.forward = func(r Result[B]) *SendError {
		return core.acceptNoAuth(Value(Either2[A, B]{Index: 1, B: r}))
	}

	core.upstream = &lazyActivator{
		wire: func() {
			a.bindSuccessor(newCombineInput(slotA))
			b.bindSuccessor(newCombineInput(slotB))
		},
		cancelFn: func() {
			a.cancel()
			b.cancel()
		},
	}
	return core
}

// Either3 tags a result from one of three combined sources.
type Either3[A, B, C any] struct {
	Index   int
	A       Result[A]
	B       Result[B]
	C       Result[C]
}

// NewCombine3 combines three typed sources into one node, as NewCombine2
// does for two.
func NewCombine3[A, B, C, T any](a Producer[A], b Producer[B], c Producer[C], fn func(Either3[A, B, C], *Sink[T]), opts ...NodeOption) *Node[Either3[A, B, C], T] {
	core := newNode[Either3[A, B, C], T](func(r Result[Either3[A, B, C]], sink *Sink[T]) {
		v, _ := r.Get()
		fn(v, sink)
	}, opts...)

	slotA := &combineSlot[A]{}
	slotB := &combineSlot[B]{}
	slotC := &combineSlot[C]{}
	slotA.forward = func(r Result[A]) *SendError {
		return core.acceptNoAuth(Value(Either3[A, B, C]{Index: 0, A: r}))
	}
	slotB.forward = func(r Result[B]) *SendError {
		return core.acceptNoAuth(Value(Either3[A, B, C]{Index: 1, B: r}))
	}
	slotC.forward = func(r Result[C]) *SendError {
		return core.acceptNoAuth(Value(Either3[A, B, C]{Index: 2, C: r}))
	}

	core.upstream = &lazyActivator{
		wire: func() {
			a.bindSuccessor(newCombineInput(slotA))
			b.bindSuccessor(newCombineInput(slotB))
			c.bindSuccessor(newCombineInput(slotC))
		},
		cancelFn: func() {
			a.cancel()
			b.cancel()
			c.cancel()
		},
	}
	return core
}

// Either4 tags a result from one of four combined sources.
type Either4[A, B, C, D any] struct {
	Index   int
	A       Result[A]
	B       Result[B]
	C       Result[C]
	D       Result[D]
}

// NewCombine4 combines four typed sources into one node, as NewCombine2
// does for two.
func NewCombine4[A, B, C, D, T any](a Producer[A], b Producer[B], c Producer[C], d Producer[D], fn func(Either4[A, B, C, D], *Sink[T]), opts ...NodeOption) *Node[Either4[A, B, C, D], T] {
	core := newNode[Either4[A, B, C, D], T](func(r Result[Either4[A, B, C, D]], sink *Sink[T]) {
		v, _ := r.Get()
		fn(v, sink)
	}, opts...)

	slotA := &combineSlot[A]{}
	slotB := &combineSlot[B]{}
	slotC := &combineSlot[C]{}
	slotD := &combineSlot[D]{}
	slotA.forward = func(r Result[A]) *SendError {
		return core.acceptNoAuth(Value(Either4[A, B, C, D]{Index: 0, A: r}))
	}
	slotB.forward = func(r Result[B]) *SendError {
		return core.acceptNoAuth(Value(Either4[A, B, C, D]{Index: 1, B: r}))
	}
	slotC.forward = func(r Result[C]) *SendError {
		return core.acceptNoAuth(Value(Either4[A, B, C, D]{Index: 2, C: r}))
	}
	slotD.forward = func(r Result[D]) *SendError {
		return core.acceptNoAuth(Value(Either4[A, B, C, D]{Index: 3, D: r}))
	}

	core.upstream = &lazyActivator{
		wire: func() {
			a.bindSuccessor(newCombineInput(slotA))
			b.bindSuccessor(newCombineInput(slotB))
			c.bindSuccessor(newCombineInput(slotC))
			d.bindSuccessor(newCombineInput(slotD))
		},
		cancelFn: func() {
			a.cancel()
			b.cancel()
			c.cancel()
			d.cancel()
		},
	}
	return core
}

// Either5 tags a result from one of five combined sources.
type Either5[A, B, C, D, E any] struct {
	Index   int
	A       Result[A]
	B       Result[B]
	C       Result[C]
	D       Result[D]
	E       Result[E]
}

// NewCombine5 combines five typed sources into one node, as NewCombine2
// does for two.
func NewCombine5[A, B, C, D, E, T any](a Producer[A], b Producer[B], c Producer[C], d Producer[D], e Producer[E], fn func(Either5[A, B, C, D, E], *Sink[T]), opts ...NodeOption) *Node[Either5[A, B, C, D, E], T] {
	core := newNode[Either5[A, B, C, D, E], T](func(r Result[Either5[A, B, C, D, E]], sink *Sink[T]) {
		v, _ := r.Get()
		fn(v, sink)
	}, opts...)

	slotA := &combineSlot[A]{}
	slotB := &combineSlot[B]{}
	slotC := &combineSlot[C]{}
	slotD := &combineSlot[D]{}
	slotE := &combineSlot[E]{}
	slotA.forward = func(r Result[A]) *SendError {
		return core.acceptNoAuth(Value(Either5[A, B, C, D, E]{Index: 0, A: r}))
	}
	slotB.forward = func(r Result[B]) *SendError {
		return core.acceptNoAuth(Value(Either5[A, B, C, D, E]{Index: 1, B: r}))
	}
	slotC.forward = func(r Result[C]) *SendError {
		return core.acceptNoAuth(Value(Either5[A, B, C, D, E]{Index: 2, C: r}))
	}
	slotD.forward = func(r Result[D]) *SendError {
		return core.acceptNoAuth(Value(Either5[A, B, C, D, E]{Index: 3, D: r}))
	}
	slotE.forward = func(r Result[E]) *SendError {
		return core.acceptNoAuth(Value(Either5[A, B, C, D, E]{Index: 4, E: r}))
	}

	core.upstream = &lazyActivator{
		wire: func() {
			a.bindSuccessor(newCombineInput(slotA))
			b.bindSuccessor(newCombineInput(slotB))
			c.bindSuccessor(newCombineInput(slotC))
			d.bindSuccessor(newCombineInput(slotD))
			e.bindSuccessor(newCombineInput(slotE))
		},
		cancelFn: func() {
			a.cancel()
			b.cancel()
			c.cancel()
			d.cancel()
			e.cancel()
		},
	}
	return core
}
