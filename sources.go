package signal

import "sync"

// Channel creates a manual source: values sent through the returned Input
// are forwarded verbatim by the returned Node. This is the `channel()`
// primitive external code uses to feed values into the graph by hand.
func Channel[T any](opts ...NodeOption) (*Input[T], *Node[T, T]) {
	n := newNode[T, T](passthroughHandler[T], opts...)
	return newInput[T, T](n), n
}

func passthroughHandler[T any](r Result[T], sink *Sink[T]) { sink.Send(r) }

// sourceStarter drives a pure-generator Node the first time it activates,
// on the node's own execution context, exactly once.
type sourceStarter[T any] struct {
	once sync.Once
	node *Node[struct{}, T]
	run  func(*Sink[T])
}

func (s *sourceStarter[T]) activate() {
	s.once.Do(func() {
		s.node.cfg.ctx.Invoke(func() {
			sink := &Sink[T]{emit: s.node.dispatch}
			s.run(sink)
		})
	})
}

func (s *sourceStarter[T]) cancel() {}

// Generate builds an activation-driven source: the first time a subscriber
// attaches (directly or transitively), run is invoked once with a Sink to
// push values and an eventual end through.
func Generate[T any](run func(*Sink[T]), opts ...NodeOption) *Node[struct{}, T] {
	n := newNode[struct{}, T](func(Result[struct{}], *Sink[T]) {}, opts...)
	n.upstream = &sourceStarter[T]{node: n, run: run}
	return n
}

// Just emits each of values, in order, then completes.
func Just[T any](values []T, opts ...NodeOption) *Node[struct{}, T] {
	return Generate(func(sink *Sink[T]) {
		for _, v := range values {
			sink.Value(v)
		}
		sink.End(EndComplete())
	}, opts...)
}

// From emits each element of sequence, in order, then delivers end.
func From[T any](sequence []T, end End, opts ...NodeOption) *Node[struct{}, T] {
	return Generate(func(sink *Sink[T]) {
		for _, v := range sequence {
			sink.Value(v)
		}
		sink.End(end)
	}, opts...)
}

// Preclosed builds a node whose entire stream -- values and end -- is
// already decided: every subscriber, however late, replays the full
// sequence as its activation prefix.
func Preclosed[T any](values []T, end End, opts ...NodeOption) *Node[struct{}, T] {
	n := Generate(func(sink *Sink[T]) {
		for _, v := range values {
			sink.Value(v)
		}
		sink.End(end)
	}, opts...)
	n.cacheMode = cachePlayback
	n.multi = true
	return n
}

// Never builds a node that activates but never emits a value or an end.
func Never[T any](opts ...NodeOption) *Node[struct{}, T] {
	return Generate[T](func(*Sink[T]) {}, opts...)
}

// Empty builds a node that completes immediately on activation, with no
// values.
func Empty[T any](opts ...NodeOption) *Node[struct{}, T] {
	return Generate(func(sink *Sink[T]) { sink.End(EndComplete()) }, opts...)
}
