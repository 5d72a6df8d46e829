package signal

// Transform attaches handler to upstream's output: every Result[S] upstream
// emits is handed to handler along with a Sink[T], which decides what (if
// anything) reaches the returned node's own successors.
//
// The bind to upstream is deferred until n itself activates (i.e. until n
// gets its own first observer), so a pure generator upstream (Generate,
// Just, From) is never started just because a Transform happened to be
// built over it.
func Transform[S, T any](upstream Producer[S], handler Handler[S, T], opts ...NodeOption) *Node[S, T] {
	n := newNode[S, T](handler, opts...)
	in := newInput[S, T](n)
	n.upstream = &lazyActivator{
		wire: func() {
			if err := upstream.bindSuccessor(in); err != nil {
				logAt(n.cfg.logger, LevelWarn, n.name, "pump", "transform bind rejected", err, nil)
			}
		},
		cancelFn: upstream.cancel,
	}
	return n
}

// Map is a thin convenience built on Transform for the common case of a
// pure, always-succeeding value conversion; failures pass through
// untouched.
func Map[S, T any](upstream Producer[S], f func(S) T, opts ...NodeOption) *Node[S, T] {
	return Transform(upstream, func(r Result[S], sink *Sink[T]) {
		sink.Send(MapResult(r, f))
	}, opts...)
}

// Filter is a thin convenience built on Transform: only values for which
// keep returns true reach the successor; ends always pass through.
func Filter[T any](upstream Producer[T], keep func(T) bool, opts ...NodeOption) *Node[T, T] {
	return Transform(upstream, func(r Result[T], sink *Sink[T]) {
		if v, ok := r.Get(); ok {
			if keep(v) {
				sink.Value(v)
			}
			return
		}
		sink.Send(r)
	}, opts...)
}
