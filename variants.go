package signal

// Continuous configures n to cache only its most recent value, replaying
// it (and a preclosed end, if any) to each newly attaching successor.
// Must be called before the first successor attaches.
func (n *Node[S, T]) Continuous() *Node[S, T] {
	n.mu.Lock()
	n.cacheMode = cacheContinuous
	n.mu.Unlock()
	return n
}

// ContinuousInitial is Continuous, seeded with an initial cached value so
// the very first subscriber has something to replay even before any value
// has actually been emitted.
func (n *Node[S, T]) ContinuousInitial(v T) *Node[S, T] {
	n.mu.Lock()
	n.cacheMode = cacheContinuous
	n.cache = []Result[T]{Value(v)}
	n.mu.Unlock()
	return n
}

// Playback configures n to cache every value it has ever emitted, in
// order, replaying the full history to each newly attaching successor.
func (n *Node[S, T]) Playback() *Node[S, T] {
	n.mu.Lock()
	n.cacheMode = cachePlayback
	n.mu.Unlock()
	return n
}

// CacheUntilActive configures n to cache every value until its first
// successor attaches; the cache is then replayed once, emptied, and
// disabled. Unless n is also Multicast, any further attach attempt fails
// with ErrDuplicate.
func (n *Node[S, T]) CacheUntilActive() *Node[S, T] {
	n.mu.Lock()
	n.cacheMode = cacheUntilActiveMode
	n.mu.Unlock()
	return n
}

// Multicast configures n to fan out to every attached successor instead of
// rejecting a second bind attempt. It composes with any cache mode: a
// plain Multicast (cache mode left at its default, none) delivers only
// values emitted after each successor attaches, while Multicast combined
// with Continuous/Playback also replays the usual cache to each newly
// attaching successor independently. Combined with CacheUntilActive, only
// the first successor receives the cached values.
func (n *Node[S, T]) Multicast() *Node[S, T] {
	n.mu.Lock()
	n.multi = true
	n.mu.Unlock()
	return n
}

// CustomActivation configures n with an opaque cache state and an apply
// function run on every emitted value: apply decides whether the value
// joins the activation cache and whether it also marks the node preclosed
// with a normal completion.
func (n *Node[S, T]) CustomActivation(initial any, apply func(state any, v T) (cache bool, emitPreclosed bool)) *Node[S, T] {
	n.mu.Lock()
	n.cacheMode = cacheCustom
	n.customState = initial
	n.customApply = apply
	n.mu.Unlock()
	return n
}
