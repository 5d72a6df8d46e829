package signal

import "sync/atomic"

// Reconnector sits between a producer and the rest of the graph, giving
// its holder a disconnect/reconnect switch that drops items at the gap
// while disconnected, without tearing down whatever is subscribed
// downstream of it.
type Reconnector[T any] struct {
	connected atomic.Bool
}

// NewReconnector returns a Reconnector and the gap node downstream code
// should treat as the producer from then on: subscribing to it, combining
// it, or capturing it all work normally and are unaffected by
// Disconnect/Reconnect.
func NewReconnector[T any](producer Producer[T], opts ...NodeOption) (*Reconnector[T], *Node[T, T]) {
	r := &Reconnector[T]{}
	r.connected.Store(true)
	gap := Transform(producer, func(res Result[T], sink *Sink[T]) {
		if r.connected.Load() {
			sink.Send(res)
		}
	}, opts...)
	return r, gap
}

// Disconnect causes subsequent items to be dropped at the gap.
func (r *Reconnector[T]) Disconnect() { r.connected.Store(false) }

// Reconnect resumes normal delivery through the gap.
func (r *Reconnector[T]) Reconnect() { r.connected.Store(true) }

// Connected reports whether the gap currently forwards items.
func (r *Reconnector[T]) Connected() bool { return r.connected.Load() }
