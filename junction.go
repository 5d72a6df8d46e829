package signal

import "sync"

// bindMu is the global bind lock serializing topology changes that could
// otherwise form a cycle no single bind call would see on its own.
var bindMu sync.Mutex

// ClosePropagation selects whether an end observed on one side of a bind
// cascades to the other side.
type ClosePropagation int

const (
	// CloseNone never propagates.
	CloseNone ClosePropagation = iota
	// CloseErrors propagates only application errors (End.Other);
	// cancelled and complete ends do not propagate.
	CloseErrors
	// CloseAll propagates every kind of end.
	CloseAll
)

// Junction is a detachable connector between a producer node and whatever
// Input its output currently targets. It is created directly over the
// producer; the producer keeps its identity and upstream state across
// disconnect/rebind.
type Junction[T any] struct {
	producer Producer[T]
}

// NewJunction wraps producer in a Junction, letting its single successor
// be disconnected and rebound without tearing the producer itself down.
func NewJunction[T any](producer Producer[T]) *Junction[T] {
	return &Junction[T]{producer: producer}
}

// Bind authenticates and installs to as the junction's successor,
// triggering activation replay if the producer is a caching variant.
// Fails with ErrLoop if to targets the producer itself.
func (j *Junction[T]) Bind(to *Input[T]) *SendError {
	bindMu.Lock()
	defer bindMu.Unlock()
	if wouldLoop(j.producer, to) {
		return newSendError(ReasonLoop, nil)
	}
	return j.producer.bindSuccessor(to)
}

// Disconnect atomically severs the edge, returning the now free-floating
// Input for later reuse. While disconnected, anything the producer emits
// is simply dropped.
func (j *Junction[T]) Disconnect() *Input[T] {
	bindMu.Lock()
	defer bindMu.Unlock()
	return j.producer.disconnectSuccessor()
}

// Rebind disconnects whatever successor is currently installed and binds
// to in a single critical section.
func (j *Junction[T]) Rebind(to *Input[T]) *SendError {
	bindMu.Lock()
	defer bindMu.Unlock()
	if wouldLoop(j.producer, to) {
		return newSendError(ReasonLoop, nil)
	}
	return j.producer.rebindSuccessor(to)
}

// wouldLoop reports whether binding producer's output to to would create
// an immediate cycle: to targets producer itself. Only this direct case is
// detected; a longer cycle through intermediate nodes (for example, binding
// a Transform's output back to an Input of that Transform's own upstream)
// is not.
func wouldLoop[T any](producer Producer[T], to *Input[T]) bool {
	targetID, ok := to.NodeID()
	if !ok {
		return false
	}
	return targetID == producer.diagID()
}
