package signal

import (
	"weak"

	"github.com/google/uuid"
)

// acceptor is the write end of a node, erased of the node's own emitted
// type T so that Input[S] does not need to know it.
type acceptor[S any] interface {
	acceptInternal(token uint64, r Result[S]) *SendError
	targetID() (uuid.UUID, bool)
}

// nodeRef weakly references a Node[S, T], implementing acceptor[S]. The
// weak reference is the mechanism that lets a Node be collected once its
// last strong holder (typically a downstream Output or Node) releases it,
// even though upstream Input handles may still exist.
type nodeRef[S, T any] struct {
	w weak.Pointer[Node[S, T]]
}

func (r nodeRef[S, T]) acceptInternal(token uint64, v Result[S]) *SendError {
	n := r.w.Value()
	if n == nil {
		return newSendError(ReasonInactive, nil)
	}
	return n.accept(token, v)
}

func (r nodeRef[S, T]) targetID() (uuid.UUID, bool) {
	n := r.w.Value()
	if n == nil {
		return uuid.UUID{}, false
	}
	return n.id, true
}

// Input is the write end of an edge: sending through it delivers into
// whatever node it was minted for, as long as the activation token it
// captured at creation still matches that node's current generation.
type Input[S any] struct {
	acc        acceptor[S]
	activation uint64
}

func newInput[S, T any](n *Node[S, T]) *Input[S] {
	return &Input[S]{
		acc:        nodeRef[S, T]{w: weak.Make(n)},
		activation: n.activation.current(),
	}
}

// Send delivers r, returning a SendError if it was rejected before
// entering the graph.
func (in *Input[S]) Send(r Result[S]) *SendError {
	if in == nil || in.acc == nil {
		return newSendError(ReasonInactive, nil)
	}
	return in.acc.acceptInternal(in.activation, r)
}

// SendValue delivers a successful value.
func (in *Input[S]) SendValue(v S) *SendError { return in.Send(Value(v)) }

// Complete delivers a normal-completion end.
func (in *Input[S]) Complete() *SendError { return in.Send(Failure[S](EndComplete())) }

// Cancel delivers a cancellation end.
func (in *Input[S]) Cancel() *SendError { return in.Send(Failure[S](EndCancelled())) }

// Fail delivers an application-error end.
func (in *Input[S]) Fail(err error) *SendError { return in.Send(Failure[S](EndOther(err))) }

// NodeID returns the diagnostic identity of the node this Input targets,
// and false if that node has already been garbage collected.
func (in *Input[S]) NodeID() (uuid.UUID, bool) {
	if in == nil || in.acc == nil {
		return uuid.UUID{}, false
	}
	return in.acc.targetID()
}
