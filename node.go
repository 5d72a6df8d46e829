package signal

import (
	"sync"

	"github.com/google/uuid"
	"github.com/signalgraph/signal/internal/queue"
	"github.com/signalgraph/signal/metrics"
)

// Handler is the shape of a node's processing function: it receives the
// next upstream Result and a Sink used to forward zero or more results
// downstream during this single invocation.
type Handler[S, T any] func(Result[S], *Sink[T])

// Sink is the forwarding handle passed to a Handler. Send may be called
// any number of times, including zero, during one Handler invocation.
// Once a failure has been forwarded, further Sink.Send calls are no-ops:
// a node emits at most one failure per successor.
type Sink[T any] struct {
	emit func(Result[T])
}

// Send forwards r downstream.
func (s *Sink[T]) Send(r Result[T]) {
	if s != nil && s.emit != nil {
		s.emit(r)
	}
}

// Value forwards a successful value downstream.
func (s *Sink[T]) Value(v T) { s.Send(Value(v)) }

// End forwards a terminal end downstream.
func (s *Sink[T]) End(e End) { s.Send(Failure[T](e)) }

// activatable is implemented by anything that can sit upstream of a Node
// and needs to be woken on first subscription and torn down on
// cancellation. Node, and every source constructor, implements it.
type activatable interface {
	activate()
	cancel()
}

// Producer is a Node viewed only by the type it emits, erasing the type it
// accepts. Transform, Combine, Subscribe and friends take a Producer[S] so
// they can attach to any node regardless of what that node itself
// consumes.
type Producer[S any] interface {
	activatable
	bindSuccessor(in *Input[S]) *SendError
	disconnectSuccessor() *Input[S]
	rebindSuccessor(in *Input[S]) *SendError
	attachNoReplay(in *Input[S]) *SendError
	captureState() ([]Result[S], *End)
	diagID() uuid.UUID
}

// cacheMode selects the activation-cache update rule run by dispatch.
type cacheMode int

const (
	cacheNone cacheMode = iota
	cacheContinuous
	cachePlayback
	cacheUntilActiveMode
	cacheCustom
)

// Node is one stage of the graph: it accepts Result[S] from a single
// upstream edge (or an external Input[S] for sources), runs a Handler
// outside its own mutex, and forwards whatever the handler sends through
// its Sink to its successor(s) of type T.
type Node[S, T any] struct {
	id   uuid.UUID
	name string
	cfg  *nodeConfig

	state      *fastState
	activation activationCounter

	mu      sync.Mutex
	busy    bool
	closed  bool
	handler Handler[S, T]

	multi      bool
	successor  *Input[T]
	successors []*Input[T]

	cacheMode   cacheMode
	cache       []Result[T]
	preclosed   *End
	customApply func(state any, v T) (cache bool, emitPreclosed bool)
	customState any

	deliveryQueue *queue.Chunked[queuedItem[S]]

	upstream activatable
}

type queuedItem[S any] struct {
	token  uint64
	result Result[S]
}

func newNode[S, T any](handler Handler[S, T], opts ...NodeOption) *Node[S, T] {
	cfg := resolveOptions(opts)
	id := newID()
	n := &Node[S, T]{
		id:            id,
		cfg:           cfg,
		state:         newFastState(),
		handler:       handler,
		deliveryQueue: queue.New[queuedItem[S]](),
	}
	n.name = diagName(cfg.name, id)
	return n
}

// NewNode constructs a node from scratch: handler runs against whatever is
// sent to the returned Input, forwarding through the returned Node. This
// is the primitive every other constructor (Transform, Combine, sources)
// builds on.
func NewNode[S, T any](handler Handler[S, T], opts ...NodeOption) (*Input[S], *Node[S, T]) {
	n := newNode[S, T](handler, opts...)
	return newInput[S, T](n), n
}

func (n *Node[S, T]) accept(token uint64, r Result[S]) *SendError {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		n.cfg.metrics.RecordSendRejection(ReasonDisconnected.String())
		return newSendError(ReasonDisconnected, nil)
	}
	if token != n.activation.current() {
		n.mu.Unlock()
		n.cfg.metrics.RecordSendRejection(ReasonDisconnected.String())
		return newSendError(ReasonDisconnected, nil)
	}
	if n.state.Load() == stateInactive && n.cacheMode == cacheNone {
		n.mu.Unlock()
		n.cfg.metrics.RecordSendRejection(ReasonInactive.String())
		return newSendError(ReasonInactive, nil)
	}
	n.deliveryQueue.Push(queuedItem[S]{token: token, result: r})
	n.cfg.metrics.SetQueueDepth(n.name, n.deliveryQueue.Len())
	if n.busy {
		n.mu.Unlock()
		return nil
	}
	n.busy = true
	n.mu.Unlock()
	n.pump()
	return nil
}

// acceptNoAuth enqueues r without checking an activation token, for
// combinators whose slots each authenticate against their own independent
// counter before ever reaching the shared core.
func (n *Node[S, T]) acceptNoAuth(r Result[S]) *SendError {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return newSendError(ReasonDisconnected, nil)
	}
	if n.state.Load() == stateInactive && n.cacheMode == cacheNone {
		n.mu.Unlock()
		return newSendError(ReasonInactive, nil)
	}
	n.deliveryQueue.Push(queuedItem[S]{result: r})
	n.cfg.metrics.SetQueueDepth(n.name, n.deliveryQueue.Len())
	if n.busy {
		n.mu.Unlock()
		return nil
	}
	n.busy = true
	n.mu.Unlock()
	n.pump()
	return nil
}

// pump drains the delivery queue one item at a time, running the handler
// outside the node mutex via the configured execution context. The
// continuation (re-acquire mutex, pop the next item) runs only after the
// handler for the current item has actually returned, which keeps the
// protocol correct for both synchronous and asynchronous contexts.
func (n *Node[S, T]) pump() {
	n.mu.Lock()
	if n.closed {
		n.deliveryQueue.Clear()
		n.busy = false
		n.mu.Unlock()
		return
	}
	item, ok := n.deliveryQueue.Pop()
	if !ok {
		n.busy = false
		n.mu.Unlock()
		return
	}
	n.cfg.metrics.SetQueueDepth(n.name, n.deliveryQueue.Len())
	handler := n.handler
	ctx := n.cfg.ctx
	n.mu.Unlock()

	sink := &Sink[T]{emit: n.dispatch}
	ctx.Invoke(func() {
		handler(item.result, sink)
		n.pump()
	})
}

// dispatch is the Node's own outgoing edge: it applies the activation
// cache rule, fans the result out to the successor(s), and closes the
// node the first time a failure is forwarded.
func (n *Node[S, T]) dispatch(r Result[T]) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	if v, ok := r.Get(); ok {
		n.applyCacheLocked(v)
		targets := n.targetsLocked()
		n.mu.Unlock()
		for _, t := range targets {
			t.Send(Value(v))
		}
		n.cfg.metrics.RecordDelivery(n.name, metrics.OutcomeSuccess)
		return
	}
	end, _ := r.End()
	n.closed = true
	n.state.Store(stateClosed)
	n.cfg.metrics.SetState(n.name, allNodeStates, stateClosed.String())
	if n.cacheMode == cacheContinuous || n.cacheMode == cachePlayback {
		e := end
		n.preclosed = &e
	}
	targets := n.targetsLocked()
	n.mu.Unlock()
	for _, t := range targets {
		t.Send(Failure[T](end))
	}
	n.cfg.metrics.RecordDelivery(n.name, metrics.OutcomeFailure)
	logAt(n.cfg.logger, LevelDebug, n.name, "pump", "node closed", end.Err(), nil)
}

func (n *Node[S, T]) targetsLocked() []*Input[T] {
	if n.multi {
		out := make([]*Input[T], len(n.successors))
		copy(out, n.successors)
		return out
	}
	if n.successor != nil {
		return []*Input[T]{n.successor}
	}
	return nil
}

func (n *Node[S, T]) applyCacheLocked(v T) {
	switch n.cacheMode {
	case cacheContinuous:
		if len(n.cache) == 0 {
			n.cache = make([]Result[T], 1)
		}
		n.cache[0] = Value(v)
	case cachePlayback, cacheUntilActiveMode:
		n.cache = append(n.cache, Value(v))
	case cacheCustom:
		if n.customApply != nil {
			cache, preclose := n.customApply(n.customState, v)
			if cache {
				n.cache = append(n.cache, Value(v))
			}
			if preclose {
				e := EndComplete()
				n.preclosed = &e
			}
		}
	case cacheNone:
	}
}

// bindSuccessor attaches in as this node's successor (or one of its
// successors, for a multicast node), replaying the activation cache and
// any preclosed end before returning.
func (n *Node[S, T]) bindSuccessor(in *Input[T]) *SendError {
	n.mu.Lock()
	if n.closed && n.preclosed == nil {
		n.mu.Unlock()
		return newSendError(ReasonInactive, nil)
	}
	if n.multi {
		n.successors = append(n.successors, in)
	} else {
		if n.successor != nil {
			n.mu.Unlock()
			n.cfg.metrics.RecordSendRejection(ReasonDuplicate.String())
			return newSendError(ReasonDuplicate, nil)
		}
		n.successor = in
	}
	wasInactive := n.state.Load() == stateInactive
	cacheSnapshot := append([]Result[T]{}, n.cache...)
	preclosed := n.preclosed
	if n.cacheMode == cacheUntilActiveMode {
		n.cache = nil
		n.cacheMode = cacheNone
	}
	n.mu.Unlock()

	if wasInactive {
		n.activate()
	}
	for _, v := range cacheSnapshot {
		in.Send(v)
	}
	if preclosed != nil {
		in.Send(Failure[T](*preclosed))
	}
	return nil
}

// disconnectSuccessor detaches n's current successor (single-subscriber
// nodes only) and returns it for possible reuse elsewhere. Further values
// this node emits are simply dropped until a new successor is bound.
func (n *Node[S, T]) disconnectSuccessor() *Input[T] {
	n.mu.Lock()
	old := n.successor
	n.successor = nil
	n.mu.Unlock()
	return old
}

// rebindSuccessor atomically disconnects whatever successor is currently
// bound and binds in, replaying the activation cache to it as usual.
func (n *Node[S, T]) rebindSuccessor(in *Input[T]) *SendError {
	n.mu.Lock()
	n.successor = nil
	n.mu.Unlock()
	return n.bindSuccessor(in)
}

// attachNoReplay installs in as the successor without replaying the
// activation cache, for Capture.Resume which replays an explicit snapshot
// instead so values are not delivered twice.
func (n *Node[S, T]) attachNoReplay(in *Input[T]) *SendError {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return newSendError(ReasonInactive, nil)
	}
	n.successor = in
	wasInactive := n.state.Load() == stateInactive
	n.mu.Unlock()
	if wasInactive {
		n.activate()
	}
	return nil
}

// diagID exposes this node's diagnostic identity through the erased
// Producer interface, used by Junction's loop detection.
func (n *Node[S, T]) diagID() uuid.UUID { return n.id }

// captureState snapshots this node's activation cache and preclosed end,
// satisfying Producer[T] for use by Capture.
func (n *Node[S, T]) captureState() ([]Result[T], *End) {
	n.mu.Lock()
	defer n.mu.Unlock()
	values := append([]Result[T]{}, n.cache...)
	if n.preclosed == nil {
		return values, nil
	}
	e := *n.preclosed
	return values, &e
}

func (n *Node[S, T]) activate() {
	if !n.state.TryTransition(stateInactive, stateActivating) {
		return
	}
	if n.upstream != nil {
		n.upstream.activate()
	}
	if !n.state.TryTransition(stateActivating, stateActive) {
		return
	}
	n.cfg.metrics.RecordActivation(n.name)
	n.cfg.metrics.SetState(n.name, allNodeStates, stateActive.String())
	logAt(n.cfg.logger, LevelDebug, n.name, "pump", "activated", nil, nil)
}

func (n *Node[S, T]) cancel() {
	n.dispatch(Failure[T](EndCancelled()))
	if n.upstream != nil {
		n.upstream.cancel()
	}
}

// freshInput bumps this node's activation count and mints a new Input[S]
// carrying the new generation, invalidating every Input minted before this
// call. Its only caller is FreshInput; Junction's Bind and Rebind do not
// call it.
func (n *Node[S, T]) freshInput() *Input[S] {
	n.activation.bump()
	return newInput[S, T](n)
}

// FreshInput mints a new authenticated write handle for this node's accept
// side, invalidating every Input minted before this call (including the one
// returned by NewNode or Channel). Use it to hand write access to a new
// writer while revoking a previous one, independent of anything on the
// successor side.
func (n *Node[S, T]) FreshInput() *Input[S] { return n.freshInput() }

// Name returns this node's diagnostic name.
func (n *Node[S, T]) Name() string { return n.name }

// ID returns this node's diagnostic identity.
func (n *Node[S, T]) ID() uuid.UUID { return n.id }
