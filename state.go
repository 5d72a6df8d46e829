package signal

import "sync/atomic"

// nodeState is a node's lifecycle state.
//
//	inactive   -> activating -> active -> closed
//	activating -> closed   (activation aborted by an immediate upstream end)
//	active     -> closed
type nodeState uint32

const (
	stateInactive nodeState = iota
	stateActivating
	stateActive
	stateClosed
)

func (s nodeState) String() string {
	switch s {
	case stateInactive:
		return "inactive"
	case stateActivating:
		return "activating"
	case stateActive:
		return "active"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var allNodeStates = []string{"inactive", "activating", "active", "closed"}

// fastState is a lock-free node lifecycle state machine, grounded on
// eventloop.FastState's CAS-only design.
type fastState struct {
	v atomic.Uint32
}

func newFastState() *fastState {
	return &fastState{}
}

func (s *fastState) Load() nodeState { return nodeState(s.v.Load()) }

func (s *fastState) Store(state nodeState) { s.v.Store(uint32(state)) }

func (s *fastState) TryTransition(from, to nodeState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}

func (s *fastState) IsClosed() bool { return s.Load() == stateClosed }

func (s *fastState) IsActive() bool { return s.Load() == stateActive }

// activationCounter is the monotonic per-node generation token. It is
// bumped by Node.FreshInput and, for a merge slot, by MergedInput.Remove;
// binding or rebinding a successor does not bump it. An Input minted before
// a bump is rejected the next time it is used, since its snapshot no
// longer matches current().
type activationCounter struct {
	v atomic.Uint64
}

func (a *activationCounter) current() uint64 { return a.v.Load() }

func (a *activationCounter) bump() uint64 { return a.v.Add(1) }
