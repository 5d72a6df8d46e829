package signal

import (
	"sync"

	"github.com/google/uuid"
)

// mergeSlot is one dynamically added source feeding a MergedInput. Like
// combineSlot, it authenticates against its own activation counter so a
// source can be removed and a different one added under the same id space
// without disturbing the others.
type mergeSlot[T any] struct {
	id                 uuid.UUID
	activation         activationCounter
	producer           Producer[T]
	closeProp          ClosePropagation
	removeOnDeactivate bool
	merged             *MergedInput[T]
}

func (s *mergeSlot[T]) acceptInternal(token uint64, r Result[T]) *SendError {
	if token != s.activation.current() {
		return newSendError(ReasonDisconnected, nil)
	}
	if v, ok := r.Get(); ok {
		return s.merged.core.acceptNoAuth(Value(v))
	}
	end, _ := r.End()
	propagate := s.closeProp == CloseAll || (s.closeProp == CloseErrors && end.Kind() == Other)
	if s.removeOnDeactivate {
		s.merged.Remove(s.id)
	}
	if propagate {
		return s.merged.core.acceptNoAuth(Failure[T](end))
	}
	return nil
}

func (s *mergeSlot[T]) targetID() (uuid.UUID, bool) { return uuid.UUID{}, true }

func newMergeSlotInput[T any](s *mergeSlot[T]) *Input[T] {
	return &Input[T]{acc: s, activation: s.activation.current()}
}

// MergedInput is a producer whose set of upstream sources can grow and
// shrink while the graph is running. Every value any current source emits
// is forwarded; whether a given source's end propagates to the merged
// output is decided per source by its ClosePropagation policy.
type MergedInput[T any] struct {
	core *Node[T, T]

	mu      sync.Mutex
	active  bool
	pending []*mergeSlot[T]
	slots   map[uuid.UUID]*mergeSlot[T]
}

type mergeUpstream[T any] struct{ m *MergedInput[T] }

func (u *mergeUpstream[T]) activate() { u.m.activateAll() }
func (u *mergeUpstream[T]) cancel()   { u.m.cancelAll() }

// NewMergedInput builds an empty merge point. Use Add to feed it sources
// and Output to obtain the producer downstream code attaches to.
func NewMergedInput[T any](opts ...NodeOption) *MergedInput[T] {
	core := newNode[T, T](passthroughHandler[T], opts...)
	m := &MergedInput[T]{slots: make(map[uuid.UUID]*mergeSlot[T])}
	core.upstream = &mergeUpstream[T]{m: m}
	m.core = core
	return m
}

// Output returns the mergeable node. It behaves like any other Producer:
// Subscribe, Transform and Combine all work on it unmodified.
func (m *MergedInput[T]) Output() *Node[T, T] { return m.core }

// Add attaches source as one more feed into the merge and returns an id for
// later Remove. If the merge is already active, source is bound and
// activated immediately; otherwise the bind is deferred until the merged
// output itself activates.
func (m *MergedInput[T]) Add(source Producer[T], closeProp ClosePropagation, removeOnDeactivate bool) uuid.UUID {
	slot := &mergeSlot[T]{
		id:                 newID(),
		producer:           source,
		closeProp:          closeProp,
		removeOnDeactivate: removeOnDeactivate,
		merged:             m,
	}
	m.mu.Lock()
	m.slots[slot.id] = slot
	active := m.active
	if !active {
		m.pending = append(m.pending, slot)
	}
	m.mu.Unlock()
	if active {
		source.bindSuccessor(newMergeSlotInput(slot))
	}
	return slot.id
}

// Remove detaches the source added under id, if it is still present, and
// bumps its slot's activation token so any value already in flight from it
// is rejected with ReasonDisconnected rather than reaching the merged
// output.
func (m *MergedInput[T]) Remove(id uuid.UUID) {
	m.mu.Lock()
	slot, ok := m.slots[id]
	if ok {
		delete(m.slots, id)
	}
	m.mu.Unlock()
	if ok {
		slot.activation.bump()
		slot.producer.disconnectSuccessor()
	}
}

func (m *MergedInput[T]) activateAll() {
	m.mu.Lock()
	m.active = true
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, slot := range pending {
		slot.producer.bindSuccessor(newMergeSlotInput(slot))
	}
}

func (m *MergedInput[T]) cancelAll() {
	m.mu.Lock()
	slots := make([]*mergeSlot[T], 0, len(m.slots))
	for _, s := range m.slots {
		slots = append(slots, s)
	}
	m.slots = make(map[uuid.UUID]*mergeSlot[T])
	m.mu.Unlock()
	for _, s := range slots {
		s.producer.cancel()
	}
}
