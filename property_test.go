package signal

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestPropertyPrefixPreservation checks spec.md's first universal
// invariant: the sequence of values a successor observes is a prefix of
// the sequence its predecessor emitted, for any sequence of sent values
// followed by a completion.
func TestPropertyPrefixPreservation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("successor observes an exact prefix", prop.ForAll(
		func(values []int) bool {
			in, node := Channel[int]()
			var got []int
			Subscribe[int](node, func(r Result[int]) {
				if v, ok := r.Get(); ok {
					got = append(got, v)
				}
			})
			for _, v := range values {
				in.SendValue(v)
			}
			in.Complete()
			if len(got) != len(values) {
				return false
			}
			for i := range values {
				if got[i] != values[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int()),
	))

	properties.TestingRun(t)
}

// TestPropertyAtMostOneFailure checks that a node delivers at most one
// terminal End to a given successor, regardless of how many further sends
// are attempted afterward.
func TestPropertyAtMostOneFailure(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("at most one end is ever delivered", prop.ForAll(
		func(extra []int) bool {
			in, node := Channel[int]()
			endCount := 0
			Subscribe[int](node, func(r Result[int]) {
				if _, ok := r.End(); ok {
					endCount++
				}
			})
			in.SendValue(1)
			in.Complete()
			for _, v := range extra {
				in.SendValue(v)
			}
			in.Cancel()
			return endCount == 1
		},
		gen.SliceOf(gen.Int()),
	))

	properties.TestingRun(t)
}

// TestPropertyActivationTokenRejectsStale checks spec.md's activation
// token invariant: once a node's generation is bumped, an Input minted
// before the bump is rejected on every subsequent send.
func TestPropertyActivationTokenRejectsStale(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("a stale Input is always rejected after rotation", prop.ForAll(
		func(rotations int) bool {
			if rotations < 1 {
				rotations = 1
			}
			in, node := NewNode[int, int](func(r Result[int], sink *Sink[int]) {
				sink.Send(r)
			})
			Subscribe[int](node, func(Result[int]) {})

			stale := in
			for i := 0; i < rotations; i++ {
				in = node.FreshInput()
			}
			if err := stale.SendValue(1); err == nil || err.Reason != ReasonDisconnected {
				return false
			}
			return in.SendValue(1) == nil
		},
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t)
}

// TestPropertyCaptureMatchesActivationState checks that a Capture's
// (values, end) exactly reflects its upstream's activation state at the
// moment CaptureFrom ran, independent of whatever the upstream does
// afterward.
func TestPropertyCaptureMatchesActivationState(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("capture freezes the activation prefix", prop.ForAll(
		func(before, after []int) bool {
			in, node := Channel[int]()
			node.Playback()
			for _, v := range before {
				in.SendValue(v)
			}
			cap := CaptureFrom[int](node)
			captured := cap.Values()
			if len(captured) != len(before) {
				return false
			}
			for _, v := range after {
				in.SendValue(v)
			}
			_, hadEnd := cap.End()
			return !hadEnd
		},
		gen.SliceOf(gen.Int()),
		gen.SliceOf(gen.Int()),
	))

	properties.TestingRun(t)
}
