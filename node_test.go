package signal

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProducer is a minimal Producer[T] double used to observe whether a
// subscription calls cancel on its upstream, independent of whatever a
// real Node would do with that call.
type fakeProducer[T any] struct {
	successor *Input[T]
	cancelled bool
}

func (f *fakeProducer[T]) activate()            {}
func (f *fakeProducer[T]) cancel()              { f.cancelled = true }
func (f *fakeProducer[T]) bindSuccessor(in *Input[T]) *SendError {
	f.successor = in
	return nil
}
func (f *fakeProducer[T]) disconnectSuccessor() *Input[T] {
	old := f.successor
	f.successor = nil
	return old
}
func (f *fakeProducer[T]) rebindSuccessor(in *Input[T]) *SendError {
	f.successor = in
	return nil
}
func (f *fakeProducer[T]) attachNoReplay(in *Input[T]) *SendError {
	f.successor = in
	return nil
}
func (f *fakeProducer[T]) captureState() ([]Result[T], *End) { return nil, nil }
func (f *fakeProducer[T]) diagID() uuid.UUID                 { return uuid.UUID{} }

func TestMapPipeline(t *testing.T) {
	in, node := Channel[int]()
	mapped := Map[int, int](node, func(v int) int { return v * 2 })

	var got []Result[int]
	Subscribe[int](mapped, func(r Result[int]) { got = append(got, r) })

	require.Nil(t, in.SendValue(1))
	require.Nil(t, in.SendValue(2))
	require.Nil(t, in.SendValue(3))
	require.Nil(t, in.Complete())

	require.Len(t, got, 4)
	v, ok := got[0].Get()
	require.True(t, ok)
	assert.Equal(t, 2, v)
	v, ok = got[1].Get()
	require.True(t, ok)
	assert.Equal(t, 4, v)
	v, ok = got[2].Get()
	require.True(t, ok)
	assert.Equal(t, 6, v)
	end, ok := got[3].End()
	require.True(t, ok)
	assert.Equal(t, Complete, end.Kind())
}

func TestContinuousLateSubscriber(t *testing.T) {
	in, node := Channel[int]()
	node.ContinuousInitial(5).Multicast()

	var a, b []int
	Subscribe[int](node, func(r Result[int]) {
		if v, ok := r.Get(); ok {
			a = append(a, v)
		}
	})
	require.Nil(t, in.SendValue(7))
	Subscribe[int](node, func(r Result[int]) {
		if v, ok := r.Get(); ok {
			b = append(b, v)
		}
	})

	assert.Equal(t, []int{5, 7}, a)
	assert.Equal(t, []int{7}, b)
}

func TestCacheUntilActiveExclusive(t *testing.T) {
	in, node := Channel[int]()
	node.CacheUntilActive()

	require.Nil(t, in.SendValue(3))
	require.Nil(t, in.SendValue(5))

	var first []int
	Subscribe[int](node, func(r Result[int]) {
		if v, ok := r.Get(); ok {
			first = append(first, v)
		}
	})
	assert.Equal(t, []int{3, 5}, first)

	var second []Result[int]
	Subscribe[int](node, func(r Result[int]) { second = append(second, r) })
	require.Len(t, second, 1)
	end, ok := second[0].End()
	require.True(t, ok)
	assert.Equal(t, Other, end.Kind())
	var sendErr *SendError
	require.ErrorAs(t, end.Err(), &sendErr)
	assert.Equal(t, ReasonDuplicate, sendErr.Reason)
}

func TestJunctionRebind(t *testing.T) {
	in, node := Channel[int]()

	var first, second []int
	j := NewJunction[int](node)
	out1Input, out1Node := Channel[int]()
	Subscribe[int](out1Node, func(r Result[int]) {
		if v, ok := r.Get(); ok {
			first = append(first, v)
		}
	})
	require.Nil(t, j.Bind(out1Input))

	require.Nil(t, in.SendValue(0))
	require.Nil(t, in.SendValue(1))
	require.Nil(t, in.SendValue(2))

	j.Disconnect()
	require.Nil(t, in.SendValue(3))
	require.Nil(t, in.SendValue(4))
	require.Nil(t, in.SendValue(5))

	out2Input, out2Node := Channel[int]()
	Subscribe[int](out2Node, func(r Result[int]) {
		if v, ok := r.Get(); ok {
			second = append(second, v)
		}
	})
	require.Nil(t, j.Rebind(out2Input))

	require.Nil(t, in.SendValue(6))
	require.Nil(t, in.SendValue(7))
	require.Nil(t, in.SendValue(8))

	assert.Equal(t, []int{0, 1, 2}, first)
	assert.Equal(t, []int{6, 7, 8}, second)
}

func TestCombine2Termination(t *testing.T) {
	aIn, aNode := Channel[int]()
	bIn, bNode := Channel[float64]()

	type tagged struct {
		index int
		i     int
		f     float64
	}
	var got []tagged
	var ended *End

	combined := NewCombine2[int, float64, tagged](aNode, bNode, func(e Either2[int, float64], sink *Sink[tagged]) {
		switch e.Index {
		case 0:
			if v, ok := e.A.Get(); ok {
				sink.Value(tagged{index: 0, i: v})
			}
		case 1:
			if v, ok := e.B.Get(); ok {
				sink.Value(tagged{index: 1, f: v})
			}
		}
	})
	Subscribe[tagged](combined, func(r Result[tagged]) {
		if v, ok := r.Get(); ok {
			got = append(got, v)
			return
		}
		e, _ := r.End()
		ended = &e
	})

	require.Nil(t, aIn.SendValue(1))
	require.Nil(t, aIn.SendValue(3))
	require.Nil(t, aIn.Complete())
	require.Nil(t, bIn.SendValue(5.0))
	require.Nil(t, bIn.SendValue(7.0))
	require.Nil(t, bIn.Complete())

	require.Len(t, got, 4)
	assert.Equal(t, tagged{index: 0, i: 1}, got[0])
	assert.Equal(t, tagged{index: 0, i: 3}, got[1])
	assert.Equal(t, tagged{index: 1, f: 5.0}, got[2])
	assert.Equal(t, tagged{index: 1, f: 7.0}, got[3])
	assert.Nil(t, ended)
}

func TestCaptureResume(t *testing.T) {
	in, node := Channel[int]()
	node.Playback()

	require.Nil(t, in.SendValue(1))
	require.Nil(t, in.SendValue(2))

	cap := CaptureFrom[int](node)
	assert.Equal(t, 2, len(cap.Values()))

	var got []int
	outIn, outNode := Channel[int]()
	Subscribe[int](outNode, func(r Result[int]) {
		if v, ok := r.Get(); ok {
			got = append(got, v)
		}
	})
	require.Nil(t, cap.Resume(outIn, true))

	require.Nil(t, in.SendValue(3))
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestTransformDeferredBindPreservesGeneratorPrefix(t *testing.T) {
	source := Just[int]([]int{1, 2, 3})
	mapped := Map[int, int](source, func(v int) int { return v * 10 })

	var got []int
	var ended *End
	Subscribe[int](mapped, func(r Result[int]) {
		if v, ok := r.Get(); ok {
			got = append(got, v)
			return
		}
		e, _ := r.End()
		ended = &e
	})

	assert.Equal(t, []int{10, 20, 30}, got)
	require.NotNil(t, ended)
	assert.Equal(t, Complete, ended.Kind())
}

func TestSubscribeUntilEndCancelsUpstream(t *testing.T) {
	fp := &fakeProducer[int]{}

	var got []int
	SubscribeUntilEnd[int](fp, func(v int) { got = append(got, v) })
	require.NotNil(t, fp.successor)

	require.Nil(t, fp.successor.SendValue(1))
	require.Nil(t, fp.successor.Complete())

	assert.Equal(t, []int{1}, got)
	assert.True(t, fp.cancelled)
}

func TestSubscribeValuesDoesNotCancelUpstream(t *testing.T) {
	fp := &fakeProducer[int]{}

	var got []int
	SubscribeValues[int](fp, func(v int) { got = append(got, v) })
	require.NotNil(t, fp.successor)

	require.Nil(t, fp.successor.SendValue(1))
	require.Nil(t, fp.successor.Complete())

	assert.Equal(t, []int{1}, got)
	assert.False(t, fp.cancelled)
}

func TestSubscribeWhileStopsOnFalse(t *testing.T) {
	in, node := Channel[int]()

	var got []int
	SubscribeWhile[int](node, func(v int) bool {
		got = append(got, v)
		return v < 3
	})

	require.Nil(t, in.SendValue(1))
	require.Nil(t, in.SendValue(2))
	require.Nil(t, in.SendValue(3))

	// the third value trips the predicate, cancelling the output and, via
	// Cancel, the channel itself; a further send finds it disconnected.
	err := in.SendValue(4)
	require.NotNil(t, err)
	assert.Equal(t, ReasonDisconnected, err.Reason)

	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestMergedInputDynamicAddRemove(t *testing.T) {
	merged := NewMergedInput[int]()
	var got []int
	var end *End
	Subscribe[int](merged.Output(), func(r Result[int]) {
		if v, ok := r.Get(); ok {
			got = append(got, v)
			return
		}
		e, _ := r.End()
		end = &e
	})

	aIn, aNode := Channel[int]()
	merged.Add(aNode, CloseErrors, false)
	require.Nil(t, aIn.SendValue(1))

	bIn, bNode := Channel[int]()
	merged.Add(bNode, CloseErrors, false)
	require.Nil(t, bIn.SendValue(2))

	require.Nil(t, aIn.Cancel())
	require.Nil(t, bIn.Fail(assert.AnError))

	assert.Equal(t, []int{1, 2}, got)
	require.NotNil(t, end)
	assert.Equal(t, Other, end.Kind())
}
