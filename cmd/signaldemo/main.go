// Command signaldemo wires a small graph exercising Map, a multicast
// Continuous cache, a MergedInput with dynamic add/remove, and structured
// logging through logadapter, in one process.
package main

import (
	"errors"
	"fmt"

	"github.com/joeycumines/logiface"
	"github.com/signalgraph/signal"
	"github.com/signalgraph/signal/examples/logadapter"
)

func main() {
	signal.SetLogger(logadapter.New(nil, logiface.LevelInformational))

	in, node := signal.Channel[int](signal.WithName("raw"))
	doubled := signal.Map[int, int](node, func(v int) int { return v * 2 }, signal.WithName("doubled"))
	doubled.ContinuousInitial(0).Multicast()

	signal.Subscribe[int](doubled, func(r signal.Result[int]) {
		if v, ok := r.Get(); ok {
			fmt.Println("sub-a:", v)
		}
	}, signal.WithName("sub-a"))

	merged := signal.NewMergedInput[int](signal.WithName("merged"))
	signal.Subscribe[int](merged.Output(), func(r signal.Result[int]) {
		if v, ok := r.Get(); ok {
			fmt.Println("merged:", v)
			return
		}
		end, _ := r.End()
		fmt.Println("merged end:", end.Kind())
	})

	extraIn, extraNode := signal.Channel[int](signal.WithName("extra"))
	id := merged.Add(extraNode, signal.CloseErrors, true)

	for _, v := range []int{1, 2, 3} {
		_ = in.SendValue(v)
	}
	_ = extraIn.SendValue(100)
	merged.Remove(id)
	_ = extraIn.Fail(errors.New("dropped after removal"))

	signal.Subscribe[int](doubled, func(r signal.Result[int]) {
		if v, ok := r.Get(); ok {
			fmt.Println("sub-b (late):", v)
		}
	}, signal.WithName("sub-b"))

	_ = in.SendValue(4)
	_ = in.Complete()
}
