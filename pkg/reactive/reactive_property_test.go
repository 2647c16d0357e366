package reactive

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestReactiveProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("repeated reads subscribe an effect once", prop.ForAll(
		func(reads int) bool {
			s := NewScope()
			state := s.ReactiveMap(map[string]any{"x": 0})
			s.WatchEffect(func() {
				for i := 0; i < reads; i++ {
					_ = state.Get("x")
				}
			})
			return len(s.Subscribers(state.Raw(), "x")) == 1
		},
		gen.IntRange(1, 50),
	))

	properties.Property("n writes produce n notification passes", prop.ForAll(
		func(writes int) bool {
			s := NewScope()
			state := s.ReactiveMap(map[string]any{"x": 0})
			e := s.WatchEffect(func() { _ = state.Get("x") })
			for i := 0; i < writes; i++ {
				state.Set("x", 0)
			}
			return e.Runs() == writes+1
		},
		gen.IntRange(0, 30),
	))

	properties.Property("writes only reach effects that read the key", prop.ForAll(
		func(readers []int, written int) bool {
			s := NewScope()
			fields := make(map[string]any)
			for i := 0; i < 8; i++ {
				fields[fmt.Sprintf("k%d", i)] = i
			}
			state := s.ReactiveMap(fields)

			effects := make([]*Effect, len(readers))
			for i, k := range readers {
				key := fmt.Sprintf("k%d", k)
				effects[i] = s.WatchEffect(func() { _ = state.Get(key) })
			}

			state.Set(fmt.Sprintf("k%d", written), -1)

			for i, k := range readers {
				want := 1
				if k == written {
					want = 2
				}
				if effects[i].Runs() != want {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 7)),
		gen.IntRange(0, 7),
	))

	properties.TestingRun(t)
}
