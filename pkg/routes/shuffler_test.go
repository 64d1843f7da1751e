package routes_test

import (
	"context"
	"sort"
	"testing"

	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sorted(ids []domain.NodeID) []domain.NodeID {
	out := append([]domain.NodeID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestShuffle_PreservesEdges(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		f := newFixture(t, routes.WithRandomSource(routes.NewSeededSource(seed)))
		f.connectNext(t, f.a)
		f.connectNext(t, f.b)
		f.connectNext(t, f.c)

		n := f.junction(t)
		inputs, outputs := len(n.Inputs), len(n.Outputs)
		before := f.origins(t)

		f.ext.RunRequested()

		assert.Equal(t, inputs, len(n.Inputs), "seed %d", seed)
		assert.Equal(t, outputs, len(n.Outputs), "seed %d", seed)
		assert.False(t, n.Inputs[len(n.Inputs)-1].Connected(), "seed %d", seed)
		assert.Equal(t, sorted(before), sorted(f.origins(t)), "seed %d", seed)
		assert.Equal(t, 3, n.ConnectedInputs(), "seed %d", seed)
		assert.False(t, n.State().Busy())
	}
}

func TestShuffle_SingleRouteIsIdentity(t *testing.T) {
	f := newFixture(t)
	f.connectNext(t, f.b)

	before := routes.Routes(f.g, f.junction(t))
	f.ext.Shuffler().Shuffle(f.node)

	assert.Equal(t, before, routes.Routes(f.g, f.junction(t)))
}

func TestShuffle_NoRoutes(t *testing.T) {
	f := newFixture(t)
	f.ext.Shuffler().Shuffle(f.node)

	assertShape(t, f.junction(t), 0, domain.Wildcard)
}

func TestShuffle_Deterministic(t *testing.T) {
	run := func() []domain.NodeID {
		f := newFixture(t, routes.WithRandomSource(routes.NewSeededSource(7)))
		f.connectNext(t, f.a)
		f.connectNext(t, f.b)
		f.connectNext(t, f.c)
		f.ext.RunRequested()
		return f.origins(t)
	}

	assert.Equal(t, run(), run())
}

func TestShuffle_EmitsEvent(t *testing.T) {
	var events []*domain.ShuffleEvent
	hooks := domain.LifecycleHooks{
		OnShuffle: func(_ context.Context, e *domain.ShuffleEvent) {
			events = append(events, e)
		},
	}

	f := newFixture(t, routes.WithLifecycleHooks(hooks), routes.WithRandomSource(routes.NewSeededSource(1)))
	f.connectNext(t, f.a)
	f.connectNext(t, f.b)

	f.ext.RunRequested()

	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, f.node, e.NodeID)
	assert.Equal(t, domain.PassShuffle, e.Pass)
	assert.Len(t, e.Before, 2)
	assert.Len(t, e.After, 2)
}

// stubSource returns a scripted sequence of draws.
type stubSource struct {
	draws []int
	calls []int
}

func (s *stubSource) IntN(n int) int {
	s.calls = append(s.calls, n)
	d := s.draws[0]
	s.draws = s.draws[1:]
	return d
}

func TestPermute(t *testing.T) {
	t.Run("Draw Bounds", func(t *testing.T) {
		src := &stubSource{draws: []int{0, 0, 0}}
		items := []string{"a", "b", "c", "d"}

		routes.Permute(src, items)

		assert.Equal(t, []int{4, 3, 2}, src.calls)
		// i=3 swaps with 0, i=2 with 0, i=1 with 0.
		assert.Equal(t, []string{"b", "c", "d", "a"}, items)
	})

	t.Run("Short Input", func(t *testing.T) {
		src := &stubSource{}
		one := []int{1}
		routes.Permute(src, one)
		routes.Permute(src, []int(nil))

		assert.Equal(t, []int{1}, one)
		assert.Empty(t, src.calls)
	})

	t.Run("Uniform", func(t *testing.T) {
		const trials = 6000
		src := routes.NewSeededSource(42)
		counts := make(map[[3]int]int)

		for i := 0; i < trials; i++ {
			items := []int{0, 1, 2}
			routes.Permute(src, items)
			counts[[3]int(items)]++
		}

		require.Len(t, counts, 6)
		for perm, c := range counts {
			assert.InDelta(t, trials/6, c, 150, "permutation %v", perm)
		}
	})
}
