package forest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftlabs/rcf"
	"github.com/riftlabs/rcf/forest"
	"github.com/riftlabs/rcf/pointstore"
	"github.com/riftlabs/rcf/sampler"
	"github.com/riftlabs/rcf/tree"
	"github.com/riftlabs/rcf/visitor"
)

func newParallelAcceptAllComponents(t *testing.T, n int) []*forest.Component {
	t.Helper()
	store := pointstore.New(pointstore.WithDimension(2), pointstore.WithCapacity(64))
	components := make([]*forest.Component, n)
	for i := 0; i < n; i++ {
		tr := tree.New(2, store, tree.WithSeed(uint64(i+1)))
		components[i] = forest.NewComponent(store, tr, &fixedSampler{decision: sampler.Accept})
	}
	return components
}

func TestParallelUpdateInsertsIntoEveryComponentAndTracksTotal(t *testing.T) {
	components := newParallelAcceptAllComponents(t, 4)
	f := forest.NewParallel(components, forest.WithPoolSize(2))

	for i := 0; i < 10; i++ {
		require.NoError(t, f.Update(context.Background(), rcf.Point{float64(i), float64(-i)}))
	}

	assert.Equal(t, int64(10), f.TotalUpdates())
	for _, c := range components {
		assert.Equal(t, 10, c.Mass())
	}
}

func TestParallelTraverseAccumulatesAcrossComponents(t *testing.T) {
	components := newParallelAcceptAllComponents(t, 4)
	f := forest.NewParallel(components)

	for _, p := range []rcf.Point{{1, 1}, {2, 2}, {3, 3}, {-1, -1}} {
		require.NoError(t, f.Update(context.Background(), p))
	}

	result, err := f.Traverse(context.Background(), rcf.Point{1, 1}, visitor.AnomalyScoreVisitorFactory(), sumAccumulator, meanFinisher(len(components)))
	require.NoError(t, err)
	mean := result.(float64)
	assert.Greater(t, mean, 0.0)
	assert.LessOrEqual(t, mean, 1.0)
}

func TestParallelUpdatePropagatesComponentErrors(t *testing.T) {
	store := pointstore.New(pointstore.WithDimension(2), pointstore.WithCapacity(2), pointstore.WithDynamicResizing(false))
	c1 := forest.NewComponent(store, tree.New(2, store, tree.WithSeed(1)), &fixedSampler{decision: sampler.Accept})
	c2 := forest.NewComponent(store, tree.New(2, store, tree.WithSeed(2)), &fixedSampler{decision: sampler.Accept})

	f := forest.NewParallel([]*forest.Component{c1, c2})

	// Capacity 2 store, each component admits its own copy per update:
	// the first update exhausts the store (one handle per component),
	// so the second update's admissions fail with capacity exceeded.
	require.NoError(t, f.Update(context.Background(), rcf.Point{1, 1}))
	err := f.Update(context.Background(), rcf.Point{2, 2})
	assert.Error(t, err)
}

func TestParallelCloseIsNoop(t *testing.T) {
	components := newParallelAcceptAllComponents(t, 2)
	f := forest.NewParallel(components)
	assert.NoError(t, f.Close())
}
