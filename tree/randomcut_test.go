package tree

import (
	"math"
	"testing"

	"github.com/riftlabs/rcf"
	"github.com/riftlabs/rcf/rng"
)

// TestRandomCutDimensionDistribution checks the Chernoff-bound property
// from the scenario suite: over many draws, the empirical share of cuts
// landing in dimension k converges to that dimension's share of the box's
// total range.
func TestRandomCutDimensionDistribution(t *testing.T) {
	box := rcf.BoundingBox{Min: []float64{0, 0, 0}, Max: []float64{1, 3, 6}}
	total := box.TotalRange()
	const trials = 100000
	r := rng.New(1234)

	counts := make([]int, box.Dimension())
	for i := 0; i < trials; i++ {
		cut, ok := randomCut(box, r)
		if !ok {
			t.Fatalf("trial %d: randomCut reported non-cuttable box", i)
		}
		counts[cut.Dim]++
	}

	for k := 0; k < box.Dimension(); k++ {
		expected := (box.Max[k] - box.Min[k]) / total
		observed := float64(counts[k]) / trials
		// Chernoff bound for a Bernoulli(p) mean over n trials: deviation
		// beyond sqrt(3*ln(2/delta)/n) holds with probability < delta per
		// side. n=1e5, delta=1e-6 gives a comfortable ~0.02 margin.
		margin := math.Sqrt(3 * math.Log(2/1e-6) / trials)
		if diff := observed - expected; diff > margin || diff < -margin {
			t.Errorf("dim %d: observed share %.4f, expected %.4f, margin %.4f", k, observed, expected, margin)
		}
	}
}

func TestRandomCutDegenerateBoxRejected(t *testing.T) {
	box := rcf.Of([]float64{1, 2, 3})
	_, ok := randomCut(box, rng.New(1))
	if ok {
		t.Fatal("expected a degenerate (zero-volume) box to be non-cuttable")
	}
}

func TestRandomCutAlwaysWithinBox(t *testing.T) {
	box := rcf.BoundingBox{Min: []float64{-2, 5}, Max: []float64{2, 9}}
	r := rng.New(99)
	for i := 0; i < 1000; i++ {
		cut, ok := randomCut(box, r)
		if !ok {
			t.Fatalf("trial %d: unexpected non-cuttable box", i)
		}
		if cut.Value < box.Min[cut.Dim] || cut.Value >= box.Max[cut.Dim] {
			t.Fatalf("trial %d: cut value %g outside [%g,%g) on dim %d", i, cut.Value, box.Min[cut.Dim], box.Max[cut.Dim], cut.Dim)
		}
	}
}
