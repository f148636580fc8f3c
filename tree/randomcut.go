package tree

import (
	"math"

	"github.com/riftlabs/rcf"
	"github.com/riftlabs/rcf/rng"
)

// randomCut draws a cut on box per spec: a uniform draw scaled by the
// box's total side length picks a position along the "unrolled" perimeter,
// and the dimension it lands in becomes the cut dimension. ok is false for
// a box with zero total range (every side of length zero), which cannot be
// cut.
func randomCut(box rcf.BoundingBox, r rng.RNG) (cut rcf.Cut, ok bool) {
	total := box.TotalRange()
	if total <= 0 {
		return rcf.Cut{}, false
	}
	t := r.NextDouble() * total
	var sum float64
	for k := 0; k < box.Dimension(); k++ {
		width := box.Max[k] - box.Min[k]
		if sum+width > t {
			value := box.Min[k] + (t - sum)
			return clipCut(k, value, box), true
		}
		sum += width
	}
	// Floating-point edge case: t landed exactly on the last boundary.
	// Fall back to the last dimension with positive width.
	for k := box.Dimension() - 1; k >= 0; k-- {
		if box.Max[k] > box.Min[k] {
			return clipCut(k, math.Nextafter(box.Max[k], box.Min[k]), box), true
		}
	}
	return rcf.Cut{}, false
}

func clipCut(dim int, value float64, box rcf.BoundingBox) rcf.Cut {
	if value < box.Min[dim] {
		value = box.Min[dim]
	}
	if value >= box.Max[dim] {
		value = math.Nextafter(box.Max[dim], box.Min[dim])
	}
	return rcf.Cut{Dim: dim, Value: value}
}
