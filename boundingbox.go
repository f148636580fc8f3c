package rcf

import "github.com/pkg/errors"

// BoundingBox is an axis-aligned min/max box over a finite set of points.
// It is a value type; callers that need a mutable accumulator build one up
// via MergedWith and reassign.
type BoundingBox struct {
	Min []float64
	Max []float64
}

// Of returns the degenerate box containing exactly point.
func Of(point []float64) BoundingBox {
	min := make([]float64, len(point))
	max := make([]float64, len(point))
	copy(min, point)
	copy(max, point)
	return BoundingBox{Min: min, Max: max}
}

// Dimension returns the box's dimensionality.
func (b BoundingBox) Dimension() int {
	return len(b.Min)
}

// MergedWith returns the smallest box enclosing b and point.
func (b BoundingBox) MergedWith(point []float64) (BoundingBox, error) {
	if len(point) != len(b.Min) {
		return BoundingBox{}, errors.Wrapf(ErrInvalidDimension, "box dim %d, point dim %d", len(b.Min), len(point))
	}
	min := make([]float64, len(b.Min))
	max := make([]float64, len(b.Max))
	for i, v := range point {
		min[i] = minFloat(b.Min[i], v)
		max[i] = maxFloat(b.Max[i], v)
	}
	return BoundingBox{Min: min, Max: max}, nil
}

// MergedWithBox returns the smallest box enclosing b and other.
func (b BoundingBox) MergedWithBox(other BoundingBox) (BoundingBox, error) {
	if other.Dimension() != b.Dimension() {
		return BoundingBox{}, errors.Wrapf(ErrInvalidDimension, "box dim %d, other dim %d", b.Dimension(), other.Dimension())
	}
	min := make([]float64, len(b.Min))
	max := make([]float64, len(b.Max))
	for i := range b.Min {
		min[i] = minFloat(b.Min[i], other.Min[i])
		max[i] = maxFloat(b.Max[i], other.Max[i])
	}
	return BoundingBox{Min: min, Max: max}, nil
}

// Contains reports whether point lies within b on every axis, inclusive.
func (b BoundingBox) Contains(point []float64) bool {
	if len(point) != len(b.Min) {
		return false
	}
	for i, v := range point {
		if v < b.Min[i] || v > b.Max[i] {
			return false
		}
	}
	return true
}

// ContainsBox reports whether other is entirely within b on every axis.
func (b BoundingBox) ContainsBox(other BoundingBox) bool {
	if other.Dimension() != b.Dimension() {
		return false
	}
	for i := range b.Min {
		if other.Min[i] < b.Min[i] || other.Max[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Equal reports whether b and other describe the same box.
func (b BoundingBox) Equal(other BoundingBox) bool {
	if b.Dimension() != other.Dimension() {
		return false
	}
	for i := range b.Min {
		if b.Min[i] != other.Min[i] || b.Max[i] != other.Max[i] {
			return false
		}
	}
	return true
}

// TotalRange is the sum of the box's per-axis side lengths.
func (b BoundingBox) TotalRange() float64 {
	var total float64
	for i := range b.Min {
		total += b.Max[i] - b.Min[i]
	}
	return total
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
