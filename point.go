package rcf

import "math"

// Point is a fixed-dimension vector of 64-bit floats. Dimension is an
// invariant of the enclosing forest, never of the slice itself.
type Point = []float64

// CleanCopy returns a copy of p with every -0.0 coordinate coerced to +0.0,
// so that two bitwise-distinct representations of the same real value never
// cause two points to compare as different store entries.
func CleanCopy(p Point) Point {
	out := make(Point, len(p))
	for i, v := range p {
		if v == 0 {
			out[i] = 0
		} else {
			out[i] = v
		}
	}
	return out
}

// HasNaN reports whether any coordinate of p is NaN.
func HasNaN(p Point) bool {
	for _, v := range p {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
