package rcf

// Cut is an axis-aligned split: x is on the left iff x[Dim] <= Value. Ties
// go left, always.
type Cut struct {
	Dim   int
	Value float64
}

// LeftOf reports whether point falls on the left side of the cut.
func (c Cut) LeftOf(point []float64) bool {
	return point[c.Dim] <= c.Value
}
