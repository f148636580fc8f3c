package rng

// Mock replays a fixed sequence of values, wrapping around once exhausted.
// This is the deterministic RNG the test suite seeds with the sequences
// named in the concrete scenarios (e.g. 0.625, 0.5, 0.25).
type Mock struct {
	values []float64
	pos    int
}

// NewMock returns an RNG that replays values in order, repeating from the
// start once exhausted.
func NewMock(values ...float64) *Mock {
	if len(values) == 0 {
		panic("rng: NewMock requires at least one value")
	}
	return &Mock{values: values}
}

func (m *Mock) NextDouble() float64 {
	v := m.values[m.pos%len(m.values)]
	m.pos++
	return v
}

// Calls returns how many times NextDouble has been invoked.
func (m *Mock) Calls() int {
	return m.pos
}
