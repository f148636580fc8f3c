// Package rng isolates the tree's only source of randomness behind a small
// interface, so tests can inject a deterministic replay sequence instead of
// depending on the process-global generator.
package rng

import "math/rand/v2"

// RNG produces uniform floats in [0, 1). Implementations must never be
// called from more than one goroutine concurrently; each tree owns one.
type RNG interface {
	NextDouble() float64
}

// source wraps math/rand/v2's generator, seeded explicitly so that two
// trees built with the same seed and the same sequence of operations
// produce byte-equal serialized state.
type source struct {
	r *rand.Rand
}

// New returns the default RNG, seeded deterministically from seed.
func New(seed uint64) RNG {
	return &source{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *source) NextDouble() float64 {
	return s.r.Float64()
}
