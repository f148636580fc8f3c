package sampler

import (
	"container/heap"
	"math"

	"github.com/riftlabs/rcf/rng"
)

// reservoirItem is one slot in the weighted reservoir: a priority key
// (A-Res algorithm: u^(1/weight) for u ~ Uniform(0,1)) and the sequence
// index it was admitted under.
type reservoirItem struct {
	key    float64
	seqIdx int64
}

// minHeap is a container/heap.Interface over reservoirItem, ordered so
// the smallest key - the next eviction candidate - sits at index 0.
type minHeap []reservoirItem

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].key < h[j].key }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(reservoirItem)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TimeDecayedReservoir is a weighted reservoir of fixed capacity
// sampleSize, where an item's effective weight grows with
// exp(decayRate*seqIdx): more recent sequence indices are favored to
// survive eviction, matching a sliding-window-over-a-stream bias.
type TimeDecayedReservoir struct {
	sampleSize int
	decayRate  float64
	rng        rng.RNG
	heap       minHeap

	lastEvictedSeq int64
	lastEvictedOK  bool
}

// NewTimeDecayedReservoir constructs a reservoir capped at sampleSize
// items, using r as the source of uniform draws and decayRate to weight
// recent sequence indices more heavily.
func NewTimeDecayedReservoir(sampleSize int, decayRate float64, r rng.RNG) *TimeDecayedReservoir {
	if sampleSize <= 0 {
		panic("sampler: sampleSize must be positive")
	}
	return &TimeDecayedReservoir{
		sampleSize: sampleSize,
		decayRate:  decayRate,
		rng:        r,
	}
}

// Decide implements Sampler.
func (s *TimeDecayedReservoir) Decide(seqIdx int64, weight float64) Outcome {
	s.lastEvictedOK = false

	effectiveWeight := weight * math.Exp(s.decayRate*float64(seqIdx))
	if effectiveWeight <= 0 {
		effectiveWeight = math.SmallestNonzeroFloat64
	}
	u := s.rng.NextDouble()
	if u <= 0 {
		u = math.SmallestNonzeroFloat64
	}
	key := math.Pow(u, 1/effectiveWeight)

	if s.heap.Len() < s.sampleSize {
		heap.Push(&s.heap, reservoirItem{key: key, seqIdx: seqIdx})
		return Outcome{Decision: Accept}
	}

	if key <= s.heap[0].key {
		return Outcome{Decision: Reject}
	}

	evicted := s.heap[0]
	s.heap[0] = reservoirItem{key: key, seqIdx: seqIdx}
	heap.Fix(&s.heap, 0)
	s.lastEvictedSeq = evicted.seqIdx
	s.lastEvictedOK = true
	return Outcome{Decision: AcceptAndEvict, EvictSeqIdx: evicted.seqIdx}
}

// Evicted implements Sampler.
func (s *TimeDecayedReservoir) Evicted() (int64, bool) {
	return s.lastEvictedSeq, s.lastEvictedOK
}

// Size returns the number of items currently held.
func (s *TimeDecayedReservoir) Size() int {
	return s.heap.Len()
}
