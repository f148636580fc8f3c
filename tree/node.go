package tree

import (
	"github.com/riftlabs/rcf"
	"github.com/riftlabs/rcf/pointstore"
)

// node is a tagged variant: isLeaf selects which half of the struct is
// meaningful. Internal and leaf nodes share one id space so the parent
// back-pointer is uniform regardless of what the child is.
type node struct {
	parent nodeID
	left   nodeID
	right  nodeID
	isLeaf bool
	mass   uint32

	// internal-only
	cut       rcf.Cut
	boxMin    []float64
	boxMax    []float64
	boxCached bool
	comSum    []float64 // mass-weighted sum of leaf points; nil when disabled

	// leaf-only
	handle  pointstore.PointHandle
	point   rcf.Point
	seqIdxs []int64 // present only when storeSequenceIndexes is enabled
}

func (n *node) box() rcf.BoundingBox {
	return rcf.BoundingBox{Min: n.boxMin, Max: n.boxMax}
}

func (n *node) setBox(b rcf.BoundingBox) {
	n.boxMin = b.Min
	n.boxMax = b.Max
}

// centerOfMass returns the mass-weighted mean of n's subtree, or nil if
// center-of-mass tracking is disabled for this node's tree.
func (n *node) centerOfMass() []float64 {
	if n.comSum == nil {
		return nil
	}
	out := make([]float64, len(n.comSum))
	for i, v := range n.comSum {
		out[i] = v / float64(n.mass)
	}
	return out
}
