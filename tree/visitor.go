package tree

import "github.com/riftlabs/rcf"

// NodeView exposes a single node's traversal-visible state: whatever a
// Visitor needs to score or fold, without handing out the node itself.
type NodeView interface {
	// Leaf reports whether this view is of a leaf node.
	Leaf() bool
	// Cut returns the node's split, meaningless for a leaf.
	Cut() rcf.Cut
	// Box returns the node's bounding box (cached field read, or
	// recomputed bottom-up when the cache policy left this node
	// uncached; either way the value is the true merge of its
	// descendants' points).
	Box() rcf.BoundingBox
	// Mass returns the node's subtree mass (1 for a fresh leaf).
	Mass() int
	// LeftOf reports which side of the node's cut point falls on.
	LeftOf(point rcf.Point) bool
	// CenterOfMass returns the node's mass-weighted centroid, or nil if
	// center-of-mass tracking is disabled for this tree.
	CenterOfMass() []float64
	// Point returns the leaf's stored point, or nil for an internal node.
	Point() rcf.Point
	// SequenceIndexes returns the leaf's sequence-index multiset, or nil
	// when either this is not a leaf or tracking is disabled.
	SequenceIndexes() []int64
}

// Visitor is folded into a traversal from root to leaf; most visitors
// only read state root-to-leaf and compute a result at the leaf, but
// PathPostOrder opts into a second, post-order accept call on the way
// back up.
type Visitor interface {
	Accept(n NodeView, depth int)
	AcceptLeaf(n NodeView, depth int)
	GetResult() interface{}
}

// PathPostOrderVisitor is an optional capability: a Visitor that also
// wants Accept called again, bottom-up, as traversal unwinds.
type PathPostOrderVisitor interface {
	Visitor
	PathPostOrder() bool
}

// MultiVisitor supports traverseMulti's fork/join protocol: at any
// internal node it may ask to be forked into both children instead of
// following the cut, and the two resulting copies are later combined.
type MultiVisitor interface {
	Accept(n NodeView, depth int)
	AcceptLeaf(n NodeView, depth int)
	GetResult() interface{}
	Trigger(n NodeView) bool
	NewCopy() MultiVisitor
	Combine(other MultiVisitor)
}

// VisitorFactory constructs a fresh Visitor for one traversal.
type VisitorFactory func() Visitor

// MultiVisitorFactory constructs a fresh MultiVisitor for one traversal.
type MultiVisitorFactory func() MultiVisitor

// nodeView is the concrete NodeView backed directly by the tree's arena.
type nodeView struct {
	t  *Tree
	id nodeID
}

func (v nodeView) n() *node { return v.t.arena.get(v.id) }

func (v nodeView) Leaf() bool   { return v.n().isLeaf }
func (v nodeView) Cut() rcf.Cut { return v.n().cut }
func (v nodeView) Mass() int    { return int(v.n().mass) }
func (v nodeView) Point() rcf.Point {
	n := v.n()
	if !n.isLeaf {
		return nil
	}
	return n.point
}

func (v nodeView) LeftOf(point rcf.Point) bool {
	n := v.n()
	if n.isLeaf {
		return false
	}
	return n.cut.LeftOf(point)
}

func (v nodeView) CenterOfMass() []float64 {
	return v.n().centerOfMass()
}

func (v nodeView) SequenceIndexes() []int64 {
	n := v.n()
	if !n.isLeaf {
		return nil
	}
	return n.seqIdxs
}

// Box returns the accurate merged box regardless of the node's cache
// flag; the flag only matters for the cost model, never the value, since
// this tree always keeps every internal node's box field current.
func (v nodeView) Box() rcf.BoundingBox {
	n := v.n()
	if n.isLeaf {
		return rcf.Of(n.point)
	}
	if n.boxCached {
		return n.box()
	}
	return v.t.recomputeBox(v.id)
}

// recomputeBox walks down from id merging leaf points, ignoring the
// cached field entirely, as an uncached NodeView.Box() is specified to do.
func (t *Tree) recomputeBox(id nodeID) rcf.BoundingBox {
	n := t.arena.get(id)
	if n.isLeaf {
		return rcf.Of(n.point)
	}
	left := t.recomputeBox(n.left)
	right := t.recomputeBox(n.right)
	merged, _ := left.MergedWithBox(right)
	return merged
}
