package tree

import (
	"github.com/pkg/errors"

	"github.com/riftlabs/rcf"
	"github.com/riftlabs/rcf/pointstore"
	"github.com/riftlabs/rcf/rng"
)

// PointResolver is the tree's view of the shared point store: just enough
// to resolve a handle to coordinates and to give up a handle the tree
// decides not to keep a distinct leaf for.
type PointResolver interface {
	Get(handle pointstore.PointHandle) (rcf.Point, error)
	IncRef(handle pointstore.PointHandle) (uint32, error)
	DecRef(handle pointstore.PointHandle) (uint32, error)
}

// Option configures a Tree at construction time.
type Option func(*Tree)

// WithRNG overrides the tree's random cut generator. Tests use this to
// inject rng.NewMock for deterministic scenarios.
func WithRNG(r rng.RNG) Option {
	return func(t *Tree) { t.rng = r }
}

// WithSeed seeds the default RNG. Ignored if WithRNG is also given.
func WithSeed(seed uint64) Option {
	return func(t *Tree) { t.seed = seed; t.seeded = true }
}

// WithCenterOfMass enables mass-weighted centroid tracking at every
// internal node.
func WithCenterOfMass(enabled bool) Option {
	return func(t *Tree) { t.centerOfMassEnabled = enabled }
}

// WithStoreSequenceIndexes enables the per-leaf sequence-index multiset.
func WithStoreSequenceIndexes(enabled bool) Option {
	return func(t *Tree) { t.storeSequenceIndexesEnabled = enabled }
}

// WithBoundingBoxCacheFraction sets the fraction (clamped to [0,1]) of
// internal nodes, closest to the root in BFS order, whose box is served
// directly from the cache instead of recomputed on demand.
func WithBoundingBoxCacheFraction(f float64) Option {
	return func(t *Tree) {
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		t.boundingBoxCacheFraction = f
	}
}

// Tree is a random cut tree over a shared point store. It is not safe for
// concurrent use: a single writer/reader discipline is the caller's job,
// enforced here only to the extent of rejecting structural operations
// while a traversal iterator is live (CacheStateError).
type Tree struct {
	arena *arena
	root  nodeID
	dim   int

	points PointResolver
	rng    rng.RNG
	seed   uint64
	seeded bool

	centerOfMassEnabled         bool
	storeSequenceIndexesEnabled bool
	boundingBoxCacheFraction    float64

	traversalDepth int
}

// New constructs an empty tree over dim-dimensional points backed by
// points. Center-of-mass and sequence-index tracking default to disabled;
// the bounding-box cache fraction defaults to 1 (every node cached).
func New(dim int, points PointResolver, opts ...Option) *Tree {
	t := &Tree{
		arena:                    newArena(),
		dim:                      dim,
		points:                   points,
		boundingBoxCacheFraction: 1,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		if t.seeded {
			t.rng = rng.New(t.seed)
		} else {
			t.rng = rng.New(0)
		}
	}
	return t
}

// Empty reports whether the tree currently holds no points.
func (t *Tree) Empty() bool {
	return t.root == nilNode
}

// Mass returns the total number of inserted point occurrences in the tree.
func (t *Tree) Mass() int {
	if t.root == nilNode {
		return 0
	}
	return int(t.arena.get(t.root).mass)
}

// AddPoint resolves handle through the point store and inserts it at
// seqIdx, per the incremental random-cut insertion algorithm. On any
// failure the tree is left unchanged.
func (t *Tree) AddPoint(handle pointstore.PointHandle, seqIdx int64) error {
	if t.traversalDepth > 0 {
		return errors.Wrap(rcf.ErrCacheState, "AddPoint during live traversal")
	}
	p, err := t.points.Get(handle)
	if err != nil {
		return err
	}
	if len(p) != t.dim {
		return errors.Wrapf(rcf.ErrInvalidDimension, "tree dim %d, point dim %d", t.dim, len(p))
	}
	if rcf.HasNaN(p) {
		return errors.Wrap(rcf.ErrInvalidPoint, "NaN coordinate on insert")
	}
	pointCopy := make(rcf.Point, len(p))
	copy(pointCopy, p)

	if t.root == nilNode {
		t.root = t.newLeaf(handle, pointCopy, seqIdx)
		t.recomputeCachePlan()
		return nil
	}
	newRoot, err := t.insert(t.root, handle, pointCopy, seqIdx)
	if err != nil {
		return err
	}
	t.root = newRoot
	t.arena.get(t.root).parent = nilNode
	t.recomputeCachePlan()
	return nil
}

func (t *Tree) insert(cur nodeID, handle pointstore.PointHandle, p rcf.Point, seqIdx int64) (nodeID, error) {
	n := t.arena.get(cur)
	if n.isLeaf {
		if pointsEqual(n.point, p) {
			if handle != n.handle {
				if _, err := t.points.DecRef(handle); err != nil {
					return cur, err
				}
			}
			n.mass++
			if t.storeSequenceIndexesEnabled {
				n.seqIdxs = append(n.seqIdxs, seqIdx)
			}
			if n.comSum != nil {
				addInto(n.comSum, p)
			}
			return cur, nil
		}
		return t.splitLeaf(cur, handle, p, seqIdx), nil
	}

	s := n.box()
	m, err := s.MergedWith(p)
	if err != nil {
		return cur, err
	}
	if m.Equal(s) {
		child := t.childSlot(n, n.cut.LeftOf(p))
		newChild, err := t.insert(*child, handle, p, seqIdx)
		if err != nil {
			return cur, err
		}
		*child = newChild
		t.arena.get(newChild).parent = cur
		n.mass++
		if n.comSum != nil {
			addInto(n.comSum, p)
		}
		return cur, nil
	}

	cut, _ := randomCut(m, t.rng) // m != s => total range > 0, always cuttable
	if separates(cut, p, s) {
		return t.splitInternal(cur, cut, m, handle, p, seqIdx), nil
	}

	n.setBox(m)
	child := t.childSlot(n, n.cut.LeftOf(p))
	newChild, err := t.insert(*child, handle, p, seqIdx)
	if err != nil {
		return cur, err
	}
	*child = newChild
	t.arena.get(newChild).parent = cur
	n.mass++
	if n.comSum != nil {
		addInto(n.comSum, p)
	}
	return cur, nil
}

func (t *Tree) childSlot(n *node, left bool) *nodeID {
	if left {
		return &n.left
	}
	return &n.right
}

// separates reports whether cut puts p and box s on opposite, fully
// disjoint sides: s entirely on the side opposite p.
func separates(cut rcf.Cut, p rcf.Point, s rcf.BoundingBox) bool {
	if cut.LeftOf(p) {
		return s.Min[cut.Dim] > cut.Value
	}
	return s.Max[cut.Dim] <= cut.Value
}

func (t *Tree) splitLeaf(cur nodeID, handle pointstore.PointHandle, p rcf.Point, seqIdx int64) nodeID {
	n := t.arena.get(cur)
	s := rcf.Of(n.point)
	m, _ := s.MergedWith(p)
	cut, _ := randomCut(m, t.rng)
	return t.split(cur, n.mass, n.comSum, cut, m, handle, p, seqIdx)
}

func (t *Tree) splitInternal(cur nodeID, cut rcf.Cut, m rcf.BoundingBox, handle pointstore.PointHandle, p rcf.Point, seqIdx int64) nodeID {
	n := t.arena.get(cur)
	return t.split(cur, n.mass, n.comSum, cut, m, handle, p, seqIdx)
}

func (t *Tree) split(existing nodeID, existingMass uint32, existingComSum []float64, cut rcf.Cut, box rcf.BoundingBox, handle pointstore.PointHandle, p rcf.Point, seqIdx int64) nodeID {
	newLeafID := t.newLeaf(handle, p, seqIdx)
	internalID := t.arena.alloc()
	in := t.arena.get(internalID)
	in.isLeaf = false
	in.cut = cut
	in.setBox(box)
	in.mass = existingMass + 1
	if t.centerOfMassEnabled {
		in.comSum = make([]float64, t.dim)
		copy(in.comSum, existingComSum)
		addInto(in.comSum, p)
	}
	if cut.LeftOf(p) {
		in.left, in.right = newLeafID, existing
	} else {
		in.left, in.right = existing, newLeafID
	}
	t.arena.get(in.left).parent = internalID
	t.arena.get(in.right).parent = internalID
	return internalID
}

func (t *Tree) newLeaf(handle pointstore.PointHandle, p rcf.Point, seqIdx int64) nodeID {
	id := t.arena.alloc()
	n := t.arena.get(id)
	n.isLeaf = true
	n.handle = handle
	n.point = p
	n.mass = 1
	if t.storeSequenceIndexesEnabled {
		n.seqIdxs = []int64{seqIdx}
	}
	if t.centerOfMassEnabled {
		n.comSum = make([]float64, t.dim)
		copy(n.comSum, p)
	}
	return id
}

// DeletePoint removes one occurrence of (point, seqIdx) from the tree. On
// any failure the tree is left unchanged.
func (t *Tree) DeletePoint(point rcf.Point, seqIdx int64) error {
	if t.traversalDepth > 0 {
		return errors.Wrap(rcf.ErrCacheState, "DeletePoint during live traversal")
	}
	if t.root == nilNode {
		return errors.Wrap(rcf.ErrPointNotFound, "tree is empty")
	}
	leafID, err := t.find(t.root, point)
	if err != nil {
		return err
	}
	n := t.arena.get(leafID)
	if t.storeSequenceIndexesEnabled {
		idx := indexOfInt64(n.seqIdxs, seqIdx)
		if idx < 0 {
			return errors.Wrapf(rcf.ErrSequenceNotFound, "seqIdx %d not present at matching leaf", seqIdx)
		}
		n.seqIdxs = append(n.seqIdxs[:idx], n.seqIdxs[idx+1:]...)
	}
	n.mass--
	if n.comSum != nil {
		subFrom(n.comSum, point)
	}
	handle := n.handle

	if n.mass > 0 {
		t.propagateDecrement(n.parent, point)
		t.recomputeCachePlan()
		return nil
	}

	parent := n.parent
	t.removeLeaf(leafID, parent, point)
	if _, err := t.points.DecRef(handle); err != nil {
		return err
	}
	t.recomputeCachePlan()
	return nil
}

func (t *Tree) find(cur nodeID, point rcf.Point) (nodeID, error) {
	n := t.arena.get(cur)
	if n.isLeaf {
		if pointsEqual(n.point, point) {
			return cur, nil
		}
		return nilNode, errors.Wrap(rcf.ErrPointNotFound, "point not present at matching leaf")
	}
	if !n.box().Contains(point) {
		return nilNode, errors.Wrap(rcf.ErrPointNotFound, "point falls outside subtree box")
	}
	if n.cut.LeftOf(point) {
		return t.find(n.left, point)
	}
	return t.find(n.right, point)
}

func (t *Tree) propagateDecrement(id nodeID, point rcf.Point) {
	for id != nilNode {
		n := t.arena.get(id)
		n.mass--
		if n.comSum != nil {
			subFrom(n.comSum, point)
		}
		id = n.parent
	}
}

func (t *Tree) removeLeaf(leafID, parent nodeID, point rcf.Point) {
	if parent == nilNode {
		t.arena.release(leafID)
		t.root = nilNode
		return
	}
	p := t.arena.get(parent)
	var sibling nodeID
	if p.left == leafID {
		sibling = p.right
	} else {
		sibling = p.left
	}
	grandparent := p.parent
	t.arena.get(sibling).parent = grandparent
	if grandparent == nilNode {
		t.root = sibling
	} else {
		gp := t.arena.get(grandparent)
		if gp.left == parent {
			gp.left = sibling
		} else {
			gp.right = sibling
		}
	}
	t.arena.release(leafID)
	t.arena.release(parent)
	t.propagateStructuralRemoval(grandparent, point)
}

func (t *Tree) propagateStructuralRemoval(id nodeID, point rcf.Point) {
	for id != nilNode {
		n := t.arena.get(id)
		n.mass--
		if n.comSum != nil {
			subFrom(n.comSum, point)
		}
		left := t.subtreeBox(n.left)
		right := t.subtreeBox(n.right)
		merged, _ := left.MergedWithBox(right)
		n.setBox(merged)
		id = n.parent
	}
}

func (t *Tree) subtreeBox(id nodeID) rcf.BoundingBox {
	n := t.arena.get(id)
	if n.isLeaf {
		return rcf.Of(n.point)
	}
	return n.box()
}

func pointsEqual(a, b rcf.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func addInto(dst, p []float64) {
	for i := range dst {
		dst[i] += p[i]
	}
}

func subFrom(dst, p []float64) {
	for i := range dst {
		dst[i] -= p[i]
	}
}

func indexOfInt64(s []int64, v int64) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
