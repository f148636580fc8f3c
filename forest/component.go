// Package forest wires one or more random cut trees, each paired with its
// own sampler and a shared point store, behind a single update/traverse
// contract. Sequential and parallel executors differ only in how they fan
// the per-component work out.
package forest

import (
	"github.com/pkg/errors"

	"github.com/riftlabs/rcf"
	"github.com/riftlabs/rcf/pointstore"
	"github.com/riftlabs/rcf/sampler"
	"github.com/riftlabs/rcf/tree"
)

// resident tracks the handle and point this component currently holds for
// a live sequence index, so that an AcceptAndEvict outcome can find the
// exact point to delete from the tree.
type resident struct {
	handle pointstore.PointHandle
	point  rcf.Point
}

// Component pairs one tree with one sampler over the store they share.
// Update implements spec.md's Reject/Accept/Accept+Evict flow: the sampler
// decides, and the component is the only thing that touches both the tree
// and the store in response.
type Component struct {
	store   *pointstore.Store
	tree    *tree.Tree
	sampler sampler.Sampler

	live map[int64]resident
}

// NewComponent pairs t and s over the shared store. t and s must not be
// shared with any other Component.
func NewComponent(store *pointstore.Store, t *tree.Tree, s sampler.Sampler) *Component {
	return &Component{
		store:   store,
		tree:    t,
		sampler: s,
		live:    make(map[int64]resident),
	}
}

// Update offers point at seqIdx to the component's sampler and applies
// whatever the sampler decides. changed reports whether the tree's state
// was actually modified (false on Reject).
func (c *Component) Update(point rcf.Point, seqIdx int64) (changed bool, err error) {
	outcome := c.sampler.Decide(seqIdx, 1.0)

	switch outcome.Decision {
	case sampler.Reject:
		return false, nil

	case sampler.Accept:
		if err := c.admitAndInsert(point, seqIdx); err != nil {
			return false, err
		}
		return true, nil

	case sampler.AcceptAndEvict:
		old, ok := c.live[outcome.EvictSeqIdx]
		if !ok {
			return false, errors.Wrapf(rcf.ErrSequenceNotFound, "component: evict target seqIdx %d not resident", outcome.EvictSeqIdx)
		}
		if err := c.tree.DeletePoint(old.point, outcome.EvictSeqIdx); err != nil {
			return false, errors.Wrap(err, "component: evicting prior resident")
		}
		delete(c.live, outcome.EvictSeqIdx)

		if err := c.admitAndInsert(point, seqIdx); err != nil {
			return false, err
		}
		return true, nil

	default:
		return false, errors.Errorf("component: unrecognized sampler decision %v", outcome.Decision)
	}
}

func (c *Component) admitAndInsert(point rcf.Point, seqIdx int64) error {
	handle, err := c.store.Admit(point, seqIdx)
	if err != nil {
		return errors.Wrap(err, "component: admitting point")
	}
	if err := c.tree.AddPoint(handle, seqIdx); err != nil {
		return errors.Wrap(err, "component: inserting point")
	}
	c.live[seqIdx] = resident{handle: handle, point: point}
	return nil
}

// Traverse runs a single-path traversal against the component's tree.
func (c *Component) Traverse(point rcf.Point, factory tree.VisitorFactory) (interface{}, error) {
	return c.tree.Traverse(point, factory)
}

// TraverseMulti runs a fork/join traversal against the component's tree.
func (c *Component) TraverseMulti(point rcf.Point, factory tree.MultiVisitorFactory) (interface{}, error) {
	return c.tree.TraverseMulti(point, factory)
}

// Mass returns the component tree's current point count.
func (c *Component) Mass() int { return c.tree.Mass() }
