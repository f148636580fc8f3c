package tree

import (
	"github.com/pkg/errors"

	"github.com/riftlabs/rcf"
)

// Traverse walks from the root to the leaf on point's side of every cut,
// folding nodes into a single Visitor, and returns its result. Structural
// operations (AddPoint, DeletePoint) are rejected with CacheStateError
// while any traversal is in flight on this tree.
func (t *Tree) Traverse(point rcf.Point, factory VisitorFactory) (interface{}, error) {
	if t.root == nilNode {
		return nil, errors.Wrap(rcf.ErrEmptyTree, "traverse on empty tree")
	}
	t.traversalDepth++
	defer func() { t.traversalDepth-- }()

	v := factory()
	t.walk(t.root, 0, point, v)
	return v.GetResult(), nil
}

func (t *Tree) walk(id nodeID, depth int, point rcf.Point, v Visitor) {
	n := t.arena.get(id)
	view := nodeView{t: t, id: id}
	if n.isLeaf {
		v.AcceptLeaf(view, depth)
		return
	}
	v.Accept(view, depth)
	next := n.right
	if n.cut.LeftOf(point) {
		next = n.left
	}
	t.walk(next, depth+1, point, v)
	if ppo, ok := v.(PathPostOrderVisitor); ok && ppo.PathPostOrder() {
		v.Accept(view, depth)
	}
}

// TraverseMulti walks the tree per Traverse, but at every internal node
// asks the MultiVisitor whether to fork into both children. Forked copies
// each descend one side and are joined back together with Combine once
// both return.
func (t *Tree) TraverseMulti(point rcf.Point, factory MultiVisitorFactory) (interface{}, error) {
	if t.root == nilNode {
		return nil, errors.Wrap(rcf.ErrEmptyTree, "traverseMulti on empty tree")
	}
	t.traversalDepth++
	defer func() { t.traversalDepth-- }()

	v := factory()
	result := t.walkMulti(t.root, 0, point, v)
	return result.GetResult(), nil
}

func (t *Tree) walkMulti(id nodeID, depth int, point rcf.Point, v MultiVisitor) MultiVisitor {
	n := t.arena.get(id)
	view := nodeView{t: t, id: id}
	if n.isLeaf {
		v.AcceptLeaf(view, depth)
		return v
	}
	v.Accept(view, depth)
	if v.Trigger(view) {
		left := v
		right := v.NewCopy()
		leftResult := t.walkMulti(n.left, depth+1, point, left)
		rightResult := t.walkMulti(n.right, depth+1, point, right)
		leftResult.Combine(rightResult)
		return leftResult
	}
	next := n.right
	if n.cut.LeftOf(point) {
		next = n.left
	}
	return t.walkMulti(next, depth+1, point, v)
}
