package tree

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Dump renders the tree structure for debugging, adapted from bandit's
// Tree.PrintTree/addToTree: a metadata branch per internal node (cut
// dimension/value, mass) and a leaf per stored point.
func (t *Tree) Dump() string {
	tp := treeprint.New()
	if t.root == nilNode {
		tp.SetValue("(empty)")
		return tp.String()
	}
	t.addToTree(t.root, tp)
	return tp.String()
}

func (t *Tree) addToTree(id nodeID, tr treeprint.Tree) {
	n := t.arena.get(id)
	if n.isLeaf {
		tr.AddMetaNode(fmt.Sprintf("%d", id), fmt.Sprintf("leaf point=%v mass=%d", n.point, n.mass))
		return
	}
	branch := tr.AddMetaBranch(fmt.Sprintf("%d", id), fmt.Sprintf("cut(dim=%d,value=%g) mass=%d cached=%t", n.cut.Dim, n.cut.Value, n.mass, n.boxCached))
	t.addToTree(n.left, branch)
	t.addToTree(n.right, branch)
}
