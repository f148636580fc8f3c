package visitor

import (
	"math"

	"github.com/riftlabs/rcf/tree"
)

// averagePathLength is the isolation-forest normalization constant c(n): the
// expected depth at which a random binary search tree over n points isolates
// one of them. c(n) = 2H(n-1) - 2(n-1)/n, with H the harmonic number computed
// by direct summation rather than its logarithmic approximation. The visitor
// evaluates it once per traversal, at the total mass of the tree.
func averagePathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := 0.0
	for i := 1; i < n; i++ {
		h += 1.0 / float64(i)
	}
	return 2*h - 2*float64(n-1)/float64(n)
}

// anomalyScoreVisitor scores a query by how few cuts were needed to isolate
// it, normalized against the average isolation depth for a tree holding the
// same total mass: score = 2^(-depth/c(mass)). A point separated from the
// rest of the tree in far fewer cuts than average scores close to 1; a point
// that sits deep among its neighbors scores close to 0.
type anomalyScoreVisitor struct {
	totalMass int
	haveMass  bool
	score     float64
}

func (v *anomalyScoreVisitor) Accept(n tree.NodeView, depth int) {
	if depth == 0 {
		v.totalMass = n.Mass()
		v.haveMass = true
	}
}

func (v *anomalyScoreVisitor) AcceptLeaf(n tree.NodeView, depth int) {
	if !v.haveMass {
		v.totalMass = n.Mass()
	}
	c := averagePathLength(v.totalMass)
	if c <= 0 {
		v.score = 0
		return
	}
	v.score = math.Exp2(-float64(depth) / c)
}

func (v *anomalyScoreVisitor) GetResult() interface{} { return v.score }

// AnomalyScoreVisitorFactory returns a factory for a single-tree anomaly
// score visitor.
func AnomalyScoreVisitorFactory() tree.VisitorFactory {
	return func() tree.Visitor { return &anomalyScoreVisitor{} }
}
