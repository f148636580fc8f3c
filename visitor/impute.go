package visitor

import (
	"github.com/riftlabs/rcf"
	"github.com/riftlabs/rcf/tree"
)

// imputeVisitor explores every leaf reachable by forking at cuts in a
// missing dimension, and keeps whichever leaf's known coordinates are
// closest (by squared Euclidean distance) to the query's known
// coordinates. Its missing-dimension values fill the query's gaps.
type imputeVisitor struct {
	query   rcf.Point
	missing map[int]bool

	have     bool
	best     rcf.Point
	bestDist float64
}

func (v *imputeVisitor) Accept(n tree.NodeView, depth int) {}

func (v *imputeVisitor) AcceptLeaf(n tree.NodeView, depth int) {
	leaf := n.Point()
	candidate := make(rcf.Point, len(v.query))
	var distSq float64
	for i, qv := range v.query {
		if v.missing[i] {
			candidate[i] = leaf[i]
			continue
		}
		candidate[i] = qv
		diff := qv - leaf[i]
		distSq += diff * diff
	}
	v.best = candidate
	v.bestDist = distSq
	v.have = true
}

func (v *imputeVisitor) Trigger(n tree.NodeView) bool {
	return v.missing[n.Cut().Dim]
}

func (v *imputeVisitor) NewCopy() tree.MultiVisitor {
	return &imputeVisitor{query: v.query, missing: v.missing}
}

func (v *imputeVisitor) Combine(other tree.MultiVisitor) {
	o := other.(*imputeVisitor)
	if !v.have || (o.have && o.bestDist < v.bestDist) {
		v.best, v.bestDist, v.have = o.best, o.bestDist, o.have
	}
}

func (v *imputeVisitor) GetResult() interface{} { return v.best }

// ImputeMultiVisitorFactory returns a factory for an imputation
// multi-visitor over query, filling the dimensions listed in missing
// from whichever leaf best matches query's known coordinates.
func ImputeMultiVisitorFactory(query rcf.Point, missing []int) tree.MultiVisitorFactory {
	missingSet := make(map[int]bool, len(missing))
	for _, d := range missing {
		missingSet[d] = true
	}
	return func() tree.MultiVisitor {
		return &imputeVisitor{query: query, missing: missingSet}
	}
}
