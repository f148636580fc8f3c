package tree_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/riftlabs/rcf"
	"github.com/riftlabs/rcf/pointstore"
	"github.com/riftlabs/rcf/rng"
	"github.com/riftlabs/rcf/tree"
	"github.com/riftlabs/rcf/visitor"
)

// pathRecord captures everything a probe's root-to-leaf walk saw, so a
// scenario's expected shape can be asserted purely through the public
// Traverse API instead of reaching into tree internals.
type pathRecord struct {
	leaf   bool
	mass   int
	dim    int
	value  float64
	com    []float64
	box    rcf.BoundingBox
	point  rcf.Point
	seqIdx []int64
}

type pathVisitor struct {
	records []pathRecord
}

func newPathVisitor() tree.Visitor { return &pathVisitor{} }

func (v *pathVisitor) Accept(n tree.NodeView, depth int) {
	v.records = append(v.records, pathRecord{
		mass:  n.Mass(),
		dim:   n.Cut().Dim,
		value: n.Cut().Value,
		com:   n.CenterOfMass(),
		box:   n.Box(),
	})
}

func (v *pathVisitor) AcceptLeaf(n tree.NodeView, depth int) {
	v.records = append(v.records, pathRecord{
		leaf:   true,
		mass:   n.Mass(),
		point:  n.Point(),
		seqIdx: n.SequenceIndexes(),
	})
}

func (v *pathVisitor) GetResult() interface{} { return v.records }

func pathOf(tr *tree.Tree, probe rcf.Point) []pathRecord {
	result, err := tr.Traverse(probe, newPathVisitor)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return result.([]pathRecord)
}

func buildScenario1() (*tree.Tree, *pointstore.Store) {
	store := pointstore.New(pointstore.WithDimension(2), pointstore.WithCapacity(16))
	mock := rng.NewMock(0.625, 0.5, 0.25)
	tr := tree.New(2, store, tree.WithRNG(mock), tree.WithCenterOfMass(true), tree.WithStoreSequenceIndexes(true))

	inserts := []struct {
		point rcf.Point
		seq   int64
	}{
		{rcf.Point{-1, -1}, 1},
		{rcf.Point{1, 1}, 2},
		{rcf.Point{-1, 0}, 3},
		{rcf.Point{0, 1}, 4},
		{rcf.Point{0, 1}, 5},
	}
	for _, ins := range inserts {
		h, err := store.Admit(ins.point, ins.seq)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.AddPoint(h, ins.seq)).To(Succeed())
	}
	return tr, store
}

var _ = Describe("random cut tree scenarios", func() {
	It("scenario 1: builds the exact expected shape from a mocked cut sequence", func() {
		tr, _ := buildScenario1()
		Expect(tr.Mass()).To(Equal(5))

		path := pathOf(tr, rcf.Point{-1, -1})
		Expect(path).To(HaveLen(2))
		Expect(path[0].mass).To(Equal(5))
		Expect(path[0].dim).To(Equal(1))
		Expect(path[0].value).To(Equal(-0.5))
		Expect(path[0].com).To(Equal([]float64{-0.2, 0.4}))
		Expect(path[1].leaf).To(BeTrue())
		Expect(path[1].mass).To(Equal(1))
		Expect(path[1].point).To(Equal(rcf.Point{-1, -1}))

		path = pathOf(tr, rcf.Point{1, 1})
		Expect(path).To(HaveLen(3))
		Expect(path[1].mass).To(Equal(4))
		Expect(path[1].dim).To(Equal(0))
		Expect(path[1].value).To(Equal(0.5))
		Expect(path[1].com).To(Equal([]float64{0, 0.75}))
		Expect(path[2].leaf).To(BeTrue())
		Expect(path[2].point).To(Equal(rcf.Point{1, 1}))
		Expect(path[2].mass).To(Equal(1))

		path = pathOf(tr, rcf.Point{-1, 0})
		Expect(path).To(HaveLen(4))
		Expect(path[2].mass).To(Equal(3))
		Expect(path[2].dim).To(Equal(0))
		Expect(path[2].value).To(Equal(-0.5))
		Expect(path[2].com[0]).To(BeNumerically("~", -1.0/3, 1e-9))
		Expect(path[2].com[1]).To(BeNumerically("~", 2.0/3, 1e-9))
		Expect(path[3].leaf).To(BeTrue())
		Expect(path[3].point).To(Equal(rcf.Point{-1, 0}))
		Expect(path[3].mass).To(Equal(1))

		path = pathOf(tr, rcf.Point{0, 1})
		Expect(path).To(HaveLen(4))
		Expect(path[3].leaf).To(BeTrue())
		Expect(path[3].point).To(Equal(rcf.Point{0, 1}))
		Expect(path[3].mass).To(Equal(2))
		Expect(path[3].seqIdx).To(ConsistOf(int64(4), int64(5)))

		Expect(tr.Check()).To(Succeed())
	})

	It("scenario 2: deleting (-1,0)@3 promotes its sibling and recomputes mass/com/box", func() {
		tr, _ := buildScenario1()
		Expect(tr.DeletePoint(rcf.Point{-1, 0}, 3)).To(Succeed())
		Expect(tr.Mass()).To(Equal(4))

		path := pathOf(tr, rcf.Point{0, 1})
		Expect(path).To(HaveLen(3))
		Expect(path[1].mass).To(Equal(3))
		Expect(path[1].com[0]).To(BeNumerically("~", 1.0/3, 1e-9))
		Expect(path[1].com[1]).To(BeNumerically("~", 1.0, 1e-9))
		Expect(path[1].box.Min).To(Equal([]float64{0, 1}))
		Expect(path[1].box.Max).To(Equal([]float64{1, 1}))
		Expect(path[2].leaf).To(BeTrue())
		Expect(path[2].mass).To(Equal(2))

		Expect(tr.Check()).To(Succeed())
	})

	It("scenario 3: deleting (1,1)@2 shrinks the root box to [-1,-1..0,1]", func() {
		tr, _ := buildScenario1()
		Expect(tr.DeletePoint(rcf.Point{1, 1}, 2)).To(Succeed())
		Expect(tr.Mass()).To(Equal(4))

		path := pathOf(tr, rcf.Point{-1, 0})
		root := path[0]
		Expect(root.mass).To(Equal(4))
		box := func() rcf.BoundingBox {
			result, err := tr.Traverse(rcf.Point{-1, 0}, func() tree.Visitor { return &boxVisitor{} })
			Expect(err).NotTo(HaveOccurred())
			return result.(rcf.BoundingBox)
		}()
		Expect(box.Min).To(Equal([]float64{-1, -1}))
		Expect(box.Max).To(Equal([]float64{0, 1}))

		Expect(tr.Check()).To(Succeed())
	})

	It("scenario 5: anomaly score at (0,1) matches the c(mass)-normalized isolation formula", func() {
		tr, _ := buildScenario1()
		score, err := tr.Traverse(rcf.Point{0, 1}, visitor.AnomalyScoreVisitorFactory())
		Expect(err).NotTo(HaveOccurred())
		// depth 3, total tree mass 5: c(5) = 2*H(4) - 8/5 = 77/30 = 2.566667
		// score = 2^(-3/c(5)) = 2^(-90/77) ~= 0.4448
		Expect(score.(float64)).To(BeNumerically("~", 0.4448, 1e-3))
	})

	It("scenario 6: imputeMulti fills the missing coordinate from the tree", func() {
		tr, store := buildScenario1()
		probe := rcf.Point{0, math.NaN()}
		result, err := tr.TraverseMulti(probe, visitor.ImputeMultiVisitorFactory(probe, []int{1}))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.(rcf.Point)).To(Equal(rcf.Point{0, 1}))

		h, err := store.Admit(rcf.Point{0, 0.75}, 6)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.AddPoint(h, 6)).To(Succeed())

		probe2 := rcf.Point{1, math.NaN()}
		result, err = tr.TraverseMulti(probe2, visitor.ImputeMultiVisitorFactory(probe2, []int{1}))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.(rcf.Point)).To(Equal(rcf.Point{1, 1}))
	})
})

// boxVisitor records only the root's bounding box, used to assert
// scenario 3's post-delete shrink without exposing tree internals.
type boxVisitor struct {
	box rcf.BoundingBox
	set bool
}

func (v *boxVisitor) Accept(n tree.NodeView, depth int) {
	if !v.set {
		v.box = n.Box()
		v.set = true
	}
}
func (v *boxVisitor) AcceptLeaf(n tree.NodeView, depth int) {
	if !v.set {
		v.box = n.Box()
		v.set = true
	}
}
func (v *boxVisitor) GetResult() interface{} { return v.box }
