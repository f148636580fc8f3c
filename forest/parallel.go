package forest

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/riftlabs/rcf"
	"github.com/riftlabs/rcf/internal/telemetry"
	"github.com/riftlabs/rcf/tree"
)

// Parallel is a Forest that fans component operations out to a bounded
// worker pool. The pool's width is fixed at construction (WithPoolSize).
// Each call runs its component operations in a fresh errgroup limited to
// that width and waits for it before returning, so no pool outlives a call
// and Close has nothing to release.
type Parallel struct {
	components   []*Component
	totalUpdates int64
	collectErrs  bool
	poolSize     int
	log          *telemetry.Logger
}

// NewParallel builds a Parallel forest over components, submitting
// component operations to a worker pool of fixed size (WithPoolSize; 0
// means unbounded). Ownership of each Component passes to the forest.
func NewParallel(components []*Component, opts ...Option) *Parallel {
	cfg := newConfig(opts)
	return &Parallel{
		components:  components,
		collectErrs: true,
		poolSize:    cfg.poolSize,
		log:         cfg.log,
	}
}

func (f *Parallel) CollectErrors(v bool) { f.collectErrs = v }

func (f *Parallel) TotalUpdates() int64 { return atomic.LoadInt64(&f.totalUpdates) }

func (f *Parallel) Close() error { return nil }

func (f *Parallel) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	if f.poolSize > 0 {
		g.SetLimit(f.poolSize)
	}
	return g, gctx
}

func (f *Parallel) Update(ctx context.Context, point rcf.Point) error {
	clean := rcf.CleanCopy(point)
	seqIdx := atomic.AddInt64(&f.totalUpdates, 1)

	changed := make([]bool, len(f.components))
	g, gctx := f.group(ctx)
	for i, c := range f.components {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			didChange, err := c.Update(clean, seqIdx)
			if err != nil {
				if f.collectErrs {
					return errors.Wrapf(err, "component %d", i)
				}
				return nil
			}
			changed[i] = didChange
			return nil
		})
	}
	err := g.Wait()

	total := 0
	for _, c := range changed {
		if c {
			total++
		}
	}
	f.log.Debug("forest update", "seqIdx", seqIdx, "components_changed", total, "components_total", len(f.components))

	if err != nil {
		return errors.Wrap(err, "forest: update")
	}
	return nil
}

func (f *Parallel) Traverse(ctx context.Context, point rcf.Point, factory tree.VisitorFactory, acc Accumulator, finish Finisher) (interface{}, error) {
	return f.TraverseCollect(ctx, point, factory, asCollector(acc, finish))
}

func (f *Parallel) TraverseCollect(ctx context.Context, point rcf.Point, factory tree.VisitorFactory, collector Collector) (interface{}, error) {
	results := make([]interface{}, len(f.components))
	ok := make([]bool, len(f.components))
	g, gctx := f.group(ctx)
	for i, c := range f.components {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := c.Traverse(point, factory)
			if err != nil {
				if f.collectErrs {
					return errors.Wrapf(err, "component %d", i)
				}
				return nil
			}
			results[i] = r
			ok[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "forest: traverse")
	}

	live := make([]interface{}, 0, len(results))
	for i, r := range results {
		if ok[i] {
			live = append(live, r)
		}
	}
	return runCollector(collector, live), nil
}

func (f *Parallel) TraverseMulti(ctx context.Context, point rcf.Point, factory tree.MultiVisitorFactory, acc Accumulator, finish Finisher) (interface{}, error) {
	results := make([]interface{}, len(f.components))
	ok := make([]bool, len(f.components))
	g, gctx := f.group(ctx)
	for i, c := range f.components {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := c.TraverseMulti(point, factory)
			if err != nil {
				if f.collectErrs {
					return errors.Wrapf(err, "component %d", i)
				}
				return nil
			}
			results[i] = r
			ok[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "forest: traverseMulti")
	}

	live := make([]interface{}, 0, len(results))
	for i, r := range results {
		if ok[i] {
			live = append(live, r)
		}
	}
	return runCollector(asCollector(acc, finish), live), nil
}
