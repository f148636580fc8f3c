package forest

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/riftlabs/rcf"
	"github.com/riftlabs/rcf/internal/telemetry"
	"github.com/riftlabs/rcf/tree"
)

// Sequential is a Forest that visits its components in order, on the
// caller's goroutine. It is the only executor that supports
// TraverseConverging, since early exit is only meaningful when components
// are visited one at a time.
type Sequential struct {
	components   []*Component
	totalUpdates int64
	collectErrs  bool
	log          *telemetry.Logger
}

// NewSequential builds a Sequential forest over components. Ownership of
// each Component passes to the forest.
func NewSequential(components []*Component, opts ...Option) *Sequential {
	cfg := newConfig(opts)
	return &Sequential{
		components:  components,
		collectErrs: true,
		log:         cfg.log,
	}
}

func (f *Sequential) CollectErrors(v bool) { f.collectErrs = v }

func (f *Sequential) TotalUpdates() int64 { return atomic.LoadInt64(&f.totalUpdates) }

func (f *Sequential) Close() error { return nil }

func (f *Sequential) Update(ctx context.Context, point rcf.Point) error {
	clean := rcf.CleanCopy(point)
	seqIdx := atomic.AddInt64(&f.totalUpdates, 1)

	var errs []error
	changed := 0
	for i, c := range f.components {
		if err := ctx.Err(); err != nil {
			return err
		}
		didChange, err := c.Update(clean, seqIdx)
		if err != nil {
			if f.collectErrs {
				errs = append(errs, errors.Wrapf(err, "component %d", i))
			}
			continue
		}
		if didChange {
			changed++
		}
	}
	f.log.Debug("forest update", "seqIdx", seqIdx, "components_changed", changed, "components_total", len(f.components))

	if len(errs) > 0 {
		return errors.Wrap(combineErrors(errs), "forest: update")
	}
	return nil
}

func (f *Sequential) Traverse(ctx context.Context, point rcf.Point, factory tree.VisitorFactory, acc Accumulator, finish Finisher) (interface{}, error) {
	return f.TraverseCollect(ctx, point, factory, asCollector(acc, finish))
}

func (f *Sequential) TraverseCollect(ctx context.Context, point rcf.Point, factory tree.VisitorFactory, collector Collector) (interface{}, error) {
	results := make([]interface{}, 0, len(f.components))
	var errs []error
	for i, c := range f.components {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := c.Traverse(point, factory)
		if err != nil {
			if f.collectErrs {
				errs = append(errs, errors.Wrapf(err, "component %d", i))
				continue
			}
			continue
		}
		results = append(results, r)
	}
	if len(errs) > 0 {
		return nil, errors.Wrap(combineErrors(errs), "forest: traverse")
	}
	return runCollector(collector, results), nil
}

func (f *Sequential) TraverseMulti(ctx context.Context, point rcf.Point, factory tree.MultiVisitorFactory, acc Accumulator, finish Finisher) (interface{}, error) {
	results := make([]interface{}, 0, len(f.components))
	var errs []error
	for i, c := range f.components {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := c.TraverseMulti(point, factory)
		if err != nil {
			if f.collectErrs {
				errs = append(errs, errors.Wrapf(err, "component %d", i))
				continue
			}
			continue
		}
		results = append(results, r)
	}
	if len(errs) > 0 {
		return nil, errors.Wrap(combineErrors(errs), "forest: traverseMulti")
	}
	return runCollector(asCollector(acc, finish), results), nil
}

// TraverseConverging visits components in order, folding each result into
// acc, and stops as soon as acc.IsConverged() reports true - saving work
// on early-exit confidence measures that don't need every tree's opinion.
func (f *Sequential) TraverseConverging(ctx context.Context, point rcf.Point, factory tree.VisitorFactory, acc ConvergingAccumulator) (interface{}, error) {
	for i, c := range f.components {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := c.Traverse(point, factory)
		if err != nil {
			if f.collectErrs {
				return nil, errors.Wrapf(err, "forest: traverseConverging component %d", i)
			}
			continue
		}
		acc.Accumulate(r)
		if acc.IsConverged() {
			break
		}
	}
	return acc.Result(), nil
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msg := errs[0].Error()
	for _, e := range errs[1:] {
		msg += "; " + e.Error()
	}
	return errors.New(msg)
}
