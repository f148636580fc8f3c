package forest

import (
	"context"

	"github.com/riftlabs/rcf"
	"github.com/riftlabs/rcf/tree"
)

// Accumulator folds one component's traversal result into a running
// accumulation. It must be associative and commutative when used with the
// parallel executor, since per-component results arrive in no fixed order.
type Accumulator func(acc, next interface{}) interface{}

// Finisher adapts a finished accumulation into the value returned to the
// caller.
type Finisher func(acc interface{}) interface{}

// ConvergingAccumulator is an Accumulator that can additionally report,
// after each fold, whether enough evidence has been gathered to stop
// visiting further components early. Used only by the sequential
// executor's TraverseConverging.
type ConvergingAccumulator interface {
	Accumulate(next interface{})
	IsConverged() bool
	Result() interface{}
}

// Collector is a streaming alternative to Accumulator/Finisher: Supplier
// produces the initial accumulation, Accumulator folds one result in,
// Combiner merges two partial accumulations (used when work is sharded
// across goroutines), and Finisher adapts the final accumulation.
type Collector struct {
	Supplier    func() interface{}
	Accumulator func(acc, next interface{}) interface{}
	Combiner    func(a, b interface{}) interface{}
	Finisher    func(acc interface{}) interface{}
}

// Forest is the shared contract between the sequential and parallel
// executors: ingest updates, fan a query out to every component, and fold
// the per-component results into one answer.
type Forest interface {
	// Update offers point at the forest's next sequence index to every
	// component. point is clean-copied (−0.0 coerced to +0.0) before use.
	Update(ctx context.Context, point rcf.Point) error

	// Traverse runs a single-path visitor against every component and
	// folds the per-component results left-to-right with acc, then
	// passes the result through finish.
	Traverse(ctx context.Context, point rcf.Point, factory tree.VisitorFactory, acc Accumulator, finish Finisher) (interface{}, error)

	// TraverseCollect is a streaming alternative to Traverse for callers
	// that want a supplier/accumulator/combiner/finisher reduction.
	TraverseCollect(ctx context.Context, point rcf.Point, factory tree.VisitorFactory, collector Collector) (interface{}, error)

	// TraverseMulti runs a fork/join visitor against every component and
	// folds the results the same way Traverse does.
	TraverseMulti(ctx context.Context, point rcf.Point, factory tree.MultiVisitorFactory, acc Accumulator, finish Finisher) (interface{}, error)

	// TotalUpdates returns the number of Update calls accepted so far.
	// Strictly monotonic across external calls, independent of how many
	// components actually changed state for any one update.
	TotalUpdates() int64

	// CollectErrors controls whether per-component update and traversal
	// errors are returned (true, the default) or silently skipped
	// (false), matching spec.md's "higher layers may choose to aggregate
	// or ignore per-tree failures" allowance. Sequential joins every
	// failing component's error into one; Parallel returns only the first
	// error its group reports.
	CollectErrors(bool)

	// Close releases executor-owned resources. Neither executor holds a
	// worker pool between calls, so both Close methods are no-ops.
	Close() error
}
