package forest

// asCollector adapts a plain Accumulator/Finisher pair into a Collector so
// Traverse and TraverseCollect can share one reduction path: the supplier
// starts from a nil accumulation, Accumulator folds one result at a time,
// and Combiner (only exercised by the parallel executor, which reduces
// per-goroutine partials) is just another application of the same fold.
func asCollector(acc Accumulator, finish Finisher) Collector {
	return Collector{
		Supplier:    func() interface{} { return nil },
		Accumulator: acc,
		Combiner:    acc,
		Finisher:    finish,
	}
}

// runCollector folds results in order through a Collector, starting from
// its Supplier and ending with its Finisher. Used by the sequential
// executor directly, and by the parallel executor to reduce each
// goroutine's partial accumulation before combining across goroutines.
func runCollector(collector Collector, results []interface{}) interface{} {
	acc := collector.Supplier()
	for _, r := range results {
		acc = collector.Accumulator(acc, r)
	}
	if collector.Finisher != nil {
		return collector.Finisher(acc)
	}
	return acc
}
