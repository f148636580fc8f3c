package forest

import "github.com/riftlabs/rcf/internal/telemetry"

// Option configures a Forest executor at construction time.
type Option func(*config)

type config struct {
	log      *telemetry.Logger
	poolSize int
}

func newConfig(opts []Option) config {
	cfg := config{
		log:      telemetry.Default(),
		poolSize: 0,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger attaches l as the executor's structured logger. The default
// is telemetry.Default(), which wraps slog.Default().
func WithLogger(l *telemetry.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithPoolSize bounds the parallel executor's worker pool to n concurrent
// component operations per call. Ignored by Sequential. n <= 0 means
// "one goroutine per component," matching errgroup's unlimited default.
func WithPoolSize(n int) Option {
	return func(c *config) { c.poolSize = n }
}
