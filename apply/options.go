package apply

import (
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/utkarsh5026/parapply/internal/cpu"
	"github.com/utkarsh5026/parapply/pool"
)

// AllCores is the worker count that sizes the pool to the host's usable cores.
const AllCores = -1

// Option configures a single apply call.
type Option func(*config)

type config struct {
	workers           int
	chunkSize         int
	maxTasksPerWorker int
	args              []any
	logger            *slog.Logger
	onGroupDone       func(err error)
	ratePerSecond     float64
	rateBurst         int
	pinWorkers        bool
	name              string
}

// WithWorkers sets the pool size. AllCores (-1) uses every core available to the
// process; any other value must be positive.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithChunkSize sets how many groups a worker receives per batch. Defaults to 1.
func WithChunkSize(n int) Option {
	return func(c *config) {
		c.chunkSize = n
	}
}

// WithMaxTasksPerWorker retires a worker after it has handled n groups and starts a
// fresh one in its place. 0, the default, never retires workers.
func WithMaxTasksPerWorker(n int) Option {
	return func(c *config) {
		c.maxTasksPerWorker = n
	}
}

// WithArgs sets extra positional arguments passed to the group function after the
// sub-frame on every call.
func WithArgs(args ...any) Option {
	return func(c *config) {
		c.args = args
	}
}

// WithLogger sets the logger for run-level events. Defaults to discarding.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithOnGroupDone registers a callback invoked once per group as it finishes, with the
// group's error or nil. It runs on worker goroutines and must be safe for concurrent use.
func WithOnGroupDone(fn func(err error)) Option {
	return func(c *config) {
		c.onGroupDone = fn
	}
}

// WithRateLimit caps how many groups may start per second, allowing bursts of burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *config) {
		c.ratePerSecond = perSecond
		c.rateBurst = burst
	}
}

// WithCPUAffinity pins every worker's OS thread to a core.
func WithCPUAffinity(enabled bool) Option {
	return func(c *config) {
		c.pinWorkers = enabled
	}
}

// WithName names the pool in metrics and logs. Defaults to "apply".
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

func newConfig(opts ...Option) (*config, error) {
	c := &config{
		workers:   AllCores,
		chunkSize: 1,
		name:      "apply",
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c, nil
}

func (c *config) validate() error {
	switch {
	case c.workers == 0 || c.workers < AllCores:
		return errors.Wrapf(ErrInvalidConfig, "workers must be positive or %d, got %d", AllCores, c.workers)
	case c.chunkSize < 1:
		return errors.Wrapf(ErrInvalidConfig, "chunk size must be at least 1, got %d", c.chunkSize)
	case c.maxTasksPerWorker < 0:
		return errors.Wrapf(ErrInvalidConfig, "max tasks per worker must not be negative, got %d", c.maxTasksPerWorker)
	case c.ratePerSecond < 0 || c.rateBurst < 0:
		return errors.Wrapf(ErrInvalidConfig, "rate limit must not be negative, got %v/s burst %d", c.ratePerSecond, c.rateBurst)
	case c.ratePerSecond > 0 && c.rateBurst == 0:
		return errors.Wrap(ErrInvalidConfig, "rate limit needs a burst of at least 1")
	case c.name == "":
		return errors.Wrap(ErrInvalidConfig, "name must not be empty")
	}
	return nil
}

// resolveWorkers turns AllCores into the host's core count.
func (c *config) resolveWorkers() int {
	if c.workers == AllCores {
		return cpu.NumCPU()
	}
	return c.workers
}

func (c *config) poolOptions(workers int, logger *slog.Logger) []pool.WorkerPoolOption {
	opts := []pool.WorkerPoolOption{
		pool.WithWorkerCount(workers),
		pool.WithChunkSize(c.chunkSize),
		pool.WithMaxTasksPerWorker(c.maxTasksPerWorker),
		pool.WithCPUAffinity(c.pinWorkers),
		pool.WithLogger(logger),
		pool.WithName(c.name),
	}

	if c.ratePerSecond > 0 {
		opts = append(opts, pool.WithRateLimit(c.ratePerSecond, c.rateBurst))
	}

	if done := c.onGroupDone; done != nil {
		opts = append(opts, pool.WithOnTaskEnd(func(_ chunk, _ groupResult, err error) {
			done(err)
		}))
	}
	return opts
}
