package pool

import (
	"log/slog"

	"golang.org/x/time/rate"
)

// WorkerPoolOption is a functional option for configuring the worker pool.
type WorkerPoolOption func(*workerPoolConfig)

type workerPoolConfig struct {
	workerCount       int
	taskBuffer        int
	chunkSize         int
	maxTasksPerWorker int
	rateLimiter       *rate.Limiter
	pinWorkers        bool
	logger            *slog.Logger
	name              string

	// Hooks are stored untyped because options are not generic over the pool's
	// task and result types; createConfig checks them against T and R.
	beforeTaskStart any
	onTaskEnd       any
	onWorkerStart   func(workerID int64, generation int)
}

// WithWorkerCount sets the number of concurrent workers.
// If not specified, defaults to the number of cores this process may use.
func WithWorkerCount(count int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if count > 0 {
			cfg.workerCount = count
		}
	}
}

// WithTaskBuffer sets the buffer size of the batch and result channels.
// If not specified, defaults to the number of workers.
func WithTaskBuffer(size int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if size >= 0 {
			cfg.taskBuffer = size
		}
	}
}

// WithChunkSize sets how many tasks a worker takes from the dispatcher at once.
// Larger batches cut channel traffic for cheap tasks at the cost of coarser balancing.
// Defaults to 1.
func WithChunkSize(size int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if size > 0 {
			cfg.chunkSize = size
		}
	}
}

// WithMaxTasksPerWorker retires a worker once it has processed n tasks and starts a
// fresh one in its slot. The limit is checked between batches, so a batch is never
// split across two workers. 0 (the default) keeps every worker for the whole run.
func WithMaxTasksPerWorker(n int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if n >= 0 {
			cfg.maxTasksPerWorker = n
		}
	}
}

// WithRateLimit sets a rate limiter for controlling task throughput.
// tasksPerSecond specifies the maximum number of tasks started per second and burst the
// number that may start back to back. If not specified, no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithCPUAffinity pins each worker's OS thread to a core for the worker's lifetime.
func WithCPUAffinity(enabled bool) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.pinWorkers = enabled
	}
}

// WithLogger sets the logger for worker lifecycle and task failure events.
// Defaults to a logger that discards everything.
func WithLogger(logger *slog.Logger) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithName labels the pool's metrics and log lines. Defaults to "default".
func WithName(name string) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if name != "" {
			cfg.name = name
		}
	}
}

// WithBeforeTaskStart registers a hook called on the worker goroutine right before a
// task is processed. T must match the pool's task type or NewWorkerPool panics.
func WithBeforeTaskStart[T any](fn func(task T)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if fn != nil {
			cfg.beforeTaskStart = fn
		}
	}
}

// WithOnTaskEnd registers a hook called after every task with its result and error.
// T and R must match the pool's types or NewWorkerPool panics.
func WithOnTaskEnd[T, R any](fn func(task T, result R, err error)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if fn != nil {
			cfg.onTaskEnd = fn
		}
	}
}

// WithOnWorkerStart registers a hook called each time a worker starts in a slot.
// generation is 0 for the slot's first worker and increases with every recycle.
func WithOnWorkerStart(fn func(workerID int64, generation int)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.onWorkerStart = fn
	}
}
