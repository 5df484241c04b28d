package pool

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"runtime"
	"slices"

	"github.com/utkarsh5026/parapply/internal/cpu"
	"golang.org/x/time/rate"
)

// processorConfig is the resolved, typed configuration shared by every run of a pool.
type processorConfig[T, R any] struct {
	workerCount       int
	taskBuffer        int
	chunkSize         int
	maxTasksPerWorker int
	rateLimiter       *rate.Limiter
	pinWorkers        bool
	logger            *slog.Logger
	name              string

	beforeTaskStart func(T)
	onTaskEnd       func(T, R, error)
	onWorkerStart   func(int64, int)

	metrics poolMetrics
}

func createConfig[T, R any](opts ...WorkerPoolOption) *processorConfig[T, R] {
	cfg := &workerPoolConfig{
		workerCount: cpu.NumCPU(),
		taskBuffer:  0, // Will be set to workerCount if not specified
		chunkSize:   1,
		name:        "default",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.taskBuffer == 0 {
		cfg.taskBuffer = cfg.workerCount
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	beforeTaskStart, onTaskEnd := checkfuncs[T, R](cfg)

	return &processorConfig[T, R]{
		workerCount:       cfg.workerCount,
		taskBuffer:        cfg.taskBuffer,
		chunkSize:         cfg.chunkSize,
		maxTasksPerWorker: cfg.maxTasksPerWorker,
		rateLimiter:       cfg.rateLimiter,
		pinWorkers:        cfg.pinWorkers,
		logger:            cfg.logger.With("pool", cfg.name),
		name:              cfg.name,
		beforeTaskStart:   beforeTaskStart,
		onTaskEnd:         onTaskEnd,
		onWorkerStart:     cfg.onWorkerStart,
		metrics:           metricsFor(cfg.name),
	}
}

// checkfuncs validates user-supplied hooks against the pool's task and result types and
// returns them typed.
//
// Panics:
//
//	If a hook's signature does not match the pool's types. The message names both types.
func checkfuncs[T, R any](cfg *workerPoolConfig) (beforeTaskStart func(T), onTaskEnd func(T, R, error)) {
	if cfg.beforeTaskStart != nil {
		fn, ok := cfg.beforeTaskStart.(func(T))
		if !ok {
			var zeroT T
			panic(fmt.Sprintf("WithBeforeTaskStart hook has type %T, but pool processes type %T",
				cfg.beforeTaskStart, zeroT))
		}
		beforeTaskStart = fn
	}

	if cfg.onTaskEnd != nil {
		fn, ok := cfg.onTaskEnd.(func(T, R, error))
		if !ok {
			var zeroT T
			var zeroR R
			panic(fmt.Sprintf("WithOnTaskEnd hook has type %T, but pool processes %T -> %T",
				cfg.onTaskEnd, zeroT, zeroR))
		}
		onTaskEnd = fn
	}

	return beforeTaskStart, onTaskEnd
}

// RunWithRecovery runs processFn for one task. A panic is converted to a *PanicError
// carrying the stack so that one bad task cannot crash the process.
func RunWithRecovery[T, R any](ctx context.Context, task T, processFn ProcessFunc[T, R]) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
		}
	}()

	return processFn(ctx, task)
}

func newPanicError(r any) *PanicError {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return &PanicError{Value: r, Stack: buf[:n]}
}

// taskSource yields the tasks of one run. It receives the run's context so that a
// source blocked on external input can give up when the run is cancelled.
type taskSource[T any] func(ctx context.Context) iter.Seq[T]

func sliceSource[T any](tasks []T) taskSource[T] {
	return func(context.Context) iter.Seq[T] {
		return slices.Values(tasks)
	}
}

func seqSource[T any](tasks iter.Seq[T]) taskSource[T] {
	return func(context.Context) iter.Seq[T] {
		return tasks
	}
}

func chanSource[T any](taskChan <-chan T) taskSource[T] {
	return func(ctx context.Context) iter.Seq[T] {
		return func(yield func(T) bool) {
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-taskChan:
					if !ok || !yield(t) {
						return
					}
				}
			}
		}
	}
}
