package pool

import (
	"context"
	"iter"

	"github.com/cockroachdb/errors"
)

// ErrWorkerPanic marks errors produced by recovering a panic inside a process function.
var ErrWorkerPanic = errors.New("worker panic")

// WorkerPool is a generic worker pool for fan-out/fan-in processing.
// A WorkerPool only holds configuration: every Process call starts its own workers and
// joins all of them before returning, on success and on failure alike, so a pool value
// can be reused and shared freely.
//
// Type parameters:
//   - T: The input task type
//   - R: The result type
type WorkerPool[T any, R any] struct {
	conf *processorConfig[T, R]
}

// NewWorkerPool creates a new worker pool with the given options.
//
// Default configuration:
//   - workerCount: cores available to the process
//   - taskBuffer: equal to workerCount
//   - chunkSize: 1
//   - maxTasksPerWorker: 0 (workers are never recycled)
//
// Example:
//
//	pool := NewWorkerPool[int, string](
//	    WithWorkerCount(8),
//	    WithChunkSize(4),
//	    WithMaxTasksPerWorker(100),
//	)
func NewWorkerPool[T any, R any](opts ...WorkerPoolOption) *WorkerPool[T, R] {
	return &WorkerPool[T, R]{
		conf: createConfig[T, R](opts...),
	}
}

// WorkerCount returns the number of worker slots a run may use.
func (wp *WorkerPool[T, R]) WorkerCount() int {
	return wp.conf.workerCount
}

// ChunkSize returns the number of tasks handed to a worker per batch.
func (wp *WorkerPool[T, R]) ChunkSize() int {
	return wp.conf.chunkSize
}

// MaxTasksPerWorker returns the recycling limit, 0 meaning unlimited.
func (wp *WorkerPool[T, R]) MaxTasksPerWorker() int {
	return wp.conf.maxTasksPerWorker
}

// Process executes a batch of tasks concurrently and returns the results in the same
// order as the input.
//
// Returns:
//   - results: one result per task, in input order (nil on error)
//   - error: the first error encountered, as a *TaskError for task failures
//
// Example:
//
//	tasks := []int{1, 2, 3, 4, 5}
//	results, err := pool.Process(ctx, tasks, func(ctx context.Context, n int) (string, error) {
//	    return fmt.Sprintf("processed %d", n), nil
//	})
func (wp *WorkerPool[T, R]) Process(
	ctx context.Context,
	tasks []T,
	processFn ProcessFunc[T, R],
) ([]R, error) {
	if len(tasks) == 0 {
		return []R{}, nil
	}

	results := make([]R, len(tasks))
	err := wp.run(ctx, min(wp.conf.workerCount, len(tasks)), sliceSource(tasks), processFn, func(r Result[R]) {
		results[r.Index] = r.Value
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ProcessUnordered pulls tasks lazily from a sequence, processes them concurrently and
// returns the results in arrival order: the order in which workers finished them, which
// generally differs from the input order. Giving up ordering lets a fast worker hand in
// its result without waiting for slower ones.
//
// Nothing is returned but the error if any task fails.
//
// Example:
//
//	results, err := pool.ProcessUnordered(ctx, slices.Values(tasks), processFn)
func (wp *WorkerPool[T, R]) ProcessUnordered(
	ctx context.Context,
	tasks iter.Seq[T],
	processFn ProcessFunc[T, R],
) ([]R, error) {
	var results []R
	err := wp.run(ctx, wp.conf.workerCount, seqSource(tasks), processFn, func(r Result[R]) {
		results = append(results, r.Value)
	})
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []R{}
	}
	return results, nil
}

// ProcessStream processes tasks from a channel and streams results as they arrive.
// The caller must close taskChan when done submitting and must drain the result channel.
//
// Returns:
//   - resultChan: results in arrival order, closed when the run ends
//   - errChan: receives the run's error, if any, then is closed
func (wp *WorkerPool[T, R]) ProcessStream(
	ctx context.Context,
	taskChan <-chan T,
	processFn ProcessFunc[T, R],
) (resultChan <-chan Result[R], errChan <-chan error) {
	resCh := make(chan Result[R], wp.conf.taskBuffer)
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		defer close(resCh)

		err := wp.run(ctx, wp.conf.workerCount, chanSource(taskChan), processFn, func(r Result[R]) {
			resCh <- r
		})
		if err != nil {
			errCh <- err
		}
	}()

	return resCh, errCh
}
