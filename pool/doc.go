// Package pool provides a small generic worker pool for fan-out/fan-in processing.
//
// The primary type is WorkerPool[T, R], a configurable pool of workers which process
// tasks of type T and return results of type R. Every Process call starts its own
// workers and joins them all before returning, whether the run succeeded or not.
//
// # Basic Usage
//
//	ctx := context.Background()
//	tasks := []int{1, 2, 3, 4}
//	pool := NewWorkerPool[int, int](WithWorkerCount(4))
//	results, err := pool.Process(ctx, tasks, func(ctx context.Context, t int) (int, error) {
//	    return t * 2, nil
//	})
//
// # Processing Options
//
//   - Process: Processes a slice of tasks and returns results in the same order
//   - ProcessUnordered: Pulls tasks lazily from an iter.Seq and returns results in arrival order
//   - ProcessStream: Processes tasks from a channel and streams results back
//
// # Batching and Recycling
//
// The dispatcher hands tasks to workers in batches:
//
//	pool := NewWorkerPool[Job, Out](
//	    WithWorkerCount(8),
//	    WithChunkSize(16),          // a worker takes 16 tasks at a time
//	    WithMaxTasksPerWorker(256), // then retires after 256 tasks
//	)
//
// A retired worker releases its CPU pinning (see WithCPUAffinity) and its slot starts a
// fresh worker, announced through WithOnWorkerStart, on the next batch.
//
// # Configuration Options
//
//   - WithWorkerCount(n): Set number of concurrent workers (default: usable cores)
//   - WithTaskBuffer(n): Set channel buffer size (default: worker count)
//   - WithChunkSize(n): Tasks per dispatched batch (default: 1)
//   - WithMaxTasksPerWorker(n): Retire workers after n tasks (default: never)
//   - WithRateLimit(tasksPerSecond, burst): Throttle task starts
//   - WithCPUAffinity(bool): Pin worker threads to cores
//   - WithBeforeTaskStart, WithOnTaskEnd, WithOnWorkerStart: Hooks
//   - WithLogger, WithName: Logging and metric labels
//
// # Error Handling
//
// The pool uses fail-fast semantics: the first task error cancels the run and is
// returned wrapped in a *TaskError naming the task's input position. No partial
// results are returned. Panics are recovered and reported as errors marked with
// ErrWorkerPanic, stack trace included.
//
// # Metrics
//
// Each pool registers Prometheus collectors labelled with its name
// (parapply_pool_tasks_processed_total, parapply_pool_workers_recycled_total, ...).
package pool
