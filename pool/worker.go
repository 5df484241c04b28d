package pool

import (
	"context"
	"time"

	"github.com/utkarsh5026/parapply/internal/cpu"
)

// worker is one incarnation of a worker slot. A slot runs a sequence of workers: when
// maxTasksPerWorker is set, a worker that reaches it is retired and the next batch the
// slot receives starts a new generation.
type worker[T, R any] struct {
	slot       int64
	generation int
	processed  int
	cleanup    func()
}

// supervise runs worker slot until the dispatcher runs dry or the run fails.
// Replacement workers start lazily, on the first batch after a retirement, so a slot
// never starts a worker that has nothing to do.
func (wp *WorkerPool[T, R]) supervise(
	ctx context.Context,
	slot int64,
	batches <-chan []indexedTask[T],
	results chan<- Result[R],
	processFn ProcessFunc[T, R],
) error {
	var w *worker[T, R]
	generation := 0

	defer func() {
		if w != nil {
			wp.stopWorker(w, false)
		}
	}()

	for {
		var batch []indexedTask[T]
		var ok bool

		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch, ok = <-batches:
			if !ok {
				return nil
			}
		}

		if w == nil {
			w = wp.startWorker(slot, generation)
			generation++
		}

		if err := wp.runBatch(ctx, w, batch, results, processFn); err != nil {
			return err
		}

		if limit := wp.conf.maxTasksPerWorker; limit > 0 && w.processed >= limit {
			wp.stopWorker(w, true)
			w = nil
		}
	}
}

func (wp *WorkerPool[T, R]) startWorker(slot int64, generation int) *worker[T, R] {
	w := &worker[T, R]{
		slot:       slot,
		generation: generation,
	}

	if wp.conf.pinWorkers {
		w.cleanup = cpu.SetupWorkerAffinity(int(slot))
	}

	wp.conf.metrics.started.Inc()
	wp.conf.logger.Debug("worker started", "worker", slot, "generation", generation)

	if wp.conf.onWorkerStart != nil {
		wp.conf.onWorkerStart(slot, generation)
	}
	return w
}

func (wp *WorkerPool[T, R]) stopWorker(w *worker[T, R], retired bool) {
	if w.cleanup != nil {
		w.cleanup()
	}

	if retired {
		wp.conf.metrics.recycled.Inc()
		wp.conf.logger.Debug("worker retired", "worker", w.slot, "generation", w.generation, "processed", w.processed)
	}
}

// runBatch processes one batch in order, pushing each successful result as soon as it
// is ready. The first failure stops the batch and is returned as a *TaskError.
func (wp *WorkerPool[T, R]) runBatch(
	ctx context.Context,
	w *worker[T, R],
	batch []indexedTask[T],
	results chan<- Result[R],
	processFn ProcessFunc[T, R],
) error {
	for _, t := range batch {
		if err := ctx.Err(); err != nil {
			return err
		}

		value, err := wp.executeTask(ctx, t.task, processFn)
		w.processed++
		if err != nil {
			wp.conf.logger.Debug("task failed", "worker", w.slot, "task", t.index, "error", err)
			return &TaskError{Index: t.index, Err: err}
		}

		select {
		case results <- Result[R]{Value: value, Index: t.index, Worker: w.slot}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// executeTask wraps a single task with rate limiting, hooks, panic recovery and metrics.
func (wp *WorkerPool[T, R]) executeTask(ctx context.Context, task T, processFn ProcessFunc[T, R]) (R, error) {
	conf := wp.conf

	if conf.rateLimiter != nil {
		if err := conf.rateLimiter.Wait(ctx); err != nil {
			var zero R
			// Rate limiter's error doesn't wrap context errors, so check context explicitly
			if ctxErr := ctx.Err(); ctxErr != nil {
				return zero, ctxErr
			}
			return zero, err
		}
	}

	if conf.beforeTaskStart != nil {
		conf.beforeTaskStart(task)
	}

	conf.metrics.busy.Inc()
	start := time.Now()
	result, err := RunWithRecovery(ctx, task, processFn)
	conf.metrics.duration.Observe(time.Since(start).Seconds())
	conf.metrics.busy.Dec()

	conf.metrics.processed.Inc()
	if err != nil {
		conf.metrics.errors.Inc()
	}

	if conf.onTaskEnd != nil {
		conf.onTaskEnd(task, result, err)
	}

	return result, err
}
