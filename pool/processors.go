package pool

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"
)

// run is the fan-out/fan-in core shared by every Process variant.
//
// One dispatcher goroutine pulls tasks from the source and sends them out in batches of
// chunkSize; worker slots pull batches and push results; the calling goroutine drains
// results and hands each to emit in arrival order. The first error cancels the shared
// context. run returns only after every goroutine it started has exited.
func (wp *WorkerPool[T, R]) run(
	ctx context.Context,
	workers int,
	source taskSource[T],
	processFn ProcessFunc[T, R],
	emit func(Result[R]),
) error {
	g, gctx := errgroup.WithContext(ctx)

	batches := make(chan []indexedTask[T], wp.conf.taskBuffer)
	results := make(chan Result[R], wp.conf.taskBuffer)

	g.Go(func() error {
		return wp.dispatch(gctx, source(gctx), batches)
	})

	for slot := range workers {
		g.Go(func() error {
			return wp.supervise(gctx, int64(slot), batches, results, processFn)
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- g.Wait()
		close(results)
	}()

	for r := range results {
		emit(r)
	}

	return <-waitErr
}

// dispatch groups tasks into batches of chunkSize and sends them to the workers,
// numbering each task with its position in the source. It closes out when the source
// is exhausted or the run is cancelled. A panicking source fails the run with a
// *PanicError.
func (wp *WorkerPool[T, R]) dispatch(ctx context.Context, tasks iter.Seq[T], out chan<- []indexedTask[T]) (err error) {
	defer close(out)
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
		}
	}()

	size := wp.conf.chunkSize
	batch := make([]indexedTask[T], 0, size)

	send := func() error {
		select {
		case out <- batch:
			batch = make([]indexedTask[T], 0, size)
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	idx := 0
	for task := range tasks {
		batch = append(batch, indexedTask[T]{index: idx, task: task})
		idx++

		if len(batch) == size {
			if err := send(); err != nil {
				return err
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if len(batch) > 0 {
		return send()
	}
	return nil
}
