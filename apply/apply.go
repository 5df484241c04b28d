package apply

import (
	"context"
	"iter"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/utkarsh5026/parapply/frame"
	"github.com/utkarsh5026/parapply/pool"
)

type shape int

const (
	frameShape shape = iota + 1
	recordShape
)

func (s shape) String() string {
	switch s {
	case frameShape:
		return "frame"
	case recordShape:
		return "record"
	default:
		return "unknown"
	}
}

// GroupFunc is a function applied to every group, tagged with the shape of what it
// returns. Build one with FrameFunc or RecordFunc; the zero value is invalid.
type GroupFunc struct {
	shape    shape
	frameFn  func(ctx context.Context, group *frame.Frame, args ...any) (*frame.Frame, error)
	recordFn func(ctx context.Context, group *frame.Frame, args ...any) (frame.Record, error)
	leading  []string
}

// FrameFunc declares a group function returning a frame per group. The per-group
// frames are stacked row-wise into the final result.
func FrameFunc(fn func(ctx context.Context, group *frame.Frame, args ...any) (*frame.Frame, error)) GroupFunc {
	return GroupFunc{shape: frameShape, frameFn: fn}
}

// RecordFunc declares a group function returning one record per group. The final
// result has one row per group.
func RecordFunc(fn func(ctx context.Context, group *frame.Frame, args ...any) (frame.Record, error)) GroupFunc {
	return GroupFunc{shape: recordShape, recordFn: fn}
}

// WithLeadingColumns returns a copy of fn whose merged records put cols first, in
// order. Other columns follow as usual. It has no effect on FrameFunc results.
func (fn GroupFunc) WithLeadingColumns(cols ...string) GroupFunc {
	fn.leading = slices.Clone(cols)
	return fn
}

func (fn GroupFunc) valid() bool {
	switch fn.shape {
	case frameShape:
		return fn.frameFn != nil
	case recordShape:
		return fn.recordFn != nil
	default:
		return false
	}
}

// chunk is a unit of work: a private copy of one group plus the extra arguments.
type chunk struct {
	group *frame.Frame
	args  []any
}

type groupResult struct {
	frame  *frame.Frame
	record frame.Record
}

func (fn GroupFunc) call(ctx context.Context, c chunk) (groupResult, error) {
	switch fn.shape {
	case frameShape:
		out, err := fn.frameFn(ctx, c.group, c.args...)
		if err != nil {
			return groupResult{}, err
		}
		if out == nil {
			return groupResult{}, errors.Wrap(ErrShapeMismatch, "frame function returned nil frame")
		}
		return groupResult{frame: out}, nil

	case recordShape:
		rec, err := fn.recordFn(ctx, c.group, c.args...)
		if err != nil {
			return groupResult{}, err
		}
		if rec == nil {
			return groupResult{}, errors.Wrap(ErrShapeMismatch, "record function returned nil record")
		}
		return groupResult{record: rec}, nil
	}
	return groupResult{}, errors.Wrapf(ErrInvalidInput, "group function has shape %s", fn.shape)
}

// ParallelApply applies fn to every group of grouped on a pool of worker goroutines and
// merges the per-group results into one frame.
//
// Each group is cloned before it is handed to a worker, so fn may mutate its argument
// freely. Results are merged in the order groups finish: rows from one group stay
// together and in their own order, but groups may appear in any order. Sort the result
// if a stable order is needed.
//
// The first failing group aborts the whole call: the remaining groups are cancelled,
// every worker is joined and only the error is returned. Group failures unwrap to a
// *pool.TaskError whose Index is the group's position in grouped.
//
// An empty grouped collection yields an empty frame. For FrameFunc it has the source
// columns; for RecordFunc it has none.
//
// Example:
//
//	grouped, _ := frame.GroupBy(df, "a")
//	out, err := apply.ParallelApply(ctx, grouped, apply.FrameFunc(scale),
//	    apply.WithWorkers(4),
//	    apply.WithArgs(2.5),
//	)
func ParallelApply(ctx context.Context, grouped *frame.Grouped, fn GroupFunc, opts ...Option) (*frame.Frame, error) {
	if err := checkInput(grouped, fn); err != nil {
		return nil, err
	}

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	logger := cfg.logger.With("run", uuid.NewString())

	if grouped.Len() == 0 {
		logger.Debug("no groups to apply")
		return emptyResult(grouped, fn.shape), nil
	}

	workers := min(cfg.resolveWorkers(), grouped.Len())
	logger.Info("parallel apply started",
		"groups", grouped.Len(),
		"workers", workers,
		"chunk_size", cfg.chunkSize,
		"max_tasks_per_worker", cfg.maxTasksPerWorker,
		"shape", fn.shape,
	)

	wp := pool.NewWorkerPool[chunk, groupResult](cfg.poolOptions(workers, logger)...)

	start := time.Now()
	results, err := wp.ProcessUnordered(ctx, chunks(grouped, cfg.args), fn.call)
	if err != nil {
		logger.Error("parallel apply failed", "error", err, "elapsed", time.Since(start))
		return nil, errors.Wrap(err, "parallel apply")
	}

	out := merge(fn, results)
	logger.Info("parallel apply finished", "rows", out.Len(), "elapsed", time.Since(start))
	return out, nil
}

// Sequential applies fn to every group in order on the calling goroutine. It has the
// same contract as ParallelApply with groups merged in input order; pool options such
// as WithWorkers are validated but otherwise ignored.
func Sequential(ctx context.Context, grouped *frame.Grouped, fn GroupFunc, opts ...Option) (*frame.Frame, error) {
	if err := checkInput(grouped, fn); err != nil {
		return nil, err
	}

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	if grouped.Len() == 0 {
		return emptyResult(grouped, fn.shape), nil
	}

	results := make([]groupResult, 0, grouped.Len())
	idx := 0
	for c := range chunks(grouped, cfg.args) {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "sequential apply")
		}

		r, err := pool.RunWithRecovery(ctx, c, fn.call)
		if cfg.onGroupDone != nil {
			cfg.onGroupDone(err)
		}
		if err != nil {
			return nil, errors.Wrap(&pool.TaskError{Index: idx, Err: err}, "sequential apply")
		}
		results = append(results, r)
		idx++
	}

	return merge(fn, results), nil
}

// Frames is ParallelApply for a function returning a frame per group.
func Frames(
	ctx context.Context,
	grouped *frame.Grouped,
	fn func(ctx context.Context, group *frame.Frame, args ...any) (*frame.Frame, error),
	opts ...Option,
) (*frame.Frame, error) {
	return ParallelApply(ctx, grouped, FrameFunc(fn), opts...)
}

// Records is ParallelApply for a function returning a record per group.
func Records(
	ctx context.Context,
	grouped *frame.Grouped,
	fn func(ctx context.Context, group *frame.Frame, args ...any) (frame.Record, error),
	opts ...Option,
) (*frame.Frame, error) {
	return ParallelApply(ctx, grouped, RecordFunc(fn), opts...)
}

func checkInput(grouped *frame.Grouped, fn GroupFunc) error {
	if grouped == nil {
		return errors.Wrap(ErrInvalidInput, "grouped collection is nil")
	}
	if !fn.valid() {
		return errors.Wrap(ErrInvalidInput, "group function is not set")
	}
	for i, g := range grouped.Groups() {
		if g.Frame == nil {
			return errors.Wrapf(ErrInvalidInput, "group %d (key %s) has no frame", i, g.Key)
		}
	}
	return nil
}

// chunks lazily yields one chunk per group. Groups are cloned only as the pool pulls
// them, so at most a pool's worth of copies exist ahead of the workers.
func chunks(grouped *frame.Grouped, args []any) iter.Seq[chunk] {
	return func(yield func(chunk) bool) {
		for _, g := range grouped.All() {
			if !yield(chunk{group: g.Clone(), args: slices.Clone(args)}) {
				return
			}
		}
	}
}
