package pool

import (
	"context"
	"fmt"
)

// ProcessFunc is a function type that defines how individual tasks are processed in the worker pool.
// It takes a context for cancellation control and a task of type T, returning a result of type R.
// If processing fails, it should return an error, which halts the whole run.
//
// Type parameters:
//   - T: The type of input task to be processed
//   - R: The type of result produced after processing
type ProcessFunc[T any, R any] func(ctx context.Context, task T) (R, error)

// Result represents the outcome of processing a single task in the worker pool.
//
// Fields:
//   - Value: The result produced by processing the task
//   - Index: The task's position in the input sequence
//   - Worker: The slot of the worker that produced it
type Result[R any] struct {
	Value  R
	Index  int
	Worker int64
}

// TaskError is returned when a task fails. It records the task's position in the input
// and wraps the error the process function returned (or the recovered panic).
type TaskError struct {
	Index int
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d: %v", e.Index, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

type indexedTask[T any] struct {
	index int
	task  T
}

// PanicError is the error a task produces when its process function panics.
// It matches ErrWorkerPanic under errors.Is.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker panic: %v\nstack trace:\n%s", e.Value, e.Stack)
}

func (e *PanicError) Is(target error) bool {
	return target == ErrWorkerPanic
}
