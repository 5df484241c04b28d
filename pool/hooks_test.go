package pool_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/utkarsh5026/parapply/pool"
)

func TestHooksBasic(t *testing.T) {
	var mu sync.Mutex
	events := []string{}

	wp := pool.NewWorkerPool[int, string](
		pool.WithWorkerCount(2),
		pool.WithBeforeTaskStart(func(task int) {
			mu.Lock()
			events = append(events, fmt.Sprintf("start:%d", task))
			mu.Unlock()
		}),
		pool.WithOnTaskEnd(func(task int, result string, err error) {
			mu.Lock()
			if err != nil {
				events = append(events, fmt.Sprintf("end:%d:error", task))
			} else {
				events = append(events, fmt.Sprintf("end:%d:%s", task, result))
			}
			mu.Unlock()
		}),
	)

	tasks := []int{1, 2, 3}
	results, err := wp.Process(context.Background(), tasks, func(ctx context.Context, task int) (string, error) {
		time.Sleep(10 * time.Millisecond)
		return fmt.Sprintf("result-%d", task), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	mu.Lock()
	defer mu.Unlock()

	if len(events) != 6 { // 3 starts + 3 ends
		t.Errorf("expected 6 events, got %d: %v", len(events), events)
	}

	for _, task := range tasks {
		start := fmt.Sprintf("start:%d", task)
		end := fmt.Sprintf("end:%d:result-%d", task, task)
		var sawStart, sawEnd bool
		for _, e := range events {
			sawStart = sawStart || e == start
			sawEnd = sawEnd || e == end
		}
		if !sawStart || !sawEnd {
			t.Errorf("task %d: missing start or end event in %v", task, events)
		}
	}
}

func TestHooksOnTaskEndSeesErrors(t *testing.T) {
	var mu sync.Mutex
	var failed []int

	wp := pool.NewWorkerPool[int, int](
		pool.WithWorkerCount(1),
		pool.WithOnTaskEnd(func(task int, result int, err error) {
			if err != nil {
				mu.Lock()
				failed = append(failed, task)
				mu.Unlock()
			}
		}),
	)

	_, err := wp.Process(context.Background(), []int{1, 2, 3}, func(ctx context.Context, task int) (int, error) {
		if task == 2 {
			return 0, errors.New("bad task")
		}
		return task, nil
	})
	if err == nil {
		t.Fatal("expected error")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(failed) != 1 || failed[0] != 2 {
		t.Errorf("expected hook to see task 2 fail, got %v", failed)
	}
}

func TestHooksTypeMismatchPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for mismatched hook type")
		}
	}()

	pool.NewWorkerPool[int, int](
		pool.WithBeforeTaskStart(func(task string) {}),
	)
}
