package pool

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWorkerPool_Metrics(t *testing.T) {
	const name = "metrics-test"

	pool := NewWorkerPool[int, int](
		WithWorkerCount(1),
		WithMaxTasksPerWorker(2),
		WithName(name),
	)

	_, err := pool.Process(context.Background(), []int{1, 2, 3, 4, 5}, func(ctx context.Context, n int) (int, error) {
		if n == 5 {
			return 0, errors.New("last one fails")
		}
		return n, nil
	})
	if err == nil {
		t.Fatal("expected error")
	}

	if got := testutil.ToFloat64(tasksProcessed.WithLabelValues(name)); got != 5 {
		t.Errorf("expected 5 processed tasks, got %v", got)
	}
	if got := testutil.ToFloat64(taskErrors.WithLabelValues(name)); got != 1 {
		t.Errorf("expected 1 task error, got %v", got)
	}
	if got := testutil.ToFloat64(workersStarted.WithLabelValues(name)); got != 3 {
		t.Errorf("expected 3 worker starts, got %v", got)
	}
	if got := testutil.ToFloat64(workersRecycled.WithLabelValues(name)); got != 2 {
		t.Errorf("expected 2 recycled workers, got %v", got)
	}
	if got := testutil.ToFloat64(workersBusy.WithLabelValues(name)); got != 0 {
		t.Errorf("expected no busy workers after the run, got %v", got)
	}
}
