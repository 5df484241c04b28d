package benchmarks

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/utkarsh5026/parapply/apply"
	"github.com/utkarsh5026/parapply/frame"
	"github.com/utkarsh5026/parapply/pool"
)

// =============================================================================
// Benchmark Workload Generators
// =============================================================================

// cpuBoundWork simulates a CPU-intensive operation
func cpuBoundWork(iterations int) func(ctx context.Context, task int) (int, error) {
	return func(ctx context.Context, task int) (int, error) {
		result := 0
		for i := 0; i < iterations; i++ {
			result += i * task
		}
		return result, nil
	}
}

// ioBoundWork simulates an I/O operation with a delay
func ioBoundWork(delay time.Duration) func(ctx context.Context, task int) (int, error) {
	return func(ctx context.Context, task int) (int, error) {
		select {
		case <-time.After(delay):
			return task * 2, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// groupedTable builds groups groups of size rows each, keyed by g.
func groupedTable(b *testing.B, groups, size int) *frame.Grouped {
	b.Helper()

	df := frame.MustNew([]string{"g", "v"}, nil)
	for g := range groups {
		for i := range size {
			if err := df.AppendRow(g, float64(i)); err != nil {
				b.Fatal(err)
			}
		}
	}

	grouped, err := frame.GroupBy(df, "g")
	if err != nil {
		b.Fatal(err)
	}
	return grouped
}

// sumGroup is a record-shaped group function with iterations of extra work per row.
func sumGroup(iterations int) func(ctx context.Context, g *frame.Frame, args ...any) (frame.Record, error) {
	return func(ctx context.Context, g *frame.Frame, args ...any) (frame.Record, error) {
		sum := 0.0
		for i := range g.Len() {
			v, err := g.Float64(i, "v")
			if err != nil {
				return nil, err
			}
			for k := 0; k < iterations; k++ {
				sum += v * float64(k%3)
			}
		}
		key, _ := g.Get(0, "g")
		return frame.Record{"g": key, "sum": sum}, nil
	}
}

func reportGroupsPerSec(b *testing.B, groups int) {
	nsPerOp := float64(b.Elapsed().Nanoseconds()) / float64(b.N)
	b.ReportMetric(float64(groups)/nsPerOp*1e9, "groups/sec")
}

// =============================================================================
// Pool Throughput Benchmarks
// =============================================================================

func BenchmarkPool_ThroughputWorkerScaling(b *testing.B) {
	workerCounts := []int{1, 2, 4, 8, 16}
	taskCount := 10000

	tasks := make([]int, taskCount)
	for j := range tasks {
		tasks[j] = j
	}

	for _, workers := range workerCounts {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			processFunc := cpuBoundWork(100)
			wp := pool.NewWorkerPool[int, int](pool.WithWorkerCount(workers))

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := wp.Process(context.Background(), tasks, processFunc); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			tasksPerSec := float64(taskCount) / (float64(b.Elapsed().Nanoseconds()) / float64(b.N)) * 1e9
			b.ReportMetric(tasksPerSec, "tasks/sec")
			b.ReportMetric(tasksPerSec/float64(workers), "tasks/sec/worker")
		})
	}
}

func BenchmarkPool_ChunkSize(b *testing.B) {
	chunkSizes := []int{1, 4, 16, 64}
	workers := 8
	taskCount := 10000

	tasks := make([]int, taskCount)
	for j := range tasks {
		tasks[j] = j
	}

	for _, size := range chunkSizes {
		b.Run(fmt.Sprintf("chunk_%d", size), func(b *testing.B) {
			wp := pool.NewWorkerPool[int, int](
				pool.WithWorkerCount(workers),
				pool.WithChunkSize(size),
			)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := wp.ProcessUnordered(context.Background(), slices.Values(tasks), cpuBoundWork(10)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPool_IOBound(b *testing.B) {
	workers := 32
	taskCount := 256

	tasks := make([]int, taskCount)
	for j := range tasks {
		tasks[j] = j
	}

	wp := pool.NewWorkerPool[int, int](pool.WithWorkerCount(workers))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := wp.Process(context.Background(), tasks, ioBoundWork(time.Millisecond)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPool_Recycling(b *testing.B) {
	limits := []int{0, 1, 10, 100}
	taskCount := 10000

	tasks := make([]int, taskCount)
	for j := range tasks {
		tasks[j] = j
	}

	for _, limit := range limits {
		b.Run(fmt.Sprintf("max_tasks_%d", limit), func(b *testing.B) {
			wp := pool.NewWorkerPool[int, int](
				pool.WithWorkerCount(8),
				pool.WithMaxTasksPerWorker(limit),
			)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := wp.Process(context.Background(), tasks, cpuBoundWork(10)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// =============================================================================
// Group Apply Benchmarks
// =============================================================================

func BenchmarkApply_SequentialVsParallel(b *testing.B) {
	groups := 500
	grouped := groupedTable(b, groups, 100)
	fn := apply.RecordFunc(sumGroup(50))

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := apply.Sequential(context.Background(), grouped, fn); err != nil {
				b.Fatal(err)
			}
		}
		reportGroupsPerSec(b, groups)
	})

	for _, workers := range []int{2, 4, 8} {
		b.Run(fmt.Sprintf("parallel_%d", workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := apply.ParallelApply(context.Background(), grouped, fn, apply.WithWorkers(workers)); err != nil {
					b.Fatal(err)
				}
			}
			reportGroupsPerSec(b, groups)
		})
	}
}

func BenchmarkApply_ChunkSize(b *testing.B) {
	groups := 5000
	grouped := groupedTable(b, groups, 4)
	fn := apply.RecordFunc(sumGroup(1))

	for _, size := range []int{1, 8, 64} {
		b.Run(fmt.Sprintf("chunk_%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, err := apply.ParallelApply(context.Background(), grouped, fn,
					apply.WithWorkers(8),
					apply.WithChunkSize(size),
				)
				if err != nil {
					b.Fatal(err)
				}
			}
			reportGroupsPerSec(b, groups)
		})
	}
}

func BenchmarkApply_FrameMerge(b *testing.B) {
	grouped := groupedTable(b, 200, 500)
	identity := func(_ context.Context, g *frame.Frame, _ ...any) (*frame.Frame, error) {
		return g, nil
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := apply.Frames(context.Background(), grouped, identity, apply.WithWorkers(4)); err != nil {
			b.Fatal(err)
		}
	}
}
