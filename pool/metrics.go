package pool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tasksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "parapply_pool_tasks_processed_total",
		Help: "The total number of tasks processed, failed ones included",
	}, []string{"pool"})

	taskErrors = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "parapply_pool_task_errors_total",
		Help: "The total number of tasks that returned an error or panicked",
	}, []string{"pool"})

	workersStarted = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "parapply_pool_workers_started_total",
		Help: "The total number of workers started, replacements included",
	}, []string{"pool"})

	workersRecycled = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "parapply_pool_workers_recycled_total",
		Help: "The total number of workers retired after reaching their task limit",
	}, []string{"pool"})

	workersBusy = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "parapply_pool_workers_busy",
		Help: "The number of workers currently processing a task",
	}, []string{"pool"})

	taskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name:    "parapply_pool_task_duration_seconds",
		Help:    "Time spent in the process function per task",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"pool"})
)

// poolMetrics holds the label-bound collectors for one pool name.
type poolMetrics struct {
	processed prometheus.Counter
	errors    prometheus.Counter
	started   prometheus.Counter
	recycled  prometheus.Counter
	busy      prometheus.Gauge
	duration  prometheus.Observer
}

func metricsFor(name string) poolMetrics {
	return poolMetrics{
		processed: tasksProcessed.WithLabelValues(name),
		errors:    taskErrors.WithLabelValues(name),
		started:   workersStarted.WithLabelValues(name),
		recycled:  workersRecycled.WithLabelValues(name),
		busy:      workersBusy.WithLabelValues(name),
		duration:  taskDuration.WithLabelValues(name),
	}
}
