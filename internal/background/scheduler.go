package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"kirin-dashboard/pkg/logger"
)

// Task is periodic housekeeping. Run is called every Every, never
// concurrently with itself, and gets at most Timeout per call.
type Task struct {
	Name    string
	Every   time.Duration
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

var (
	ErrSchedulerNotStarted = errors.New("scheduler not started")
	ErrTaskExists          = errors.New("task already registered")
)

// Scheduler drives a fixed set of named tasks until it is shut down.
type Scheduler struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	names  map[string]struct{}
	loops  sync.WaitGroup
}

var (
	metricsOnce  sync.Once
	taskRuns     *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec
	taskLastOK   *prometheus.GaugeVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		taskRuns = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kirin_dashboard",
			Subsystem: "background",
			Name:      "task_runs_total",
			Help:      "Background task runs by outcome",
		}, []string{"task", "status"})

		taskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kirin_dashboard",
			Subsystem: "background",
			Name:      "task_duration_seconds",
			Help:      "Duration of background task runs",
			Buckets:   prometheus.DefBuckets,
		}, []string{"task"})

		taskLastOK = promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "kirin_dashboard",
			Subsystem: "background",
			Name:      "task_last_success_timestamp",
			Help:      "Unix time of the last successful run",
		}, []string{"task"})
	})
}

func NewScheduler() *Scheduler {
	initMetrics()
	return &Scheduler{names: make(map[string]struct{})}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		s.ctx, s.cancel = context.WithCancel(ctx)
	}
}

// Every registers task. Its first run happens one period after registration.
func (s *Scheduler) Every(task Task) error {
	switch {
	case task.Name == "":
		return errors.New("task name is required")
	case task.Run == nil:
		return errors.New("task runner is required")
	case task.Every <= 0:
		return errors.New("task period must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return ErrSchedulerNotStarted
	}
	if _, ok := s.names[task.Name]; ok {
		return ErrTaskExists
	}
	s.names[task.Name] = struct{}{}

	s.loops.Add(1)
	go s.loop(s.ctx, task)
	return nil
}

func (s *Scheduler) loop(ctx context.Context, task Task) {
	defer s.loops.Done()

	ticker := time.NewTicker(task.Every)
	defer ticker.Stop()

	for run := 1; ; run++ {
		select {
		case <-ctx.Done():
			logger.Debug("Background task stopped", map[string]interface{}{"task": task.Name})
			return
		case <-ticker.C:
		}

		if err := s.runOnce(ctx, task); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error(err, "Background task failed", map[string]interface{}{"task": task.Name, "run": run})
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, task Task) (err error) {
	start := time.Now()
	if task.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}

		status := "success"
		switch {
		case errors.Is(err, context.Canceled):
			status = "canceled"
		case err != nil:
			status = "failure"
		default:
			taskLastOK.WithLabelValues(task.Name).Set(float64(time.Now().Unix()))
		}
		taskRuns.WithLabelValues(task.Name, status).Inc()
		taskDuration.WithLabelValues(task.Name).Observe(time.Since(start).Seconds())
	}()

	return task.Run(ctx)
}

// Shutdown stops every task and waits for running calls to return.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		s.loops.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
