package background

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func startScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s := NewScheduler()
	s.Start(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func waitFor(t *testing.T, counter *int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(counter) < want {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least %d runs, got %d", want, atomic.LoadInt32(counter))
		}
		time.Sleep(time.Millisecond)
	}
}

func TestEveryBeforeStart(t *testing.T) {
	s := NewScheduler()
	err := s.Every(Task{Name: "noop", Every: time.Second, Run: func(context.Context) error { return nil }})
	if !errors.Is(err, ErrSchedulerNotStarted) {
		t.Fatalf("expected ErrSchedulerNotStarted, got %v", err)
	}
}

func TestEveryValidatesTask(t *testing.T) {
	s := startScheduler(t)
	run := func(context.Context) error { return nil }

	if err := s.Every(Task{Every: time.Second, Run: run}); err == nil {
		t.Fatalf("expected error for missing name")
	}
	if err := s.Every(Task{Name: "empty", Every: time.Second}); err == nil {
		t.Fatalf("expected error for missing runner")
	}
	if err := s.Every(Task{Name: "zero", Run: run}); err == nil {
		t.Fatalf("expected error for missing period")
	}
}

func TestTaskRunsRepeatedly(t *testing.T) {
	s := startScheduler(t)

	var runs int32
	err := s.Every(Task{
		Name:  "reaper",
		Every: 5 * time.Millisecond,
		Run: func(context.Context) error {
			atomic.AddInt32(&runs, 1)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitFor(t, &runs, 3)

	if err := s.Every(Task{Name: "reaper", Every: time.Second, Run: func(context.Context) error { return nil }}); !errors.Is(err, ErrTaskExists) {
		t.Fatalf("expected ErrTaskExists, got %v", err)
	}
}

func TestPanickingTaskKeepsRunning(t *testing.T) {
	s := startScheduler(t)

	var runs int32
	_ = s.Every(Task{Name: "boom", Every: 5 * time.Millisecond, Run: func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		panic("boom")
	}})
	waitFor(t, &runs, 2)
}

func TestTaskTimeoutCancelsRun(t *testing.T) {
	s := startScheduler(t)

	var expired int32
	_ = s.Every(Task{Name: "slow", Every: 5 * time.Millisecond, Timeout: 5 * time.Millisecond, Run: func(ctx context.Context) error {
		<-ctx.Done()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			atomic.AddInt32(&expired, 1)
		}
		return ctx.Err()
	}})
	waitFor(t, &expired, 1)
}

func TestShutdownStopsTasks(t *testing.T) {
	s := NewScheduler()
	s.Start(context.Background())

	var runs int32
	_ = s.Every(Task{Name: "tick", Every: time.Millisecond, Run: func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}})
	waitFor(t, &runs, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}

	after := atomic.LoadInt32(&runs)
	time.Sleep(10 * time.Millisecond)
	if got := atomic.LoadInt32(&runs); got != after {
		t.Fatalf("expected no runs after shutdown, got %d more", got-after)
	}
}
