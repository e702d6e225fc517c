package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerRunsJobOnInterval(t *testing.T) {
	var runs atomic.Int32
	s := New()
	s.Register(Job{
		Name:     "tick",
		Interval: 10 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 2 runs, got %d", runs.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSchedulerReportsErrors(t *testing.T) {
	errCh := make(chan string, 1)
	s := New()
	s.OnError = func(name string, err error) {
		select {
		case errCh <- name:
		default:
		}
	}
	s.Register(Job{
		Name:     "broken",
		Interval: 5 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			return errors.New("boom")
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	select {
	case name := <-errCh:
		if name != "broken" {
			t.Fatalf("wrong job name: %s", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("OnError was never called")
	}
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	var runs atomic.Int32
	s := New()
	s.Register(Job{
		Name:     "tick",
		Interval: 5 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	if runs.Load() != after {
		t.Fatal("job kept running after cancel")
	}
}
