package supervise

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestGoRestartsPanickedLoop(t *testing.T) {
	oldUnit := backoffUnit
	backoffUnit = time.Millisecond
	defer func() { backoffUnit = oldUnit }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var starts int32
	Go(ctx, "flaky", func(ctx context.Context) {
		if atomic.AddInt32(&starts, 1) < 3 {
			panic("boom")
		}
		<-ctx.Done()
	})

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&starts) < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := atomic.LoadInt32(&starts); got < 3 {
		t.Fatalf("Expected the loop to be restarted to its third run, got %d starts", got)
	}
}

func TestGoStopsWithContext(t *testing.T) {
	oldUnit := backoffUnit
	backoffUnit = time.Millisecond
	defer func() { backoffUnit = oldUnit }()

	ctx, cancel := context.WithCancel(context.Background())

	var starts int32
	done := make(chan struct{})
	Go(ctx, "stoppable", func(ctx context.Context) {
		atomic.AddInt32(&starts, 1)
		<-ctx.Done()
		close(done)
	})

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&starts) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Expected the loop to observe cancellation")
	}

	// No further restarts after cancellation.
	time.Sleep(20 * time.Millisecond)
	if got := atomic.LoadInt32(&starts); got != 1 {
		t.Errorf("Expected exactly one start, got %d", got)
	}
}
