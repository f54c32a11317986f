package logging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWorkerDrainsQueueUntilShutdown(t *testing.T) {
	log := New(Config{Level: LevelInfo, Screen: false, QueueCapacity: 16})
	w := &Worker{Log: log}

	require.NoError(t, w.OnInit(context.Background(), nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.OnRun(ctx, nil)
		close(done)
	}()

	for i := 0; i < 5; i++ {
		log.Infof("TEST", "entry %d", i)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("OnRun did not return after ctx cancellation")
	}

	w.OnExit(context.Background(), nil)
}

func TestWorkerDrainRemainingEmptiesBacklogOnShutdown(t *testing.T) {
	log := New(Config{Level: LevelInfo, Screen: false, QueueCapacity: 16})
	w := &Worker{Log: log}
	require.NoError(t, w.OnInit(context.Background(), nil))

	for i := 0; i < 10; i++ {
		log.Infof("TEST", "backlog %d", i)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		_ = w.OnRun(ctx, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("OnRun did not drain backlog and return")
	}

	_, ok := log.queue.Pop(0)
	require.False(t, ok, "queue should be empty after drainRemaining")
}
