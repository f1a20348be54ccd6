package services

import (
	"context"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
)

type countingRunner struct {
	mu   stdsync.Mutex
	runs int
}

func (r *countingRunner) Run(_ context.Context) (*domain.RunReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
	return &domain.RunReport{}, nil
}

func (r *countingRunner) RunFolder(_ context.Context, _ string) (*domain.RunReport, error) {
	return &domain.RunReport{}, nil
}

func (r *countingRunner) Status(_ context.Context) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{}, nil
}

func (r *countingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

func TestScheduler_RunsImmediatelyThenOnTicks(t *testing.T) {
	runner := &countingRunner{}
	sched := NewScheduler(runner, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()

	err := sched.Start(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// One immediate pass plus at least one tick.
	assert.GreaterOrEqual(t, runner.count(), 2)
}

func TestScheduler_StopsOnCancel(t *testing.T) {
	runner := &countingRunner{}
	sched := NewScheduler(runner, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	// Give the immediate pass a moment, then cancel.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on cancellation")
	}
	assert.Equal(t, 1, runner.count())
}
