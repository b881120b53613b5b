package session_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/location-map/internal/worker"
	"github.com/location-map/internal/worker/session"
)

type countingReaper struct {
	calls atomic.Int32
}

func (r *countingReaper) Reap() int {
	r.calls.Add(1)
	return 1
}

func TestReaperWorker_Name(t *testing.T) {
	w := session.NewReaperWorker(&countingReaper{}, time.Second, zap.NewNop())
	assert.Equal(t, "session-reaper", w.Name())
}

func TestReaperWorker_ReapsOnInterval(t *testing.T) {
	reaper := &countingReaper{}
	w := session.NewReaperWorker(reaper, 10*time.Millisecond, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	assert.Eventually(t, func() bool { return reaper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, w.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.True(t, w.IsStopped())
}

func TestReaperWorker_StopsOnContextCancel(t *testing.T) {
	w := session.NewReaperWorker(&countingReaper{}, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorkerManager_StartAndStop(t *testing.T) {
	manager := worker.NewWorkerManager(zap.NewNop(), time.Second)
	assert.ErrorIs(t, manager.Start(context.Background()), worker.ErrNoWorkers)

	reaper := &countingReaper{}
	manager.Register(session.NewReaperWorker(reaper, 10*time.Millisecond, zap.NewNop()))

	require.NoError(t, manager.Start(context.Background()))
	assert.Eventually(t, func() bool { return reaper.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)

	assert.NoError(t, manager.Stop())
}
