package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls     atomic.Int32
	SweepFunc func(ctx context.Context) (int, error)
}

func (f *fakeSweeper) SweepNoShows(ctx context.Context) (int, error) {
	f.calls.Add(1)
	if f.SweepFunc != nil {
		return f.SweepFunc(ctx)
	}
	return 0, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNoShowWorker_DisabledReturnsImmediately(t *testing.T) {
	s := &fakeSweeper{}
	w := NewNoShowWorker(s, NoShowConfig{}, quietLogger())

	require.NoError(t, w.Run(context.Background()))
	assert.Zero(t, s.calls.Load())
}

func TestNoShowWorker_SweepsUntilCancelled(t *testing.T) {
	s := &fakeSweeper{SweepFunc: func(context.Context) (int, error) { return 2, nil }}
	w := NewNoShowWorker(s, NoShowConfig{ScanInterval: 5 * time.Millisecond}, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return s.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}

	assert.Equal(t, int64(2)*int64(s.calls.Load()), w.TotalMarked())
}

func TestNoShowWorker_KeepsRunningAfterFailure(t *testing.T) {
	s := &fakeSweeper{SweepFunc: func(context.Context) (int, error) { return 0, errors.New("db down") }}
	w := NewNoShowWorker(s, NoShowConfig{ScanInterval: 5 * time.Millisecond}, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.Eventually(t, func() bool { return s.calls.Load() >= 2 }, time.Second, time.Millisecond)
	assert.Zero(t, w.TotalMarked())
}
