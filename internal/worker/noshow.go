package worker

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Sweeper marks overdue reservations. reservation.Service satisfies it.
type Sweeper interface {
	SweepNoShows(ctx context.Context) (int, error)
}

type NoShowConfig struct {
	// ScanInterval between sweeps. Zero or negative disables the worker.
	ScanInterval time.Duration
}

// NoShowWorker periodically sweeps confirmed reservations whose party never arrived.
type NoShowWorker struct {
	sweeper Sweeper
	cfg     NoShowConfig
	logger  *slog.Logger

	totalMarked atomic.Int64
}

func NewNoShowWorker(sweeper Sweeper, cfg NoShowConfig, logger *slog.Logger) *NoShowWorker {
	if logger == nil {
		logger = slog.Default()
	}

	return &NoShowWorker{
		sweeper: sweeper,
		cfg:     cfg,
		logger:  logger.With("worker", "noshow"),
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
// It always returns nil so it can sit in an errgroup next to the HTTP server.
func (w *NoShowWorker) Run(ctx context.Context) error {
	if w.cfg.ScanInterval <= 0 {
		w.logger.Info("no-show worker disabled")
		return nil
	}

	w.logger.Info("starting no-show worker", "interval", w.cfg.ScanInterval)

	ticker := time.NewTicker(w.cfg.ScanInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("no-show worker stopped", "total_marked", w.totalMarked.Load())
			return nil
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// TotalMarked reports how many reservations this worker has marked since start.
func (w *NoShowWorker) TotalMarked() int64 {
	return w.totalMarked.Load()
}

func (w *NoShowWorker) sweep(ctx context.Context) {
	n, err := w.sweeper.SweepNoShows(ctx)
	if n > 0 {
		w.totalMarked.Add(int64(n))
		w.logger.Info("marked no-shows", "count", n)
	}
	if err != nil && ctx.Err() == nil {
		w.logger.Error("no-show sweep failed", "error", err)
	}
}
