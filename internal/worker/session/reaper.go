package session

import (
	"context"
	"time"

	"github.com/location-map/internal/worker"
	"go.uber.org/zap"
)

// Reaper закрывает брошенные сессии
type Reaper interface {
	Reap() int
}

// ReaperWorker периодически размонтирует виды, к которым давно не обращались
type ReaperWorker struct {
	*worker.BaseWorker
	sessions Reaper
	interval time.Duration
}

// NewReaperWorker создает новый ReaperWorker
func NewReaperWorker(sessions Reaper, interval time.Duration, logger *zap.Logger) *ReaperWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReaperWorker{
		BaseWorker: worker.NewBaseWorker("session-reaper", logger),
		sessions:   sessions,
		interval:   interval,
	}
}

// Start запускает воркер
func (w *ReaperWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting session reaper", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case <-ticker.C:
			if n := w.sessions.Reap(); n > 0 {
				logger.Info("Idle sessions reaped", zap.Int("count", n))
			}
		}
	}
}
