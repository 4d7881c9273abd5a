package worker

import (
	"context"
	"time"

	"github.com/medicalife/patient-api/pkg/logger"
	"github.com/medicalife/patient-api/pkg/metrics"
)

// Cleaner removes processed outbox events older than the retention window.
type Cleaner interface {
	CleanupProcessedEvents(ctx context.Context, retention time.Duration) (int64, error)
}

type OutboxCleanupWorker struct {
	cleaner   Cleaner
	retention time.Duration
	interval  time.Duration
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewOutboxCleanupWorker(cleaner Cleaner, retention, interval time.Duration, logger *logger.Logger, metrics *metrics.Metrics) *OutboxCleanupWorker {
	return &OutboxCleanupWorker{
		cleaner:   cleaner,
		retention: retention,
		interval:  interval,
		logger:    logger.With("outbox_cleanup"),
		metrics:   metrics,
	}
}

func (w *OutboxCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

func (w *OutboxCleanupWorker) RunOnce(ctx context.Context) {
	count, err := w.cleaner.CleanupProcessedEvents(ctx, w.retention)
	if err != nil {
		w.logger.Error(err, "Failed to clean up outbox events")
		return
	}
	w.metrics.OutboxEventsCleaned.Add(float64(count))
}
