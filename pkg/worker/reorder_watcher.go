package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
	"github.com/afyahms/hms-api/pkg/metrics"
)

// ReorderNotifier receives the medicines that need reordering on each scan.
type ReorderNotifier interface {
	NotifyReorder(ctx context.Context, medicines []*model.Medicine) error
}

// ReorderWatcher periodically scans the pharmacy inventory and raises
// reorder notifications for medicines at or below their reorder level.
type ReorderWatcher struct {
	repo     repository.MedicineRepository
	notifier ReorderNotifier
	interval time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewReorderWatcher(
	repo repository.MedicineRepository,
	notifier ReorderNotifier,
	interval time.Duration,
	logger *zap.Logger,
	metrics *metrics.Metrics,
) *ReorderWatcher {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReorderWatcher{
		repo:     repo,
		notifier: notifier,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

func (w *ReorderWatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("starting reorder watcher", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("shutting down reorder watcher")
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *ReorderWatcher) scan(ctx context.Context) {
	medicines, err := w.repo.ListNeedingReorder(ctx)
	if err != nil {
		w.logger.Error("reorder scan failed", zap.Error(err))
		return
	}

	lowStock := 0
	for _, m := range medicines {
		if m.IsLowStock() {
			lowStock++
		}
	}
	w.metrics.LowStockMedicines.Set(float64(lowStock))

	if len(medicines) == 0 {
		return
	}

	w.logger.Warn("medicines need reordering", zap.Int("count", len(medicines)))
	if err := w.notifier.NotifyReorder(ctx, medicines); err != nil {
		w.logger.Error("reorder notification failed", zap.Error(err))
	}
}
