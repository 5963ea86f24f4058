package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-dist/meridian-core/internal/reports"
)

// ReportsWarmupJob re-runs the standard reports so the first reader after an
// invalidation does not pay the aggregation cost.
type ReportsWarmupJob struct {
	Reports *reports.Service
	Logger  *slog.Logger
}

// NewReportsWarmupJob initialises the warmup handler.
func NewReportsWarmupJob(svc *reports.Service, logger *slog.Logger) *ReportsWarmupJob {
	return &ReportsWarmupJob{Reports: svc, Logger: logger}
}

// Handle warms the current-month and all-time report caches.
func (j *ReportsWarmupJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("reports warmup: handler not configured")
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	periods := []reports.Period{
		{},
		{From: monthStart},
	}

	for _, period := range periods {
		if _, err := j.Reports.SalesByCustomer(ctx, period); err != nil {
			return err
		}
		if _, err := j.Reports.PaymentsByMethod(ctx, period); err != nil {
			return err
		}
	}
	if _, err := j.Reports.StockLevels(ctx); err != nil {
		return err
	}

	j.Logger.Info("report caches warmed", slog.Int("periods", len(periods)))
	return nil
}
