package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-dist/meridian-core/internal/catalog"
)

// LowStockScanJob reports products that fell to or below their minimum
// stock so replenishment can be ordered.
type LowStockScanJob struct {
	Catalog *catalog.Service
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewLowStockScanJob initialises the low stock scan handler.
func NewLowStockScanJob(cat *catalog.Service, logger *slog.Logger) *LowStockScanJob {
	return &LowStockScanJob{
		Catalog: cat,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes one scan.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Catalog == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	start := j.clock()
	items, err := j.Catalog.ListLowStock(ctx)
	if err != nil {
		return err
	}
	if payload.Limit > 0 && len(items) > payload.Limit {
		items = items[:payload.Limit]
	}

	for _, p := range items {
		j.Logger.Warn("low stock",
			slog.Int64("product_id", p.ID),
			slog.String("name", p.Name),
			slog.Int("stock_qty", p.StockQty),
			slog.Int("min_stock", p.MinStock),
		)
	}
	j.Logger.Info("low stock scan finished",
		slog.Int("flagged", len(items)),
		slog.Duration("took", j.clock().Sub(start)),
	)
	return nil
}
