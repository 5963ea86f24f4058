// Package jobs hosts the background workers of Meridian: the periodic
// low-stock scan and the report cache warmup.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLowStockScan walks the catalog for products at or below their
	// minimum stock threshold.
	TaskLowStockScan = "stock:lowscan"
	// TaskReportsWarmup pre-populates the report caches after
	// invalidation.
	TaskReportsWarmup = "reports:warmup"
)

// LowStockScanPayload tunes a single scan run.
type LowStockScanPayload struct {
	// Limit caps how many products are reported per run. Zero means all.
	Limit int `json:"limit"`
}

// NewLowStockScanTask constructs an Asynq task.
func NewLowStockScanTask(payload LowStockScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, data), nil
}

// NewReportsWarmupTask constructs an Asynq task.
func NewReportsWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskReportsWarmup, nil)
}
