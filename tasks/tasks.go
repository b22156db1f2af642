// Package tasks runs the background scans over the ledger: overdue reminder
// detection and low-stock reorder checks.
package tasks

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ia-usgs/field-service-manager-sub001/internal/ledger"
)

const (
	// QueueDefault is the default queue name for background tasks.
	QueueDefault = "default"
	// TaskReminderScan finds reminders past their due time.
	TaskReminderScan = "reminders:scan"
	// TaskLowStockScan finds inventory at or below reorder threshold.
	TaskLowStockScan = "inventory:reorder-scan"
)

// ScanPayload carries scheduling metadata for the periodic scans.
type ScanPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewReminderScanTask constructs an Asynq task for the overdue reminder scan.
func NewReminderScanTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(ScanPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReminderScan, body, asynq.Queue(QueueDefault)), nil
}

// NewLowStockScanTask constructs an Asynq task for the reorder check.
func NewLowStockScanTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(ScanPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, body, asynq.Queue(QueueDefault)), nil
}

// Scans binds the scan handlers to the facade.
type Scans struct {
	ledger *ledger.Facade
	logger *slog.Logger
}

// NewScans constructs the scan handlers.
func NewScans(facade *ledger.Facade, logger *slog.Logger) *Scans {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scans{ledger: facade, logger: logger}
}

// HandleReminderScan processes TaskReminderScan tasks.
func (s *Scans) HandleReminderScan(ctx context.Context, t *asynq.Task) error {
	var payload ScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	due, err := s.ledger.ScanOverdueReminders(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("reminder scan done",
		slog.Int("overdue", len(due)),
		slog.Time("scheduled_for", payload.ScheduledFor))
	return nil
}

// HandleLowStockScan processes TaskLowStockScan tasks.
func (s *Scans) HandleLowStockScan(ctx context.Context, t *asynq.Task) error {
	var payload ScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	low, err := s.ledger.ScanLowStock(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("low stock scan done",
		slog.Int("items", len(low)),
		slog.Time("scheduled_for", payload.ScheduledFor))
	return nil
}
