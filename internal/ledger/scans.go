package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ia-usgs/field-service-manager-sub001/internal/audit"
	"github.com/ia-usgs/field-service-manager-sub001/internal/inventory"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/reminders"
)

// ScanOverdueReminders finds incomplete reminders past their due time and
// writes an audit entry per reminder so they surface on the timeline. Returns
// the overdue reminders found.
func (f *Facade) ScanOverdueReminders(ctx context.Context) ([]reminders.Reminder, error) {
	completed := false
	now := f.now()
	due, err := reminders.NewRepository(f.db).List(ctx, reminders.ListRemindersRequest{
		DueBefore: now.UTC().Format(time.RFC3339Nano),
		Completed: &completed,
	})
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		return nil, nil
	}
	err = db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		auditor := audit.NewLogger(tx)
		for _, rem := range due {
			if err := auditor.Record(ctx, audit.Entry{
				EntityType: "reminder",
				EntityID:   rem.ID,
				Action:     "overdue",
				Details: fmt.Sprintf("reminder %q for job %s is overdue since %s",
					rem.Title, rem.JobID, rem.DueAt.Format(time.RFC3339)),
				At: now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	f.logger.Info("overdue reminder scan complete", "overdue", len(due))
	return due, nil
}

// ScanLowStock finds items at or below their reorder threshold and writes an
// audit entry per item. Returns the items needing reorder.
func (f *Facade) ScanLowStock(ctx context.Context) ([]inventory.Item, error) {
	low, err := inventory.NewRepository(f.db).ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	if len(low) == 0 {
		return nil, nil
	}
	now := f.now()
	err = db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		auditor := audit.NewLogger(tx)
		for _, item := range low {
			if err := auditor.Record(ctx, audit.Entry{
				EntityType: "inventory",
				EntityID:   item.ID,
				Action:     "low-stock",
				Details: fmt.Sprintf("item %q at %d on hand, reorder threshold %d",
					item.Name, item.Quantity, item.ReorderThreshold),
				At: now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	f.logger.Info("low stock scan complete", "items", len(low))
	return low, nil
}
