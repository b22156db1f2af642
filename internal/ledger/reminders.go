package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ia-usgs/field-service-manager-sub001/internal/audit"
	"github.com/ia-usgs/field-service-manager-sub001/internal/jobs"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/reminders"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

// AddReminder attaches a follow-up to a job. The customer id is taken from
// the job so reminders stay consistent with the job they annotate.
func (f *Facade) AddReminder(ctx context.Context, req reminders.CreateReminderRequest) (*reminders.Reminder, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return nil, err
	}
	dueAt := shared.ParseTime(req.DueAt)
	if dueAt.IsZero() {
		return nil, shared.Validationf("due_at %q is not a valid timestamp", req.DueAt)
	}
	now := f.now()
	var rem reminders.Reminder
	err := db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		j, err := jobs.NewRepository(tx).Get(ctx, req.JobID)
		if err != nil {
			return err
		}
		rem = reminders.Reminder{
			ID:         newID(),
			JobID:      j.ID,
			CustomerID: j.CustomerID,
			Title:      req.Title,
			DueAt:      dueAt,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := reminders.NewRepository(tx).Insert(ctx, rem); err != nil {
			return err
		}
		return audit.NewLogger(tx).Record(ctx, audit.Entry{
			EntityType: "reminder",
			EntityID:   rem.ID,
			Action:     "create",
			Details:    fmt.Sprintf("created reminder %q for job %q", rem.Title, j.Title),
			At:         now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &rem, nil
}

// CompleteReminder marks a reminder done, stamping the completion time.
func (f *Facade) CompleteReminder(ctx context.Context, id string) (*reminders.Reminder, error) {
	var updated *reminders.Reminder
	now := f.now()
	err := db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		repo := reminders.NewRepository(tx)
		rem, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if rem.Completed {
			updated = rem
			return nil
		}
		rem.Completed = true
		rem.CompletedAt = now
		rem.UpdatedAt = now
		if err := repo.Update(ctx, *rem); err != nil {
			return err
		}
		updated = rem
		return audit.NewLogger(tx).Record(ctx, audit.Entry{
			EntityType: "reminder",
			EntityID:   rem.ID,
			Action:     "complete",
			Details:    fmt.Sprintf("completed reminder %q", rem.Title),
			At:         now,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteReminder removes a single reminder. Reminders are leaf records so no
// trash entry is kept for them.
func (f *Facade) DeleteReminder(ctx context.Context, id string) error {
	now := f.now()
	return db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		repo := reminders.NewRepository(tx)
		rem, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return audit.NewLogger(tx).Record(ctx, audit.Entry{
			EntityType: "reminder",
			EntityID:   rem.ID,
			Action:     "delete",
			Details:    fmt.Sprintf("deleted reminder %q", rem.Title),
			At:         now,
		})
	})
}

// ListReminders serves the due-date and completion lookups.
func (f *Facade) ListReminders(ctx context.Context, req reminders.ListRemindersRequest) ([]reminders.Reminder, error) {
	return reminders.NewRepository(f.db).List(ctx, req)
}
