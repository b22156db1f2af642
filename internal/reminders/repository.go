package reminders

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

type Repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

const reminderColumns = `id, job_id, customer_id, title, due_at, completed, completed_at, created_at, updated_at`

func (r *Repository) Insert(ctx context.Context, rem Reminder) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (`+reminderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rem.ID, rem.JobID, rem.CustomerID, rem.Title, shared.FormatTime(rem.DueAt),
		boolToInt(rem.Completed), shared.FormatTime(rem.CompletedAt),
		shared.FormatTime(rem.CreatedAt), shared.FormatTime(rem.UpdatedAt))
	if err != nil {
		return shared.Storagef("insert reminder", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, rem Reminder) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET title = ?, due_at = ?, completed = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		rem.Title, shared.FormatTime(rem.DueAt), boolToInt(rem.Completed),
		shared.FormatTime(rem.CompletedAt), shared.FormatTime(rem.UpdatedAt), rem.ID)
	if err != nil {
		return shared.Storagef("update reminder", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shared.Storagef("rows affected", err)
	}
	if n == 0 {
		return shared.NotFoundf("reminder %s", rem.ID)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return shared.Storagef("delete reminder", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shared.Storagef("rows affected", err)
	}
	if n == 0 {
		return shared.NotFoundf("reminder %s", id)
	}
	return nil
}

// DeleteByJob removes every reminder for a job (deletion cascade).
func (r *Repository) DeleteByJob(ctx context.Context, jobID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE job_id = ?`, jobID)
	if err != nil {
		return shared.Storagef("delete reminders", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Reminder, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	rem, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFoundf("reminder %s", id)
	}
	if err != nil {
		return nil, shared.Storagef("get reminder", err)
	}
	return rem, nil
}

// ListByJob uses a scan over the job id; used by the job deletion cascade.
func (r *Repository) ListByJob(ctx context.Context, jobID string) ([]Reminder, error) {
	return r.query(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE job_id = ? ORDER BY due_at`, jobID)
}

// List serves the reminders.by-due-date and reminders.by-completed patterns.
func (r *Repository) List(ctx context.Context, req ListRemindersRequest) ([]Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders`
	var conditions []string
	var args []any
	if req.JobID != "" {
		conditions = append(conditions, `job_id = ?`)
		args = append(args, req.JobID)
	}
	if req.DueBefore != "" {
		conditions = append(conditions, `due_at <= ?`)
		args = append(args, req.DueBefore)
	}
	if req.Completed != nil {
		conditions = append(conditions, `completed = ?`)
		args = append(args, boolToInt(*req.Completed))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY due_at`
	return r.query(ctx, query, args...)
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]Reminder, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, shared.Storagef("list reminders", err)
	}
	defer rows.Close()

	var result []Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, shared.Storagef("scan reminder", err)
		}
		result = append(result, *rem)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.Storagef("list reminders", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReminder(row rowScanner) (*Reminder, error) {
	var rem Reminder
	var dueAt, completedAt, createdAt, updatedAt string
	var completed int
	if err := row.Scan(&rem.ID, &rem.JobID, &rem.CustomerID, &rem.Title, &dueAt,
		&completed, &completedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rem.DueAt = shared.ParseTime(dueAt)
	rem.Completed = completed != 0
	rem.CompletedAt = shared.ParseTime(completedAt)
	rem.CreatedAt = shared.ParseTime(createdAt)
	rem.UpdatedAt = shared.ParseTime(updatedAt)
	return &rem, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
