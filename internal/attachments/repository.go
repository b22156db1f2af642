package attachments

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

const attachmentColumns = `id, job_id, path, size_bytes, mime, created_at, updated_at`

func (r *Repository) Insert(ctx context.Context, a Attachment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attachments (`+attachmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.JobID, a.Path, a.SizeBytes, a.Mime,
		shared.FormatTime(a.CreatedAt), shared.FormatTime(a.UpdatedAt))
	if err != nil {
		return shared.Storagef("insert attachment", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = ?`, id)
	if err != nil {
		return shared.Storagef("delete attachment", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shared.Storagef("rows affected", err)
	}
	if n == 0 {
		return shared.NotFoundf("attachment %s", id)
	}
	return nil
}

// DeleteByJob removes every attachment record for a job (deletion cascade).
func (r *Repository) DeleteByJob(ctx context.Context, jobID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE job_id = ?`, jobID)
	if err != nil {
		return shared.Storagef("delete attachments", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Attachment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+attachmentColumns+` FROM attachments WHERE id = ?`, id)
	a, err := scanAttachment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFoundf("attachment %s", id)
	}
	if err != nil {
		return nil, shared.Storagef("get attachment", err)
	}
	return a, nil
}

// ListByJob uses the attachments.by-job index.
func (r *Repository) ListByJob(ctx context.Context, jobID string) ([]Attachment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+attachmentColumns+` FROM attachments WHERE job_id = ? ORDER BY created_at`, jobID)
	if err != nil {
		return nil, shared.Storagef("list attachments", err)
	}
	defer rows.Close()

	var result []Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, shared.Storagef("scan attachment", err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.Storagef("list attachments", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttachment(row rowScanner) (*Attachment, error) {
	var a Attachment
	var createdAt, updatedAt string
	if err := row.Scan(&a.ID, &a.JobID, &a.Path, &a.SizeBytes, &a.Mime,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	a.CreatedAt = shared.ParseTime(createdAt)
	a.UpdatedAt = shared.ParseTime(updatedAt)
	return &a, nil
}
