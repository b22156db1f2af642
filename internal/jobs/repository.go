package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

type Repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

const jobColumns = `id, customer_id, title, description, status, job_date,
	labor_hours, labor_rate_cents, parts, misc_fee_cents, tax_rate, invoice_id,
	created_at, updated_at`

// Insert writes a job exactly as given, including timestamps, so trash
// restoration reproduces the original record.
func (r *Repository) Insert(ctx context.Context, j Job) error {
	parts, err := json.Marshal(orEmptyParts(j.Parts))
	if err != nil {
		return shared.Storagef("marshal job parts", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO jobs (`+jobColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.CustomerID, j.Title, j.Description, string(j.Status), j.Date,
		j.LaborHours, j.LaborRateCents, string(parts), j.MiscFeeCents, j.TaxRate,
		j.InvoiceID, shared.FormatTime(j.CreatedAt), shared.FormatTime(j.UpdatedAt))
	if err != nil {
		return shared.Storagef("insert job", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, j Job) error {
	parts, err := json.Marshal(orEmptyParts(j.Parts))
	if err != nil {
		return shared.Storagef("marshal job parts", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET customer_id = ?, title = ?, description = ?, status = ?,
			job_date = ?, labor_hours = ?, labor_rate_cents = ?, parts = ?,
			misc_fee_cents = ?, tax_rate = ?, invoice_id = ?, updated_at = ?
		WHERE id = ?`,
		j.CustomerID, j.Title, j.Description, string(j.Status), j.Date,
		j.LaborHours, j.LaborRateCents, string(parts), j.MiscFeeCents, j.TaxRate,
		j.InvoiceID, shared.FormatTime(j.UpdatedAt), j.ID)
	if err != nil {
		return shared.Storagef("update job", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shared.Storagef("rows affected", err)
	}
	if n == 0 {
		return shared.NotFoundf("job %s", j.ID)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return shared.Storagef("delete job", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shared.Storagef("rows affected", err)
	}
	if n == 0 {
		return shared.NotFoundf("job %s", id)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFoundf("job %s", id)
	}
	if err != nil {
		return nil, shared.Storagef("get job", err)
	}
	return j, nil
}

// List serves the fixed query patterns backed by the jobs.by-customer,
// jobs.by-status and jobs.by-date indexes.
func (r *Repository) List(ctx context.Context, req ListJobsRequest) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	var conditions []string
	var args []any
	if req.CustomerID != "" {
		conditions = append(conditions, `customer_id = ?`)
		args = append(args, req.CustomerID)
	}
	if req.Status != "" {
		conditions = append(conditions, `status = ?`)
		args = append(args, req.Status)
	}
	if req.DateFrom != "" {
		conditions = append(conditions, `job_date >= ?`)
		args = append(args, req.DateFrom)
	}
	if req.DateTo != "" {
		conditions = append(conditions, `job_date <= ?`)
		args = append(args, req.DateTo)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY job_date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, shared.Storagef("list jobs", err)
	}
	defer rows.Close()

	var result []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, shared.Storagef("scan job", err)
		}
		result = append(result, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.Storagef("list jobs", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var j Job
	var status, parts, createdAt, updatedAt string
	if err := row.Scan(&j.ID, &j.CustomerID, &j.Title, &j.Description, &status,
		&j.Date, &j.LaborHours, &j.LaborRateCents, &parts, &j.MiscFeeCents,
		&j.TaxRate, &j.InvoiceID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(parts), &j.Parts); err != nil {
		return nil, fmt.Errorf("decode job parts: %w", err)
	}
	j.Status = Status(status)
	j.CreatedAt = shared.ParseTime(createdAt)
	j.UpdatedAt = shared.ParseTime(updatedAt)
	return &j, nil
}

func orEmptyParts(parts []Part) []Part {
	if parts == nil {
		return []Part{}
	}
	return parts
}
