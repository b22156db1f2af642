package invoices

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

const invoiceColumns = `id, number, job_id, customer_id, labor_total_cents,
	parts_total_cents, pass_through_cents, misc_fees_cents, tax_cents,
	total_cents, income_amount_cents, paid_amount_cents, payment_status,
	legacy_payment_method, legacy_payment_date, created_at, updated_at`

func (r *Repository) Insert(ctx context.Context, inv Invoice) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (`+invoiceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Number, inv.JobID, inv.CustomerID, inv.LaborTotalCents,
		inv.PartsTotalCents, inv.PassThroughCents, inv.MiscFeesCents, inv.TaxCents,
		inv.TotalCents, inv.IncomeAmountCents, inv.PaidAmountCents,
		string(inv.PaymentStatus), inv.LegacyPaymentMethod, inv.LegacyPaymentDate,
		shared.FormatTime(inv.CreatedAt), shared.FormatTime(inv.UpdatedAt))
	if err != nil {
		return shared.Storagef("insert invoice", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, inv Invoice) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET labor_total_cents = ?, parts_total_cents = ?,
			pass_through_cents = ?, misc_fees_cents = ?, tax_cents = ?,
			total_cents = ?, income_amount_cents = ?, paid_amount_cents = ?,
			payment_status = ?, updated_at = ?
		WHERE id = ?`,
		inv.LaborTotalCents, inv.PartsTotalCents, inv.PassThroughCents,
		inv.MiscFeesCents, inv.TaxCents, inv.TotalCents, inv.IncomeAmountCents,
		inv.PaidAmountCents, string(inv.PaymentStatus),
		shared.FormatTime(inv.UpdatedAt), inv.ID)
	if err != nil {
		return shared.Storagef("update invoice", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shared.Storagef("rows affected", err)
	}
	if n == 0 {
		return shared.NotFoundf("invoice %s", inv.ID)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		return shared.Storagef("delete invoice", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id)
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFoundf("invoice %s", id)
	}
	if err != nil {
		return nil, shared.Storagef("get invoice", err)
	}
	return inv, nil
}

// GetByJob uses the invoices.by-job index; a job has at most one invoice.
func (r *Repository) GetByJob(ctx context.Context, jobID string) (*Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE job_id = ?`, jobID)
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFoundf("invoice for job %s", jobID)
	}
	if err != nil {
		return nil, shared.Storagef("get invoice by job", err)
	}
	return inv, nil
}

func (r *Repository) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	var conditions []string
	var args []any
	if req.CustomerID != "" {
		conditions = append(conditions, `customer_id = ?`)
		args = append(args, req.CustomerID)
	}
	if req.JobID != "" {
		conditions = append(conditions, `job_id = ?`)
		args = append(args, req.JobID)
	}
	if req.Status != "" {
		conditions = append(conditions, `payment_status = ?`)
		args = append(args, req.Status)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY number DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, shared.Storagef("list invoices", err)
	}
	defer rows.Close()

	var result []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, shared.Storagef("scan invoice", err)
		}
		result = append(result, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.Storagef("list invoices", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*Invoice, error) {
	var inv Invoice
	var status, createdAt, updatedAt string
	if err := row.Scan(&inv.ID, &inv.Number, &inv.JobID, &inv.CustomerID,
		&inv.LaborTotalCents, &inv.PartsTotalCents, &inv.PassThroughCents,
		&inv.MiscFeesCents, &inv.TaxCents, &inv.TotalCents, &inv.IncomeAmountCents,
		&inv.PaidAmountCents, &status, &inv.LegacyPaymentMethod,
		&inv.LegacyPaymentDate, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	inv.PaymentStatus = PaymentStatus(status)
	inv.CreatedAt = shared.ParseTime(createdAt)
	inv.UpdatedAt = shared.ParseTime(updatedAt)
	return &inv, nil
}
