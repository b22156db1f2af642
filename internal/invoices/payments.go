package invoices

import (
	"context"

	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

// PaymentRepository persists the signed payment list per invoice.
type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(conn db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: conn}
}

const paymentColumns = `id, invoice_id, amount_cents, method, notes, paid_at, created_at, updated_at`

func (r *PaymentRepository) Insert(ctx context.Context, p Payment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.InvoiceID, p.AmountCents, p.Method, p.Notes,
		shared.FormatTime(p.PaidAt), shared.FormatTime(p.CreatedAt),
		shared.FormatTime(p.UpdatedAt))
	if err != nil {
		return shared.Storagef("insert payment", err)
	}
	return nil
}

// ListByInvoice uses the payments.by-invoice index, ordered oldest first.
func (r *PaymentRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE invoice_id = ? ORDER BY paid_at, id`,
		invoiceID)
	if err != nil {
		return nil, shared.Storagef("list payments", err)
	}
	defer rows.Close()

	var result []Payment
	for rows.Next() {
		var p Payment
		var paidAt, createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.AmountCents, &p.Method,
			&p.Notes, &paidAt, &createdAt, &updatedAt); err != nil {
			return nil, shared.Storagef("scan payment", err)
		}
		p.PaidAt = shared.ParseTime(paidAt)
		p.CreatedAt = shared.ParseTime(createdAt)
		p.UpdatedAt = shared.ParseTime(updatedAt)
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.Storagef("list payments", err)
	}
	return result, nil
}

// DeleteByInvoice removes every payment for an invoice (job deletion cascade).
func (r *PaymentRepository) DeleteByInvoice(ctx context.Context, invoiceID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE invoice_id = ?`, invoiceID)
	if err != nil {
		return shared.Storagef("delete payments", err)
	}
	return nil
}
