package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ia-usgs/field-service-manager-sub001/internal/audit"
	"github.com/ia-usgs/field-service-manager-sub001/internal/invoices"
	"github.com/ia-usgs/field-service-manager-sub001/internal/jobs"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

// GetInvoice looks up an invoice by id.
func (f *Facade) GetInvoice(ctx context.Context, id string) (*invoices.Invoice, error) {
	return invoices.NewRepository(f.db).Get(ctx, id)
}

// GetInvoiceForJob returns the invoice derived from a job, if any.
func (f *Facade) GetInvoiceForJob(ctx context.Context, jobID string) (*invoices.Invoice, error) {
	return invoices.NewRepository(f.db).GetByJob(ctx, jobID)
}

// ListInvoices serves the by-customer, by-job and by-status lookups.
func (f *Facade) ListInvoices(ctx context.Context, req invoices.ListInvoicesRequest) ([]invoices.Invoice, error) {
	return invoices.NewRepository(f.db).List(ctx, req)
}

// ListPayments returns the signed payment list for an invoice, oldest first.
func (f *Facade) ListPayments(ctx context.Context, invoiceID string) ([]invoices.Payment, error) {
	if _, err := invoices.NewRepository(f.db).Get(ctx, invoiceID); err != nil {
		return nil, err
	}
	return invoices.NewPaymentRepository(f.db).ListByInvoice(ctx, invoiceID)
}

// RecordPayment appends a signed payment (negative for refunds) and re-derives
// the invoice paid total and status from the full payment list. An invoice
// paid in full flips its job from invoiced to paid.
func (f *Facade) RecordPayment(ctx context.Context, invoiceID string, req invoices.RecordPaymentRequest) (*invoices.Invoice, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return nil, err
	}
	now := f.now()
	var updated *invoices.Invoice
	err := db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		invRepo := invoices.NewRepository(tx)
		inv, err := invRepo.Get(ctx, invoiceID)
		if err != nil {
			return err
		}

		payRepo := invoices.NewPaymentRepository(tx)
		payment := invoices.Payment{
			ID:          newID(),
			InvoiceID:   inv.ID,
			AmountCents: req.AmountCents,
			Method:      req.Method,
			Notes:       req.Notes,
			PaidAt:      now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := payRepo.Insert(ctx, payment); err != nil {
			return err
		}

		all, err := payRepo.ListByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}
		inv.PaidAmountCents = invoices.SumPayments(all)
		inv.PaymentStatus = invoices.StatusFor(inv.PaidAmountCents, inv.TotalCents)
		inv.UpdatedAt = now
		if err := invRepo.Update(ctx, *inv); err != nil {
			return err
		}

		auditor := audit.NewLogger(tx)
		verb := "payment"
		if req.AmountCents < 0 {
			verb = "refund"
		}
		if err := auditor.Record(ctx, audit.Entry{
			EntityType: "invoice",
			EntityID:   inv.ID,
			Action:     verb,
			Details: fmt.Sprintf("recorded %s of %s on invoice %s via %s; now %s of %s paid (%s)",
				verb, invoices.FormatCents(req.AmountCents), inv.Number, req.Method,
				invoices.FormatCents(inv.PaidAmountCents), invoices.FormatCents(inv.TotalCents),
				inv.PaymentStatus),
			At: now,
		}); err != nil {
			return err
		}

		if inv.PaymentStatus == invoices.StatusPaid {
			jobRepo := jobs.NewRepository(tx)
			j, err := jobRepo.Get(ctx, inv.JobID)
			if err != nil {
				return err
			}
			if j.Status == jobs.StatusInvoiced {
				j.Status = jobs.StatusPaid
				j.UpdatedAt = now
				if err := jobRepo.Update(ctx, *j); err != nil {
					return err
				}
				if err := auditor.Record(ctx, audit.Entry{
					EntityType: "job",
					EntityID:   j.ID,
					Action:     "status",
					Details:    fmt.Sprintf("job %q moved invoiced -> paid: invoice %s settled", j.Title, inv.Number),
					At:         now,
				}); err != nil {
					return err
				}
			}
		}

		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	f.bumpCache(ctx)
	return updated, nil
}

// RecomputeInvoice re-derives an invoice snapshot from its current job.
func (f *Facade) RecomputeInvoice(ctx context.Context, invoiceID string) (*invoices.Invoice, error) {
	var updated *invoices.Invoice
	err := db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		inv, err := invoices.NewRepository(tx).Get(ctx, invoiceID)
		if err != nil {
			return err
		}
		j, err := jobs.NewRepository(tx).Get(ctx, inv.JobID)
		if err != nil {
			return err
		}
		if err := recomputeInvoiceTx(ctx, tx, *j, f.now()); err != nil {
			return err
		}
		updated, err = invoices.NewRepository(tx).Get(ctx, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	f.bumpCache(ctx)
	return updated, nil
}

// recomputeInvoiceTx refreshes the invoice money snapshot for a job inside an
// open transaction. Paid amount and status are re-derived too since a cheaper
// total can settle an existing balance.
func recomputeInvoiceTx(ctx context.Context, tx *sql.Tx, j jobs.Job, now time.Time) error {
	invRepo := invoices.NewRepository(tx)
	inv, err := invRepo.Get(ctx, j.InvoiceID)
	if err != nil {
		return err
	}
	totals := invoices.Compute(j)
	inv.LaborTotalCents = totals.LaborTotalCents
	inv.PartsTotalCents = totals.PartsTotalCents
	inv.PassThroughCents = totals.PassThroughCents
	inv.MiscFeesCents = totals.MiscFeesCents
	inv.TaxCents = totals.TaxCents
	inv.TotalCents = totals.TotalCents
	inv.IncomeAmountCents = totals.IncomeAmountCents
	inv.PaymentStatus = invoices.StatusFor(inv.PaidAmountCents, inv.TotalCents)
	inv.UpdatedAt = now
	if err := invRepo.Update(ctx, *inv); err != nil {
		return err
	}
	return audit.NewLogger(tx).Record(ctx, audit.Entry{
		EntityType: "invoice",
		EntityID:   inv.ID,
		Action:     "recompute",
		Details:    fmt.Sprintf("recomputed invoice %s from job %q, total %s", inv.Number, j.Title, invoices.FormatCents(inv.TotalCents)),
		At:         now,
	})
}
