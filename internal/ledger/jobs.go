package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ia-usgs/field-service-manager-sub001/internal/attachments"
	"github.com/ia-usgs/field-service-manager-sub001/internal/audit"
	"github.com/ia-usgs/field-service-manager-sub001/internal/customers"
	"github.com/ia-usgs/field-service-manager-sub001/internal/inventory"
	"github.com/ia-usgs/field-service-manager-sub001/internal/invoices"
	"github.com/ia-usgs/field-service-manager-sub001/internal/jobs"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/reminders"
	"github.com/ia-usgs/field-service-manager-sub001/internal/settings"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
	"github.com/ia-usgs/field-service-manager-sub001/internal/trash"
)

// AddJob creates a job for a customer. Inventory-sourced parts consume stock
// in the same transaction; insufficient stock rejects the whole job.
func (f *Facade) AddJob(ctx context.Context, req jobs.CreateJobRequest) (*jobs.Job, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return nil, err
	}
	now := f.now()
	j := jobs.Job{
		ID:             newID(),
		CustomerID:     req.CustomerID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         jobs.StatusQuoted,
		Date:           req.Date,
		LaborHours:     req.LaborHours,
		LaborRateCents: req.LaborRateCents,
		MiscFeeCents:   req.MiscFeeCents,
		TaxRate:        req.TaxRate,
	}
	for _, p := range req.Parts {
		j.Parts = append(j.Parts, jobs.Part{
			Name:            p.Name,
			Quantity:        p.Quantity,
			UnitCostCents:   p.UnitCostCents,
			UnitPriceCents:  p.UnitPriceCents,
			Source:          jobs.PartSource(p.Source),
			InventoryItemID: p.InventoryItemID,
		})
	}
	j.CreatedAt = now
	j.UpdatedAt = now

	err := db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		if _, err := customers.NewRepository(tx).Get(ctx, req.CustomerID); err != nil {
			return err
		}
		cfg, err := settings.NewRepository(tx).Get(ctx)
		if err != nil {
			return err
		}
		if j.LaborRateCents == 0 {
			j.LaborRateCents = cfg.LaborRateCents
		}
		if j.TaxRate == 0 {
			j.TaxRate = cfg.TaxRate
		}

		invRepo := inventory.NewRepository(tx)
		at := shared.FormatTime(now)
		for _, p := range j.Parts {
			if p.Source != jobs.SourceInventory || p.InventoryItemID == "" {
				continue
			}
			if err := invRepo.AdjustQuantity(ctx, p.InventoryItemID, -p.Quantity, at); err != nil {
				if errors.Is(err, inventory.ErrInsufficientStock) {
					return shared.Validationf("not enough stock for part %q", p.Name)
				}
				return err
			}
		}

		if err := jobs.NewRepository(tx).Insert(ctx, j); err != nil {
			return err
		}
		return audit.NewLogger(tx).Record(ctx, audit.Entry{
			EntityType: "job",
			EntityID:   j.ID,
			Action:     "create",
			Details:    fmt.Sprintf("created job %q for customer %s with %d part(s)", j.Title, j.CustomerID, len(j.Parts)),
			At:         now,
		})
	})
	if err != nil {
		return nil, err
	}
	f.bumpCache(ctx)
	return &j, nil
}

// UpdateJob applies non-nil fields. When the job is already invoiced the
// invoice snapshot is recomputed in the same transaction so money fields
// never drift from the job they describe.
func (f *Facade) UpdateJob(ctx context.Context, id string, req jobs.UpdateJobRequest) (*jobs.Job, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return nil, err
	}
	var updated *jobs.Job
	err := db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		repo := jobs.NewRepository(tx)
		j, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if req.Title != nil {
			j.Title = *req.Title
		}
		if req.Description != nil {
			j.Description = *req.Description
		}
		if req.Date != nil {
			j.Date = *req.Date
		}
		if req.LaborHours != nil {
			j.LaborHours = *req.LaborHours
		}
		if req.LaborRateCents != nil {
			j.LaborRateCents = *req.LaborRateCents
		}
		if req.MiscFeeCents != nil {
			j.MiscFeeCents = *req.MiscFeeCents
		}
		if req.TaxRate != nil {
			j.TaxRate = *req.TaxRate
		}
		j.UpdatedAt = f.now()
		if err := repo.Update(ctx, *j); err != nil {
			return err
		}
		if j.InvoiceID != "" {
			if err := recomputeInvoiceTx(ctx, tx, *j, f.now()); err != nil {
				return err
			}
		}
		updated = j
		return audit.NewLogger(tx).Record(ctx, audit.Entry{
			EntityType: "job",
			EntityID:   j.ID,
			Action:     "update",
			Details:    fmt.Sprintf("updated job %q", j.Title),
			At:         j.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	f.bumpCache(ctx)
	return updated, nil
}

// UpdateJobStatus advances the job lifecycle. The first transition into
// invoiced derives the invoice and consumes exactly one invoice number;
// re-invoicing the same job never issues a second number.
func (f *Facade) UpdateJobStatus(ctx context.Context, id string, next jobs.Status) (*jobs.Job, error) {
	if !jobs.ValidStatus(next) {
		return nil, shared.Validationf("unknown job status %q", next)
	}
	var updated *jobs.Job
	err := db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		repo := jobs.NewRepository(tx)
		j, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if !jobs.ValidTransition(j.Status, next) {
			return shared.Validationf("cannot move job from %s to %s", j.Status, next)
		}
		prev := j.Status
		j.Status = next
		j.UpdatedAt = f.now()

		details := fmt.Sprintf("job %q moved %s -> %s", j.Title, prev, next)
		if next == jobs.StatusInvoiced && j.InvoiceID == "" {
			number, err := settings.NewRepository(tx).NextInvoiceNumber(ctx)
			if err != nil {
				return err
			}
			totals := invoices.Compute(*j)
			inv := invoices.Invoice{
				ID:                newID(),
				Number:            number,
				JobID:             j.ID,
				CustomerID:        j.CustomerID,
				LaborTotalCents:   totals.LaborTotalCents,
				PartsTotalCents:   totals.PartsTotalCents,
				PassThroughCents:  totals.PassThroughCents,
				MiscFeesCents:     totals.MiscFeesCents,
				TaxCents:          totals.TaxCents,
				TotalCents:        totals.TotalCents,
				IncomeAmountCents: totals.IncomeAmountCents,
				PaymentStatus:     invoices.StatusUnpaid,
				CreatedAt:         j.UpdatedAt,
				UpdatedAt:         j.UpdatedAt,
			}
			if err := invoices.NewRepository(tx).Insert(ctx, inv); err != nil {
				return err
			}
			j.InvoiceID = inv.ID
			details = fmt.Sprintf("%s, issued invoice %s for %s", details, number, invoices.FormatCents(totals.TotalCents))
		}

		if err := repo.Update(ctx, *j); err != nil {
			return err
		}
		updated = j
		return audit.NewLogger(tx).Record(ctx, audit.Entry{
			EntityType: "job",
			EntityID:   j.ID,
			Action:     "status",
			Details:    details,
			At:         j.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	f.bumpCache(ctx)
	return updated, nil
}

// DeleteJob removes the job and all dependents in one transaction, restocks
// inventory-sourced parts, then stashes the aggregate in the trash for the
// undo window.
func (f *Facade) DeleteJob(ctx context.Context, id string) error {
	var agg trash.Aggregate
	now := f.now()
	err := db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		jobRepo := jobs.NewRepository(tx)
		j, err := jobRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		agg.Job = *j

		invRepo := invoices.NewRepository(tx)
		payRepo := invoices.NewPaymentRepository(tx)
		if j.InvoiceID != "" {
			inv, err := invRepo.Get(ctx, j.InvoiceID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.Cascadef("job %s references invoice %s which does not exist", j.ID, j.InvoiceID)
				}
				return err
			}
			agg.Invoice = inv
			agg.Payments, err = payRepo.ListByInvoice(ctx, inv.ID)
			if err != nil {
				return err
			}
		}
		agg.Reminders, err = reminders.NewRepository(tx).ListByJob(ctx, j.ID)
		if err != nil {
			return err
		}
		agg.Attachments, err = attachments.NewRepository(tx).ListByJob(ctx, j.ID)
		if err != nil {
			return err
		}

		if agg.Invoice != nil {
			if err := payRepo.DeleteByInvoice(ctx, agg.Invoice.ID); err != nil {
				return err
			}
			if err := invRepo.Delete(ctx, agg.Invoice.ID); err != nil {
				return err
			}
		}
		if err := reminders.NewRepository(tx).DeleteByJob(ctx, j.ID); err != nil {
			return err
		}
		if err := attachments.NewRepository(tx).DeleteByJob(ctx, j.ID); err != nil {
			return err
		}
		if err := jobRepo.Delete(ctx, j.ID); err != nil {
			return err
		}

		inventoryRepo := inventory.NewRepository(tx)
		at := shared.FormatTime(now)
		for _, p := range j.Parts {
			if p.Source != jobs.SourceInventory || p.InventoryItemID == "" {
				continue
			}
			if err := inventoryRepo.AdjustQuantity(ctx, p.InventoryItemID, p.Quantity, at); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.Cascadef("part %q references missing inventory item %s", p.Name, p.InventoryItemID)
				}
				return err
			}
			agg.Deltas = append(agg.Deltas, trash.InventoryDelta{ItemID: p.InventoryItemID, Restocked: p.Quantity})
		}

		return audit.NewLogger(tx).Record(ctx, audit.Entry{
			EntityType: "job",
			EntityID:   j.ID,
			Action:     "delete",
			Details: fmt.Sprintf("deleted job %q with %d payment(s), %d reminder(s), %d attachment(s); restocked %d part line(s)",
				j.Title, len(agg.Payments), len(agg.Reminders), len(agg.Attachments), len(agg.Deltas)),
			At: now,
		})
	})
	if err != nil {
		return err
	}

	f.trash.Stash(agg, f.onTrashExpire)
	f.bumpCache(ctx)
	return nil
}

// RestoreJob re-inserts a trashed aggregate exactly as captured and reverses
// the inventory restock. After the undo window it reports nothing to restore.
func (f *Facade) RestoreJob(ctx context.Context, id string) (*jobs.Job, error) {
	agg, ok := f.trash.Restore(id)
	if !ok {
		return nil, shared.NotFoundf("nothing to restore for job %s", id)
	}

	now := f.now()
	err := db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		if err := jobs.NewRepository(tx).Insert(ctx, agg.Job); err != nil {
			return err
		}
		if agg.Invoice != nil {
			if err := invoices.NewRepository(tx).Insert(ctx, *agg.Invoice); err != nil {
				return err
			}
			payRepo := invoices.NewPaymentRepository(tx)
			for _, p := range agg.Payments {
				if err := payRepo.Insert(ctx, p); err != nil {
					return err
				}
			}
		}
		remRepo := reminders.NewRepository(tx)
		for _, rem := range agg.Reminders {
			if err := remRepo.Insert(ctx, rem); err != nil {
				return err
			}
		}
		attRepo := attachments.NewRepository(tx)
		for _, a := range agg.Attachments {
			if err := attRepo.Insert(ctx, a); err != nil {
				return err
			}
		}

		inventoryRepo := inventory.NewRepository(tx)
		at := shared.FormatTime(now)
		for _, d := range agg.Deltas {
			if err := inventoryRepo.AdjustQuantity(ctx, d.ItemID, -d.Restocked, at); err != nil {
				if errors.Is(err, inventory.ErrInsufficientStock) {
					return shared.Cascadef("cannot re-consume %d of item %s: stock was used meanwhile", d.Restocked, d.ItemID)
				}
				return err
			}
		}

		return audit.NewLogger(tx).Record(ctx, audit.Entry{
			EntityType: "job",
			EntityID:   agg.Job.ID,
			Action:     "restore",
			Details:    fmt.Sprintf("restored job %q from trash", agg.Job.Title),
			At:         now,
		})
	})
	if err != nil {
		// The snapshot is still the only copy; put it back so the caller can
		// resolve the conflict and retry within a fresh window.
		f.trash.Unrestore(agg, f.onTrashExpire)
		return nil, err
	}
	f.bumpCache(ctx)
	job := agg.Job
	return &job, nil
}

// onTrashExpire records the permanent discard of an expired trash entry.
// The store delete already happened at stash time; expiry only drops the
// in-memory backup.
func (f *Facade) onTrashExpire(agg trash.Aggregate) {
	ctx := context.Background()
	err := audit.NewLogger(f.db).Record(ctx, audit.Entry{
		EntityType: "job",
		EntityID:   agg.Job.ID,
		Action:     "trash-expired",
		Details:    fmt.Sprintf("undo window elapsed for job %q; deletion is now permanent", agg.Job.Title),
		At:         f.now(),
	})
	if err != nil {
		f.logger.Warn("audit trash expiry failed", "job_id", agg.Job.ID, "error", err)
	}
}

// GetJob looks up a job by id.
func (f *Facade) GetJob(ctx context.Context, id string) (*jobs.Job, error) {
	return jobs.NewRepository(f.db).Get(ctx, id)
}

// ListJobs serves the by-customer, by-status and by-date lookups.
func (f *Facade) ListJobs(ctx context.Context, req jobs.ListJobsRequest) ([]jobs.Job, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.Status != "" && !jobs.ValidStatus(jobs.Status(req.Status)) {
		return nil, shared.Validationf("unknown job status %q", req.Status)
	}
	return jobs.NewRepository(f.db).List(ctx, req)
}
