package ledger

import (
	"context"

	"github.com/ia-usgs/field-service-manager-sub001/internal/invoices"
	"github.com/ia-usgs/field-service-manager-sub001/internal/jobs"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

// Summary is the dashboard snapshot: job counts by status, money outstanding
// and collected, and stock health.
type Summary struct {
	Customers        int64            `json:"customers"`
	JobsByStatus     map[string]int64 `json:"jobs_by_status"`
	OpenInvoices     int64            `json:"open_invoices"`
	OutstandingCents int64            `json:"outstanding_cents"`
	CollectedCents   int64            `json:"collected_cents"`
	IncomeCents      int64            `json:"income_cents"`
	LowStockItems    int64            `json:"low_stock_items"`
	OverdueReminders int64            `json:"overdue_reminders"`
	Outstanding      string           `json:"outstanding"`
	Collected        string           `json:"collected"`
	Income           string           `json:"income"`
}

// GetSummary serves the dashboard aggregates, cached until the next mutation
// bumps the cache version.
func (f *Facade) GetSummary(ctx context.Context) (*Summary, error) {
	key, err := f.cache.BuildKey(ctx, "fieldledger", "summary")
	if err != nil {
		f.logger.Warn("summary cache key failed", "error", err)
		return f.loadSummary(ctx)
	}
	var s Summary
	err = f.cache.FetchJSON(ctx, key, &s, func(ctx context.Context) (any, error) {
		return f.loadSummary(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (f *Facade) loadSummary(ctx context.Context) (*Summary, error) {
	s := Summary{JobsByStatus: make(map[string]int64)}

	if err := f.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE archived = 0`).Scan(&s.Customers); err != nil {
		return nil, shared.Storagef("summary customers", err)
	}

	rows, err := f.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, shared.Storagef("summary jobs", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, shared.Storagef("scan job count", err)
		}
		s.JobsByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, shared.Storagef("summary jobs", err)
	}
	for _, st := range []jobs.Status{jobs.StatusQuoted, jobs.StatusInProgress, jobs.StatusCompleted, jobs.StatusInvoiced, jobs.StatusPaid} {
		if _, ok := s.JobsByStatus[string(st)]; !ok {
			s.JobsByStatus[string(st)] = 0
		}
	}

	if err := f.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(total_cents - paid_amount_cents), 0)
		FROM invoices WHERE payment_status IN ('unpaid', 'partial')`).
		Scan(&s.OpenInvoices, &s.OutstandingCents); err != nil {
		return nil, shared.Storagef("summary invoices", err)
	}
	if err := f.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(paid_amount_cents), 0), COALESCE(SUM(income_amount_cents), 0)
		FROM invoices`).Scan(&s.CollectedCents, &s.IncomeCents); err != nil {
		return nil, shared.Storagef("summary income", err)
	}

	if err := f.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inventory_items WHERE quantity <= reorder_threshold`).
		Scan(&s.LowStockItems); err != nil {
		return nil, shared.Storagef("summary inventory", err)
	}
	if err := f.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reminders WHERE completed = 0 AND due_at <= ?`,
		shared.FormatTime(f.now())).Scan(&s.OverdueReminders); err != nil {
		return nil, shared.Storagef("summary reminders", err)
	}

	s.Outstanding = invoices.FormatCents(s.OutstandingCents)
	s.Collected = invoices.FormatCents(s.CollectedCents)
	s.Income = invoices.FormatCents(s.IncomeCents)
	return &s, nil
}
