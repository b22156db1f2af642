package ledger

import (
	"context"

	"github.com/ia-usgs/field-service-manager-sub001/internal/audit"
)

// AuditTimeline returns audit entries newest first, filtered and paged.
func (f *Facade) AuditTimeline(ctx context.Context, filters audit.TimelineFilters) (audit.Result, error) {
	return f.audit.Timeline(ctx, filters)
}

// PurgeAudit wipes the audit trail and reports how many entries were removed.
func (f *Facade) PurgeAudit(ctx context.Context) (int64, error) {
	n, err := f.audit.Purge(ctx)
	if err != nil {
		return 0, err
	}
	f.logger.Info("audit trail purged", "entries", n)
	return n, nil
}
