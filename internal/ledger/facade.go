// Package ledger is the business facade: the only entry point UI
// collaborators use. Every mutation validates first, then writes the store
// and its audit record in one transaction, and for deletions hands the
// removed aggregate to the trash manager.
package ledger

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ia-usgs/field-service-manager-sub001/internal/audit"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/cache"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
	"github.com/ia-usgs/field-service-manager-sub001/internal/trash"
)

// Facade composes the durable store, money engine, audit logger and trash
// manager per operation.
type Facade struct {
	db     *sql.DB
	trash  *trash.Manager
	audit  *audit.Service
	cache  *cache.Cache
	clock  shared.Clock
	logger *slog.Logger
}

// New builds the facade. cache may be nil to disable summary caching.
func New(conn *sql.DB, trashMgr *trash.Manager, auditSvc *audit.Service, c *cache.Cache, clock shared.Clock, logger *slog.Logger) *Facade {
	if clock == nil {
		clock = shared.RealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Facade{
		db:     conn,
		trash:  trashMgr,
		audit:  auditSvc,
		cache:  c,
		clock:  clock,
		logger: logger,
	}
}

// Trash exposes the undo manager for collaborators that list pending entries.
func (f *Facade) Trash() *trash.Manager { return f.trash }

func (f *Facade) now() time.Time { return f.clock.Now() }

func newID() string { return uuid.NewString() }

// bumpCache invalidates cached summaries after a mutation. Failures are
// logged, never surfaced: the mutation already committed.
func (f *Facade) bumpCache(ctx context.Context) {
	if f.cache == nil {
		return
	}
	if err := f.cache.Bump(ctx); err != nil {
		f.logger.Warn("cache bump failed", slog.Any("error", err))
	}
}
