package audit

import (
	"context"
	"database/sql"

	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

// TimelineFilters narrows the audit timeline query.
type TimelineFilters struct {
	EntityType string
	EntityID   string
	Action     string
	Page       int
	PageSize   int
}

// PagingInfo describes the returned window.
type PagingInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasNext  bool `json:"has_next"`
}

// Result bundles timeline rows with paging information.
type Result struct {
	Rows   []Entry    `json:"rows"`
	Paging PagingInfo `json:"paging"`
}

// Service reads the audit trail and performs the administrative purge.
type Service struct {
	db *sql.DB
}

// NewService builds the audit read/purge service.
func NewService(conn *sql.DB) *Service {
	return &Service{db: conn}
}

// Timeline returns audit entries newest first with paging. Fetching one row
// beyond the page size detects whether a next page exists.
func (s *Service) Timeline(ctx context.Context, filters TimelineFilters) (Result, error) {
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	query := `SELECT id, entity_type, entity_id, action, details, at FROM audit_logs`
	var conditions []string
	var args []any
	if filters.EntityType != "" {
		conditions = append(conditions, `entity_type = ?`)
		args = append(args, filters.EntityType)
	}
	if filters.EntityID != "" {
		conditions = append(conditions, `entity_id = ?`)
		args = append(args, filters.EntityID)
	}
	if filters.Action != "" {
		conditions = append(conditions, `action = ?`)
		args = append(args, filters.Action)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize+1, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Result{}, shared.Storagef("audit timeline", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.Details, &at); err != nil {
			return Result{}, shared.Storagef("scan audit entry", err)
		}
		e.At = shared.ParseTime(at)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return Result{}, shared.Storagef("audit timeline", err)
	}

	hasNext := len(entries) > pageSize
	if hasNext {
		entries = entries[:pageSize]
	}
	return Result{
		Rows:   entries,
		Paging: PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext},
	}, nil
}

// Purge bulk-deletes the audit trail. Administrative and out-of-band: the
// purge itself is not audited.
func (s *Service) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM audit_logs`)
	if err != nil {
		return 0, shared.Storagef("purge audit", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, shared.Storagef("rows affected", err)
	}
	return n, nil
}
