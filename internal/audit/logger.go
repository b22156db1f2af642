// Package audit appends immutable event records for every mutation performed
// through the ledger facade.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

// Entry is one append-only audit record. Entries are never updated or
// deleted outside of an explicit purge.
type Entry struct {
	ID         int64     `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
	At         time.Time `json:"at"`
}

// Logger writes records into audit_logs. Construct over *sql.Tx so the audit
// record commits with the mutation it describes, or over *sql.DB for
// standalone appends.
type Logger struct {
	db db.DBTX
}

// NewLogger returns a new Logger.
func NewLogger(conn db.DBTX) *Logger {
	return &Logger{db: conn}
}

// Record persists the entry. A failed append fails the surrounding
// operation: the mutation and its audit record are one logical unit.
func (l *Logger) Record(ctx context.Context, e Entry) error {
	if l == nil {
		return errors.New("audit logger not initialised")
	}
	if e.EntityType == "" || e.Action == "" {
		return errors.New("audit entry requires entity type and action")
	}
	at := e.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO audit_logs (entity_type, entity_id, action, details, at)
		VALUES (?, ?, ?, ?, ?)`,
		e.EntityType, e.EntityID, e.Action, e.Details, shared.FormatTime(at))
	if err != nil {
		return shared.Storagef("append audit record", err)
	}
	return nil
}
