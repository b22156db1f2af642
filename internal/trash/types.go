package trash

import (
	"time"

	"github.com/ia-usgs/field-service-manager-sub001/internal/attachments"
	"github.com/ia-usgs/field-service-manager-sub001/internal/invoices"
	"github.com/ia-usgs/field-service-manager-sub001/internal/jobs"
	"github.com/ia-usgs/field-service-manager-sub001/internal/reminders"
)

// InventoryDelta records one stock movement applied while deleting a job, so
// a restore can reverse it exactly.
type InventoryDelta struct {
	ItemID string `json:"item_id"`
	// Restocked is the quantity returned to stock at delete time; restore
	// re-consumes the same amount.
	Restocked int64 `json:"restocked"`
}

// Aggregate is the full composite removed by a job deletion, captured exactly
// as it was stored so restoration is byte-for-byte.
type Aggregate struct {
	Job         jobs.Job                 `json:"job"`
	Invoice     *invoices.Invoice        `json:"invoice,omitempty"`
	Payments    []invoices.Payment       `json:"payments,omitempty"`
	Reminders   []reminders.Reminder     `json:"reminders,omitempty"`
	Attachments []attachments.Attachment `json:"attachments,omitempty"`
	Deltas      []InventoryDelta         `json:"deltas,omitempty"`
}

// state tracks the per-entry lifecycle: Trashed until exactly one of restore
// or expire wins.
type state int

const (
	stateTrashed state = iota
	stateRestored
	stateExpired
)

// Info describes a pending trash entry.
type Info struct {
	JobID     string    `json:"job_id"`
	JobTitle  string    `json:"job_title"`
	TrashedAt time.Time `json:"trashed_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
