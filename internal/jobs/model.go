package jobs

import (
	"fmt"
	"time"
)

// Status is the job lifecycle state.
type Status string

const (
	StatusQuoted     Status = "quoted"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusInvoiced   Status = "invoiced"
	StatusPaid       Status = "paid"
)

// transitions encodes the forward-only lifecycle
// quoted -> in-progress -> completed -> invoiced -> paid.
var transitions = map[Status]Status{
	StatusQuoted:     StatusInProgress,
	StatusInProgress: StatusCompleted,
	StatusCompleted:  StatusInvoiced,
	StatusInvoiced:   StatusPaid,
}

// ValidTransition reports whether a job may move from to next.
func ValidTransition(from, next Status) bool {
	return transitions[from] == next
}

// ValidStatus reports whether s names a lifecycle state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusQuoted, StatusInProgress, StatusCompleted, StatusInvoiced, StatusPaid:
		return true
	}
	return false
}

// PartSource tags where a part line came from.
type PartSource string

const (
	// SourceInventory marks parts drawn from stock; they are marked up and
	// counted as income.
	SourceInventory PartSource = "inventory"
	// SourceCustomerProvided marks pass-through parts supplied by the
	// customer; they are not income and not taxed.
	SourceCustomerProvided PartSource = "customer-provided"
)

// Part is one line on a job. InventoryItemID is a weak reference used for
// stock consume/restock lookups, never ownership.
type Part struct {
	Name            string     `json:"name"`
	Quantity        int64      `json:"quantity"`
	UnitCostCents   int64      `json:"unit_cost_cents"`
	UnitPriceCents  int64      `json:"unit_price_cents"`
	Source          PartSource `json:"source"`
	InventoryItemID string     `json:"inventory_item_id,omitempty"`
}

// Job is a unit of field work for exactly one customer.
type Job struct {
	ID             string    `json:"id"`
	CustomerID     string    `json:"customer_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Status         Status    `json:"status"`
	Date           string    `json:"date"`
	LaborHours     float64   `json:"labor_hours"`
	LaborRateCents int64     `json:"labor_rate_cents"`
	Parts          []Part    `json:"parts"`
	MiscFeeCents   int64     `json:"misc_fee_cents"`
	TaxRate        float64   `json:"tax_rate"`
	InvoiceID      string    `json:"invoice_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (j Job) String() string {
	return fmt.Sprintf("job %s (%s)", j.ID, j.Status)
}
