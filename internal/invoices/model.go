package invoices

import "time"

// PaymentStatus is a pure function of paid vs total, never stored
// incrementally.
type PaymentStatus string

const (
	StatusUnpaid   PaymentStatus = "unpaid"
	StatusPartial  PaymentStatus = "partial"
	StatusPaid     PaymentStatus = "paid"
	StatusOverpaid PaymentStatus = "overpaid"
)

// Invoice is the derived money aggregate for one job and one customer.
// All amounts are integer cents.
type Invoice struct {
	ID                string        `json:"id"`
	Number            string        `json:"number"`
	JobID             string        `json:"job_id"`
	CustomerID        string        `json:"customer_id"`
	LaborTotalCents   int64         `json:"labor_total_cents"`
	PartsTotalCents   int64         `json:"parts_total_cents"`
	PassThroughCents  int64         `json:"pass_through_cents"`
	MiscFeesCents     int64         `json:"misc_fees_cents"`
	TaxCents          int64         `json:"tax_cents"`
	TotalCents        int64         `json:"total_cents"`
	IncomeAmountCents int64         `json:"income_amount_cents"`
	PaidAmountCents   int64         `json:"paid_amount_cents"`
	PaymentStatus     PaymentStatus `json:"payment_status"`

	// Legacy single payment fields imported from older books. The payments
	// table is authoritative; these are read-only display data.
	LegacyPaymentMethod string `json:"legacy_payment_method,omitempty"`
	LegacyPaymentDate   string `json:"legacy_payment_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Payment is one signed ledger movement against an invoice. Refunds carry a
// negative amount.
type Payment struct {
	ID          string    `json:"id"`
	InvoiceID   string    `json:"invoice_id"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	PaidAt      time.Time `json:"paid_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RecordPaymentRequest struct {
	AmountCents int64  `json:"amount_cents" validate:"required"`
	Method      string `json:"method" validate:"required,max=50"`
	Notes       string `json:"notes,omitempty"`
}

type ListInvoicesRequest struct {
	CustomerID string `json:"customer_id,omitempty"`
	JobID      string `json:"job_id,omitempty"`
	Status     string `json:"status,omitempty"`
}
