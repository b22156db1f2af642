package settings

import "time"

// settingsKey is the fixed identifier for the singleton record.
const settingsKey = "app"

// Settings is the singleton application configuration record.
type Settings struct {
	ID                string    `json:"id"`
	LaborRateCents    int64     `json:"labor_rate_cents"`
	TaxRate           float64   `json:"tax_rate"`
	InvoicePrefix     string    `json:"invoice_prefix"`
	NextInvoiceNumber int64     `json:"next_invoice_number"`
	CompanyName       string    `json:"company_name,omitempty"`
	CompanyAddress    string    `json:"company_address,omitempty"`
	CompanyPhone      string    `json:"company_phone,omitempty"`
	CompanyEmail      string    `json:"company_email,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type UpdateSettingsRequest struct {
	LaborRateCents *int64   `json:"labor_rate_cents,omitempty" validate:"omitempty,gte=0"`
	TaxRate        *float64 `json:"tax_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	InvoicePrefix  *string  `json:"invoice_prefix,omitempty" validate:"omitempty,max=20"`
	CompanyName    *string  `json:"company_name,omitempty" validate:"omitempty,max=200"`
	CompanyAddress *string  `json:"company_address,omitempty" validate:"omitempty,max=500"`
	CompanyPhone   *string  `json:"company_phone,omitempty" validate:"omitempty,max=50"`
	CompanyEmail   *string  `json:"company_email,omitempty" validate:"omitempty,email"`
}
