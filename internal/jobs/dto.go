package jobs

type PartInput struct {
	Name            string `json:"name" validate:"required,max=200"`
	Quantity        int64  `json:"quantity" validate:"gt=0"`
	UnitCostCents   int64  `json:"unit_cost_cents" validate:"gte=0"`
	UnitPriceCents  int64  `json:"unit_price_cents" validate:"gte=0"`
	Source          string `json:"source" validate:"required,oneof=inventory customer-provided"`
	InventoryItemID string `json:"inventory_item_id,omitempty"`
}

type CreateJobRequest struct {
	CustomerID     string      `json:"customer_id" validate:"required"`
	Title          string      `json:"title" validate:"required,max=200"`
	Description    string      `json:"description,omitempty"`
	Date           string      `json:"date" validate:"required,datetime=2006-01-02"`
	LaborHours     float64     `json:"labor_hours" validate:"gte=0"`
	LaborRateCents int64       `json:"labor_rate_cents" validate:"gte=0"`
	Parts          []PartInput `json:"parts,omitempty" validate:"dive"`
	MiscFeeCents   int64       `json:"misc_fee_cents" validate:"gte=0"`
	TaxRate        float64     `json:"tax_rate" validate:"gte=0,lte=100"`
}

type UpdateJobRequest struct {
	Title          *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Description    *string  `json:"description,omitempty"`
	Date           *string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LaborHours     *float64 `json:"labor_hours,omitempty" validate:"omitempty,gte=0"`
	LaborRateCents *int64   `json:"labor_rate_cents,omitempty" validate:"omitempty,gte=0"`
	MiscFeeCents   *int64   `json:"misc_fee_cents,omitempty" validate:"omitempty,gte=0"`
	TaxRate        *float64 `json:"tax_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type ListJobsRequest struct {
	CustomerID string `json:"customer_id,omitempty"`
	Status     string `json:"status,omitempty"`
	DateFrom   string `json:"date_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DateTo     string `json:"date_to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
