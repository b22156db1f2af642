package inventory

type CreateItemRequest struct {
	Name             string `json:"name" validate:"required,max=200"`
	CostCents        int64  `json:"cost_cents" validate:"gte=0"`
	PriceCents       int64  `json:"price_cents" validate:"gte=0"`
	Quantity         int64  `json:"quantity" validate:"gte=0"`
	ReorderThreshold int64  `json:"reorder_threshold" validate:"gte=0"`
}

type UpdateItemRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,max=200"`
	CostCents        *int64  `json:"cost_cents,omitempty" validate:"omitempty,gte=0"`
	PriceCents       *int64  `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	Quantity         *int64  `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	ReorderThreshold *int64  `json:"reorder_threshold,omitempty" validate:"omitempty,gte=0"`
}
