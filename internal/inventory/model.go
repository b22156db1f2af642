package inventory

import "time"

// Item is a stocked part. Quantity is mutated by job creation (consume) and
// job deletion (restock); nothing else touches it.
type Item struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	CostCents        int64     `json:"cost_cents"`
	PriceCents       int64     `json:"price_cents"`
	Quantity         int64     `json:"quantity"`
	ReorderThreshold int64     `json:"reorder_threshold"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// LowStock reports whether the item is at or below its reorder threshold.
func (i Item) LowStock() bool {
	return i.Quantity <= i.ReorderThreshold
}
