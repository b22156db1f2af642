package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ia-usgs/field-service-manager-sub001/internal/audit"
	"github.com/ia-usgs/field-service-manager-sub001/internal/inventory"
	"github.com/ia-usgs/field-service-manager-sub001/internal/invoices"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

// AddInventoryItem creates a stocked part.
func (f *Facade) AddInventoryItem(ctx context.Context, req inventory.CreateItemRequest) (*inventory.Item, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return nil, err
	}
	now := f.now()
	item := inventory.Item{
		ID:               newID(),
		Name:             req.Name,
		CostCents:        req.CostCents,
		PriceCents:       req.PriceCents,
		Quantity:         req.Quantity,
		ReorderThreshold: req.ReorderThreshold,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err := db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		if err := inventory.NewRepository(tx).Insert(ctx, item); err != nil {
			return err
		}
		return audit.NewLogger(tx).Record(ctx, audit.Entry{
			EntityType: "inventory",
			EntityID:   item.ID,
			Action:     "create",
			Details: fmt.Sprintf("added inventory item %q, %d on hand at %s",
				item.Name, item.Quantity, invoices.FormatCents(item.PriceCents)),
			At: now,
		})
	})
	if err != nil {
		return nil, err
	}
	f.bumpCache(ctx)
	return &item, nil
}

// UpdateInventoryItem applies the non-nil fields of req. Setting Quantity here
// is a manual stock correction, distinct from job consume/restock.
func (f *Facade) UpdateInventoryItem(ctx context.Context, id string, req inventory.UpdateItemRequest) (*inventory.Item, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return nil, err
	}
	var updated *inventory.Item
	err := db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		repo := inventory.NewRepository(tx)
		item, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if req.Name != nil {
			item.Name = *req.Name
		}
		if req.CostCents != nil {
			item.CostCents = *req.CostCents
		}
		if req.PriceCents != nil {
			item.PriceCents = *req.PriceCents
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.ReorderThreshold != nil {
			item.ReorderThreshold = *req.ReorderThreshold
		}
		item.UpdatedAt = f.now()
		if err := repo.Update(ctx, *item); err != nil {
			return err
		}
		updated = item
		return audit.NewLogger(tx).Record(ctx, audit.Entry{
			EntityType: "inventory",
			EntityID:   item.ID,
			Action:     "update",
			Details:    fmt.Sprintf("updated inventory item %q", item.Name),
			At:         item.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	f.bumpCache(ctx)
	return updated, nil
}

// GetInventoryItem looks up a stocked part by id.
func (f *Facade) GetInventoryItem(ctx context.Context, id string) (*inventory.Item, error) {
	return inventory.NewRepository(f.db).Get(ctx, id)
}

// ListInventory returns every stocked part ordered by name.
func (f *Facade) ListInventory(ctx context.Context) ([]inventory.Item, error) {
	return inventory.NewRepository(f.db).List(ctx)
}

// ListLowStock returns items at or below their reorder threshold.
func (f *Facade) ListLowStock(ctx context.Context) ([]inventory.Item, error) {
	return inventory.NewRepository(f.db).ListLowStock(ctx)
}
