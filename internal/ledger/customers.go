package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ia-usgs/field-service-manager-sub001/internal/audit"
	"github.com/ia-usgs/field-service-manager-sub001/internal/customers"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

// AddCustomer creates a customer record.
func (f *Facade) AddCustomer(ctx context.Context, req customers.CreateCustomerRequest) (*customers.Customer, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return nil, err
	}
	now := f.now()
	c := customers.Customer{
		ID:        newID(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Tags:      req.Tags,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		if err := customers.NewRepository(tx).Insert(ctx, c); err != nil {
			return err
		}
		return audit.NewLogger(tx).Record(ctx, audit.Entry{
			EntityType: "customer",
			EntityID:   c.ID,
			Action:     "create",
			Details:    fmt.Sprintf("created customer %q", c.Name),
			At:         now,
		})
	})
	if err != nil {
		return nil, err
	}
	f.bumpCache(ctx)
	return &c, nil
}

// UpdateCustomer applies the non-nil fields of req.
func (f *Facade) UpdateCustomer(ctx context.Context, id string, req customers.UpdateCustomerRequest) (*customers.Customer, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return nil, err
	}
	var updated *customers.Customer
	err := db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		repo := customers.NewRepository(tx)
		c, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if req.Name != nil {
			c.Name = *req.Name
		}
		if req.Email != nil {
			c.Email = *req.Email
		}
		if req.Phone != nil {
			c.Phone = *req.Phone
		}
		if req.Address != nil {
			c.Address = *req.Address
		}
		if req.Tags != nil {
			c.Tags = *req.Tags
		}
		if req.Notes != nil {
			c.Notes = *req.Notes
		}
		if req.Archived != nil {
			c.Archived = *req.Archived
		}
		c.UpdatedAt = f.now()
		if err := repo.Update(ctx, *c); err != nil {
			return err
		}
		updated = c
		return audit.NewLogger(tx).Record(ctx, audit.Entry{
			EntityType: "customer",
			EntityID:   c.ID,
			Action:     "update",
			Details:    fmt.Sprintf("updated customer %q", c.Name),
			At:         c.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	f.bumpCache(ctx)
	return updated, nil
}

// ArchiveCustomer flips the archived flag. Customers are never hard-deleted.
func (f *Facade) ArchiveCustomer(ctx context.Context, id string) (*customers.Customer, error) {
	archived := true
	c, err := f.UpdateCustomer(ctx, id, customers.UpdateCustomerRequest{Archived: &archived})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCustomer looks up a customer by id.
func (f *Facade) GetCustomer(ctx context.Context, id string) (*customers.Customer, error) {
	return customers.NewRepository(f.db).Get(ctx, id)
}

// ListCustomers serves the archived/search lookups.
func (f *Facade) ListCustomers(ctx context.Context, req customers.ListCustomersRequest) ([]customers.Customer, error) {
	return customers.NewRepository(f.db).List(ctx, req)
}
