package ledger

import (
	"context"
	"database/sql"

	"github.com/ia-usgs/field-service-manager-sub001/internal/audit"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/settings"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

// GetSettings returns the singleton settings record, creating defaults on
// first access.
func (f *Facade) GetSettings(ctx context.Context) (*settings.Settings, error) {
	return settings.NewRepository(f.db).Get(ctx)
}

// UpdateSettings applies the non-nil fields of req. The invoice counter is
// not settable here; it only moves forward when a number is consumed.
func (f *Facade) UpdateSettings(ctx context.Context, req settings.UpdateSettingsRequest) (*settings.Settings, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return nil, err
	}
	var updated *settings.Settings
	now := f.now()
	err := db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		repo := settings.NewRepository(tx)
		s, err := repo.Get(ctx)
		if err != nil {
			return err
		}
		if req.LaborRateCents != nil {
			s.LaborRateCents = *req.LaborRateCents
		}
		if req.TaxRate != nil {
			s.TaxRate = *req.TaxRate
		}
		if req.InvoicePrefix != nil {
			s.InvoicePrefix = *req.InvoicePrefix
		}
		if req.CompanyName != nil {
			s.CompanyName = *req.CompanyName
		}
		if req.CompanyAddress != nil {
			s.CompanyAddress = *req.CompanyAddress
		}
		if req.CompanyPhone != nil {
			s.CompanyPhone = *req.CompanyPhone
		}
		if req.CompanyEmail != nil {
			s.CompanyEmail = *req.CompanyEmail
		}
		s.UpdatedAt = now
		if err := repo.Update(ctx, *s); err != nil {
			return err
		}
		updated = s
		return audit.NewLogger(tx).Record(ctx, audit.Entry{
			EntityType: "settings",
			EntityID:   s.ID,
			Action:     "update",
			Details:    "updated application settings",
			At:         now,
		})
	})
	if err != nil {
		return nil, err
	}
	f.bumpCache(ctx)
	return updated, nil
}
