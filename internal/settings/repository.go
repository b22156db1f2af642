package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

// Defaults supplied on first run.
const (
	defaultLaborRateCents = 8500
	defaultInvoicePrefix  = "INV-"
)

type Repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

const settingsColumns = `id, labor_rate_cents, tax_rate, invoice_prefix,
	next_invoice_number, company_name, company_address, company_phone,
	company_email, created_at, updated_at`

// Get reads the singleton, initialising defaults when absent.
func (r *Repository) Get(ctx context.Context) (*Settings, error) {
	s, err := r.read(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, shared.Storagef("get settings", err)
	}
	now := time.Now().UTC()
	defaults := Settings{
		ID:                settingsKey,
		LaborRateCents:    defaultLaborRateCents,
		InvoicePrefix:     defaultInvoicePrefix,
		NextInvoiceNumber: 1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO app_settings (`+settingsColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		defaults.ID, defaults.LaborRateCents, defaults.TaxRate, defaults.InvoicePrefix,
		defaults.NextInvoiceNumber, defaults.CompanyName, defaults.CompanyAddress,
		defaults.CompanyPhone, defaults.CompanyEmail,
		shared.FormatTime(defaults.CreatedAt), shared.FormatTime(defaults.UpdatedAt)); err != nil {
		return nil, shared.Storagef("init settings", err)
	}
	return &defaults, nil
}

func (r *Repository) read(ctx context.Context) (*Settings, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM app_settings WHERE id = ?`, settingsKey)
	var s Settings
	var createdAt, updatedAt string
	if err := row.Scan(&s.ID, &s.LaborRateCents, &s.TaxRate, &s.InvoicePrefix,
		&s.NextInvoiceNumber, &s.CompanyName, &s.CompanyAddress, &s.CompanyPhone,
		&s.CompanyEmail, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	s.CreatedAt = shared.ParseTime(createdAt)
	s.UpdatedAt = shared.ParseTime(updatedAt)
	return &s, nil
}

// Update rewrites the mutable settings columns.
func (r *Repository) Update(ctx context.Context, s Settings) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE app_settings SET labor_rate_cents = ?, tax_rate = ?,
			invoice_prefix = ?, company_name = ?, company_address = ?,
			company_phone = ?, company_email = ?, updated_at = ?
		WHERE id = ?`,
		s.LaborRateCents, s.TaxRate, s.InvoicePrefix, s.CompanyName,
		s.CompanyAddress, s.CompanyPhone, s.CompanyEmail,
		shared.FormatTime(s.UpdatedAt), settingsKey)
	if err != nil {
		return shared.Storagef("update settings", err)
	}
	return nil
}

// NextInvoiceNumber consumes exactly one increment of the counter and returns
// the formatted number (prefix + zero-padded). Numbers are never reused.
func (r *Repository) NextInvoiceNumber(ctx context.Context) (string, error) {
	if _, err := r.Get(ctx); err != nil {
		return "", err
	}
	var consumed int64
	var prefix string
	err := r.db.QueryRowContext(ctx,
		`UPDATE app_settings SET next_invoice_number = next_invoice_number + 1,
			updated_at = ?
		WHERE id = ?
		RETURNING next_invoice_number - 1, invoice_prefix`,
		shared.FormatTime(time.Now().UTC()), settingsKey).Scan(&consumed, &prefix)
	if err != nil {
		return "", shared.Storagef("consume invoice number", err)
	}
	return fmt.Sprintf("%s%06d", prefix, consumed), nil
}
