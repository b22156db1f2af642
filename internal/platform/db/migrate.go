package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Named indexes backing the facade's fixed query patterns. The names form the
// store's opening contract: Migrate verifies each exists after applying
// pending migrations.
const (
	IndexJobsByCustomer      = "idx_jobs_by_customer"
	IndexJobsByStatus        = "idx_jobs_by_status"
	IndexJobsByDate          = "idx_jobs_by_date"
	IndexInvoicesByCustomer  = "idx_invoices_by_customer"
	IndexInvoicesByJob       = "idx_invoices_by_job"
	IndexInvoicesByStatus    = "idx_invoices_by_status"
	IndexPaymentsByInvoice   = "idx_payments_by_invoice"
	IndexRemindersByDueDate  = "idx_reminders_by_due_date"
	IndexRemindersByComplete = "idx_reminders_by_completed"
	IndexAttachmentsByJob    = "idx_attachments_by_job"
	IndexAuditByEntity       = "idx_audit_by_entity"
)

// RequiredIndexes lists every index the facade relies on.
func RequiredIndexes() []string {
	return []string{
		IndexJobsByCustomer,
		IndexJobsByStatus,
		IndexJobsByDate,
		IndexInvoicesByCustomer,
		IndexInvoicesByJob,
		IndexInvoicesByStatus,
		IndexPaymentsByInvoice,
		IndexRemindersByDueDate,
		IndexRemindersByComplete,
		IndexAttachmentsByJob,
		IndexAuditByEntity,
	}
}

type migration struct {
	version    int
	statements []string
}

// Migrations are idempotent: every DDL statement is IF NOT EXISTS so applying
// a version gap twice is a no-op.
var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS customers (
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL,
				email       TEXT NOT NULL DEFAULT '',
				phone       TEXT NOT NULL DEFAULT '',
				address     TEXT NOT NULL DEFAULT '',
				tags        TEXT NOT NULL DEFAULT '[]',
				notes       TEXT NOT NULL DEFAULT '',
				archived    INTEGER NOT NULL DEFAULT 0,
				created_at  TEXT NOT NULL,
				updated_at  TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS jobs (
				id               TEXT PRIMARY KEY,
				customer_id      TEXT NOT NULL,
				title            TEXT NOT NULL,
				description      TEXT NOT NULL DEFAULT '',
				status           TEXT NOT NULL,
				job_date         TEXT NOT NULL,
				labor_hours      REAL NOT NULL DEFAULT 0,
				labor_rate_cents INTEGER NOT NULL DEFAULT 0,
				parts            TEXT NOT NULL DEFAULT '[]',
				misc_fee_cents   INTEGER NOT NULL DEFAULT 0,
				tax_rate         REAL NOT NULL DEFAULT 0,
				invoice_id       TEXT NOT NULL DEFAULT '',
				created_at       TEXT NOT NULL,
				updated_at       TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS inventory_items (
				id                TEXT PRIMARY KEY,
				name              TEXT NOT NULL,
				cost_cents        INTEGER NOT NULL DEFAULT 0,
				price_cents       INTEGER NOT NULL DEFAULT 0,
				quantity          INTEGER NOT NULL DEFAULT 0,
				reorder_threshold INTEGER NOT NULL DEFAULT 0,
				created_at        TEXT NOT NULL,
				updated_at        TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS invoices (
				id                    TEXT PRIMARY KEY,
				number                TEXT NOT NULL,
				job_id                TEXT NOT NULL,
				customer_id           TEXT NOT NULL,
				labor_total_cents     INTEGER NOT NULL DEFAULT 0,
				parts_total_cents     INTEGER NOT NULL DEFAULT 0,
				pass_through_cents    INTEGER NOT NULL DEFAULT 0,
				misc_fees_cents       INTEGER NOT NULL DEFAULT 0,
				tax_cents             INTEGER NOT NULL DEFAULT 0,
				total_cents           INTEGER NOT NULL DEFAULT 0,
				income_amount_cents   INTEGER NOT NULL DEFAULT 0,
				paid_amount_cents     INTEGER NOT NULL DEFAULT 0,
				payment_status        TEXT NOT NULL DEFAULT 'unpaid',
				legacy_payment_method TEXT NOT NULL DEFAULT '',
				legacy_payment_date   TEXT NOT NULL DEFAULT '',
				created_at            TEXT NOT NULL,
				updated_at            TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS payments (
				id           TEXT PRIMARY KEY,
				invoice_id   TEXT NOT NULL,
				amount_cents INTEGER NOT NULL,
				method       TEXT NOT NULL DEFAULT '',
				notes        TEXT NOT NULL DEFAULT '',
				paid_at      TEXT NOT NULL,
				created_at   TEXT NOT NULL,
				updated_at   TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS reminders (
				id           TEXT PRIMARY KEY,
				job_id       TEXT NOT NULL,
				customer_id  TEXT NOT NULL,
				title        TEXT NOT NULL,
				due_at       TEXT NOT NULL,
				completed    INTEGER NOT NULL DEFAULT 0,
				completed_at TEXT NOT NULL DEFAULT '',
				created_at   TEXT NOT NULL,
				updated_at   TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS attachments (
				id         TEXT PRIMARY KEY,
				job_id     TEXT NOT NULL,
				path       TEXT NOT NULL,
				size_bytes INTEGER NOT NULL DEFAULT 0,
				mime       TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS audit_logs (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				entity_type TEXT NOT NULL,
				entity_id   TEXT NOT NULL,
				action      TEXT NOT NULL,
				details     TEXT NOT NULL DEFAULT '',
				at          TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS app_settings (
				id                  TEXT PRIMARY KEY,
				labor_rate_cents    INTEGER NOT NULL DEFAULT 0,
				tax_rate            REAL NOT NULL DEFAULT 0,
				invoice_prefix      TEXT NOT NULL DEFAULT 'INV-',
				next_invoice_number INTEGER NOT NULL DEFAULT 1,
				company_name        TEXT NOT NULL DEFAULT '',
				company_address     TEXT NOT NULL DEFAULT '',
				company_phone       TEXT NOT NULL DEFAULT '',
				company_email       TEXT NOT NULL DEFAULT '',
				created_at          TEXT NOT NULL,
				updated_at          TEXT NOT NULL
			)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`CREATE INDEX IF NOT EXISTS ` + IndexJobsByCustomer + ` ON jobs (customer_id)`,
			`CREATE INDEX IF NOT EXISTS ` + IndexJobsByStatus + ` ON jobs (status)`,
			`CREATE INDEX IF NOT EXISTS ` + IndexJobsByDate + ` ON jobs (job_date)`,
			`CREATE INDEX IF NOT EXISTS ` + IndexInvoicesByCustomer + ` ON invoices (customer_id)`,
			`CREATE INDEX IF NOT EXISTS ` + IndexInvoicesByJob + ` ON invoices (job_id)`,
			`CREATE INDEX IF NOT EXISTS ` + IndexInvoicesByStatus + ` ON invoices (payment_status)`,
			`CREATE INDEX IF NOT EXISTS ` + IndexPaymentsByInvoice + ` ON payments (invoice_id)`,
			`CREATE INDEX IF NOT EXISTS ` + IndexRemindersByDueDate + ` ON reminders (due_at)`,
			`CREATE INDEX IF NOT EXISTS ` + IndexRemindersByComplete + ` ON reminders (completed)`,
			`CREATE INDEX IF NOT EXISTS ` + IndexAttachmentsByJob + ` ON attachments (job_id)`,
		},
	},
	{
		version: 3,
		statements: []string{
			`CREATE INDEX IF NOT EXISTS ` + IndexAuditByEntity + ` ON audit_logs (entity_type, entity_id)`,
		},
	},
}

// Migrate applies any pending schema versions and verifies the index
// contract. It is safe to call on every open.
func Migrate(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("platform/db: migrations table: %w", err)
	}

	var current int
	if err := conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("platform/db: read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := WithTx(ctx, conn, func(tx *sql.Tx) error {
			for _, stmt := range m.statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("platform/db: migration %d: %w", m.version, err)
				}
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
				m.version, time.Now().UTC().Format(time.RFC3339))
			return err
		})
		if err != nil {
			return err
		}
	}

	return verifyIndexes(ctx, conn)
}

func verifyIndexes(ctx context.Context, conn *sql.DB) error {
	for _, name := range RequiredIndexes() {
		var found string
		err := conn.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'index' AND name = ?`, name).Scan(&found)
		if err != nil {
			return fmt.Errorf("platform/db: required index %s missing: %w", name, err)
		}
	}
	return nil
}

// SchemaVersion reports the highest applied migration version.
func SchemaVersion(ctx context.Context, conn *sql.DB) (int, error) {
	var v int
	err := conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("platform/db: schema version: %w", err)
	}
	return v, nil
}
