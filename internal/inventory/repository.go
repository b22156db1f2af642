package inventory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

// ErrInsufficientStock is returned when a consume would drive quantity
// negative.
var ErrInsufficientStock = errors.New("inventory: insufficient stock")

type Repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

const itemColumns = `id, name, cost_cents, price_cents, quantity, reorder_threshold, created_at, updated_at`

func (r *Repository) Insert(ctx context.Context, item Item) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inventory_items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.CostCents, item.PriceCents, item.Quantity,
		item.ReorderThreshold, shared.FormatTime(item.CreatedAt), shared.FormatTime(item.UpdatedAt))
	if err != nil {
		return shared.Storagef("insert inventory item", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, item Item) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE inventory_items SET name = ?, cost_cents = ?, price_cents = ?,
			quantity = ?, reorder_threshold = ?, updated_at = ? WHERE id = ?`,
		item.Name, item.CostCents, item.PriceCents, item.Quantity,
		item.ReorderThreshold, shared.FormatTime(item.UpdatedAt), item.ID)
	if err != nil {
		return shared.Storagef("update inventory item", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shared.Storagef("rows affected", err)
	}
	if n == 0 {
		return shared.NotFoundf("inventory item %s", item.ID)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Item, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFoundf("inventory item %s", id)
	}
	if err != nil {
		return nil, shared.Storagef("get inventory item", err)
	}
	return item, nil
}

func (r *Repository) List(ctx context.Context) ([]Item, error) {
	return r.query(ctx, `SELECT `+itemColumns+` FROM inventory_items ORDER BY name`)
}

// ListLowStock returns items at or below their reorder threshold.
func (r *Repository) ListLowStock(ctx context.Context) ([]Item, error) {
	return r.query(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE quantity <= reorder_threshold ORDER BY name`)
}

// AdjustQuantity applies a signed delta to on-hand stock. Negative results
// are rejected with ErrInsufficientStock and nothing is written.
func (r *Repository) AdjustQuantity(ctx context.Context, id string, delta int64, at string) error {
	item, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	next := item.Quantity + delta
	if next < 0 {
		return ErrInsufficientStock
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE inventory_items SET quantity = ?, updated_at = ? WHERE id = ?`,
		next, at, id)
	if err != nil {
		return shared.Storagef("adjust inventory quantity", err)
	}
	return nil
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, shared.Storagef("list inventory", err)
	}
	defer rows.Close()

	var result []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, shared.Storagef("scan inventory item", err)
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.Storagef("list inventory", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var createdAt, updatedAt string
	if err := row.Scan(&item.ID, &item.Name, &item.CostCents, &item.PriceCents,
		&item.Quantity, &item.ReorderThreshold, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	item.CreatedAt = shared.ParseTime(createdAt)
	item.UpdatedAt = shared.ParseTime(updatedAt)
	return &item, nil
}
