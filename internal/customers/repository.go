package customers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

// Repository persists customers. Construct over *sql.DB for standalone use or
// over *sql.Tx to participate in a facade transaction.
type Repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

const customerColumns = `id, name, email, phone, address, tags, notes, archived, created_at, updated_at`

// Insert writes a customer exactly as given, including timestamps.
func (r *Repository) Insert(ctx context.Context, c Customer) error {
	tags, err := json.Marshal(orEmpty(c.Tags))
	if err != nil {
		return shared.Storagef("marshal customer tags", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO customers (`+customerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Phone, c.Address, string(tags), c.Notes,
		boolToInt(c.Archived), shared.FormatTime(c.CreatedAt), shared.FormatTime(c.UpdatedAt))
	if err != nil {
		return shared.Storagef("insert customer", err)
	}
	return nil
}

// Update rewrites every mutable column.
func (r *Repository) Update(ctx context.Context, c Customer) error {
	tags, err := json.Marshal(orEmpty(c.Tags))
	if err != nil {
		return shared.Storagef("marshal customer tags", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET name = ?, email = ?, phone = ?, address = ?, tags = ?,
			notes = ?, archived = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Email, c.Phone, c.Address, string(tags), c.Notes,
		boolToInt(c.Archived), shared.FormatTime(c.UpdatedAt), c.ID)
	if err != nil {
		return shared.Storagef("update customer", err)
	}
	return requireRow(res, "customer", c.ID)
}

func (r *Repository) Get(ctx context.Context, id string) (*Customer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFoundf("customer %s", id)
	}
	if err != nil {
		return nil, shared.Storagef("get customer", err)
	}
	return c, nil
}

func (r *Repository) List(ctx context.Context, req ListCustomersRequest) ([]Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	var conditions []string
	var args []any
	if req.Archived != nil {
		conditions = append(conditions, `archived = ?`)
		args = append(args, boolToInt(*req.Archived))
	}
	if req.Search != "" {
		conditions = append(conditions, `(name LIKE ? OR email LIKE ? OR phone LIKE ?)`)
		pattern := "%" + req.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, shared.Storagef("list customers", err)
	}
	defer rows.Close()

	var result []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, shared.Storagef("scan customer", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.Storagef("list customers", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*Customer, error) {
	var c Customer
	var tags, createdAt, updatedAt string
	var archived int
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &tags,
		&c.Notes, &archived, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
		return nil, fmt.Errorf("decode customer tags: %w", err)
	}
	c.Archived = archived != 0
	c.CreatedAt = shared.ParseTime(createdAt)
	c.UpdatedAt = shared.ParseTime(updatedAt)
	return &c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func orEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func requireRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return shared.Storagef("rows affected", err)
	}
	if n == 0 {
		return shared.NotFoundf("%s %s", entity, id)
	}
	return nil
}
