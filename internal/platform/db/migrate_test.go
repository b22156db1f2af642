package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrateFreshDatabase(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, Migrate(ctx, conn))

	v, err := SchemaVersion(ctx, conn)
	require.NoError(t, err)
	require.Equal(t, 3, v)

	for _, table := range []string{
		"customers", "jobs", "inventory_items", "invoices", "payments",
		"reminders", "attachments", "audit_logs", "app_settings",
	} {
		var name string
		err := conn.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, Migrate(ctx, conn))
	require.NoError(t, Migrate(ctx, conn))

	var applied int
	require.NoError(t, conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	require.Equal(t, 3, applied)
}

func TestMigrateCreatesRequiredIndexes(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, Migrate(ctx, conn))

	for _, idx := range RequiredIndexes() {
		var name string
		err := conn.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'index' AND name = ?`, idx).Scan(&name)
		require.NoError(t, err, "index %s missing", idx)
	}
}
