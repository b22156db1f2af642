package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/ia-usgs/field-service-manager-sub001/internal/audit"
	"github.com/ia-usgs/field-service-manager-sub001/internal/ledger"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/trash"
)

func newTestScans(t *testing.T) *Scans {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn))

	facade := ledger.New(conn, trash.NewManager(30*time.Second, nil, nil), audit.NewService(conn), nil, nil, nil)
	return NewScans(facade, nil)
}

func TestScanTasksCarryScheduleMetadata(t *testing.T) {
	at := time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC)

	task, err := NewReminderScanTask(at)
	require.NoError(t, err)
	require.Equal(t, TaskReminderScan, task.Type())

	task, err = NewLowStockScanTask(at)
	require.NoError(t, err)
	require.Equal(t, TaskLowStockScan, task.Type())
}

func TestHandlersSkipRetryOnBadPayload(t *testing.T) {
	s := newTestScans(t)
	bad := asynq.NewTask(TaskReminderScan, []byte("not json"))

	require.ErrorIs(t, s.HandleReminderScan(context.Background(), bad), asynq.SkipRetry)
	require.ErrorIs(t, s.HandleLowStockScan(context.Background(), bad), asynq.SkipRetry)
}

func TestHandlersRunAgainstEmptyLedger(t *testing.T) {
	s := newTestScans(t)

	task, err := NewReminderScanTask(time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, s.HandleReminderScan(context.Background(), task))

	task, err = NewLowStockScanTask(time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, s.HandleLowStockScan(context.Background(), task))
}
