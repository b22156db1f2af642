package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ia-usgs/field-service-manager-sub001/internal/attachments"
	"github.com/ia-usgs/field-service-manager-sub001/internal/audit"
	"github.com/ia-usgs/field-service-manager-sub001/internal/customers"
	"github.com/ia-usgs/field-service-manager-sub001/internal/inventory"
	"github.com/ia-usgs/field-service-manager-sub001/internal/invoices"
	"github.com/ia-usgs/field-service-manager-sub001/internal/jobs"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/reminders"
	"github.com/ia-usgs/field-service-manager-sub001/internal/settings"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
	"github.com/ia-usgs/field-service-manager-sub001/internal/trash"
)

// manualClock lets tests decide when trash entries expire.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	deadline time.Time
	fn       func()
	stopped  bool
	fired    bool
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, fn func()) shared.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{deadline: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.deadline.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

func newTestFacade(t *testing.T) (*Facade, *manualClock) {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn))

	clock := newManualClock()
	trashMgr := trash.NewManager(30*time.Second, clock, nil)
	return New(conn, trashMgr, audit.NewService(conn), nil, clock, nil), clock
}

func seedCustomer(t *testing.T, f *Facade) *customers.Customer {
	t.Helper()
	c, err := f.AddCustomer(context.Background(), customers.CreateCustomerRequest{
		Name:  "Dana Whitfield",
		Email: "dana@example.com",
		Tags:  []string{"residential"},
	})
	require.NoError(t, err)
	return c
}

func seedItem(t *testing.T, f *Facade, qty int64) *inventory.Item {
	t.Helper()
	item, err := f.AddInventoryItem(context.Background(), inventory.CreateItemRequest{
		Name:             "Condensate pump",
		CostCents:        2500,
		PriceCents:       4000,
		Quantity:         qty,
		ReorderThreshold: 1,
	})
	require.NoError(t, err)
	return item
}

func seedJob(t *testing.T, f *Facade, customerID, itemID string) *jobs.Job {
	t.Helper()
	j, err := f.AddJob(context.Background(), jobs.CreateJobRequest{
		CustomerID:     customerID,
		Title:          "AC repair",
		Date:           "2024-06-01",
		LaborHours:     2,
		LaborRateCents: 8500,
		TaxRate:        8.25,
		Parts: []jobs.PartInput{
			{Name: "Condensate pump", Quantity: 1, UnitCostCents: 2500, UnitPriceCents: 4000,
				Source: "inventory", InventoryItemID: itemID},
		},
	})
	require.NoError(t, err)
	return j
}

func invoiceJob(t *testing.T, f *Facade, jobID string) *invoices.Invoice {
	t.Helper()
	ctx := context.Background()
	var j *jobs.Job
	var err error
	for _, next := range []jobs.Status{jobs.StatusInProgress, jobs.StatusCompleted, jobs.StatusInvoiced} {
		j, err = f.UpdateJobStatus(ctx, jobID, next)
		require.NoError(t, err)
	}
	inv, err := f.GetInvoice(ctx, j.InvoiceID)
	require.NoError(t, err)
	return inv
}

func TestAddJobConsumesInventory(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()
	c := seedCustomer(t, f)
	item := seedItem(t, f, 3)

	seedJob(t, f, c.ID, item.ID)

	got, err := f.GetInventoryItem(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), got.Quantity)
}

func TestAddJobRejectsInsufficientStock(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()
	c := seedCustomer(t, f)
	item := seedItem(t, f, 0)

	_, err := f.AddJob(ctx, jobs.CreateJobRequest{
		CustomerID: c.ID,
		Title:      "AC repair",
		Date:       "2024-06-01",
		Parts: []jobs.PartInput{
			{Name: "Condensate pump", Quantity: 1, UnitPriceCents: 4000,
				Source: "inventory", InventoryItemID: item.ID},
		},
	})
	require.ErrorIs(t, err, shared.ErrValidation)

	// The rejected job must not leave a row behind.
	list, err := f.ListJobs(ctx, jobs.ListJobsRequest{CustomerID: c.ID})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestAddJobDefaultsFromSettings(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()
	c := seedCustomer(t, f)

	j, err := f.AddJob(ctx, jobs.CreateJobRequest{
		CustomerID: c.ID,
		Title:      "Estimate visit",
		Date:       "2024-06-02",
		LaborHours: 1,
	})
	require.NoError(t, err)
	require.Equal(t, int64(8500), j.LaborRateCents, "labor rate should come from settings")
}

func TestStatusTransitionRejected(t *testing.T) {
	f, _ := newTestFacade(t)
	c := seedCustomer(t, f)
	item := seedItem(t, f, 5)
	j := seedJob(t, f, c.ID, item.ID)

	_, err := f.UpdateJobStatus(context.Background(), j.ID, jobs.StatusPaid)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestInvoiceNumbersStrictlyIncrease(t *testing.T) {
	f, _ := newTestFacade(t)
	c := seedCustomer(t, f)
	item := seedItem(t, f, 10)

	first := invoiceJob(t, f, seedJob(t, f, c.ID, item.ID).ID)
	second := invoiceJob(t, f, seedJob(t, f, c.ID, item.ID).ID)

	require.Equal(t, "INV-000001", first.Number)
	require.Equal(t, "INV-000002", second.Number)
}

func TestInvoiceTotals(t *testing.T) {
	f, _ := newTestFacade(t)
	c := seedCustomer(t, f)
	item := seedItem(t, f, 5)
	inv := invoiceJob(t, f, seedJob(t, f, c.ID, item.ID).ID)

	require.Equal(t, int64(17000), inv.LaborTotalCents)
	require.Equal(t, int64(4000), inv.PartsTotalCents)
	require.Equal(t, int64(1733), inv.TaxCents)
	require.Equal(t, int64(22733), inv.TotalCents)
	require.Equal(t, invoices.StatusUnpaid, inv.PaymentStatus)
}

func TestPaymentLifecycle(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()
	c := seedCustomer(t, f)
	item := seedItem(t, f, 5)
	j := seedJob(t, f, c.ID, item.ID)
	inv := invoiceJob(t, f, j.ID)

	paid, err := f.RecordPayment(ctx, inv.ID, invoices.RecordPaymentRequest{
		AmountCents: 22733, Method: "card",
	})
	require.NoError(t, err)
	require.Equal(t, invoices.StatusPaid, paid.PaymentStatus)
	require.Equal(t, int64(22733), paid.PaidAmountCents)

	// Full payment flips the job from invoiced to paid.
	gotJob, err := f.GetJob(ctx, j.ID)
	require.NoError(t, err)
	require.Equal(t, jobs.StatusPaid, gotJob.Status)

	// A refund moves it back to partial; paid amount stays derived from the
	// full signed payment list.
	refunded, err := f.RecordPayment(ctx, inv.ID, invoices.RecordPaymentRequest{
		AmountCents: -10000, Method: "card", Notes: "goodwill refund",
	})
	require.NoError(t, err)
	require.Equal(t, invoices.StatusPartial, refunded.PaymentStatus)
	require.Equal(t, int64(12733), refunded.PaidAmountCents)

	history, err := f.ListPayments(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestUpdateJobRecomputesInvoice(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()
	c := seedCustomer(t, f)
	item := seedItem(t, f, 5)
	j := seedJob(t, f, c.ID, item.ID)
	inv := invoiceJob(t, f, j.ID)
	require.Equal(t, int64(22733), inv.TotalCents)

	hours := 3.0
	_, err := f.UpdateJob(ctx, j.ID, jobs.UpdateJobRequest{LaborHours: &hours})
	require.NoError(t, err)

	got, err := f.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	// labor 25500 + parts 4000 = 29500; tax 2434; total 31934
	require.Equal(t, int64(25500), got.LaborTotalCents)
	require.Equal(t, int64(31934), got.TotalCents)
}

func TestDeleteAndRestoreRoundTrip(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()
	c := seedCustomer(t, f)
	item := seedItem(t, f, 5)
	j := seedJob(t, f, c.ID, item.ID)
	inv := invoiceJob(t, f, j.ID)

	_, err := f.RecordPayment(ctx, inv.ID, invoices.RecordPaymentRequest{AmountCents: 10000, Method: "cash"})
	require.NoError(t, err)
	rem, err := f.AddReminder(ctx, reminders.CreateReminderRequest{
		JobID: j.ID, Title: "Follow up on filter", DueAt: "2024-06-10T09:00:00Z",
	})
	require.NoError(t, err)
	att, err := f.AddAttachment(ctx, attachments.CreateAttachmentRequest{
		JobID: j.ID, Path: "/photos/before.jpg", SizeBytes: 12345, Mime: "image/jpeg",
	})
	require.NoError(t, err)

	before, err := f.GetJob(ctx, j.ID)
	require.NoError(t, err)
	beforeInv, err := f.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	beforePayments, err := f.ListPayments(ctx, inv.ID)
	require.NoError(t, err)

	require.NoError(t, f.DeleteJob(ctx, j.ID))

	_, err = f.GetJob(ctx, j.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
	_, err = f.GetInvoice(ctx, inv.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	// Stock is returned while the job sits in the trash.
	stocked, err := f.GetInventoryItem(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, int64(5), stocked.Quantity)

	restored, err := f.RestoreJob(ctx, j.ID)
	require.NoError(t, err)
	require.Equal(t, *before, *restored)

	afterInv, err := f.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, *beforeInv, *afterInv)

	afterPayments, err := f.ListPayments(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, beforePayments, afterPayments)

	gotRem, err := f.ListReminders(ctx, reminders.ListRemindersRequest{JobID: j.ID})
	require.NoError(t, err)
	require.Len(t, gotRem, 1)
	require.Equal(t, rem.ID, gotRem[0].ID)

	gotAtt, err := f.ListAttachments(ctx, j.ID)
	require.NoError(t, err)
	require.Len(t, gotAtt, 1)
	require.Equal(t, att.ID, gotAtt[0].ID)

	// Restore re-consumed the part.
	restocked, err := f.GetInventoryItem(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, int64(4), restocked.Quantity)
}

func TestRestoreAfterExpiryFails(t *testing.T) {
	f, clock := newTestFacade(t)
	ctx := context.Background()
	c := seedCustomer(t, f)
	item := seedItem(t, f, 5)
	j := seedJob(t, f, c.ID, item.ID)

	require.NoError(t, f.DeleteJob(ctx, j.ID))
	clock.Advance(time.Minute)

	_, err := f.RestoreJob(ctx, j.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRestoreFailureRestashes(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()
	c := seedCustomer(t, f)
	item := seedItem(t, f, 1)
	j := seedJob(t, f, c.ID, item.ID)

	require.NoError(t, f.DeleteJob(ctx, j.ID))

	// Someone else uses the returned stock before the restore.
	zero := int64(0)
	_, err := f.UpdateInventoryItem(ctx, item.ID, inventory.UpdateItemRequest{Quantity: &zero})
	require.NoError(t, err)

	_, err = f.RestoreJob(ctx, j.ID)
	require.ErrorIs(t, err, shared.ErrCascadeIntegrity)

	// The snapshot went back into the trash, so freeing stock lets a retry
	// succeed.
	one := int64(1)
	_, err = f.UpdateInventoryItem(ctx, item.ID, inventory.UpdateItemRequest{Quantity: &one})
	require.NoError(t, err)
	restored, err := f.RestoreJob(ctx, j.ID)
	require.NoError(t, err)
	require.Equal(t, j.ID, restored.ID)
}

func TestAuditTimelineRecordsMutations(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()
	c := seedCustomer(t, f)
	item := seedItem(t, f, 5)
	seedJob(t, f, c.ID, item.ID)

	result, err := f.AuditTimeline(ctx, audit.TimelineFilters{})
	require.NoError(t, err)
	require.NotEmpty(t, result.Rows)
	// Newest first.
	require.Equal(t, "job", result.Rows[0].EntityType)

	byCustomer, err := f.AuditTimeline(ctx, audit.TimelineFilters{EntityType: "customer", EntityID: c.ID})
	require.NoError(t, err)
	require.Len(t, byCustomer.Rows, 1)
	require.Equal(t, "create", byCustomer.Rows[0].Action)

	purged, err := f.PurgeAudit(ctx)
	require.NoError(t, err)
	require.Greater(t, purged, int64(0))

	empty, err := f.AuditTimeline(ctx, audit.TimelineFilters{})
	require.NoError(t, err)
	require.Empty(t, empty.Rows)
}

func TestArchiveCustomerHidesFromDefaultList(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()
	c := seedCustomer(t, f)

	_, err := f.ArchiveCustomer(ctx, c.ID)
	require.NoError(t, err)

	archived := false
	active, err := f.ListCustomers(ctx, customers.ListCustomersRequest{Archived: &archived})
	require.NoError(t, err)
	require.Empty(t, active)

	// Archived customers remain readable.
	got, err := f.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, got.Archived)
}

func TestSummaryAggregates(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()
	c := seedCustomer(t, f)
	item := seedItem(t, f, 5)
	inv := invoiceJob(t, f, seedJob(t, f, c.ID, item.ID).ID)

	_, err := f.RecordPayment(ctx, inv.ID, invoices.RecordPaymentRequest{AmountCents: 10000, Method: "cash"})
	require.NoError(t, err)

	s, err := f.GetSummary(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), s.Customers)
	require.Equal(t, int64(1), s.JobsByStatus[string(jobs.StatusInvoiced)])
	require.Equal(t, int64(1), s.OpenInvoices)
	require.Equal(t, int64(12733), s.OutstandingCents)
	require.Equal(t, int64(10000), s.CollectedCents)
}

func TestScansWriteAuditEntries(t *testing.T) {
	f, clock := newTestFacade(t)
	ctx := context.Background()
	c := seedCustomer(t, f)
	item := seedItem(t, f, 1) // at threshold
	j := seedJob(t, f, c.ID, item.ID)

	_, err := f.AddReminder(ctx, reminders.CreateReminderRequest{
		JobID: j.ID, Title: "Call back", DueAt: clock.Now().Add(-time.Hour).Format(time.RFC3339Nano),
	})
	require.NoError(t, err)

	due, err := f.ScanOverdueReminders(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)

	low, err := f.ScanLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)

	result, err := f.AuditTimeline(ctx, audit.TimelineFilters{Action: "overdue"})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	result, err = f.AuditTimeline(ctx, audit.TimelineFilters{Action: "low-stock"})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
}

func TestSettingsUpdateAffectsInvoicePrefix(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()
	c := seedCustomer(t, f)
	item := seedItem(t, f, 5)

	prefix := "FSM-"
	s, err := f.UpdateSettings(ctx, settings.UpdateSettingsRequest{InvoicePrefix: &prefix})
	require.NoError(t, err)
	require.Equal(t, "FSM-", s.InvoicePrefix)

	inv := invoiceJob(t, f, seedJob(t, f, c.ID, item.ID).ID)
	require.Equal(t, "FSM-000001", inv.Number)
}
