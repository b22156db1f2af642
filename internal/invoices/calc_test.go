package invoices

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ia-usgs/field-service-manager-sub001/internal/jobs"
)

func TestComputeLaborPartsAndTax(t *testing.T) {
	job := jobs.Job{
		LaborHours:     2,
		LaborRateCents: 8500,
		Parts: []jobs.Part{
			{Name: "Condensate pump", Quantity: 1, UnitPriceCents: 4000, Source: jobs.SourceInventory},
		},
		TaxRate: 8.25,
	}

	totals := Compute(job)
	require.Equal(t, int64(17000), totals.LaborTotalCents)
	require.Equal(t, int64(4000), totals.PartsTotalCents)
	require.Equal(t, int64(0), totals.PassThroughCents)
	// 8.25% of $210.00 is $17.325, rounded half away from zero.
	require.Equal(t, int64(1733), totals.TaxCents)
	require.Equal(t, int64(22733), totals.TotalCents)
	require.Equal(t, totals.TotalCents, totals.IncomeAmountCents)
}

func TestComputePassThroughExcludedFromTaxAndIncome(t *testing.T) {
	job := jobs.Job{
		LaborHours:     1,
		LaborRateCents: 10000,
		Parts: []jobs.Part{
			{Name: "Owner-supplied valve", Quantity: 2, UnitPriceCents: 2500, Source: jobs.SourceCustomerProvided},
			{Name: "Fitting kit", Quantity: 1, UnitPriceCents: 1500, Source: jobs.SourceInventory},
		},
		MiscFeeCents: 500,
		TaxRate:      10,
	}

	totals := Compute(job)
	require.Equal(t, int64(5000), totals.PassThroughCents)
	require.Equal(t, int64(1500), totals.PartsTotalCents)
	// taxable base = 10000 + 1500 + 500; pass-through never taxed
	require.Equal(t, int64(1200), totals.TaxCents)
	require.Equal(t, int64(18200), totals.TotalCents)
	require.Equal(t, int64(13200), totals.IncomeAmountCents)
}

func TestComputeIsDeterministic(t *testing.T) {
	job := jobs.Job{
		LaborHours:     3.75,
		LaborRateCents: 9250,
		Parts: []jobs.Part{
			{Name: "Capacitor", Quantity: 3, UnitPriceCents: 1234, Source: jobs.SourceInventory},
		},
		MiscFeeCents: 999,
		TaxRate:      7.375,
	}
	first := Compute(job)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Compute(job))
	}
}

func TestSumPaymentsSigned(t *testing.T) {
	payments := []Payment{
		{AmountCents: 22733},
		{AmountCents: -10000},
	}
	require.Equal(t, int64(12733), SumPayments(payments))
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name  string
		paid  int64
		total int64
		want  PaymentStatus
	}{
		{"nothing paid", 0, 22733, StatusUnpaid},
		{"refunded below zero", -500, 22733, StatusUnpaid},
		{"partly paid", 12733, 22733, StatusPartial},
		{"settled exactly", 22733, 22733, StatusPaid},
		{"paid too much", 23000, 22733, StatusOverpaid},
		{"zero total unpaid", 0, 0, StatusUnpaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, StatusFor(tc.paid, tc.total))
		})
	}
}

func TestFormatCents(t *testing.T) {
	require.Equal(t, "$227.33", FormatCents(22733))
	require.Equal(t, "-$100.00", FormatCents(-10000))
	require.Equal(t, "$1,234.56", FormatCents(123456))
	require.Equal(t, "$0.05", FormatCents(5))
}
