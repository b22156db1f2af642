package invoices

import (
	"math"

	"github.com/ia-usgs/field-service-manager-sub001/internal/jobs"
)

// Totals is the derived money snapshot for a job. Deterministic: computing it
// twice from the same job yields identical cent values.
type Totals struct {
	LaborTotalCents   int64
	PartsTotalCents   int64
	PassThroughCents  int64
	MiscFeesCents     int64
	TaxCents          int64
	TotalCents        int64
	IncomeAmountCents int64
}

// Compute derives invoice totals from a job. Rounding happens at each
// subtotal, not only at the end, so recomputation is stable. Pass-through
// parts (customer-provided) are excluded from the taxable base and from
// income.
func Compute(job jobs.Job) Totals {
	labor := roundCents(job.LaborHours * float64(job.LaborRateCents))

	var partsTotal, passThrough int64
	for _, p := range job.Parts {
		line := p.Quantity * p.UnitPriceCents
		if p.Source == jobs.SourceCustomerProvided {
			passThrough += line
		} else {
			partsTotal += line
		}
	}

	taxableBase := labor + partsTotal + job.MiscFeeCents
	tax := roundCents(float64(taxableBase) * job.TaxRate / 100)
	total := taxableBase + tax + passThrough

	return Totals{
		LaborTotalCents:   labor,
		PartsTotalCents:   partsTotal,
		PassThroughCents:  passThrough,
		MiscFeesCents:     job.MiscFeeCents,
		TaxCents:          tax,
		TotalCents:        total,
		IncomeAmountCents: total - passThrough,
	}
}

// SumPayments folds the signed payment amounts into the paid total.
func SumPayments(payments []Payment) int64 {
	var sum int64
	for _, p := range payments {
		sum += p.AmountCents
	}
	return sum
}

// StatusFor derives the payment status from paid vs total.
func StatusFor(paidCents, totalCents int64) PaymentStatus {
	switch {
	case paidCents <= 0:
		return StatusUnpaid
	case paidCents < totalCents:
		return StatusPartial
	case paidCents == totalCents:
		return StatusPaid
	default:
		return StatusOverpaid
	}
}

// roundCents rounds half away from zero to the nearest cent.
func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
