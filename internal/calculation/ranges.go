package calculation

import (
	"github.com/rpgo/lifesim/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxRangeValues bounds the number of values a single stepped range, and the
// number of cells a sweep grid, may hold.
const MaxRangeValues = 1 << 20

// SteppedRange expands min..max inclusive by step. A remainder short of a full
// step is dropped, so the last value may be below max.
func SteppedRange(min, max, step decimal.Decimal) ([]decimal.Decimal, error) {
	if !step.IsPositive() {
		return nil, domain.Invalid("step", "must be positive")
	}
	if max.LessThan(min) {
		return nil, domain.Invalid("max", "must not be below min")
	}
	count := rangeCount(min, max, step)
	if count.GreaterThan(decimal.NewFromInt(MaxRangeValues)) {
		return nil, domain.Invalid("max", "range has %s values, limit is %d", count, MaxRangeValues)
	}
	n := count.IntPart()
	values := make([]decimal.Decimal, 0, n)
	for i := int64(0); i < n; i++ {
		values = append(values, min.Add(step.Mul(decimal.NewFromInt(i))))
	}
	return values, nil
}

// rangeLen counts SteppedRange values without allocating them. The count stays
// a decimal so huge ranges compare correctly against limits.
func rangeLen(r domain.ValueRange) decimal.Decimal {
	if !r.Step.IsPositive() || r.Max.LessThan(r.Min) {
		return decimal.Zero
	}
	return rangeCount(r.Min, r.Max, r.Step)
}

func rangeCount(min, max, step decimal.Decimal) decimal.Decimal {
	return max.Sub(min).Div(step).Floor().Add(decimalOne)
}
