package calculation

import (
	"github.com/rpgo/lifesim/internal/domain"
	"github.com/shopspring/decimal"
)

// Summarize reduces one run's records into headline statistics.
func Summarize(records []domain.YearlyRecord) domain.RunSummary {
	if len(records) == 0 {
		return domain.RunSummary{}
	}
	initial := records[0].TotalSavings
	final := records[len(records)-1].TotalSavings

	s := domain.RunSummary{
		FinalSavings:   final,
		HighestSavings: initial,
		LowestSavings:  initial,
		MaxDebt:        records[0].TotalDebt,
	}
	for _, r := range records {
		s.HighestSavings = decimal.Max(s.HighestSavings, r.TotalSavings)
		s.LowestSavings = decimal.Min(s.LowestSavings, r.TotalSavings)
		s.MaxDebt = decimal.Max(s.MaxDebt, r.TotalDebt)
		if r.InDebt() {
			s.YearsInDebt++
		}
		if r.HasEvents() {
			s.TotalEvents++
		}
	}
	s.TotalGrowthPercentage = growthPercentage(initial, final)
	return s
}

// growthPercentage is 0% from zero to zero and 100% from zero to anything positive.
func growthPercentage(initial, final decimal.Decimal) decimal.Decimal {
	if initial.IsZero() {
		if final.IsPositive() {
			return decimalHundred
		}
		return decimal.Zero
	}
	return final.Sub(initial).Div(initial).Mul(decimalHundred)
}

// DebtYears counts the records carrying debt.
func DebtYears(records []domain.YearlyRecord) int {
	n := 0
	for _, r := range records {
		if r.InDebt() {
			n++
		}
	}
	return n
}
