package output

import (
	"github.com/rpgo/lifesim/internal/domain"
	"github.com/rpgo/lifesim/pkg/lakh"
)

// YearlyRow is the wire shape of one simulated year. Numbers are rounded to
// two places; Events is the human-readable summary.
type YearlyRow struct {
	Year            int     `json:"year"`
	Age             int     `json:"age"`
	Income          float64 `json:"income"`
	PostTaxIncome   float64 `json:"postTaxIncome"`
	Expenditure     float64 `json:"expenditure"`
	SavingsThisYear float64 `json:"savingsThisYear"`
	TotalSavings    float64 `json:"totalSavings"`
	TotalDebt       float64 `json:"totalDebt"`
	Events          string  `json:"events"`
}

// SummaryRow is the wire shape of a RunSummary.
type SummaryRow struct {
	FinalSavings          float64 `json:"finalSavings"`
	HighestSavings        float64 `json:"highestSavings"`
	LowestSavings         float64 `json:"lowestSavings"`
	YearsInDebt           int     `json:"yearsInDebt"`
	MaxDebt               float64 `json:"maxDebt"`
	TotalEvents           int     `json:"totalEvents"`
	TotalGrowthPercentage float64 `json:"totalGrowthPercentage"`
}

// SensitivityRow is the wire shape of one sweep cell.
type SensitivityRow struct {
	InitialIncome                float64 `json:"initial_income"`
	InitialExpenditureCalculated float64 `json:"initial_expenditure_calculated"`
	InitialCapital               float64 `json:"initial_capital"`
	NumTotalRuns                 int     `json:"num_total_runs"`
	NumSuccessfulRuns            int     `json:"num_successful_runs"`
	NumFailedRuns                int     `json:"num_failed_runs"`
	SuccessRatePct               float64 `json:"success_rate_pct"`
	AverageFinalSavings          float64 `json:"average_final_savings"`
	MedianFinalSavings           float64 `json:"median_final_savings"`
	AverageDebtIncurredYears     float64 `json:"average_debt_incurred_years"`
	MeetsTarget                  bool    `json:"meets_target"`
}

// YearlyRows converts records for the wire.
func YearlyRows(records []domain.YearlyRecord) []YearlyRow {
	rows := make([]YearlyRow, len(records))
	for i, r := range records {
		rows[i] = YearlyRow{
			Year:            r.Year,
			Age:             r.Age,
			Income:          lakh.Float2(r.Income),
			PostTaxIncome:   lakh.Float2(r.PostTaxIncome),
			Expenditure:     lakh.Float2(r.Expenditure),
			SavingsThisYear: lakh.Float2(r.SavingsThisYear),
			TotalSavings:    lakh.Float2(r.TotalSavings),
			TotalDebt:       lakh.Float2(r.TotalDebt),
			Events:          RenderEvents(r),
		}
	}
	return rows
}

// Summary converts a RunSummary for the wire.
func Summary(s domain.RunSummary) SummaryRow {
	return SummaryRow{
		FinalSavings:          lakh.Float2(s.FinalSavings),
		HighestSavings:        lakh.Float2(s.HighestSavings),
		LowestSavings:         lakh.Float2(s.LowestSavings),
		YearsInDebt:           s.YearsInDebt,
		MaxDebt:               lakh.Float2(s.MaxDebt),
		TotalEvents:           s.TotalEvents,
		TotalGrowthPercentage: lakh.Float2(s.TotalGrowthPercentage),
	}
}

// SensitivityRows converts sweep cells for the wire.
func SensitivityRows(cells []domain.SensitivityCell) []SensitivityRow {
	rows := make([]SensitivityRow, len(cells))
	for i, c := range cells {
		rows[i] = SensitivityRow{
			InitialIncome:                lakh.Float2(c.InitialIncome),
			InitialExpenditureCalculated: lakh.Float2(c.InitialExpenditureCalculated),
			InitialCapital:               lakh.Float2(c.InitialCapital),
			NumTotalRuns:                 c.NumTotalRuns,
			NumSuccessfulRuns:            c.NumSuccessfulRuns,
			NumFailedRuns:                c.NumFailedRuns,
			SuccessRatePct:               lakh.Float2(c.SuccessRatePct),
			AverageFinalSavings:          lakh.Float2(c.AverageFinalSavings),
			MedianFinalSavings:           lakh.Float2(c.MedianFinalSavings),
			AverageDebtIncurredYears:     lakh.Float2(c.AverageDebtIncurredYears),
			MeetsTarget:                  c.MeetsTarget,
		}
	}
	return rows
}
