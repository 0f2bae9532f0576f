package output

import (
	"github.com/rpgo/lifesim/internal/domain"
	"github.com/shopspring/decimal"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func sampleReport() *RunReport {
	records := []domain.YearlyRecord{
		{Year: 0, Age: 26, Income: d(20), PostTaxIncome: d(14), Expenditure: d(4), SavingsThisYear: d(10), TotalSavings: d(20)},
		{Year: 1, Age: 27, Income: d(22), PostTaxIncome: d(15.4), Expenditure: d(4.52), SavingsThisYear: d(10.88), TotalSavings: d(33.47)},
		{Year: 2, Age: 28, Income: d(24.2), PostTaxIncome: d(16.94), Expenditure: d(5.11), SavingsThisYear: d(11.83), TotalSavings: d(29.14),
			Events: []domain.EventDescriptor{{Kind: domain.EventMedical, Phase: domain.PhaseTriggered, Amount: d(-20.5)}}},
	}
	params := domain.SimulationParameters{
		InitialIncome: d(20), InitialExpenditure: d(4), InitialCapital: d(20),
		CurrentAge: 26, FutureAge: 28, LuckFactor: domain.Neutral,
	}
	return NewRunReport(params, 7, records, domain.DefaultAssumptions())
}
