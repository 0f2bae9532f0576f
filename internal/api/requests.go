package api

import (
	"github.com/rpgo/lifesim/internal/domain"
	"github.com/shopspring/decimal"
)

// simulateRequest is the /simulate body. Fields absent from the body keep
// the defaults set by newSimulateRequest.
type simulateRequest struct {
	InitialIncome      float64 `json:"initialIncome"`
	InitialExpenditure float64 `json:"initialExpenditure"`
	InitialCapital     float64 `json:"initialCapital"`
	CurrentAge         int     `json:"currentAge"`
	FutureAge          int     `json:"futureAge"`
	LuckFactor         string  `json:"luckFactor"`
	Seed               int64   `json:"seed"`
}

func newSimulateRequest() simulateRequest {
	return simulateRequest{
		InitialIncome:      20,
		InitialExpenditure: 4,
		InitialCapital:     20,
		CurrentAge:         26,
		FutureAge:          60,
		LuckFactor:         string(domain.Neutral),
	}
}

func (r simulateRequest) params() (domain.SimulationParameters, error) {
	luck, err := domain.ParseLuckFactor(r.LuckFactor)
	if err != nil {
		return domain.SimulationParameters{}, err
	}
	return domain.SimulationParameters{
		InitialIncome:      decimal.NewFromFloat(r.InitialIncome),
		InitialExpenditure: decimal.NewFromFloat(r.InitialExpenditure),
		InitialCapital:     decimal.NewFromFloat(r.InitialCapital),
		CurrentAge:         r.CurrentAge,
		FutureAge:          r.FutureAge,
		LuckFactor:         luck,
	}, nil
}

// sensitivityRequest is the /sensitivity_analysis body, flat and snake_case.
type sensitivityRequest struct {
	IncomeMin                 float64 `json:"income_min"`
	IncomeMax                 float64 `json:"income_max"`
	IncomeStep                float64 `json:"income_step"`
	CapitalMin                float64 `json:"capital_min"`
	CapitalMax                float64 `json:"capital_max"`
	CapitalStep               float64 `json:"capital_step"`
	CurrentAge                int     `json:"current_age"`
	FutureAge                 int     `json:"future_age"`
	LuckFactor                string  `json:"luck_factor"`
	SimulationsPerCombination int     `json:"num_simulations_per_combination"`
	SuccessThresholdSavings   float64 `json:"success_threshold_savings"`
	MinSuccessRatePct         float64 `json:"min_success_rate_pct"`
	ExpenditureToIncomeRatio  float64 `json:"expenditure_to_income_ratio"`
	Seed                      int64   `json:"seed"`
}

func newSensitivityRequest() sensitivityRequest {
	return sensitivityRequest{
		IncomeMin:                 10,
		IncomeMax:                 30,
		IncomeStep:                5,
		CapitalMin:                5,
		CapitalMax:                40,
		CapitalStep:               5,
		CurrentAge:                26,
		FutureAge:                 60,
		LuckFactor:                string(domain.Neutral),
		SimulationsPerCombination: 10,
		SuccessThresholdSavings:   200,
		MinSuccessRatePct:         50,
		ExpenditureToIncomeRatio:  0.2,
	}
}

func (r sensitivityRequest) params() (domain.SensitivityParameters, error) {
	luck, err := domain.ParseLuckFactor(r.LuckFactor)
	if err != nil {
		return domain.SensitivityParameters{}, err
	}
	return domain.SensitivityParameters{
		IncomeRange: domain.ValueRange{
			Min:  decimal.NewFromFloat(r.IncomeMin),
			Max:  decimal.NewFromFloat(r.IncomeMax),
			Step: decimal.NewFromFloat(r.IncomeStep),
		},
		CapitalRange: domain.ValueRange{
			Min:  decimal.NewFromFloat(r.CapitalMin),
			Max:  decimal.NewFromFloat(r.CapitalMax),
			Step: decimal.NewFromFloat(r.CapitalStep),
		},
		CurrentAge:                r.CurrentAge,
		FutureAge:                 r.FutureAge,
		LuckFactor:                luck,
		ExpenditureToIncomeRatio:  decimal.NewFromFloat(r.ExpenditureToIncomeRatio),
		SimulationsPerCombination: r.SimulationsPerCombination,
		SuccessThresholdSavings:   decimal.NewFromFloat(r.SuccessThresholdSavings),
		MinSuccessRatePct:         decimal.NewFromFloat(r.MinSuccessRatePct),
		Seed:                      r.Seed,
	}, nil
}

type errorResponse struct {
	Error string `json:"error"`
}
