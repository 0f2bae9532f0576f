package output

import (
	"github.com/rpgo/lifesim/internal/calculation"
	"github.com/rpgo/lifesim/internal/domain"
)

// RunReport is everything a formatter needs to present one projected life.
type RunReport struct {
	Params      domain.SimulationParameters
	Seed        int64
	Records     []domain.YearlyRecord
	Summary     domain.RunSummary
	Assumptions []string
}

// NewRunReport summarizes records and captures the assumptions they were produced under.
func NewRunReport(params domain.SimulationParameters, seed int64, records []domain.YearlyRecord, a domain.Assumptions) *RunReport {
	return &RunReport{
		Params:      params,
		Seed:        seed,
		Records:     records,
		Summary:     calculation.Summarize(records),
		Assumptions: a.Describe(),
	}
}

// SensitivityReport is a finished sweep.
type SensitivityReport struct {
	Params domain.SensitivityParameters
	Cells  []domain.SensitivityCell
}
