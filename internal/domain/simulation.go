package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LuckFactor biases the probability of adverse and favorable life events.
type LuckFactor string

const (
	Unlucky LuckFactor = "unlucky"
	Neutral LuckFactor = "neutral"
	Lucky   LuckFactor = "lucky"
)

// ParseLuckFactor resolves a luck name case-insensitively. Empty means neutral.
func ParseLuckFactor(s string) (LuckFactor, error) {
	switch LuckFactor(strings.ToLower(strings.TrimSpace(s))) {
	case "", Neutral:
		return Neutral, nil
	case Unlucky:
		return Unlucky, nil
	case Lucky:
		return Lucky, nil
	}
	return "", Invalid("luck_factor", "must be one of unlucky, neutral, lucky (got %q)", s)
}

// Valid reports whether l is one of the known luck factors.
func (l LuckFactor) Valid() bool {
	return l == Unlucky || l == Neutral || l == Lucky
}

// Age bounds accepted for a single projection.
const (
	MinCurrentAge = 18
	MaxCurrentAge = 70
	MaxFutureAge  = 100
)

// SimulationParameters are the inputs of a single projected life. Amounts are in lakhs.
type SimulationParameters struct {
	InitialIncome      decimal.Decimal `json:"initialIncome" yaml:"initial_income"`
	InitialExpenditure decimal.Decimal `json:"initialExpenditure" yaml:"initial_expenditure"`
	InitialCapital     decimal.Decimal `json:"initialCapital" yaml:"initial_capital"`
	CurrentAge         int             `json:"currentAge" yaml:"current_age"`
	FutureAge          int             `json:"futureAge" yaml:"future_age"`
	LuckFactor         LuckFactor      `json:"luckFactor" yaml:"luck_factor"`
}

// YearsToSimulate is the number of simulated years after the initial state.
func (p SimulationParameters) YearsToSimulate() int { return p.FutureAge - p.CurrentAge }

// Validate checks every numeric bound and the age ordering.
func (p SimulationParameters) Validate() error {
	if !p.InitialIncome.IsPositive() {
		return Invalid("initial_income", "must be positive")
	}
	if !p.InitialExpenditure.IsPositive() {
		return Invalid("initial_expenditure", "must be positive")
	}
	if p.InitialCapital.IsNegative() {
		return Invalid("initial_capital", "cannot be negative")
	}
	if err := validateAges(p.CurrentAge, p.FutureAge); err != nil {
		return err
	}
	if !p.LuckFactor.Valid() {
		return Invalid("luck_factor", "must be one of unlucky, neutral, lucky (got %q)", string(p.LuckFactor))
	}
	return nil
}

func validateAges(current, future int) error {
	if current < MinCurrentAge || current > MaxCurrentAge {
		return Invalid("current_age", "must be between %d and %d", MinCurrentAge, MaxCurrentAge)
	}
	if future <= current {
		return Invalid("future_age", "must be greater than current_age (%d)", current)
	}
	if future > MaxFutureAge {
		return Invalid("future_age", "cannot exceed %d", MaxFutureAge)
	}
	return nil
}

// EventKind identifies a life event or engine bookkeeping entry.
type EventKind string

const (
	EventBlackSwan     EventKind = "black_swan"
	EventJobLoss       EventKind = "job_loss"
	EventMarketCrash   EventKind = "market_crash"
	EventMedical       EventKind = "medical_emergency"
	EventDivorce       EventKind = "divorce"
	EventFamilyExpense EventKind = "family_expense"
	EventMarriage      EventKind = "marriage"
	EventChildBorn     EventKind = "child_born"
	EventBusiness      EventKind = "business_venture"
	EventInheritance   EventKind = "inheritance"
	EventCareer        EventKind = "career_advancement"
	EventEducation     EventKind = "child_education"
	EventRetirement    EventKind = "retirement"
	EventDebtIncurred  EventKind = "debt_incurred"
	EventDebtRepaid    EventKind = "debt_repaid"
)

// Adverse reports whether the kind is a luck-scaled adverse event.
func (k EventKind) Adverse() bool {
	switch k {
	case EventBlackSwan, EventJobLoss, EventMarketCrash, EventMedical, EventDivorce, EventFamilyExpense:
		return true
	}
	return false
}

// Favorable reports whether the kind is a luck-scaled favorable event.
func (k EventKind) Favorable() bool {
	switch k {
	case EventBusiness, EventInheritance, EventCareer:
		return true
	}
	return false
}

// EventPhase says where in its lifecycle an event descriptor sits.
type EventPhase string

const (
	PhaseTriggered EventPhase = "triggered"
	PhaseOngoing   EventPhase = "ongoing"
	PhaseResolved  EventPhase = "resolved"
	PhaseScheduled EventPhase = "scheduled"
	PhaseLedger    EventPhase = "ledger"
)

// EventDescriptor is the structured record of something that happened in a year.
// Amount is kind dependent: a signed lakh delta for one-off costs and windfalls,
// the new salary for income events, the amount booked for ledger entries.
// Basis is the business stake or, for ledger entries, the debt outstanding afterwards.
type EventDescriptor struct {
	Kind    EventKind       `json:"kind"`
	Phase   EventPhase      `json:"phase"`
	Amount  decimal.Decimal `json:"amount"`
	Rate    decimal.Decimal `json:"rate"`
	Basis   decimal.Decimal `json:"basis"`
	Months  int             `json:"months,omitempty"`
	Years   int             `json:"years,omitempty"`
	Success bool            `json:"success,omitempty"`
	Subject string          `json:"subject,omitempty"`
}

// YearlyRecord is one simulated year. Year 0 is the initial state.
type YearlyRecord struct {
	Year            int               `json:"year"`
	Age             int               `json:"age"`
	Income          decimal.Decimal   `json:"income"`
	PostTaxIncome   decimal.Decimal   `json:"post_tax_income"`
	Expenditure     decimal.Decimal   `json:"expenditure"`
	SavingsThisYear decimal.Decimal   `json:"savings_this_year"`
	TotalSavings    decimal.Decimal   `json:"total_savings"`
	TotalDebt       decimal.Decimal   `json:"total_debt"`
	Events          []EventDescriptor `json:"events"`
}

// HasEvents reports whether anything was triggered, ongoing or booked this year.
func (r YearlyRecord) HasEvents() bool { return len(r.Events) > 0 }

// InDebt reports whether the record carries outstanding debt.
func (r YearlyRecord) InDebt() bool { return r.TotalDebt.IsPositive() }

// AdverseTriggers counts adverse events newly triggered this year.
func (r YearlyRecord) AdverseTriggers() int {
	n := 0
	for _, e := range r.Events {
		if e.Phase == PhaseTriggered && e.Kind.Adverse() {
			n++
		}
	}
	return n
}

// RunSummary holds headline statistics for one run.
type RunSummary struct {
	FinalSavings          decimal.Decimal `json:"finalSavings"`
	HighestSavings        decimal.Decimal `json:"highestSavings"`
	LowestSavings         decimal.Decimal `json:"lowestSavings"`
	YearsInDebt           int             `json:"yearsInDebt"`
	MaxDebt               decimal.Decimal `json:"maxDebt"`
	TotalEvents           int             `json:"totalEvents"`
	TotalGrowthPercentage decimal.Decimal `json:"totalGrowthPercentage"`
}

// ValueRange is an inclusive stepped range.
type ValueRange struct {
	Min  decimal.Decimal `json:"min" yaml:"min"`
	Max  decimal.Decimal `json:"max" yaml:"max"`
	Step decimal.Decimal `json:"step" yaml:"step"`
}

func (r ValueRange) validate(field string) error {
	if !r.Step.IsPositive() {
		return Invalid(field+"_step", "must be positive")
	}
	if r.Max.LessThan(r.Min) {
		return Invalid(field+"_max", "must not be below %s_min", field)
	}
	return nil
}

// SensitivityParameters describe an income × capital sweep.
type SensitivityParameters struct {
	IncomeRange               ValueRange      `json:"income_range" yaml:"income_range"`
	CapitalRange              ValueRange      `json:"capital_range" yaml:"capital_range"`
	CurrentAge                int             `json:"current_age" yaml:"current_age"`
	FutureAge                 int             `json:"future_age" yaml:"future_age"`
	LuckFactor                LuckFactor      `json:"luck_factor" yaml:"luck_factor"`
	ExpenditureToIncomeRatio  decimal.Decimal `json:"expenditure_to_income_ratio" yaml:"expenditure_to_income_ratio"`
	SimulationsPerCombination int             `json:"num_simulations_per_combination" yaml:"num_simulations_per_combination"`
	SuccessThresholdSavings   decimal.Decimal `json:"success_threshold_savings" yaml:"success_threshold_savings"`
	MinSuccessRatePct         decimal.Decimal `json:"min_success_rate_pct" yaml:"min_success_rate_pct"`
	Seed                      int64           `json:"seed" yaml:"seed"`
}

// Validate checks the sweep definition. Per-cell parameters are validated again
// by the engine.
func (p SensitivityParameters) Validate() error {
	if err := p.IncomeRange.validate("income"); err != nil {
		return err
	}
	if !p.IncomeRange.Min.IsPositive() {
		return Invalid("income_min", "must be positive")
	}
	if err := p.CapitalRange.validate("capital"); err != nil {
		return err
	}
	if p.CapitalRange.Min.IsNegative() {
		return Invalid("capital_min", "cannot be negative")
	}
	if err := validateAges(p.CurrentAge, p.FutureAge); err != nil {
		return err
	}
	if !p.LuckFactor.Valid() {
		return Invalid("luck_factor", "must be one of unlucky, neutral, lucky (got %q)", string(p.LuckFactor))
	}
	if !p.ExpenditureToIncomeRatio.IsPositive() {
		return Invalid("expenditure_to_income_ratio", "must be positive")
	}
	if p.SimulationsPerCombination < 1 {
		return Invalid("num_simulations_per_combination", "must be at least 1")
	}
	if p.MinSuccessRatePct.IsNegative() || p.MinSuccessRatePct.GreaterThan(decimal.NewFromInt(100)) {
		return Invalid("min_success_rate_pct", "must be between 0 and 100")
	}
	return nil
}

// SensitivityCell aggregates every run of one (income, capital) grid point.
type SensitivityCell struct {
	InitialIncome                decimal.Decimal `json:"initial_income"`
	InitialExpenditureCalculated decimal.Decimal `json:"initial_expenditure_calculated"`
	InitialCapital               decimal.Decimal `json:"initial_capital"`
	NumTotalRuns                 int             `json:"num_total_runs"`
	NumSuccessfulRuns            int             `json:"num_successful_runs"`
	NumFailedRuns                int             `json:"num_failed_runs"`
	SuccessRatePct               decimal.Decimal `json:"success_rate_pct"`
	AverageFinalSavings          decimal.Decimal `json:"average_final_savings"`
	MedianFinalSavings           decimal.Decimal `json:"median_final_savings"`
	AverageDebtIncurredYears     decimal.Decimal `json:"average_debt_incurred_years"`
	MeetsTarget                  bool            `json:"meets_target"`
}
