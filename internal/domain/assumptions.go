package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Range is an inclusive continuous interval for uniform draws.
type Range struct {
	Min decimal.Decimal `yaml:"min" json:"min"`
	Max decimal.Decimal `yaml:"max" json:"max"`
}

// IntRange is an inclusive integer interval for uniform draws.
type IntRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// AgeWindow is an inclusive age band.
type AgeWindow struct {
	From int `yaml:"from" json:"from"`
	To   int `yaml:"to" json:"to"`
}

// Contains reports whether age falls inside the window.
func (w AgeWindow) Contains(age int) bool { return age >= w.From && age <= w.To }

func newRange(min, max float64) Range {
	return Range{Min: decimal.NewFromFloat(min), Max: decimal.NewFromFloat(max)}
}

// LuckMultipliers scale adverse-event probabilities. Favorable events use the reciprocal.
type LuckMultipliers struct {
	Unlucky decimal.Decimal `yaml:"unlucky" json:"unlucky"` // Default: 1.5
	Neutral decimal.Decimal `yaml:"neutral" json:"neutral"` // Default: 1.0
	Lucky   decimal.Decimal `yaml:"lucky" json:"lucky"`     // Default: 0.6
}

// Adverse returns the multiplier applied to adverse-event probabilities.
func (m LuckMultipliers) Adverse(l LuckFactor) decimal.Decimal {
	switch l {
	case Unlucky:
		return m.Unlucky
	case Lucky:
		return m.Lucky
	}
	return m.Neutral
}

// Favorable returns the multiplier applied to favorable-event probabilities.
func (m LuckMultipliers) Favorable(l LuckFactor) decimal.Decimal {
	adverse := m.Adverse(l)
	if !adverse.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(1).Div(adverse)
}

// IncomeGrowthBand applies Rate while the simulated age is below BelowAge.
type IncomeGrowthBand struct {
	BelowAge int             `yaml:"below_age" json:"below_age"`
	Rate     decimal.Decimal `yaml:"rate" json:"rate"`
}

// BlackSwanEvent is a once-in-a-lifetime compound shock.
type BlackSwanEvent struct {
	LifetimeProbability decimal.Decimal `yaml:"lifetime_probability" json:"lifetime_probability"` // Default: 0.015, spread over the projection
	SavingsRetained     decimal.Decimal `yaml:"savings_retained" json:"savings_retained"`         // Default: 0.4
	IncomeRetained      decimal.Decimal `yaml:"income_retained" json:"income_retained"`           // Default: 0.6
	TriggersCrash       bool            `yaml:"triggers_crash" json:"triggers_crash"`
}

// JobLossEvent stops income for an outage and tapers back afterwards.
type JobLossEvent struct {
	Probability        decimal.Decimal `yaml:"probability" json:"probability"`                 // Default: 0.08
	OutageMonths       IntRange        `yaml:"outage_months" json:"outage_months"`             // Default: 3-18
	ReemploymentFactor Range           `yaml:"reemployment_factor" json:"reemployment_factor"` // New salary as share of pre-loss salary
	RecoveryYears      IntRange        `yaml:"recovery_years" json:"recovery_years"`           // Default: 1-3
	ResolutionUplift   Range           `yaml:"resolution_uplift" json:"resolution_uplift"`     // Salary on resolution as share of pre-loss salary
}

// MarketCrashEvent is a one-time equity shock followed by dragging returns.
type MarketCrashEvent struct {
	Probability   decimal.Decimal `yaml:"probability" json:"probability"`       // Default: 0.10
	EquityShock   Range           `yaml:"equity_shock" json:"equity_shock"`     // Default: -30% to -15%
	RecoveryYears IntRange        `yaml:"recovery_years" json:"recovery_years"` // Default: 2-3
	RecoveryDrag  decimal.Decimal `yaml:"recovery_drag" json:"recovery_drag"`   // Share of the base equity return earned while recovering
}

// MedicalEvent becomes more likely with age.
type MedicalEvent struct {
	BaseProbability decimal.Decimal `yaml:"base_probability" json:"base_probability"`
	AgeFactor       decimal.Decimal `yaml:"age_factor" json:"age_factor"`
	Cost            Range           `yaml:"cost" json:"cost"`
}

// CostEvent is a plain one-off expense.
type CostEvent struct {
	Probability decimal.Decimal `yaml:"probability" json:"probability"`
	Cost        Range           `yaml:"cost" json:"cost"`
}

// DivorceEvent splits savings and permanently lowers salary.
type DivorceEvent struct {
	Probability decimal.Decimal `yaml:"probability" json:"probability"`
	SavingsLoss decimal.Decimal `yaml:"savings_loss" json:"savings_loss"`
	IncomeLoss  decimal.Decimal `yaml:"income_loss" json:"income_loss"`
}

// MarriageEvent covers the person's own wedding and their children's.
type MarriageEvent struct {
	Probability decimal.Decimal `yaml:"probability" json:"probability"`
	SelfAge     AgeWindow       `yaml:"self_age" json:"self_age"`
	SelfCost    Range           `yaml:"self_cost" json:"self_cost"`
	ChildAge    AgeWindow       `yaml:"child_age" json:"child_age"`
	ChildCost   decimal.Decimal `yaml:"child_cost" json:"child_cost"`
}

// ChildBirthEvent is only eligible inside the parental age band.
type ChildBirthEvent struct {
	Probability decimal.Decimal `yaml:"probability" json:"probability"`
	ParentAge   AgeWindow       `yaml:"parent_age" json:"parent_age"`
	MaxChildren int             `yaml:"max_children" json:"max_children"`
	Cost        Range           `yaml:"cost" json:"cost"`
}

// BusinessEvent is a one-time venture that either multiplies or mostly loses the stake.
type BusinessEvent struct {
	Probability        decimal.Decimal `yaml:"probability" json:"probability"`
	Age                AgeWindow       `yaml:"age" json:"age"`
	Investment         Range           `yaml:"investment" json:"investment"`
	SuccessProbability decimal.Decimal `yaml:"success_probability" json:"success_probability"`
	SuccessMultiple    Range           `yaml:"success_multiple" json:"success_multiple"`
	FailureLoss        decimal.Decimal `yaml:"failure_loss" json:"failure_loss"`
}

// InheritanceEvent injects capital once inside an age window.
type InheritanceEvent struct {
	Probability decimal.Decimal `yaml:"probability" json:"probability"`
	Age         AgeWindow       `yaml:"age" json:"age"`
	Amount      Range           `yaml:"amount" json:"amount"`
}

// CareerEvent is a permanent salary step-up that becomes rarer late in a career.
type CareerEvent struct {
	Probability     decimal.Decimal `yaml:"probability" json:"probability"`
	DeclineAfterAge int             `yaml:"decline_after_age" json:"decline_after_age"`
	DeclinePerYear  decimal.Decimal `yaml:"decline_per_year" json:"decline_per_year"`
	MinFactor       decimal.Decimal `yaml:"min_factor" json:"min_factor"`
	Boost           Range           `yaml:"boost" json:"boost"`
}

// EducationMilestone is the scheduled cost of a child reaching college age.
type EducationMilestone struct {
	ChildAge int             `yaml:"child_age" json:"child_age"`
	Cost     decimal.Decimal `yaml:"cost" json:"cost"`
}

// EventCatalog parameterizes every random life event.
type EventCatalog struct {
	BlackSwan     BlackSwanEvent     `yaml:"black_swan" json:"black_swan"`
	JobLoss       JobLossEvent       `yaml:"job_loss" json:"job_loss"`
	MarketCrash   MarketCrashEvent   `yaml:"market_crash" json:"market_crash"`
	Medical       MedicalEvent       `yaml:"medical_emergency" json:"medical_emergency"`
	Divorce       DivorceEvent       `yaml:"divorce" json:"divorce"`
	FamilyExpense CostEvent          `yaml:"family_expense" json:"family_expense"`
	Marriage      MarriageEvent      `yaml:"marriage" json:"marriage"`
	ChildBirth    ChildBirthEvent    `yaml:"child_birth" json:"child_birth"`
	Business      BusinessEvent      `yaml:"business_venture" json:"business_venture"`
	Inheritance   InheritanceEvent   `yaml:"inheritance" json:"inheritance"`
	Career        CareerEvent        `yaml:"career_advancement" json:"career_advancement"`
	Education     EducationMilestone `yaml:"child_education" json:"child_education"`
}

// Assumptions are the economic constants and event catalog of the projection.
type Assumptions struct {
	TaxRate                     decimal.Decimal    `yaml:"tax_rate" json:"tax_rate"`                                   // Default: 0.30 flat
	EquityReturnRate            decimal.Decimal    `yaml:"equity_return_rate" json:"equity_return_rate"`               // Default: 0.10
	FixedDepositReturnRate      decimal.Decimal    `yaml:"fixed_deposit_return_rate" json:"fixed_deposit_return_rate"` // Default: 0.06
	EquityAllocation            decimal.Decimal    `yaml:"equity_allocation" json:"equity_allocation"`                 // Default: 0.60, remainder in fixed deposits
	InflationRate               decimal.Decimal    `yaml:"inflation_rate" json:"inflation_rate"`                       // Default: 0.06
	LifestyleGrowthRate         decimal.Decimal    `yaml:"lifestyle_growth_rate" json:"lifestyle_growth_rate"`         // Default: 0.07
	ChildExpenseRate            decimal.Decimal    `yaml:"child_expense_rate" json:"child_expense_rate"`               // Default: 0.03 per minor child
	ExpenditureIncomeCap        decimal.Decimal    `yaml:"expenditure_income_cap" json:"expenditure_income_cap"`       // Default: 0.8 of salary
	ExpenditureCapWithoutIncome decimal.Decimal    `yaml:"expenditure_cap_without_income" json:"expenditure_cap_without_income"`
	RetirementAge               int                `yaml:"retirement_age" json:"retirement_age"` // Income stops after this age
	IncomeCap                   decimal.Decimal    `yaml:"income_cap" json:"income_cap"`
	IncomeGrowthBands           []IncomeGrowthBand `yaml:"income_growth_bands" json:"income_growth_bands"`
	LateCareerGrowthRate        decimal.Decimal    `yaml:"late_career_growth_rate" json:"late_career_growth_rate"`
	HighIncomeThreshold         decimal.Decimal    `yaml:"high_income_threshold" json:"high_income_threshold"`
	HighIncomeGrowthRate        decimal.Decimal    `yaml:"high_income_growth_rate" json:"high_income_growth_rate"`
	Luck                        LuckMultipliers    `yaml:"luck" json:"luck"`
	Events                      EventCatalog       `yaml:"events" json:"events"`
}

// FixedDepositAllocation is the share of capital not held in equity.
func (a Assumptions) FixedDepositAllocation() decimal.Decimal {
	return decimal.NewFromInt(1).Sub(a.EquityAllocation)
}

// DefaultAssumptions returns the baseline model.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		TaxRate:                     decimal.NewFromFloat(0.30),
		EquityReturnRate:            decimal.NewFromFloat(0.10),
		FixedDepositReturnRate:      decimal.NewFromFloat(0.06),
		EquityAllocation:            decimal.NewFromFloat(0.60),
		InflationRate:               decimal.NewFromFloat(0.06),
		LifestyleGrowthRate:         decimal.NewFromFloat(0.07),
		ChildExpenseRate:            decimal.NewFromFloat(0.03),
		ExpenditureIncomeCap:        decimal.NewFromFloat(0.8),
		ExpenditureCapWithoutIncome: decimal.NewFromInt(100),
		RetirementAge:               60,
		IncomeCap:                   decimal.NewFromInt(150),
		IncomeGrowthBands: []IncomeGrowthBand{
			{BelowAge: 35, Rate: decimal.NewFromFloat(0.10)},
			{BelowAge: 50, Rate: decimal.NewFromFloat(0.06)},
		},
		LateCareerGrowthRate: decimal.NewFromFloat(0.02),
		HighIncomeThreshold:  decimal.NewFromInt(100),
		HighIncomeGrowthRate: decimal.NewFromFloat(0.01),
		Luck: LuckMultipliers{
			Unlucky: decimal.NewFromFloat(1.5),
			Neutral: decimal.NewFromInt(1),
			Lucky:   decimal.NewFromFloat(0.6),
		},
		Events: EventCatalog{
			BlackSwan: BlackSwanEvent{
				LifetimeProbability: decimal.NewFromFloat(0.015),
				SavingsRetained:     decimal.NewFromFloat(0.4),
				IncomeRetained:      decimal.NewFromFloat(0.6),
				TriggersCrash:       true,
			},
			JobLoss: JobLossEvent{
				Probability:        decimal.NewFromFloat(0.08),
				OutageMonths:       IntRange{Min: 3, Max: 18},
				ReemploymentFactor: newRange(0.6, 0.85),
				RecoveryYears:      IntRange{Min: 1, Max: 3},
				ResolutionUplift:   newRange(1.0, 1.10),
			},
			MarketCrash: MarketCrashEvent{
				Probability:   decimal.NewFromFloat(0.10),
				EquityShock:   newRange(-0.30, -0.15),
				RecoveryYears: IntRange{Min: 2, Max: 3},
				RecoveryDrag:  decimal.NewFromFloat(0.5),
			},
			Medical: MedicalEvent{
				BaseProbability: decimal.NewFromFloat(0.03),
				AgeFactor:       decimal.NewFromFloat(0.0015),
				Cost:            newRange(5, 30),
			},
			Divorce: DivorceEvent{
				Probability: decimal.NewFromFloat(0.02),
				SavingsLoss: decimal.NewFromFloat(0.5),
				IncomeLoss:  decimal.NewFromFloat(0.2),
			},
			FamilyExpense: CostEvent{
				Probability: decimal.NewFromFloat(0.05),
				Cost:        newRange(3, 15),
			},
			Marriage: MarriageEvent{
				Probability: decimal.NewFromFloat(0.15),
				SelfAge:     AgeWindow{From: 24, To: 35},
				SelfCost:    newRange(5, 20),
				ChildAge:    AgeWindow{From: 25, To: 30},
				ChildCost:   decimal.NewFromInt(30),
			},
			ChildBirth: ChildBirthEvent{
				Probability: decimal.NewFromFloat(0.12),
				ParentAge:   AgeWindow{From: 24, To: 40},
				MaxChildren: 2,
				Cost:        newRange(1, 5),
			},
			Business: BusinessEvent{
				Probability:        decimal.NewFromFloat(0.03),
				Age:                AgeWindow{From: 35, To: 45},
				Investment:         newRange(25, 75),
				SuccessProbability: decimal.NewFromFloat(0.3),
				SuccessMultiple:    newRange(2.0, 5.0),
				FailureLoss:        decimal.NewFromFloat(0.8),
			},
			Inheritance: InheritanceEvent{
				Probability: decimal.NewFromFloat(0.05),
				Age:         AgeWindow{From: 45, To: 55},
				Amount:      newRange(20, 100),
			},
			Career: CareerEvent{
				Probability:     decimal.NewFromFloat(0.20),
				DeclineAfterAge: 35,
				DeclinePerYear:  decimal.NewFromFloat(0.02),
				MinFactor:       decimal.NewFromFloat(0.1),
				Boost:           newRange(1.15, 1.30),
			},
			Education: EducationMilestone{
				ChildAge: 18,
				Cost:     decimal.NewFromInt(30),
			},
		},
	}
}

// Describe renders the headline assumptions for reports.
func (a Assumptions) Describe() []string {
	hundred := decimal.NewFromInt(100)
	return []string{
		fmt.Sprintf("Flat tax rate: %.1f%%", a.TaxRate.Mul(hundred).InexactFloat64()),
		fmt.Sprintf("Portfolio: %.0f%% equity at %.1f%%, %.0f%% fixed deposits at %.1f%%",
			a.EquityAllocation.Mul(hundred).InexactFloat64(), a.EquityReturnRate.Mul(hundred).InexactFloat64(),
			a.FixedDepositAllocation().Mul(hundred).InexactFloat64(), a.FixedDepositReturnRate.Mul(hundred).InexactFloat64()),
		fmt.Sprintf("Expenditure growth: %.1f%% inflation + %.1f%% lifestyle",
			a.InflationRate.Mul(hundred).InexactFloat64(), a.LifestyleGrowthRate.Mul(hundred).InexactFloat64()),
		fmt.Sprintf("Income stops after age %d, capped at %sL", a.RetirementAge, a.IncomeCap.StringFixed(0)),
	}
}
