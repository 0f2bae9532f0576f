package calculation

import (
	"github.com/rpgo/lifesim/internal/domain"
	"github.com/shopspring/decimal"
)

// ChildState is the part of a dependent the event model needs.
type ChildState struct {
	Age     int
	Married bool
}

// EventContext is the slice of the financial state visible to the event model.
type EventContext struct {
	Age                 int
	Year                int
	YearsToSimulate     int
	Retired             bool
	JobLossActive       bool // a job-loss effect slot is occupied
	InOutage            bool // currently without a job
	MarketCrashActive   bool
	Married             bool
	Divorced            bool
	Children            []ChildState
	Savings             decimal.Decimal
	BlackSwanOccurred   bool
	InheritanceReceived bool
	BusinessAttempted   bool
}

// TriggeredEvent is a sampled event with its drawn magnitudes.
// The state machine applies it; the model never mutates state.
type TriggeredEvent struct {
	Kind domain.EventKind

	// Delta is the signed change to savings (negative for costs).
	Delta decimal.Decimal
	// SavingsFactor is the retained share of positive savings; zero leaves savings alone.
	SavingsFactor decimal.Decimal
	// SalaryFactor multiplies the salary; zero leaves it alone.
	SalaryFactor decimal.Decimal

	OutageMonths       int
	RecoveryYears      int
	ReemploymentFactor decimal.Decimal
	ResolutionUplift   decimal.Decimal

	EquityShock decimal.Decimal
	StartsCrash bool

	Investment decimal.Decimal
	Success    bool
	Attempted  bool // false when a business venture was wanted but capital was short

	ChildIndex int // -1 for events concerning the person themselves
}

// EventModel samples at most one catalog event per year in fixed priority order.
type EventModel struct {
	Catalog  domain.EventCatalog
	Luck     domain.LuckMultipliers
	Disabled bool
}

// NewEventModel builds the model from the assumptions' catalog and luck multipliers.
func NewEventModel(a domain.Assumptions) *EventModel {
	return &EventModel{Catalog: a.Events, Luck: a.Luck}
}

type eventSampler func(m *EventModel, rng RandomSource, ctx EventContext, luck domain.LuckFactor) *TriggeredEvent

// eventPriority is the order in which kinds are rolled; adverse shocks first so
// they are never masked by a windfall in the same year.
var eventPriority = []struct {
	kind   domain.EventKind
	sample eventSampler
}{
	{domain.EventBlackSwan, (*EventModel).sampleBlackSwan},
	{domain.EventJobLoss, (*EventModel).sampleJobLoss},
	{domain.EventMarketCrash, (*EventModel).sampleMarketCrash},
	{domain.EventMedical, (*EventModel).sampleMedical},
	{domain.EventDivorce, (*EventModel).sampleDivorce},
	{domain.EventFamilyExpense, (*EventModel).sampleFamilyExpense},
	{domain.EventMarriage, (*EventModel).sampleMarriage},
	{domain.EventChildBorn, (*EventModel).sampleChildBirth},
	{domain.EventBusiness, (*EventModel).sampleBusiness},
	{domain.EventInheritance, (*EventModel).sampleInheritance},
	{domain.EventCareer, (*EventModel).sampleCareer},
}

// PriorityOrder lists event kinds in sampling order.
func PriorityOrder() []domain.EventKind {
	kinds := make([]domain.EventKind, len(eventPriority))
	for i, p := range eventPriority {
		kinds[i] = p.kind
	}
	return kinds
}

// Sample returns the first eligible event that fires this year, or nil.
func (m *EventModel) Sample(rng RandomSource, ctx EventContext, luck domain.LuckFactor) *TriggeredEvent {
	if m == nil || m.Disabled {
		return nil
	}
	for _, p := range eventPriority {
		if ev := p.sample(m, rng, ctx, luck); ev != nil {
			return ev
		}
	}
	return nil
}

func (m *EventModel) adverse(p decimal.Decimal, luck domain.LuckFactor) decimal.Decimal {
	return clampProbability(p.Mul(m.Luck.Adverse(luck)))
}

func (m *EventModel) favorable(p decimal.Decimal, luck domain.LuckFactor) decimal.Decimal {
	return clampProbability(p.Mul(m.Luck.Favorable(luck)))
}

func clampProbability(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimalZero
	}
	if p.GreaterThan(decimalOne) {
		return decimalOne
	}
	return p
}

func (m *EventModel) sampleBlackSwan(rng RandomSource, ctx EventContext, luck domain.LuckFactor) *TriggeredEvent {
	cfg := m.Catalog.BlackSwan
	if ctx.BlackSwanOccurred || ctx.Retired || ctx.YearsToSimulate <= 0 {
		return nil
	}
	p := cfg.LifetimeProbability.Div(decimal.NewFromInt(int64(ctx.YearsToSimulate)))
	if !chance(rng, m.adverse(p, luck)) {
		return nil
	}
	ev := &TriggeredEvent{
		Kind:          domain.EventBlackSwan,
		SavingsFactor: cfg.SavingsRetained,
		SalaryFactor:  cfg.IncomeRetained,
		ChildIndex:    -1,
	}
	if cfg.TriggersCrash && !ctx.MarketCrashActive {
		crash := m.Catalog.MarketCrash
		ev.StartsCrash = true
		ev.EquityShock = uniform(rng, crash.EquityShock)
		ev.RecoveryYears = intBetween(rng, crash.RecoveryYears)
	}
	return ev
}

func (m *EventModel) sampleJobLoss(rng RandomSource, ctx EventContext, luck domain.LuckFactor) *TriggeredEvent {
	cfg := m.Catalog.JobLoss
	if ctx.Retired || ctx.JobLossActive {
		return nil
	}
	if !chance(rng, m.adverse(cfg.Probability, luck)) {
		return nil
	}
	return &TriggeredEvent{
		Kind:               domain.EventJobLoss,
		OutageMonths:       intBetween(rng, cfg.OutageMonths),
		ReemploymentFactor: uniform(rng, cfg.ReemploymentFactor),
		RecoveryYears:      intBetween(rng, cfg.RecoveryYears),
		ResolutionUplift:   uniform(rng, cfg.ResolutionUplift),
		ChildIndex:         -1,
	}
}

func (m *EventModel) sampleMarketCrash(rng RandomSource, ctx EventContext, luck domain.LuckFactor) *TriggeredEvent {
	cfg := m.Catalog.MarketCrash
	if ctx.MarketCrashActive {
		return nil
	}
	if !chance(rng, m.adverse(cfg.Probability, luck)) {
		return nil
	}
	return &TriggeredEvent{
		Kind:          domain.EventMarketCrash,
		EquityShock:   uniform(rng, cfg.EquityShock),
		RecoveryYears: intBetween(rng, cfg.RecoveryYears),
		StartsCrash:   true,
		ChildIndex:    -1,
	}
}

func (m *EventModel) sampleMedical(rng RandomSource, ctx EventContext, luck domain.LuckFactor) *TriggeredEvent {
	cfg := m.Catalog.Medical
	p := cfg.BaseProbability.Add(cfg.AgeFactor.Mul(decimal.NewFromInt(int64(ctx.Age))))
	if !chance(rng, m.adverse(p, luck)) {
		return nil
	}
	return &TriggeredEvent{Kind: domain.EventMedical, Delta: uniform(rng, cfg.Cost).Neg(), ChildIndex: -1}
}

func (m *EventModel) sampleDivorce(rng RandomSource, ctx EventContext, luck domain.LuckFactor) *TriggeredEvent {
	cfg := m.Catalog.Divorce
	if !ctx.Married || ctx.Divorced || ctx.Retired {
		return nil
	}
	if !chance(rng, m.adverse(cfg.Probability, luck)) {
		return nil
	}
	return &TriggeredEvent{
		Kind:          domain.EventDivorce,
		SavingsFactor: decimalOne.Sub(cfg.SavingsLoss),
		SalaryFactor:  decimalOne.Sub(cfg.IncomeLoss),
		ChildIndex:    -1,
	}
}

func (m *EventModel) sampleFamilyExpense(rng RandomSource, ctx EventContext, luck domain.LuckFactor) *TriggeredEvent {
	cfg := m.Catalog.FamilyExpense
	if ctx.Retired {
		return nil
	}
	if !chance(rng, m.adverse(cfg.Probability, luck)) {
		return nil
	}
	return &TriggeredEvent{Kind: domain.EventFamilyExpense, Delta: uniform(rng, cfg.Cost).Neg(), ChildIndex: -1}
}

func (m *EventModel) sampleMarriage(rng RandomSource, ctx EventContext, _ domain.LuckFactor) *TriggeredEvent {
	cfg := m.Catalog.Marriage
	self := !ctx.Married && !ctx.Divorced && cfg.SelfAge.Contains(ctx.Age)
	child := -1
	if !self {
		for i, c := range ctx.Children {
			if !c.Married && cfg.ChildAge.Contains(c.Age) {
				child = i
				break
			}
		}
		if child < 0 {
			return nil
		}
	}
	if !chance(rng, clampProbability(cfg.Probability)) {
		return nil
	}
	if self {
		return &TriggeredEvent{Kind: domain.EventMarriage, Delta: uniform(rng, cfg.SelfCost).Neg(), ChildIndex: -1}
	}
	return &TriggeredEvent{Kind: domain.EventMarriage, Delta: cfg.ChildCost.Neg(), ChildIndex: child}
}

func (m *EventModel) sampleChildBirth(rng RandomSource, ctx EventContext, _ domain.LuckFactor) *TriggeredEvent {
	cfg := m.Catalog.ChildBirth
	if !cfg.ParentAge.Contains(ctx.Age) || len(ctx.Children) >= cfg.MaxChildren {
		return nil
	}
	if !chance(rng, clampProbability(cfg.Probability)) {
		return nil
	}
	return &TriggeredEvent{Kind: domain.EventChildBorn, Delta: uniform(rng, cfg.Cost).Neg(), ChildIndex: len(ctx.Children)}
}

func (m *EventModel) sampleBusiness(rng RandomSource, ctx EventContext, luck domain.LuckFactor) *TriggeredEvent {
	cfg := m.Catalog.Business
	if ctx.BusinessAttempted || ctx.Retired || !cfg.Age.Contains(ctx.Age) {
		return nil
	}
	if !chance(rng, m.favorable(cfg.Probability, luck)) {
		return nil
	}
	investment := uniform(rng, cfg.Investment)
	ev := &TriggeredEvent{Kind: domain.EventBusiness, Investment: investment, ChildIndex: -1}
	if ctx.Savings.LessThan(investment) {
		return ev
	}
	ev.Attempted = true
	if chance(rng, m.favorable(cfg.SuccessProbability, luck)) {
		ev.Success = true
		ev.Delta = investment.Mul(uniform(rng, cfg.SuccessMultiple)).Sub(investment)
		return ev
	}
	ev.Delta = investment.Mul(cfg.FailureLoss).Neg()
	return ev
}

func (m *EventModel) sampleInheritance(rng RandomSource, ctx EventContext, luck domain.LuckFactor) *TriggeredEvent {
	cfg := m.Catalog.Inheritance
	if ctx.InheritanceReceived || !cfg.Age.Contains(ctx.Age) {
		return nil
	}
	if !chance(rng, m.favorable(cfg.Probability, luck)) {
		return nil
	}
	return &TriggeredEvent{Kind: domain.EventInheritance, Delta: uniform(rng, cfg.Amount), ChildIndex: -1}
}

func (m *EventModel) sampleCareer(rng RandomSource, ctx EventContext, luck domain.LuckFactor) *TriggeredEvent {
	cfg := m.Catalog.Career
	if ctx.Retired || ctx.InOutage {
		return nil
	}
	p := cfg.Probability
	if ctx.Age > cfg.DeclineAfterAge {
		factor := decimalOne.Sub(cfg.DeclinePerYear.Mul(decimal.NewFromInt(int64(ctx.Age - cfg.DeclineAfterAge))))
		p = p.Mul(decimal.Max(cfg.MinFactor, factor))
	}
	if !chance(rng, m.favorable(p, luck)) {
		return nil
	}
	return &TriggeredEvent{Kind: domain.EventCareer, SalaryFactor: uniform(rng, cfg.Boost), ChildIndex: -1}
}
