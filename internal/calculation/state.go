package calculation

import (
	"strconv"

	"github.com/rpgo/lifesim/internal/domain"
	"github.com/shopspring/decimal"
)

// jobLossEffect is the job-loss slot: an outage followed by a salary taper.
type jobLossEffect struct {
	monthsOut          int
	reemploymentSalary decimal.Decimal
	yearsRemaining     int
	resolutionIncome   decimal.Decimal
}

// marketCrashEffect is the market-crash slot: dragging equity returns until resolved.
type marketCrashEffect struct {
	yearsRemaining       int
	resolutionReturnRate decimal.Decimal
}

// activeEffects holds at most one effect of each multi-year kind.
type activeEffects struct {
	jobLoss     *jobLossEffect
	marketCrash *marketCrashEffect
}

type child struct {
	bornYear int
	married  bool
	educated bool
}

type household struct {
	married             bool
	divorced            bool
	children            []child
	blackSwanOccurred   bool
	inheritanceReceived bool
	businessAttempted   bool
	retirementNoted     bool
}

// StateMachine advances one simulated life a year at a time.
// It is not safe for concurrent use; every run owns its own instance.
type StateMachine struct {
	assumptions     domain.Assumptions
	model           *EventModel
	luck            domain.LuckFactor
	yearsToSimulate int

	year        int
	age         int
	salary      decimal.Decimal
	expenditure decimal.Decimal
	capital     decimal.Decimal
	debt        decimal.Decimal
	effects     activeEffects
	house       household
}

// NewStateMachine positions a life at year 0 with the given parameters.
func NewStateMachine(params domain.SimulationParameters, assumptions domain.Assumptions, model *EventModel) *StateMachine {
	return &StateMachine{
		assumptions:     assumptions,
		model:           model,
		luck:            params.LuckFactor,
		yearsToSimulate: params.YearsToSimulate(),
		age:             params.CurrentAge,
		salary:          params.InitialIncome,
		expenditure:     params.InitialExpenditure,
		capital:         params.InitialCapital,
		debt:            decimal.Zero,
	}
}

// Initial returns the year-0 record describing the starting position.
func (s *StateMachine) Initial() domain.YearlyRecord {
	postTax := s.salary.Mul(decimalOne.Sub(s.assumptions.TaxRate))
	return s.record(s.salary, postTax, postTax.Sub(s.expenditure), nil)
}

// Step simulates the next year and returns its record.
func (s *StateMachine) Step(rng RandomSource) (domain.YearlyRecord, error) {
	a := s.assumptions
	s.year++
	s.age++

	var events []domain.EventDescriptor
	retired := s.age > a.RetirementAge
	if retired {
		s.effects.jobLoss = nil
	}
	jobLossWasActive := s.effects.jobLoss != nil

	// Active effects resolve before anything else happens this year.
	earned, overridden := s.resolveJobLoss(&events)
	equityRate := s.resolveMarketCrash(&events)

	income := s.salary
	switch {
	case retired:
		s.salary = decimal.Zero
		income = decimal.Zero
		if !s.house.retirementNoted {
			s.house.retirementNoted = true
			events = append(events, domain.EventDescriptor{Kind: domain.EventRetirement, Phase: domain.PhaseScheduled})
		}
	case overridden:
		income = earned
	case !jobLossWasActive:
		s.salary = s.grownSalary(s.salary)
		income = s.salary
	}

	s.expenditure = s.nextExpenditure()

	cashDelta := s.scheduledMilestones(&events)

	if ev := s.model.Sample(rng, s.eventContext(retired, cashDelta), s.luck); ev != nil {
		cashDelta = s.applyEvent(ev, &income, &equityRate, cashDelta, &events)
	}

	postTax := income.Mul(decimalOne.Sub(a.TaxRate))
	savingsThisYear := postTax.Sub(s.expenditure)

	investable := s.capital.Add(cashDelta)
	if savingsThisYear.IsPositive() {
		investable = investable.Add(savingsThisYear)
	}
	investmentReturn := decimal.Zero
	if investable.IsPositive() {
		blended := a.EquityAllocation.Mul(equityRate).Add(a.FixedDepositAllocation().Mul(a.FixedDepositReturnRate))
		investmentReturn = investable.Mul(blended)
	}

	s.settle(s.capital.Add(cashDelta).Add(savingsThisYear).Add(investmentReturn), &events)

	if err := s.checkInvariants(); err != nil {
		return domain.YearlyRecord{}, err
	}
	return s.record(income, postTax, savingsThisYear, events), nil
}

// resolveJobLoss advances the job-loss slot. It reports the income earned this
// year when the slot dictates it.
func (s *StateMachine) resolveJobLoss(events *[]domain.EventDescriptor) (decimal.Decimal, bool) {
	jl := s.effects.jobLoss
	if jl == nil {
		return decimal.Zero, false
	}
	if jl.monthsOut > 0 {
		out := min(jl.monthsOut, 12)
		jl.monthsOut -= out
		earned := jl.reemploymentSalary.Mul(decimal.NewFromInt(int64(12 - out))).Div(decimalTwelve)
		desc := domain.EventDescriptor{Kind: domain.EventJobLoss, Phase: domain.PhaseOngoing, Months: out}
		if jl.monthsOut == 0 {
			s.salary = jl.reemploymentSalary
			desc.Amount = jl.reemploymentSalary
			desc.Years = jl.yearsRemaining
		}
		*events = append(*events, desc)
		return earned, true
	}

	jl.yearsRemaining--
	if jl.yearsRemaining <= 0 {
		s.salary = jl.resolutionIncome
		s.effects.jobLoss = nil
		*events = append(*events, domain.EventDescriptor{Kind: domain.EventJobLoss, Phase: domain.PhaseResolved, Amount: s.salary})
		return s.salary, true
	}
	step := jl.resolutionIncome.Sub(s.salary).Div(decimal.NewFromInt(int64(jl.yearsRemaining + 1)))
	s.salary = s.salary.Add(step)
	*events = append(*events, domain.EventDescriptor{
		Kind:   domain.EventJobLoss,
		Phase:  domain.PhaseOngoing,
		Amount: s.salary,
		Years:  jl.yearsRemaining,
	})
	return s.salary, true
}

// resolveMarketCrash advances the crash slot and returns this year's equity rate.
func (s *StateMachine) resolveMarketCrash(events *[]domain.EventDescriptor) decimal.Decimal {
	mc := s.effects.marketCrash
	if mc == nil {
		return s.assumptions.EquityReturnRate
	}
	rate := mc.resolutionReturnRate.Mul(s.assumptions.Events.MarketCrash.RecoveryDrag)
	mc.yearsRemaining--
	if mc.yearsRemaining <= 0 {
		s.effects.marketCrash = nil
		*events = append(*events, domain.EventDescriptor{Kind: domain.EventMarketCrash, Phase: domain.PhaseResolved, Rate: mc.resolutionReturnRate})
		return rate
	}
	*events = append(*events, domain.EventDescriptor{
		Kind:  domain.EventMarketCrash,
		Phase: domain.PhaseOngoing,
		Rate:  rate,
		Years: mc.yearsRemaining,
	})
	return rate
}

// grownSalary applies the age-banded nominal growth rate up to the income cap.
func (s *StateMachine) grownSalary(salary decimal.Decimal) decimal.Decimal {
	a := s.assumptions
	if salary.GreaterThanOrEqual(a.IncomeCap) {
		return salary
	}
	rate := a.LateCareerGrowthRate
	if salary.GreaterThanOrEqual(a.HighIncomeThreshold) {
		rate = a.HighIncomeGrowthRate
	} else {
		for _, band := range a.IncomeGrowthBands {
			if s.age < band.BelowAge {
				rate = band.Rate
				break
			}
		}
	}
	return decimal.Min(salary.Mul(decimalOne.Add(rate)), a.IncomeCap)
}

func (s *StateMachine) nextExpenditure() decimal.Decimal {
	a := s.assumptions
	minors := 0
	for _, c := range s.house.children {
		if s.year-c.bornYear < 18 {
			minors++
		}
	}
	growth := a.InflationRate.Add(a.LifestyleGrowthRate).Add(a.ChildExpenseRate.Mul(decimal.NewFromInt(int64(minors))))
	next := s.expenditure.Mul(decimalOne.Add(growth))
	limit := a.ExpenditureCapWithoutIncome
	if s.salary.IsPositive() {
		limit = s.salary.Mul(a.ExpenditureIncomeCap)
	}
	return decimal.Min(next, limit)
}

// scheduledMilestones books the deterministic dependent costs due this year.
func (s *StateMachine) scheduledMilestones(events *[]domain.EventDescriptor) decimal.Decimal {
	edu := s.assumptions.Events.Education
	delta := decimal.Zero
	for i := range s.house.children {
		c := &s.house.children[i]
		if c.educated || s.year-c.bornYear != edu.ChildAge {
			continue
		}
		c.educated = true
		delta = delta.Sub(edu.Cost)
		*events = append(*events, domain.EventDescriptor{
			Kind:    domain.EventEducation,
			Phase:   domain.PhaseScheduled,
			Amount:  edu.Cost.Neg(),
			Subject: childSubject(i),
		})
	}
	return delta
}

func (s *StateMachine) eventContext(retired bool, cashDelta decimal.Decimal) EventContext {
	children := make([]ChildState, len(s.house.children))
	for i, c := range s.house.children {
		children[i] = ChildState{Age: s.year - c.bornYear, Married: c.married}
	}
	jl := s.effects.jobLoss
	return EventContext{
		Age:                 s.age,
		Year:                s.year,
		YearsToSimulate:     s.yearsToSimulate,
		Retired:             retired,
		JobLossActive:       jl != nil,
		InOutage:            jl != nil && jl.monthsOut > 0,
		MarketCrashActive:   s.effects.marketCrash != nil,
		Married:             s.house.married,
		Divorced:            s.house.divorced,
		Children:            children,
		Savings:             s.capital.Add(cashDelta),
		BlackSwanOccurred:   s.house.blackSwanOccurred,
		InheritanceReceived: s.house.inheritanceReceived,
		BusinessAttempted:   s.house.businessAttempted,
	}
}

// applyEvent applies a sampled event and returns the updated cash delta.
func (s *StateMachine) applyEvent(ev *TriggeredEvent, income, equityRate *decimal.Decimal, cashDelta decimal.Decimal, events *[]domain.EventDescriptor) decimal.Decimal {
	desc := domain.EventDescriptor{Kind: ev.Kind, Phase: domain.PhaseTriggered}
	switch ev.Kind {
	case domain.EventBlackSwan, domain.EventDivorce:
		loss := s.savingsLoss(cashDelta, ev.SavingsFactor)
		cashDelta = cashDelta.Sub(loss)
		s.scaleSalary(ev.SalaryFactor, income)
		desc.Amount = loss.Neg()
		if ev.Kind == domain.EventBlackSwan {
			s.house.blackSwanOccurred = true
		} else {
			s.house.divorced = true
			s.house.married = false
		}
		*events = append(*events, desc)
		if ev.StartsCrash && s.effects.marketCrash == nil {
			s.installCrash(ev, equityRate, events)
		}
		return cashDelta

	case domain.EventJobLoss:
		if s.effects.jobLoss != nil {
			return cashDelta
		}
		out := min(ev.OutageMonths, 12)
		lost := s.salary.Mul(decimal.NewFromInt(int64(out))).Div(decimalTwelve)
		*income = decimal.Max(decimal.Zero, income.Sub(lost))
		jl := &jobLossEffect{
			monthsOut:          ev.OutageMonths - out,
			reemploymentSalary: s.salary.Mul(ev.ReemploymentFactor),
			yearsRemaining:     ev.RecoveryYears,
			resolutionIncome:   decimal.Min(s.salary.Mul(ev.ResolutionUplift), s.assumptions.IncomeCap),
		}
		if jl.monthsOut == 0 {
			s.salary = jl.reemploymentSalary
		}
		s.effects.jobLoss = jl
		desc.Months = ev.OutageMonths
		desc.Years = ev.RecoveryYears
		desc.Amount = lost.Neg()

	case domain.EventMarketCrash:
		if s.effects.marketCrash != nil {
			return cashDelta
		}
		s.installCrash(ev, equityRate, events)
		return cashDelta

	case domain.EventMedical, domain.EventFamilyExpense, domain.EventInheritance:
		cashDelta = cashDelta.Add(ev.Delta)
		desc.Amount = ev.Delta
		if ev.Kind == domain.EventInheritance {
			s.house.inheritanceReceived = true
		}

	case domain.EventMarriage:
		cashDelta = cashDelta.Add(ev.Delta)
		desc.Amount = ev.Delta
		if ev.ChildIndex >= 0 && ev.ChildIndex < len(s.house.children) {
			s.house.children[ev.ChildIndex].married = true
			desc.Subject = childSubject(ev.ChildIndex)
		} else {
			s.house.married = true
			desc.Subject = "self"
		}

	case domain.EventChildBorn:
		cashDelta = cashDelta.Add(ev.Delta)
		s.house.children = append(s.house.children, child{bornYear: s.year})
		desc.Amount = ev.Delta
		desc.Subject = childSubject(len(s.house.children) - 1)

	case domain.EventBusiness:
		desc.Amount = ev.Investment
		if ev.Attempted {
			s.house.businessAttempted = true
			cashDelta = cashDelta.Add(ev.Delta)
			desc.Amount = ev.Delta
			desc.Basis = ev.Investment
			desc.Success = ev.Success
		} else {
			desc.Subject = "insufficient_capital"
		}

	case domain.EventCareer:
		s.salary = decimal.Min(s.salary.Mul(ev.SalaryFactor), s.assumptions.IncomeCap)
		if jl := s.effects.jobLoss; jl != nil {
			jl.resolutionIncome = decimal.Min(jl.resolutionIncome.Mul(ev.SalaryFactor), s.assumptions.IncomeCap)
		}
		desc.Amount = s.salary
	}
	*events = append(*events, desc)
	return cashDelta
}

func (s *StateMachine) installCrash(ev *TriggeredEvent, equityRate *decimal.Decimal, events *[]domain.EventDescriptor) {
	s.effects.marketCrash = &marketCrashEffect{
		yearsRemaining:       ev.RecoveryYears,
		resolutionReturnRate: s.assumptions.EquityReturnRate,
	}
	*equityRate = ev.EquityShock
	*events = append(*events, domain.EventDescriptor{
		Kind:  domain.EventMarketCrash,
		Phase: domain.PhaseTriggered,
		Rate:  ev.EquityShock,
		Years: ev.RecoveryYears,
	})
}

// savingsLoss is the share of positive savings lost when only factor is retained.
func (s *StateMachine) savingsLoss(cashDelta, factor decimal.Decimal) decimal.Decimal {
	savings := s.capital.Add(cashDelta)
	if !savings.IsPositive() || !factor.IsPositive() {
		return decimal.Zero
	}
	return savings.Mul(decimalOne.Sub(factor))
}

// scaleSalary applies a permanent salary factor, including to a pending job-loss slot.
func (s *StateMachine) scaleSalary(factor decimal.Decimal, income *decimal.Decimal) {
	if !factor.IsPositive() {
		return
	}
	s.salary = s.salary.Mul(factor)
	*income = income.Mul(factor)
	if jl := s.effects.jobLoss; jl != nil {
		jl.reemploymentSalary = jl.reemploymentSalary.Mul(factor)
		jl.resolutionIncome = jl.resolutionIncome.Mul(factor)
	}
}

// settle converts the year's closing cash into savings and debt. Positive cash
// repays debt first; a shortfall becomes debt and savings floor at zero.
func (s *StateMachine) settle(cash decimal.Decimal, events *[]domain.EventDescriptor) {
	switch {
	case cash.IsNegative():
		incurred := cash.Neg()
		s.debt = s.debt.Add(incurred)
		s.capital = decimal.Zero
		*events = append(*events, domain.EventDescriptor{Kind: domain.EventDebtIncurred, Phase: domain.PhaseLedger, Amount: incurred, Basis: s.debt})
	case s.debt.IsPositive() && cash.IsPositive():
		repaid := decimal.Min(s.debt, cash)
		s.debt = s.debt.Sub(repaid)
		s.capital = cash.Sub(repaid)
		*events = append(*events, domain.EventDescriptor{Kind: domain.EventDebtRepaid, Phase: domain.PhaseLedger, Amount: repaid, Basis: s.debt})
	default:
		s.capital = cash
	}
}

func (s *StateMachine) checkInvariants() error {
	if s.debt.IsNegative() {
		return &domain.SimulationFault{Year: s.year, Age: s.age, Reason: "total debt is negative"}
	}
	if s.debt.IsPositive() && s.capital.IsPositive() {
		return &domain.SimulationFault{Year: s.year, Age: s.age, Reason: "savings and debt are both positive"}
	}
	if s.capital.IsNegative() {
		return &domain.SimulationFault{Year: s.year, Age: s.age, Reason: "savings left negative after debt conversion"}
	}
	return nil
}

func (s *StateMachine) record(income, postTax, savingsThisYear decimal.Decimal, events []domain.EventDescriptor) domain.YearlyRecord {
	return domain.YearlyRecord{
		Year:            s.year,
		Age:             s.age,
		Income:          income.Round(2),
		PostTaxIncome:   postTax.Round(2),
		Expenditure:     s.expenditure.Round(2),
		SavingsThisYear: savingsThisYear.Round(2),
		TotalSavings:    s.capital.Round(2),
		TotalDebt:       s.debt.Round(2),
		Events:          events,
	}
}

func childSubject(i int) string {
	return "child " + strconv.Itoa(i+1)
}
