package calculation

import (
	"testing"

	"github.com/rpgo/lifesim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMachine(t *testing.T, params domain.SimulationParameters, model *EventModel, years int) []domain.YearlyRecord {
	t.Helper()
	sm := NewStateMachine(params, domain.DefaultAssumptions(), model)
	records := []domain.YearlyRecord{sm.Initial()}
	for i := 0; i < years; i++ {
		rec, err := sm.Step(fixedRandom{0})
		require.NoError(t, err)
		records = append(records, rec)
	}
	return records
}

func TestStateMachine_JobLossLifecycle(t *testing.T) {
	m := quietModel()
	m.Catalog.JobLoss = domain.JobLossEvent{
		Probability:        d(1),
		OutageMonths:       domain.IntRange{Min: 6, Max: 6},
		ReemploymentFactor: domain.Range{Min: d(0.8), Max: d(0.8)},
		RecoveryYears:      domain.IntRange{Min: 2, Max: 2},
		ResolutionUplift:   domain.Range{Min: d(1), Max: d(1)},
	}
	records := runMachine(t, baseParams(), m, 3)

	// Salary grows to 22 before the loss; six months out halves the year's income.
	first := records[1]
	assert.True(t, hasEvent(first, domain.EventJobLoss, domain.PhaseTriggered))
	assert.True(t, d(11).Equal(first.Income), "got %s", first.Income)

	// Recovery tapers from 17.6 toward 22 without a second trigger.
	second := records[2]
	assert.False(t, hasEvent(second, domain.EventJobLoss, domain.PhaseTriggered))
	assert.True(t, hasEvent(second, domain.EventJobLoss, domain.PhaseOngoing))
	assert.True(t, d(19.8).Equal(second.Income), "got %s", second.Income)

	third := records[3]
	assert.True(t, hasEvent(third, domain.EventJobLoss, domain.PhaseResolved))
}

func TestStateMachine_MarketCrashDrag(t *testing.T) {
	m := quietModel()
	m.Catalog.MarketCrash = domain.MarketCrashEvent{
		Probability:   d(1),
		EquityShock:   domain.Range{Min: d(-0.2), Max: d(-0.2)},
		RecoveryYears: domain.IntRange{Min: 2, Max: 2},
		RecoveryDrag:  d(0.5),
	}
	records := runMachine(t, baseParams(), m, 2)

	require.True(t, hasEvent(records[1], domain.EventMarketCrash, domain.PhaseTriggered))
	second := records[2]
	assert.False(t, hasEvent(second, domain.EventMarketCrash, domain.PhaseTriggered))
	require.True(t, hasEvent(second, domain.EventMarketCrash, domain.PhaseOngoing))
	for _, e := range second.Events {
		if e.Kind == domain.EventMarketCrash {
			assert.True(t, d(0.05).Equal(e.Rate), "got %s", e.Rate)
		}
	}
}

func TestStateMachine_ShortfallBecomesDebt(t *testing.T) {
	params := domain.SimulationParameters{
		InitialIncome:      d(10),
		InitialExpenditure: d(9),
		InitialCapital:     d(0),
		CurrentAge:         30,
		FutureAge:          40,
		LuckFactor:         domain.Neutral,
	}
	records := runMachine(t, params, quietModel(), 2)

	// Expenditure is capped at 80% of salary, which is still above the 70% post-tax income.
	first := records[1]
	assert.True(t, d(8.8).Equal(first.Expenditure), "got %s", first.Expenditure)
	assert.True(t, d(1.1).Equal(first.TotalDebt), "got %s", first.TotalDebt)
	assert.True(t, first.TotalSavings.IsZero())
	assert.True(t, hasEvent(first, domain.EventDebtIncurred, domain.PhaseLedger))

	second := records[2]
	assert.True(t, d(2.31).Equal(second.TotalDebt), "got %s", second.TotalDebt)
}

func TestStateMachine_SettleRepaysDebtFirst(t *testing.T) {
	sm := NewStateMachine(baseParams(), domain.DefaultAssumptions(), quietModel())
	sm.debt = d(5)

	var events []domain.EventDescriptor
	sm.settle(d(3), &events)
	assert.True(t, d(2).Equal(sm.debt))
	assert.True(t, sm.capital.IsZero())

	sm.settle(d(10), &events)
	assert.True(t, sm.debt.IsZero())
	assert.True(t, d(8).Equal(sm.capital))

	require.Len(t, events, 2)
	assert.Equal(t, domain.EventDebtRepaid, events[0].Kind)
	assert.True(t, d(3).Equal(events[0].Amount))
	assert.True(t, d(2).Equal(events[1].Amount))
	assert.True(t, events[1].Basis.IsZero())
	assert.NoError(t, sm.checkInvariants())
}

func TestStateMachine_InvariantViolationIsFault(t *testing.T) {
	sm := NewStateMachine(baseParams(), domain.DefaultAssumptions(), quietModel())
	sm.debt = d(1)
	sm.capital = d(1)

	err := sm.checkInvariants()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSimulationFault)
}

func TestStateMachine_RetirementStopsIncome(t *testing.T) {
	params := baseParams()
	params.CurrentAge = 59
	params.FutureAge = 63
	records := runMachine(t, params, quietModel(), 4)

	assert.True(t, records[1].Income.IsPositive(), "age 60 still earns")
	retiredAt := records[2]
	assert.Equal(t, 61, retiredAt.Age)
	assert.True(t, retiredAt.Income.IsZero())
	assert.True(t, hasEvent(retiredAt, domain.EventRetirement, domain.PhaseScheduled))
	assert.False(t, hasEvent(records[3], domain.EventRetirement, domain.PhaseScheduled), "retirement is noted once")
}

func TestStateMachine_ChildEducationMilestone(t *testing.T) {
	sm := NewStateMachine(baseParams(), domain.DefaultAssumptions(), quietModel())
	edu := sm.assumptions.Events.Education
	sm.house.children = []child{{bornYear: 0}}
	sm.year = edu.ChildAge

	var events []domain.EventDescriptor
	delta := sm.scheduledMilestones(&events)
	assert.True(t, edu.Cost.Neg().Equal(delta))
	require.Len(t, events, 1)
	assert.Equal(t, "child 1", events[0].Subject)

	// Booked once per child.
	assert.True(t, sm.scheduledMilestones(&events).Equal(decimal.Zero))
}

func TestGrownSalary_Bands(t *testing.T) {
	sm := NewStateMachine(baseParams(), domain.DefaultAssumptions(), nil)
	tests := []struct {
		age    int
		salary float64
		want   float64
	}{
		{30, 20, 22},
		{40, 50, 53},
		{55, 50, 51},
		{30, 100, 101},
		{30, 149, 150},
		{30, 150, 150},
	}
	for _, tt := range tests {
		sm.age = tt.age
		got := sm.grownSalary(d(tt.salary))
		assert.True(t, d(tt.want).Equal(got), "age %d salary %v: got %s", tt.age, tt.salary, got)
	}
}
