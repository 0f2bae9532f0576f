package calculation

import (
	"errors"
	"testing"

	"github.com/rpgo/lifesim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineRun_RecordSequence(t *testing.T) {
	engine := NewEngine()
	params := baseParams()

	for seed := int64(1); seed <= 20; seed++ {
		records, err := engine.RunSeeded(params, seed)
		require.NoError(t, err)
		require.Len(t, records, params.FutureAge-params.CurrentAge+1)
		for i, r := range records {
			assert.Equal(t, i, r.Year)
			assert.Equal(t, params.CurrentAge+i, r.Age)
		}
		assert.Empty(t, records[0].Events, "initial state carries no events")
	}
}

func TestEngineRun_DebtAndSavingsNeverBothPositive(t *testing.T) {
	engine := NewEngine()
	params := domain.SimulationParameters{
		InitialIncome:      d(5),
		InitialExpenditure: d(3.5),
		InitialCapital:     d(0),
		CurrentAge:         25,
		FutureAge:          80,
		LuckFactor:         domain.Unlucky,
	}

	for seed := int64(1); seed <= 200; seed++ {
		records, err := engine.RunSeeded(params, seed)
		require.NoError(t, err)
		for _, r := range records {
			assert.False(t, r.TotalDebt.IsNegative(), "seed %d age %d: negative debt", seed, r.Age)
			assert.False(t, r.TotalSavings.IsNegative(), "seed %d age %d: negative savings", seed, r.Age)
			assert.False(t, r.TotalDebt.IsPositive() && r.TotalSavings.IsPositive(),
				"seed %d age %d: savings %s with debt %s", seed, r.Age, r.TotalSavings, r.TotalDebt)
		}
	}
}

func TestEngineRun_Deterministic(t *testing.T) {
	engine := NewEngine()
	a, err := engine.RunSeeded(baseParams(), 99)
	require.NoError(t, err)
	b, err := engine.RunSeeded(baseParams(), 99)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEngineRun_UnluckySeesMoreAdverseEvents(t *testing.T) {
	engine := NewEngine()
	count := func(l domain.LuckFactor) int {
		params := baseParams()
		params.LuckFactor = l
		total := 0
		for seed := int64(1); seed <= 300; seed++ {
			records, err := engine.RunSeeded(params, seed)
			require.NoError(t, err)
			for _, r := range records {
				total += r.AdverseTriggers()
			}
		}
		return total
	}

	unlucky, lucky := count(domain.Unlucky), count(domain.Lucky)
	assert.Greater(t, unlucky, lucky)
}

func TestEngineRun_ZeroEventCompounding(t *testing.T) {
	engine := NewEngine()
	engine.DisableEvents()
	params := baseParams()
	params.FutureAge = 28

	records, err := engine.RunSeeded(params, 1)
	require.NoError(t, err)
	require.Len(t, records, 3)

	initial := records[0]
	assert.True(t, d(20).Equal(initial.Income))
	assert.True(t, d(14).Equal(initial.PostTaxIncome))
	assert.True(t, d(10).Equal(initial.SavingsThisYear))
	assert.True(t, d(20).Equal(initial.TotalSavings))

	first := records[1]
	assert.Equal(t, 27, first.Age)
	assert.True(t, d(22).Equal(first.Income), "got %s", first.Income)
	assert.True(t, d(15.4).Equal(first.PostTaxIncome), "got %s", first.PostTaxIncome)
	assert.True(t, d(4.52).Equal(first.Expenditure), "got %s", first.Expenditure)
	assert.True(t, d(10.88).Equal(first.SavingsThisYear), "got %s", first.SavingsThisYear)
	assert.True(t, d(33.47).Equal(first.TotalSavings), "got %s", first.TotalSavings)

	for i := 1; i < len(records); i++ {
		assert.True(t, records[i].TotalSavings.GreaterThan(records[i-1].TotalSavings))
		assert.Empty(t, records[i].Events)
	}
}

func TestEngineRun_InvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.SimulationParameters)
		field  string
	}{
		{"zero income", func(p *domain.SimulationParameters) { p.InitialIncome = d(0) }, "initial_income"},
		{"zero expenditure", func(p *domain.SimulationParameters) { p.InitialExpenditure = d(0) }, "initial_expenditure"},
		{"negative capital", func(p *domain.SimulationParameters) { p.InitialCapital = d(-1) }, "initial_capital"},
		{"too young", func(p *domain.SimulationParameters) { p.CurrentAge = 17 }, "current_age"},
		{"too old", func(p *domain.SimulationParameters) { p.CurrentAge = 71; p.FutureAge = 90 }, "current_age"},
		{"future equals current", func(p *domain.SimulationParameters) { p.FutureAge = p.CurrentAge }, "future_age"},
		{"future beyond limit", func(p *domain.SimulationParameters) { p.FutureAge = 101 }, "future_age"},
		{"unknown luck", func(p *domain.SimulationParameters) { p.LuckFactor = "cursed" }, "luck_factor"},
	}

	engine := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := baseParams()
			tt.mutate(&params)

			records, err := engine.RunSeeded(params, 1)
			require.Error(t, err)
			assert.Nil(t, records)
			assert.True(t, errors.Is(err, domain.ErrInvalidParameters))

			var ipe *domain.InvalidParametersError
			require.True(t, errors.As(err, &ipe))
			assert.Equal(t, tt.field, ipe.Field)
		})
	}
}

func TestEngineRun_RequiresRandomSource(t *testing.T) {
	_, err := NewEngine().Run(baseParams(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)
}

func TestEngineSetLogger_NilFallsBackToNop(t *testing.T) {
	engine := NewEngine()
	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)

	_, err := engine.RunSeeded(baseParams(), 3)
	assert.NoError(t, err)
}
