package calculation

import (
	"testing"

	"github.com/rpgo/lifesim/internal/domain"
	"github.com/stretchr/testify/assert"
)

func rec(year int, savings, debt float64, events ...domain.EventKind) domain.YearlyRecord {
	r := domain.YearlyRecord{Year: year, Age: 30 + year, TotalSavings: d(savings), TotalDebt: d(debt)}
	for _, k := range events {
		r.Events = append(r.Events, domain.EventDescriptor{Kind: k, Phase: domain.PhaseTriggered})
	}
	return r
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.YearsInDebt)
	assert.Equal(t, 0, s.TotalEvents)
	assert.True(t, s.FinalSavings.IsZero())
	assert.True(t, s.TotalGrowthPercentage.IsZero())
}

func TestSummarize(t *testing.T) {
	records := []domain.YearlyRecord{
		rec(0, 20, 0),
		rec(1, 0, 5, domain.EventMedical, domain.EventDebtIncurred),
		rec(2, 0, 2, domain.EventDebtRepaid),
		rec(3, 45, 0),
		rec(4, 30, 0, domain.EventInheritance),
	}
	s := Summarize(records)

	assert.True(t, d(30).Equal(s.FinalSavings))
	assert.True(t, d(45).Equal(s.HighestSavings))
	assert.True(t, s.LowestSavings.IsZero())
	assert.Equal(t, 2, s.YearsInDebt)
	assert.True(t, d(5).Equal(s.MaxDebt))
	assert.Equal(t, 3, s.TotalEvents)
	assert.True(t, d(50).Equal(s.TotalGrowthPercentage), "got %s", s.TotalGrowthPercentage)
}

func TestGrowthPercentage(t *testing.T) {
	tests := []struct {
		name           string
		initial, final float64
		want           float64
	}{
		{"zero to zero", 0, 0, 0},
		{"zero to positive", 0, 50, 100},
		{"growth", 20, 30, 50},
		{"decline", 20, 10, -50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := growthPercentage(d(tt.initial), d(tt.final))
			assert.True(t, d(tt.want).Equal(got), "got %s", got)
		})
	}
}
