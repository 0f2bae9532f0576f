package calculation

import (
	"github.com/rpgo/lifesim/internal/domain"
	"github.com/shopspring/decimal"
)

// fixedRandom returns the same draw every time.
type fixedRandom struct{ f float64 }

func (r fixedRandom) Float64() float64 { return r.f }
func (r fixedRandom) Intn(int) int     { return 0 }

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// quietModel has every catalog probability at zero; tests switch on the kind they need.
func quietModel() *EventModel {
	return &EventModel{Luck: domain.DefaultAssumptions().Luck}
}

func baseParams() domain.SimulationParameters {
	return domain.SimulationParameters{
		InitialIncome:      d(20),
		InitialExpenditure: d(4),
		InitialCapital:     d(20),
		CurrentAge:         26,
		FutureAge:          60,
		LuckFactor:         domain.Neutral,
	}
}

func hasEvent(r domain.YearlyRecord, kind domain.EventKind, phase domain.EventPhase) bool {
	for _, e := range r.Events {
		if e.Kind == kind && e.Phase == phase {
			return true
		}
	}
	return false
}
