package calculation

import (
	"fmt"

	"github.com/rpgo/lifesim/internal/domain"
)

// Engine runs single projections. It holds only read-only configuration, so one
// Engine may serve many concurrent runs as long as each run has its own RandomSource.
type Engine struct {
	Assumptions domain.Assumptions
	Model       *EventModel
	Logger      Logger
}

// NewEngine creates an engine with the default assumptions.
func NewEngine() *Engine {
	return NewEngineWithAssumptions(domain.DefaultAssumptions())
}

// NewEngineWithAssumptions creates an engine over a configured model.
func NewEngineWithAssumptions(a domain.Assumptions) *Engine {
	return &Engine{
		Assumptions: a,
		Model:       NewEventModel(a),
		Logger:      NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// DisableEvents switches the engine to zero-event mode: pure compounding.
func (e *Engine) DisableEvents() {
	model := NewEventModel(e.Assumptions)
	if e.Model != nil {
		*model = *e.Model
	}
	model.Disabled = true
	e.Model = model
}

// Run projects one life from CurrentAge to FutureAge inclusive.
// The result has FutureAge-CurrentAge+1 records; record 0 is the initial state.
func (e *Engine) Run(params domain.SimulationParameters, rng RandomSource) ([]domain.YearlyRecord, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, domain.Invalid("random_source", "is required")
	}
	years := params.YearsToSimulate()
	if years < 0 {
		return nil, &domain.SimulationFault{Age: params.CurrentAge, Reason: fmt.Sprintf("negative total years (%d)", years)}
	}

	sm := NewStateMachine(params, e.Assumptions, e.Model)
	records := make([]domain.YearlyRecord, 0, years+1)
	records = append(records, sm.Initial())
	for i := 0; i < years; i++ {
		rec, err := sm.Step(rng)
		if err != nil {
			loggerOrNop(e.Logger).Warnf("run aborted: %v", err)
			return nil, fmt.Errorf("failed to simulate year %d: %w", i+1, err)
		}
		records = append(records, rec)
	}

	if err := checkSequence(records, params); err != nil {
		return nil, err
	}
	loggerOrNop(e.Logger).Debugf("simulated ages %d-%d: final savings %s, debt %s",
		params.CurrentAge, params.FutureAge, records[years].TotalSavings.StringFixed(2), records[years].TotalDebt.StringFixed(2))
	return records, nil
}

// RunSeeded runs with a private generator seeded with seed.
func (e *Engine) RunSeeded(params domain.SimulationParameters, seed int64) ([]domain.YearlyRecord, error) {
	return e.Run(params, NewRandomSource(seed))
}

func checkSequence(records []domain.YearlyRecord, params domain.SimulationParameters) error {
	if len(records) != params.YearsToSimulate()+1 {
		return &domain.SimulationFault{Age: params.CurrentAge, Reason: fmt.Sprintf("produced %d records, want %d", len(records), params.YearsToSimulate()+1)}
	}
	for i, r := range records {
		if r.Year != i || r.Age != params.CurrentAge+i {
			return &domain.SimulationFault{Year: r.Year, Age: r.Age, Reason: "records are not consecutive"}
		}
	}
	return nil
}
