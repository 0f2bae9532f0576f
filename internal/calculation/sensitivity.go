package calculation

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/rpgo/lifesim/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxWork bounds the simulated years (cells × runs × years) of a single sweep.
const DefaultMaxWork = 50_000_000

// Runner projects one seeded life. *Engine is the production Runner.
type Runner interface {
	RunSeeded(params domain.SimulationParameters, seed int64) ([]domain.YearlyRecord, error)
}

// SensitivityAnalyzer sweeps an income × capital grid, running many seeded
// projections per grid point.
type SensitivityAnalyzer struct {
	Engine  Runner
	Workers int
	MaxWork int64
	Logger  Logger
}

// NewSensitivityAnalyzer creates an analyzer over engine with one worker per CPU.
func NewSensitivityAnalyzer(engine Runner) *SensitivityAnalyzer {
	if e, ok := engine.(*Engine); ok && e == nil {
		engine = nil
	}
	return &SensitivityAnalyzer{
		Engine:  engine,
		Workers: runtime.NumCPU(),
		MaxWork: DefaultMaxWork,
		Logger:  NopLogger{},
	}
}

// SetLogger sets the logger for the analyzer. If nil is provided, a no-op logger is used.
func (sa *SensitivityAnalyzer) SetLogger(l Logger) {
	if l == nil {
		sa.Logger = NopLogger{}
		return
	}
	sa.Logger = l
}

type gridPoint struct {
	income      decimal.Decimal
	expenditure decimal.Decimal
	capital     decimal.Decimal
}

// runOutcome is one finished projection; faulted runs carry no numbers.
type runOutcome struct {
	faulted      bool
	finalSavings decimal.Decimal
	debtYears    int
}

// Run executes the sweep. Cells come back income-major, capital-minor.
// Cancelling ctx discards all partial results.
func (sa *SensitivityAnalyzer) Run(ctx context.Context, params domain.SensitivityParameters) ([]domain.SensitivityCell, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if sa.Engine == nil {
		return nil, fmt.Errorf("sensitivity analyzer has no engine")
	}
	logger := loggerOrNop(sa.Logger)

	if err := sa.checkWork(params); err != nil {
		return nil, err
	}

	grid, err := buildGrid(params)
	if err != nil {
		return nil, err
	}

	seed := params.Seed
	if seed == 0 {
		seed = seedFunc()
	}
	runs := params.SimulationsPerCombination
	outcomes := make([]runOutcome, len(grid)*runs)

	workers := sa.Workers
	if workers < 1 {
		workers = 1
	}
	logger.Infof("sensitivity sweep: %d cells x %d runs on %d workers (seed %d)", len(grid), runs, workers, seed)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for c, point := range grid {
		if gctx.Err() != nil {
			break
		}
		for r := 0; r < runs; r++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				out, err := sa.runOne(point, params, mixSeed(seed, c, r), logger)
				if err != nil {
					return err
				}
				outcomes[c*runs+r] = out
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make([]domain.SensitivityCell, len(grid))
	for c, point := range grid {
		result[c] = aggregateCell(point, outcomes[c*runs:(c+1)*runs], params)
	}
	return result, nil
}

// checkWork rejects grids too large to build and sweeps over MaxWork simulated
// years. Counts are kept in decimal so oversized ranges cannot wrap.
func (sa *SensitivityAnalyzer) checkWork(params domain.SensitivityParameters) error {
	limit := decimal.NewFromInt(MaxRangeValues)
	incomes := rangeLen(params.IncomeRange)
	if incomes.GreaterThan(limit) {
		return domain.Invalid("income_max", "income range has %s values, limit is %d", incomes, MaxRangeValues)
	}
	capitals := rangeLen(params.CapitalRange)
	if capitals.GreaterThan(limit) {
		return domain.Invalid("capital_max", "capital range has %s values, limit is %d", capitals, MaxRangeValues)
	}
	cells := incomes.Mul(capitals)
	if cells.GreaterThan(limit) {
		return domain.Invalid("income_max", "grid has %s cells, limit is %d", cells, MaxRangeValues)
	}
	if sa.MaxWork <= 0 {
		return nil
	}
	work := cells.
		Mul(decimal.NewFromInt(int64(params.SimulationsPerCombination))).
		Mul(decimal.NewFromInt(int64(params.FutureAge - params.CurrentAge)))
	if work.GreaterThan(decimal.NewFromInt(sa.MaxWork)) {
		return domain.Invalid("num_simulations_per_combination",
			"sweep needs %s simulated years, limit is %d", work, sa.MaxWork)
	}
	return nil
}

// runOne executes one projection. A fault is recorded, anything else aborts the sweep.
func (sa *SensitivityAnalyzer) runOne(point gridPoint, params domain.SensitivityParameters, seed int64, logger Logger) (runOutcome, error) {
	records, err := sa.Engine.RunSeeded(domain.SimulationParameters{
		InitialIncome:      point.income,
		InitialExpenditure: point.expenditure,
		InitialCapital:     point.capital,
		CurrentAge:         params.CurrentAge,
		FutureAge:          params.FutureAge,
		LuckFactor:         params.LuckFactor,
	}, seed)
	if errors.Is(err, domain.ErrSimulationFault) {
		logger.Warnf("run faulted at income %s capital %s: %v", point.income, point.capital, err)
		return runOutcome{faulted: true}, nil
	}
	if err != nil {
		return runOutcome{}, fmt.Errorf("run at income %s capital %s: %w", point.income, point.capital, err)
	}
	return runOutcome{
		finalSavings: records[len(records)-1].TotalSavings,
		debtYears:    DebtYears(records),
	}, nil
}

func buildGrid(params domain.SensitivityParameters) ([]gridPoint, error) {
	incomes, err := SteppedRange(params.IncomeRange.Min, params.IncomeRange.Max, params.IncomeRange.Step)
	if err != nil {
		return nil, err
	}
	capitals, err := SteppedRange(params.CapitalRange.Min, params.CapitalRange.Max, params.CapitalRange.Step)
	if err != nil {
		return nil, err
	}
	grid := make([]gridPoint, 0, len(incomes)*len(capitals))
	for _, income := range incomes {
		expenditure := income.Mul(params.ExpenditureToIncomeRatio)
		for _, capital := range capitals {
			grid = append(grid, gridPoint{income: income, expenditure: expenditure, capital: capital})
		}
	}
	return grid, nil
}

func aggregateCell(point gridPoint, outcomes []runOutcome, params domain.SensitivityParameters) domain.SensitivityCell {
	cell := domain.SensitivityCell{
		InitialIncome:                point.income,
		InitialExpenditureCalculated: point.expenditure,
		InitialCapital:               point.capital,
		SuccessRatePct:               decimal.Zero,
		AverageFinalSavings:          decimal.Zero,
		MedianFinalSavings:           decimal.Zero,
		AverageDebtIncurredYears:     decimal.Zero,
	}
	finals := make([]decimal.Decimal, 0, len(outcomes))
	sum := decimal.Zero
	debtYears := 0
	for _, o := range outcomes {
		if o.faulted {
			cell.NumFailedRuns++
			continue
		}
		finals = append(finals, o.finalSavings)
		sum = sum.Add(o.finalSavings)
		debtYears += o.debtYears
		if o.finalSavings.GreaterThanOrEqual(params.SuccessThresholdSavings) {
			cell.NumSuccessfulRuns++
		}
	}
	cell.NumTotalRuns = len(finals)
	if cell.NumTotalRuns > 0 {
		total := decimal.NewFromInt(int64(cell.NumTotalRuns))
		cell.SuccessRatePct = decimal.NewFromInt(int64(cell.NumSuccessfulRuns)).Mul(decimalHundred).Div(total)
		cell.AverageFinalSavings = sum.Div(total)
		cell.MedianFinalSavings = median(finals)
		cell.AverageDebtIncurredYears = decimal.NewFromInt(int64(debtYears)).Div(total)
	}
	cell.MeetsTarget = cell.NumTotalRuns > 0 && cell.SuccessRatePct.GreaterThanOrEqual(params.MinSuccessRatePct)
	return cell
}

// median sorts values in place; an even count averages the two middle values.
func median(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sort.Slice(values, func(i, j int) bool { return values[i].LessThan(values[j]) })
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return values[mid-1].Add(values[mid]).Div(decimal.NewFromInt(2))
}
