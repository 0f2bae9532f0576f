package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/rpgo/lifesim/internal/calculation"
	"github.com/rpgo/lifesim/internal/domain"
	"github.com/rpgo/lifesim/internal/logging"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ServerConfig controls the HTTP surface and the sweep worker pool.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	Workers  int    `yaml:"workers"`
	MaxWork  int64  `yaml:"max_work"`
	LogLevel string `yaml:"log_level"`
}

// Config is the full process configuration.
type Config struct {
	Server      ServerConfig       `yaml:"server"`
	Assumptions domain.Assumptions `yaml:"assumptions"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:     ":5001",
			Workers:  runtime.NumCPU(),
			MaxWork:  calculation.DefaultMaxWork,
			LogLevel: "info",
		},
		Assumptions: domain.DefaultAssumptions(),
	}
}

// LoadFile reads a YAML file over the defaults. Keys absent from the file keep
// their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

// Load resolves the configuration used by the CLI: defaults, then the optional
// file, then environment overrides, then validation.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides server settings from LIFESIM_* variables. PORT is honored
// when LIFESIM_ADDR is unset.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv("LIFESIM_ADDR")); v != "" {
		c.Server.Addr = v
	} else if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := strings.TrimSpace(os.Getenv("LIFESIM_WORKERS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LIFESIM_WORKERS: %w", err)
		}
		c.Server.Workers = n
	}
	if v := strings.TrimSpace(os.Getenv("LIFESIM_MAX_WORK")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("LIFESIM_MAX_WORK: %w", err)
		}
		c.Server.MaxWork = n
	}
	if v := strings.TrimSpace(os.Getenv("LIFESIM_LOG_LEVEL")); v != "" {
		c.Server.LogLevel = strings.ToLower(v)
	}
	return nil
}

// Validate checks server settings and the economic assumptions.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if c.Server.Workers < 1 {
		return fmt.Errorf("server workers must be at least 1")
	}
	if c.Server.MaxWork < 1 {
		return fmt.Errorf("server max_work must be at least 1")
	}
	if !logging.ValidLevel(c.Server.LogLevel) {
		return fmt.Errorf("unknown log level %q", c.Server.LogLevel)
	}
	if err := validateAssumptions(&c.Assumptions); err != nil {
		return fmt.Errorf("assumptions validation failed: %w", err)
	}
	return nil
}

var (
	zero     = decimal.Zero
	one      = decimal.NewFromInt(1)
	minusOne = decimal.NewFromInt(-1)
)

func validateAssumptions(a *domain.Assumptions) error {
	if a.TaxRate.LessThan(zero) || a.TaxRate.GreaterThanOrEqual(one) {
		return fmt.Errorf("tax rate must be in [0, 1)")
	}
	if a.EquityAllocation.LessThan(zero) || a.EquityAllocation.GreaterThan(one) {
		return fmt.Errorf("equity allocation must be in [0, 1]")
	}
	for name, r := range map[string]decimal.Decimal{
		"equity return rate":        a.EquityReturnRate,
		"fixed deposit return rate": a.FixedDepositReturnRate,
		"inflation rate":            a.InflationRate,
		"lifestyle growth rate":     a.LifestyleGrowthRate,
		"late career growth rate":   a.LateCareerGrowthRate,
		"high income growth rate":   a.HighIncomeGrowthRate,
	} {
		if r.LessThanOrEqual(minusOne) {
			return fmt.Errorf("%s cannot be -100%% or lower", name)
		}
	}
	if a.ChildExpenseRate.LessThan(zero) {
		return fmt.Errorf("child expense rate cannot be negative")
	}
	if !a.ExpenditureIncomeCap.IsPositive() || !a.ExpenditureCapWithoutIncome.IsPositive() {
		return fmt.Errorf("expenditure caps must be positive")
	}
	if a.RetirementAge < domain.MinCurrentAge || a.RetirementAge > domain.MaxFutureAge {
		return fmt.Errorf("retirement age must be between %d and %d", domain.MinCurrentAge, domain.MaxFutureAge)
	}
	if !a.IncomeCap.IsPositive() {
		return fmt.Errorf("income cap must be positive")
	}
	prev := 0
	for _, b := range a.IncomeGrowthBands {
		if b.BelowAge <= prev {
			return fmt.Errorf("income growth bands must be ordered by below_age")
		}
		prev = b.BelowAge
	}
	if !a.Luck.Unlucky.IsPositive() || !a.Luck.Neutral.IsPositive() || !a.Luck.Lucky.IsPositive() {
		return fmt.Errorf("luck multipliers must be positive")
	}
	return validateCatalog(&a.Events)
}

func validateCatalog(e *domain.EventCatalog) error {
	probabilities := map[string]decimal.Decimal{
		"black_swan.lifetime_probability":      e.BlackSwan.LifetimeProbability,
		"job_loss.probability":                 e.JobLoss.Probability,
		"market_crash.probability":             e.MarketCrash.Probability,
		"medical_emergency.base_probability":   e.Medical.BaseProbability,
		"divorce.probability":                  e.Divorce.Probability,
		"family_expense.probability":           e.FamilyExpense.Probability,
		"marriage.probability":                 e.Marriage.Probability,
		"child_birth.probability":              e.ChildBirth.Probability,
		"business_venture.probability":         e.Business.Probability,
		"business_venture.success_probability": e.Business.SuccessProbability,
		"inheritance.probability":              e.Inheritance.Probability,
		"career_advancement.probability":       e.Career.Probability,
	}
	for name, p := range probabilities {
		if p.LessThan(zero) || p.GreaterThan(one) {
			return fmt.Errorf("%s must be in [0, 1]", name)
		}
	}

	ranges := map[string]domain.Range{
		"job_loss.reemployment_factor":      e.JobLoss.ReemploymentFactor,
		"job_loss.resolution_uplift":        e.JobLoss.ResolutionUplift,
		"market_crash.equity_shock":         e.MarketCrash.EquityShock,
		"medical_emergency.cost":            e.Medical.Cost,
		"family_expense.cost":               e.FamilyExpense.Cost,
		"marriage.self_cost":                e.Marriage.SelfCost,
		"child_birth.cost":                  e.ChildBirth.Cost,
		"business_venture.investment":       e.Business.Investment,
		"business_venture.success_multiple": e.Business.SuccessMultiple,
		"inheritance.amount":                e.Inheritance.Amount,
		"career_advancement.boost":          e.Career.Boost,
	}
	for name, r := range ranges {
		if r.Max.LessThan(r.Min) {
			return fmt.Errorf("%s: max must not be below min", name)
		}
	}

	intRanges := map[string]domain.IntRange{
		"job_loss.outage_months":      e.JobLoss.OutageMonths,
		"job_loss.recovery_years":     e.JobLoss.RecoveryYears,
		"market_crash.recovery_years": e.MarketCrash.RecoveryYears,
	}
	for name, r := range intRanges {
		if r.Min < 0 || r.Max < r.Min {
			return fmt.Errorf("%s must be a non-negative ordered range", name)
		}
	}

	windows := map[string]domain.AgeWindow{
		"marriage.self_age":      e.Marriage.SelfAge,
		"marriage.child_age":     e.Marriage.ChildAge,
		"child_birth.parent_age": e.ChildBirth.ParentAge,
		"business_venture.age":   e.Business.Age,
		"inheritance.age":        e.Inheritance.Age,
	}
	for name, w := range windows {
		if w.To < w.From {
			return fmt.Errorf("%s: to must not be below from", name)
		}
	}

	if e.MarketCrash.EquityShock.Min.LessThanOrEqual(minusOne) {
		return fmt.Errorf("market_crash.equity_shock cannot lose 100%% or more")
	}
	if e.ChildBirth.MaxChildren < 0 {
		return fmt.Errorf("child_birth.max_children cannot be negative")
	}
	if e.Education.ChildAge < 0 || e.Education.Cost.IsNegative() {
		return fmt.Errorf("child_education must have a non-negative age and cost")
	}
	return nil
}

// ExampleYAML renders the default configuration as a starting point for users.
func ExampleYAML() ([]byte, error) {
	cfg := Default()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to render example configuration: %w", err)
	}
	return data, nil
}
