package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lifesim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":5001", cfg.Server.Addr)
	assert.Equal(t, runtime.NumCPU(), cfg.Server.Workers)
	assert.Equal(t, int64(50_000_000), cfg.Server.MaxWork)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 60, cfg.Assumptions.RetirementAge)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile_OverridesOnlyGivenKeys(t *testing.T) {
	path := writeConfig(t, "server:\n"+
		"  addr: \":8080\"\n"+
		"  workers: 3\n"+
		"assumptions:\n"+
		"  tax_rate: 0.25\n"+
		"  events:\n"+
		"    job_loss:\n"+
		"      probability: 0.12\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 3, cfg.Server.Workers)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.True(t, decimal.NewFromFloat(0.25).Equal(cfg.Assumptions.TaxRate))
	assert.True(t, decimal.NewFromFloat(0.12).Equal(cfg.Assumptions.Events.JobLoss.Probability))
	// Untouched siblings keep their defaults.
	assert.True(t, decimal.NewFromFloat(0.10).Equal(cfg.Assumptions.Events.MarketCrash.Probability))
	assert.Equal(t, 3, cfg.Assumptions.Events.JobLoss.OutageMonths.Min)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFile(writeConfig(t, "server: [not, a, map"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LIFESIM_ADDR", "")
	t.Setenv("PORT", "9000")
	t.Setenv("LIFESIM_WORKERS", "2")
	t.Setenv("LIFESIM_MAX_WORK", "5000")
	t.Setenv("LIFESIM_LOG_LEVEL", "DEBUG")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 2, cfg.Server.Workers)
	assert.Equal(t, int64(5000), cfg.Server.MaxWork)
	assert.Equal(t, "debug", cfg.Server.LogLevel)

	t.Setenv("LIFESIM_ADDR", "127.0.0.1:7000")
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)

	t.Setenv("LIFESIM_WORKERS", "many")
	assert.Error(t, cfg.ApplyEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"no workers", func(c *Config) { c.Server.Workers = 0 }},
		{"no max work", func(c *Config) { c.Server.MaxWork = 0 }},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "loud" }},
		{"tax rate of one", func(c *Config) { c.Assumptions.TaxRate = decimal.NewFromInt(1) }},
		{"equity allocation above one", func(c *Config) { c.Assumptions.EquityAllocation = decimal.NewFromFloat(1.2) }},
		{"total loss return", func(c *Config) { c.Assumptions.EquityReturnRate = decimal.NewFromInt(-1) }},
		{"probability above one", func(c *Config) { c.Assumptions.Events.JobLoss.Probability = decimal.NewFromFloat(1.5) }},
		{"inverted cost range", func(c *Config) {
			c.Assumptions.Events.Medical.Cost.Min = decimal.NewFromInt(50)
		}},
		{"inverted outage months", func(c *Config) { c.Assumptions.Events.JobLoss.OutageMonths.Max = 1 }},
		{"inverted age window", func(c *Config) { c.Assumptions.Events.Inheritance.Age.To = 10 }},
		{"unordered growth bands", func(c *Config) {
			c.Assumptions.IncomeGrowthBands[1].BelowAge = 20
		}},
		{"zero luck", func(c *Config) { c.Assumptions.Luck.Lucky = decimal.Zero }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestExampleYAML_RoundTrips(t *testing.T) {
	data, err := ExampleYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "black_swan:")

	cfg, err := LoadFile(writeConfig(t, string(data)))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	def := Default()
	assert.True(t, def.Assumptions.TaxRate.Equal(cfg.Assumptions.TaxRate))
	assert.True(t, def.Assumptions.Events.Business.Investment.Max.Equal(cfg.Assumptions.Events.Business.Investment.Max))
	assert.Equal(t, def.Assumptions.IncomeGrowthBands[0].BelowAge, cfg.Assumptions.IncomeGrowthBands[0].BelowAge)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Setenv("LIFESIM_ADDR", "")
	t.Setenv("PORT", "")
	t.Setenv("LIFESIM_WORKERS", "")
	t.Setenv("LIFESIM_MAX_WORK", "")
	t.Setenv("LIFESIM_LOG_LEVEL", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":5001", cfg.Server.Addr)
}
