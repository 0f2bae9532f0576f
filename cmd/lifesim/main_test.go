package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rpgo/lifesim/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LIFESIM_ADDR", "")
	t.Setenv("PORT", "")
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "lifesim version "+version+"\n", out)

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, version, v["version"])
}

func TestSimulateCmd_CSV(t *testing.T) {
	out, err := execute(t, "simulate", "--seed", "42", "--future-age", "30", "--format", "csv")
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+5)
	assert.Equal(t, "Year", rows[0][0])
	assert.Equal(t, "0", rows[1][0])
	assert.Equal(t, "26", rows[1][1])
	assert.Equal(t, "Initial State", rows[1][8])
	assert.Equal(t, "30", rows[5][1])
}

func TestSimulateCmd_SameSeedSameOutput(t *testing.T) {
	args := []string{"simulate", "--seed", "7", "--luck", "unlucky", "--format", "json"}
	a, err := execute(t, args...)
	require.NoError(t, err)
	b, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	var doc output.RunDocument
	require.NoError(t, json.Unmarshal([]byte(a), &doc))
	assert.Len(t, doc.Results, 35)
	assert.Equal(t, int64(7), doc.Seed)
}

func TestSimulateCmd_NoEvents(t *testing.T) {
	out, err := execute(t, "simulate", "--no-events", "--future-age", "28", "--format", "csv")
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	for _, row := range rows[2:] {
		assert.Equal(t, "Normal Year", row[8])
	}
}

func TestSimulateCmd_OutputDir(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "simulate", "--seed", "3", "--format", "json", "--output-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to")

	matches, err := filepath.Glob(filepath.Join(dir, "lifesim_report_*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSimulateCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad luck", []string{"simulate", "--luck", "cursed"}, "luck_factor"},
		{"bad ages", []string{"simulate", "--current-age", "50", "--future-age", "40"}, "future_age"},
		{"bad income", []string{"simulate", "--income", "0"}, "initial_income"},
		{"bad format", []string{"simulate", "--format", "html"}, "unsupported"},
		{"bad log level", []string{"simulate", "--log-level", "loud"}, "log level"},
		{"missing config", []string{"simulate", "--config", "does-not-exist.yaml"}, "failed to read file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, strings.ToLower(err.Error()), tt.want)
		})
	}
}

func TestSensitivityCmd_CSV(t *testing.T) {
	out, err := execute(t, "sensitivity",
		"--income-min", "10", "--income-max", "20", "--income-step", "10",
		"--capital-min", "5", "--capital-max", "5", "--capital-step", "5",
		"--future-age", "36", "--runs", "3", "--seed", "11", "--format", "csv")
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "10.00", rows[1][0])
	assert.Equal(t, "2.00", rows[1][1])
	assert.Equal(t, "20.00", rows[2][0])
	assert.Equal(t, "3", rows[1][3])
}

func TestSensitivityCmd_Rejected(t *testing.T) {
	_, err := execute(t, "sensitivity", "--income-step", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "income_step")
}

func TestExampleConfigCmd(t *testing.T) {
	out, err := execute(t, "example-config")
	require.NoError(t, err)
	assert.Contains(t, out, "server:")
	assert.Contains(t, out, "assumptions:")

	// the printed example must load back as a valid config
	path := filepath.Join(t.TempDir(), "lifesim.yaml")
	_, err = execute(t, "example-config", "--out", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))

	_, err = execute(t, "--config", path, "simulate", "--seed", "1", "--future-age", "27", "--format", "csv")
	require.NoError(t, err)
}
