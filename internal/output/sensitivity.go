package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/rpgo/lifesim/pkg/lakh"
)

// FormatSensitivity renders a sweep as console, csv or json.
func FormatSensitivity(name string, report *SensitivityReport) ([]byte, error) {
	switch NormalizeFormatName(name) {
	case "console":
		return sensitivityConsole(report)
	case "csv":
		return sensitivityCSV(report)
	case "json":
		return json.MarshalIndent(SensitivityRows(report.Cells), "", "  ")
	}
	return nil, fmt.Errorf("%w: %q. Try one of: console, csv, json", ErrUnsupportedFormat, name)
}

func sensitivityCSV(report *SensitivityReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"InitialIncome", "InitialExpenditure", "InitialCapital", "TotalRuns", "SuccessfulRuns", "FailedRuns",
		"SuccessRatePct", "AverageFinalSavings", "MedianFinalSavings", "AverageDebtYears", "MeetsTarget"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, c := range report.Cells {
		row := []string{
			c.InitialIncome.StringFixed(2),
			c.InitialExpenditureCalculated.StringFixed(2),
			c.InitialCapital.StringFixed(2),
			strconv.Itoa(c.NumTotalRuns),
			strconv.Itoa(c.NumSuccessfulRuns),
			strconv.Itoa(c.NumFailedRuns),
			c.SuccessRatePct.StringFixed(2),
			c.AverageFinalSavings.StringFixed(2),
			c.MedianFinalSavings.StringFixed(2),
			c.AverageDebtIncurredYears.StringFixed(2),
			strconv.FormatBool(c.MeetsTarget),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func sensitivityConsole(report *SensitivityReport) ([]byte, error) {
	var buf bytes.Buffer
	p := report.Params
	fmt.Fprintln(&buf, "SENSITIVITY ANALYSIS")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Ages %d-%d, luck %s, %d runs per cell, success at %s, target %s\n\n",
		p.CurrentAge, p.FutureAge, p.LuckFactor, p.SimulationsPerCombination,
		lakh.Format(p.SuccessThresholdSavings), lakh.Percent(p.MinSuccessRatePct))

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Income\tExpenditure\tCapital\tRuns\tFailed\tSuccess\tAverage\tMedian\tDebt yrs\tTarget")
	met := 0
	for _, c := range report.Cells {
		mark := ""
		if c.MeetsTarget {
			mark = "✓"
			met++
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			c.InitialIncome.StringFixed(2), c.InitialExpenditureCalculated.StringFixed(2), c.InitialCapital.StringFixed(2),
			c.NumTotalRuns, c.NumFailedRuns, lakh.Percent(c.SuccessRatePct),
			c.AverageFinalSavings.StringFixed(2), c.MedianFinalSavings.StringFixed(2),
			c.AverageDebtIncurredYears.StringFixed(2), mark)
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, "\n%d of %d combinations meet the target.\n", met, len(report.Cells))
	return buf.Bytes(), nil
}
