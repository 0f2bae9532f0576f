package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/rpgo/lifesim/pkg/lakh"
)

// ConsoleFormatter renders a year-by-year table followed by the run summary.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }
func (c ConsoleFormatter) Ext() string  { return "txt" }

func (c ConsoleFormatter) Format(report *RunReport) ([]byte, error) {
	var buf bytes.Buffer
	p := report.Params
	fmt.Fprintln(&buf, "LIFE FINANCIAL SIMULATION")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Income %s, expenditure %s, capital %s, ages %d-%d, luck %s",
		lakh.Format(p.InitialIncome), lakh.Format(p.InitialExpenditure), lakh.Format(p.InitialCapital),
		p.CurrentAge, p.FutureAge, p.LuckFactor)
	if report.Seed != 0 {
		fmt.Fprintf(&buf, ", seed %d", report.Seed)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf)

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Year\tAge\tIncome\tPost-tax\tExpenditure\tSaved\tSavings\tDebt\tEvents")
	for _, r := range report.Records {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Year, r.Age,
			r.Income.StringFixed(2), r.PostTaxIncome.StringFixed(2), r.Expenditure.StringFixed(2),
			r.SavingsThisYear.StringFixed(2), r.TotalSavings.StringFixed(2), r.TotalDebt.StringFixed(2),
			RenderEvents(r))
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}

	s := report.Summary
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "SUMMARY")
	fmt.Fprintf(&buf, "Final savings:   %s\n", lakh.Format(s.FinalSavings))
	fmt.Fprintf(&buf, "Highest savings: %s\n", lakh.Format(s.HighestSavings))
	fmt.Fprintf(&buf, "Lowest savings:  %s\n", lakh.Format(s.LowestSavings))
	fmt.Fprintf(&buf, "Years in debt:   %d (max %s)\n", s.YearsInDebt, lakh.Format(s.MaxDebt))
	fmt.Fprintf(&buf, "Eventful years:  %d\n", s.TotalEvents)
	fmt.Fprintf(&buf, "Total growth:    %s\n", lakh.Percent(s.TotalGrowthPercentage))

	if len(report.Assumptions) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "ASSUMPTIONS")
		for _, a := range report.Assumptions {
			fmt.Fprintf(&buf, "  - %s\n", a)
		}
	}
	return buf.Bytes(), nil
}
