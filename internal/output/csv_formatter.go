package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVFormatter writes one row per simulated year.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }
func (c CSVFormatter) Ext() string  { return "csv" }

func (c CSVFormatter) Format(report *RunReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "Age", "Income", "PostTaxIncome", "Expenditure", "SavingsThisYear", "TotalSavings", "TotalDebt", "Events"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range report.Records {
		row := []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Age),
			r.Income.StringFixed(2),
			r.PostTaxIncome.StringFixed(2),
			r.Expenditure.StringFixed(2),
			r.SavingsThisYear.StringFixed(2),
			r.TotalSavings.StringFixed(2),
			r.TotalDebt.StringFixed(2),
			RenderEvents(r),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
