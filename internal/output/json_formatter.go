package output

import (
	json "github.com/goccy/go-json"
)

// JSONFormatter serializes the run as pretty-printed JSON in the API's wire shape.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }
func (j JSONFormatter) Ext() string  { return "json" }

// RunDocument is the JSON document for a single run.
type RunDocument struct {
	Results     []YearlyRow `json:"results"`
	Summary     SummaryRow  `json:"summary"`
	Seed        int64       `json:"seed,omitempty"`
	Assumptions []string    `json:"assumptions,omitempty"`
}

func (j JSONFormatter) Format(report *RunReport) ([]byte, error) {
	return json.MarshalIndent(RunDocument{
		Results:     YearlyRows(report.Records),
		Summary:     Summary(report.Summary),
		Seed:        report.Seed,
		Assumptions: report.Assumptions,
	}, "", "  ")
}
