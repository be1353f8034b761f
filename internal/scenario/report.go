package scenario

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
)

// BuildReport aggregates per-scenario results into the final run report.
// Total, Passed, and Failed count individual steps; the success rate is
// passed/total as a percentage rounded to two decimals, zero for an empty
// run.
func BuildReport(cfg Config, results []TestResult) *RunReport {
	report := &RunReport{
		RunID:     ulid.Make().String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Config:    cfg,
		Tests:     results,
	}
	for _, tr := range results {
		for _, sr := range tr.Steps {
			report.Total++
			if sr.Success {
				report.Passed++
			} else {
				report.Failed++
			}
		}
	}
	if report.Total > 0 {
		rate := float64(report.Passed) / float64(report.Total) * 100
		report.SuccessRate = math.Round(rate*100) / 100
	}
	return report
}

// WriteReport writes the report as indented JSON to path.
func WriteReport(path string, report *RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
