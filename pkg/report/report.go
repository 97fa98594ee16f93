// Package report renders the run-level results collection into JSON
// and HTML reports.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stepdriver-dev/stepdriver/pkg/core"
)

// Summary aggregates a run's results.
type Summary struct {
	Timestamp   string `json:"timestamp"`
	Total       int    `json:"total"`
	Passed      int    `json:"passed"`
	Failed      int    `json:"failed"`
	Errors      int    `json:"errors"`
	SuccessRate string `json:"success_rate"`
}

// Report is the persisted report document.
type Report struct {
	Summary   Summary      `json:"summary"`
	TestCases core.Results `json:"test_cases"`
}

// Build assembles a report from the results collection. The timestamp
// identifies the run, not the rendering time.
func Build(results core.Results, timestamp string) *Report {
	total := len(results)
	passed := results.CountByStatus(core.StatusPassed)

	rate := "0%"
	if total > 0 {
		rate = fmt.Sprintf("%.2f%%", float64(passed)/float64(total)*100)
	}

	return &Report{
		Summary: Summary{
			Timestamp:   timestamp,
			Total:       total,
			Passed:      passed,
			Failed:      results.CountByStatus(core.StatusFailed),
			Errors:      results.CountByStatus(core.StatusError),
			SuccessRate: rate,
		},
		TestCases: results,
	}
}

// WriteJSON writes test_results.json into the directory and returns
// its path.
func (r *Report) WriteJSON(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	path := filepath.Join(dir, "test_results.json")
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("write json report: %w", err)
	}
	return path, nil
}
