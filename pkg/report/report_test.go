package report

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stepdriver-dev/stepdriver/pkg/core"
)

func sampleResults() core.Results {
	return core.Results{
		{
			TestID:        "TC001",
			TestName:      "Login flow",
			File:          "smoke.xlsx",
			Status:        core.StatusPassed,
			ExecutionTime: 4.25,
		},
		{
			TestID:        "TC002",
			TestName:      "Create record",
			File:          "smoke.xlsx",
			Status:        core.StatusFailed,
			ExecutionTime: 9.1,
			FailedSteps:   []string{"Step 3: click Save Button - failed to click"},
		},
		{
			TestID:   "TC003",
			TestName: "Broken setup",
			File:     "regression.xlsx",
			Status:   core.StatusError,
			Error:    "browser session setup failed",
		},
	}
}

func TestBuildSummary(t *testing.T) {
	r := Build(sampleResults(), "20260826_120000")

	if r.Summary.Total != 3 || r.Summary.Passed != 1 || r.Summary.Failed != 1 || r.Summary.Errors != 1 {
		t.Errorf("unexpected summary: %+v", r.Summary)
	}
	if r.Summary.SuccessRate != "33.33%" {
		t.Errorf("SuccessRate = %q", r.Summary.SuccessRate)
	}

	empty := Build(nil, "20260826_120000")
	if empty.Summary.SuccessRate != "0%" {
		t.Errorf("empty SuccessRate = %q", empty.Summary.SuccessRate)
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path, err := Build(sampleResults(), "20260826_120000").WriteJSON(dir)
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var parsed struct {
		Summary struct {
			Timestamp string `json:"timestamp"`
			Total     int    `json:"total"`
		} `json:"summary"`
		TestCases []map[string]interface{} `json:"test_cases"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if parsed.Summary.Total != 3 || parsed.Summary.Timestamp != "20260826_120000" {
		t.Errorf("unexpected summary: %+v", parsed.Summary)
	}
	if parsed.TestCases[0]["test_id"] != "TC001" {
		t.Errorf("test_id field missing or wrong: %v", parsed.TestCases[0])
	}
	if _, ok := parsed.TestCases[0]["failed_steps"]; ok {
		t.Error("failed_steps should be omitted for a passed case")
	}
	if parsed.TestCases[2]["error"] != "browser session setup failed" {
		t.Errorf("error field missing: %v", parsed.TestCases[2])
	}
}

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()
	path, err := Build(sampleResults(), "20260826_120000").WriteHTML(dir)
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	html := string(data)

	for _, want := range []string{
		"TC001",
		"Create record",
		"PASSED",
		"FAILED",
		"ERROR",
		"33.33%",
		"Step 3: click Save Button - failed to click",
		"Per-File Breakdown",
		"smoke.xlsx",
		"regression.xlsx",
		"toggleDetails",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html report missing %q", want)
		}
	}
}
