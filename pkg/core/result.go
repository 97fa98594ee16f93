package core

// CaseResult captures the complete outcome of executing one test case.
// JSON field names match the run-level results collection consumed by
// the report renderer.
type CaseResult struct {
	TestID   string `json:"test_id"`
	TestName string `json:"test_name"`
	File     string `json:"file,omitempty"` // Source spreadsheet (base name)
	Status   Status `json:"status"`

	// ExecutionTime is measured from first step start to last step
	// completion, in seconds. Zero for cases that never started.
	ExecutionTime float64 `json:"execution_time"`

	FailedSteps    []string `json:"failed_steps,omitempty"`
	Error          string   `json:"error,omitempty"`
	ScreenshotPath string   `json:"screenshot_path,omitempty"`
	LogFile        string   `json:"log_file,omitempty"`
}

// Results is a run-wide collection of case results.
type Results []CaseResult

// CountByStatus returns the number of results with the given status.
func (rs Results) CountByStatus(status Status) int {
	n := 0
	for _, r := range rs {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Success returns true if every case passed and at least one case ran.
func (rs Results) Success() bool {
	for _, r := range rs {
		if !r.Status.IsSuccess() {
			return false
		}
	}
	return len(rs) > 0
}

// ByFile groups results by their source spreadsheet, preserving the
// order in which files first appear.
func (rs Results) ByFile() ([]string, map[string]Results) {
	var order []string
	grouped := make(map[string]Results)
	for _, r := range rs {
		file := r.File
		if file == "" {
			file = "unknown"
		}
		if _, ok := grouped[file]; !ok {
			order = append(order, file)
		}
		grouped[file] = append(grouped[file], r)
	}
	return order, grouped
}
