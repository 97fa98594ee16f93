package core

// Status represents the execution status of a test case.
type Status string

// Status values. The terminal states match the strings persisted in
// JSON reports.
const (
	StatusReady   Status = "READY"   // Not yet started
	StatusRunning Status = "RUNNING" // Currently executing
	StatusPassed  Status = "PASSED"  // Every step reported success
	StatusFailed  Status = "FAILED"  // At least one step failed; remaining steps skipped
	StatusError   Status = "ERROR"   // Failure outside the normal step path (setup, session)
)

// IsTerminal returns true if the status is a final state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusError:
		return true
	default:
		return false
	}
}

// IsSuccess returns true if the status indicates success.
func (s Status) IsSuccess() bool {
	return s == StatusPassed
}
