package core

import "testing"

func TestStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusReady, false},
		{StatusRunning, false},
		{StatusPassed, true},
		{StatusFailed, true},
		{StatusError, true},
	}
	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("Status(%q).IsTerminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestStatusIsSuccess(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPassed, true},
		{StatusFailed, false},
		{StatusError, false},
		{StatusRunning, false},
	}
	for _, tt := range tests {
		if got := tt.status.IsSuccess(); got != tt.want {
			t.Errorf("Status(%q).IsSuccess() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
