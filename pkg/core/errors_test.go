package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestExecutionErrorIs(t *testing.T) {
	err := ErrObjectNotFound.WithMessage("object 'Login Button' not found")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Error("expected errors.Is to match on code")
	}
	if errors.Is(err, ErrUnknownAction) {
		t.Error("expected errors.Is not to match a different code")
	}
}

func TestExecutionErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("read objects.json: no such file")
	err := ErrRepositoryStore.WithCause(cause)

	if !errors.Is(err, ErrRepositoryStore) {
		t.Error("expected wrapped error to keep its code")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause via Unwrap")
	}
	if err.Error() != "object repository storage failure: read objects.json: no such file" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	// The predefined error must stay untouched.
	if ErrRepositoryStore.Cause != nil {
		t.Error("WithCause must not mutate the original error")
	}
}

func TestErrorCategoryString(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		want     string
	}{
		{CategoryParse, "parse"},
		{CategoryResolution, "resolution"},
		{CategoryStep, "step"},
		{CategorySetup, "setup"},
		{CategoryPersistence, "persistence"},
		{ErrorCategory(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.category.String(); got != tt.want {
			t.Errorf("ErrorCategory(%d).String() = %q, want %q", tt.category, got, tt.want)
		}
	}
}
