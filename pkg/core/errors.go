package core

import "fmt"

// ErrorCategory classifies failures for logging and reporting.
type ErrorCategory int

const (
	CategoryNone        ErrorCategory = iota // No error
	CategoryParse                            // Empty step, unknown verb, malformed argument grammar
	CategoryResolution                       // Object name not found after all lookup tiers
	CategoryStep                             // A handler-level failure (element missing, timeout, assertion)
	CategorySetup                            // Session establishment or sign-in failure
	CategoryPersistence                      // Malformed repository storage, missing input file
)

// String returns the string representation of ErrorCategory.
func (c ErrorCategory) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryParse:
		return "parse"
	case CategoryResolution:
		return "resolution"
	case CategoryStep:
		return "step"
	case CategorySetup:
		return "setup"
	case CategoryPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// ExecutionError is a structured error with category and code.
type ExecutionError struct {
	Category ErrorCategory
	Code     string // Machine-readable code: object_not_found, unknown_action, etc.
	Message  string // Human-readable message
	Cause    error  // Underlying error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is makes the predefined errors usable as errors.Is targets: two
// ExecutionErrors match when their codes match.
func (e *ExecutionError) Is(target error) bool {
	t, ok := target.(*ExecutionError)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy of the error with a custom message.
func (e *ExecutionError) WithMessage(msg string) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Cause:    e.Cause,
	}
}

// WithCause returns a copy of the error with the given cause.
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Cause:    cause,
	}
}

// Predefined errors.
var (
	// Parse errors (the only errors allowed to escape the dispatch boundary)
	ErrEmptyStep = &ExecutionError{
		Category: CategoryParse,
		Code:     "empty_step",
		Message:  "empty action step",
	}
	ErrUnknownAction = &ExecutionError{
		Category: CategoryParse,
		Code:     "unknown_action",
		Message:  "unknown action",
	}
	ErrUnknownCondition = &ExecutionError{
		Category: CategoryParse,
		Code:     "unknown_condition",
		Message:  "unknown condition",
	}
	ErrInvalidFormat = &ExecutionError{
		Category: CategoryParse,
		Code:     "invalid_format",
		Message:  "invalid step format",
	}

	// Resolution errors
	ErrObjectNotFound = &ExecutionError{
		Category: CategoryResolution,
		Code:     "object_not_found",
		Message:  "object not found in repository",
	}

	// Persistence errors
	ErrRepositoryStore = &ExecutionError{
		Category: CategoryPersistence,
		Code:     "repository_store",
		Message:  "object repository storage failure",
	}

	// Setup errors
	ErrSessionSetup = &ExecutionError{
		Category: CategorySetup,
		Code:     "session_setup",
		Message:  "browser session setup failed",
	}
)

// NewExecutionError creates a new ExecutionError with the given parameters.
func NewExecutionError(category ErrorCategory, code, message string) *ExecutionError {
	return &ExecutionError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}
