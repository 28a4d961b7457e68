package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Environment errors (1xxx)
	ErrCodeNotARepository ErrorCode = "PDE1001"
	ErrCodeGitNotFound    ErrorCode = "PDE1002"

	// Configuration errors (2xxx)
	ErrCodeConfigNotFound ErrorCode = "PDE2001"
	ErrCodeConfigInvalid  ErrorCode = "PDE2002"

	// Input errors (3xxx)
	ErrCodeRequiredField ErrorCode = "PDE3001"
	ErrCodeUserInput     ErrorCode = "PDE3002"

	// Hosting provider errors (4xxx)
	ErrCodeAPIStatus          ErrorCode = "PDE4001"
	ErrCodeNetworkUnavailable ErrorCode = "PDE4002"
	ErrCodeRepoCreateFailed   ErrorCode = "PDE4003"
	ErrCodePagesFailed        ErrorCode = "PDE4004"

	// Version control errors (5xxx)
	ErrCodeGit        ErrorCode = "PDE5001"
	ErrCodeRemoteBind ErrorCode = "PDE5002"
	ErrCodePushFailed ErrorCode = "PDE5003"

	// System errors (9xxx)
	ErrCodeInternal ErrorCode = "PDE9001"
	ErrCodePanic    ErrorCode = "PDE9002"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL" // Run cannot continue
	SeverityError    ErrorSeverity = "ERROR"    // Operation failed
	SeverityWarning  ErrorSeverity = "WARNING"  // Operation failed, run continues
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Recoverable bool
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError with the same code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  SeverityError,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// Inherit context from a wrapped AppError
	var ae *AppError
	if errors.As(err, &ae) {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// AsRecoverable marks the error as recoverable
func (e *AppError) AsRecoverable() *AppError {
	e.Recoverable = true
	return e
}

func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'pagesdrop config show' to inspect the effective settings",
		)
}

// RequiredFieldError creates an input validation error for an empty field
func RequiredFieldError(field string) *AppError {
	return New(ErrCodeRequiredField, fmt.Sprintf("%s cannot be empty", field)).
		WithContext("field", field).
		WithSeverity(SeverityCritical)
}

// NetworkError creates a transport-level error. Network errors never abort a
// run on their own, so they are always recoverable.
func NetworkError(message string, cause error) *AppError {
	return Wrap(cause, ErrCodeNetworkUnavailable, message).
		WithSeverity(SeverityWarning).
		AsRecoverable().
		WithSuggestions(
			"Check your network connection",
			"Verify https://api.github.com is reachable",
		)
}

// IsRecoverable checks if an error is recoverable
func IsRecoverable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Recoverable
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// Cause returns the text of the innermost error wrapped by err, which is the
// part worth showing an operator. Errors that wrap nothing return their own
// text.
func Cause(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Cause != nil {
		return appErr.Cause.Error()
	}
	return err.Error()
}

// Suggestions returns the suggestions attached to err, if any
func Suggestions(err error) []string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Suggestions
	}
	return nil
}
