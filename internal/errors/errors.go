// Package errors provides the classified error type used across netdoc, so the
// command line can tell user mistakes from broken inputs and failed output.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory classifies an error for presentation and exit code selection.
type ErrorCategory string

const (
	// User-facing input and configuration errors
	CategoryInput  ErrorCategory = "input"
	CategoryConfig ErrorCategory = "config"

	// External systems
	CategoryNetwork ErrorCategory = "network"

	// Processing errors
	CategoryMetadata ErrorCategory = "metadata"
	CategoryOutput   ErrorCategory = "output"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the run
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
)

// ContextFields carries structured context for Error
type ContextFields map[string]any

// Error is a structured error with category, severity and context.
type Error struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

func New(category ErrorCategory, severity ErrorSeverity, message string) *Error {
	return &Error{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new Error that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *Error {
	return &Error{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As finds the first classified error in the chain.
func As(err error) (*Error, bool) {
	var classified *Error
	if stdErrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// IsCategory checks if an error chain carries a classified error of the category
func IsCategory(err error, category ErrorCategory) bool {
	if classified, ok := As(err); ok {
		return classified.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// for unclassified errors
func GetCategory(err error) ErrorCategory {
	if classified, ok := As(err); ok {
		return classified.Category
	}
	return CategoryInternal
}
