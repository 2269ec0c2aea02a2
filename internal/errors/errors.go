package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// Configuration errors - missing or invalid configuration
	ErrorTypeConfig ErrorType = iota
	// Validation errors - malformed records or schemas
	ErrorTypeValidation
	// Database errors - backing store connection or query failures
	ErrorTypeDatabase
	// Internal errors - unexpected internal state
	ErrorTypeInternal
	// Coercion errors - a value cannot form a rectangular numeric array
	ErrorTypeCoercion
	// DuplicateIdentifier - two records of one entity type share an id
	ErrorTypeDuplicateIdentifier
	// UnknownIdentifier - an id was never registered as a node
	ErrorTypeUnknownIdentifier
	// SourceFetch - the graph data source failed to return a batch
	ErrorTypeSourceFetch
)

// Severity represents how critical an error is
type Severity int

const (
	// SeverityLow - can continue with degraded functionality
	SeverityLow Severity = iota
	// SeverityMedium - should be addressed but not fatal
	SeverityMedium
	// SeverityHigh - significant issue, may impact functionality
	SeverityHigh
	// SeverityCritical - must be addressed, stops execution
	SeverityCritical
)

// Sentinels for errors.Is matching. Is compares on Type only.
var (
	ErrCoercion            = &Error{Type: ErrorTypeCoercion}
	ErrDuplicateIdentifier = &Error{Type: ErrorTypeDuplicateIdentifier}
	ErrUnknownIdentifier   = &Error{Type: ErrorTypeUnknownIdentifier}
	ErrSourceFetch         = &Error{Type: ErrorTypeSourceFetch}
	ErrValidation          = &Error{Type: ErrorTypeValidation}
	ErrConfig              = &Error{Type: ErrorTypeConfig}
	ErrDatabase            = &Error{Type: ErrorTypeDatabase}
)

// Error represents a structured error with context
type Error struct {
	Type       ErrorType
	Severity   Severity
	Message    string
	Cause      error
	Context    map[string]interface{}
	StackTrace string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Is checks if this error matches the target error type
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// IsFatal returns true if this error should stop execution
func (e *Error) IsFatal() bool {
	return e.Severity == SeverityCritical
}

// DetailedString returns a detailed error message with context
func (e *Error) DetailedString() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] [%s] %s\n",
		severityString(e.Severity),
		e.Type.String(),
		e.Message))

	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf("Caused by: %v\n", e.Cause))
	}

	if len(e.Context) > 0 {
		sb.WriteString("Context:\n")
		for k, v := range e.Context {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", k, v))
		}
	}

	if e.StackTrace != "" {
		sb.WriteString(fmt.Sprintf("Stack trace:\n%s\n", e.StackTrace))
	}

	return sb.String()
}

// String returns the upper-case tag used in detailed output
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeConfig:
		return "CONFIG"
	case ErrorTypeValidation:
		return "VALIDATION"
	case ErrorTypeDatabase:
		return "DATABASE"
	case ErrorTypeInternal:
		return "INTERNAL"
	case ErrorTypeCoercion:
		return "COERCION"
	case ErrorTypeDuplicateIdentifier:
		return "DUPLICATE_IDENTIFIER"
	case ErrorTypeUnknownIdentifier:
		return "UNKNOWN_IDENTIFIER"
	case ErrorTypeSourceFetch:
		return "SOURCE_FETCH"
	default:
		return "UNKNOWN"
	}
}

func severityString(s Severity) string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// captureStackTrace captures the current stack trace. Low severity errors
// are produced per record on hot paths and skip it.
func captureStackTrace(severity Severity, skip int) string {
	if severity == SeverityLow {
		return ""
	}
	var sb strings.Builder
	for i := skip; i < skip+10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			break
		}
		sb.WriteString(fmt.Sprintf("  %s:%d %s\n", file, line, fn.Name()))
	}
	return sb.String()
}

// New creates a new error with the given type, severity, and message
func New(errType ErrorType, severity Severity, message string) *Error {
	return &Error{
		Type:       errType,
		Severity:   severity,
		Message:    message,
		Context:    make(map[string]interface{}),
		StackTrace: captureStackTrace(severity, 3),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, severity Severity, message string) *Error {
	if err == nil {
		return nil
	}

	return &Error{
		Type:       errType,
		Severity:   severity,
		Message:    message,
		Cause:      err,
		Context:    make(map[string]interface{}),
		StackTrace: captureStackTrace(severity, 3),
	}
}

// Convenience constructors for common error types

// ConfigErrorf creates a configuration error with formatting
func ConfigErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeConfig, SeverityCritical, fmt.Sprintf(format, args...))
}

// ValidationErrorf creates a validation error with formatting
func ValidationErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeValidation, SeverityHigh, fmt.Sprintf(format, args...))
}

// DatabaseErrorf wraps a backing store error with formatting
func DatabaseErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeDatabase, SeverityCritical, fmt.Sprintf(format, args...))
}

// InternalErrorf creates an internal error with formatting
func InternalErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeInternal, SeverityCritical, fmt.Sprintf(format, args...))
}

// CoercionErrorf reports a value that cannot become a numeric array.
// Surfaced immediately, never retried.
func CoercionErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeCoercion, SeverityHigh, fmt.Sprintf(format, args...))
}

// DuplicateIdentifierError reports a repeated id within one entity type.
func DuplicateIdentifierError(entityType string, id interface{}) *Error {
	return New(ErrorTypeDuplicateIdentifier, SeverityCritical,
		fmt.Sprintf("duplicate %s id %v", entityType, id)).
		WithContext("entity_type", entityType).
		WithContext("id", id)
}

// UnknownIdentifierError reports an id that was never registered.
// Recoverable per edge.
func UnknownIdentifierError(entityType string, id interface{}) *Error {
	return New(ErrorTypeUnknownIdentifier, SeverityLow,
		fmt.Sprintf("unknown %s id %v", entityType, id)).
		WithContext("entity_type", entityType).
		WithContext("id", id)
}

// SourceFetchErrorf wraps a data source failure. Always fatal to the run.
func SourceFetchErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeSourceFetch, SeverityCritical, fmt.Sprintf(format, args...))
}

// IsFatal checks if an error is fatal (should stop execution)
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	if e, ok := err.(*Error); ok {
		return e.IsFatal()
	}

	return false
}

// GetSeverity returns the severity of an error
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityLow
	}

	if e, ok := err.(*Error); ok {
		return e.Severity
	}

	return SeverityMedium
}

// GetType returns the type of an error
func GetType(err error) ErrorType {
	if err == nil {
		return ErrorTypeInternal
	}

	if e, ok := err.(*Error); ok {
		return e.Type
	}

	return ErrorTypeInternal
}
