package docfill

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Model construction errors
var (
	ErrKeyTooShort             = errors.New("key must be at least 2 characters long")
	ErrKeyContainsWhitespace   = errors.New("key must not contain whitespace")
	ErrConflictingValueOptions = errors.New("conflicting value options")
	ErrTooManyValueOptions     = errors.New("too many value options")
	ErrEmptyTableName          = errors.New("table name must not be empty")
	ErrNilExtendedValue        = errors.New("extended value must not be nil")
)

// Capability and lifecycle errors
var (
	ErrNoLowLevelSupport    = errors.New("document has no low-level support")
	ErrNoXMLBasedDocument   = errors.New("document is not XML based")
	ErrContextReleased      = errors.New("context used after the call returned")
	ErrNilInterceptorResult = errors.New("value interceptor returned no value")
	ErrDocumentClosed       = errors.New("document is closed")
)

// DuplicateKeyError is returned when a value key already exists in a scope
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("data value key %q already exists", e.Key)
}

// DuplicateTableError is returned when a table name already exists in a scope
type DuplicateTableError struct {
	Name string
}

func (e *DuplicateTableError) Error() string {
	return fmt.Sprintf("data table name %q already exists", e.Name)
}

// MalformedPlaceholderError represents a placeholder token that cannot be parsed
type MalformedPlaceholderError struct {
	Message   string
	Remainder string
	Position  int
}

func (e *MalformedPlaceholderError) Error() string {
	return fmt.Sprintf("malformed placeholder at position %d near '%s': %s", e.Position, truncate(e.Remainder, 40), e.Message)
}

// UnknownPlaceholderError is returned under ReplaceAll when no scope provides a key
type UnknownPlaceholderError struct {
	Key         string
	Part        string
	Suggestions []string
}

func (e *UnknownPlaceholderError) Error() string {
	msg := fmt.Sprintf("unknown placeholder '%s'", e.Key)
	if e.Part != "" {
		msg += fmt.Sprintf(" in %s", e.Part)
	}
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// FailedInterceptorExecutionError wraps a failing or runaway value interceptor
type FailedInterceptorExecutionError struct {
	Key   string
	Depth int
	Cause error
}

func (e *FailedInterceptorExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("value interceptor for '%s' failed at depth %d: %v", e.Key, e.Depth, e.Cause)
	}
	return fmt.Sprintf("value interceptor for '%s' exceeded the maximum depth of %d", e.Key, MaxInterceptorDepth)
}

func (e *FailedInterceptorExecutionError) Unwrap() error {
	return e.Cause
}

// InterceptorError wraps an error returned by a document interceptor
type InterceptorError struct {
	Part   string
	Timing Timing
	Cause  error
}

func (e *InterceptorError) Error() string {
	return fmt.Sprintf("%s interceptor for part '%s' failed: %v", e.Timing, e.Part, e.Cause)
}

func (e *InterceptorError) Unwrap() error {
	return e.Cause
}

// DocumentError represents an error during document operations
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// MultiError collects multiple errors
type MultiError struct {
	errors []error
}

// NewMultiError creates a new multi-error collector
func NewMultiError() *MultiError {
	return &MultiError{
		errors: make([]error, 0),
	}
}

// Add adds an error to the collection (ignores nil errors)
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Len returns the number of errors
func (m *MultiError) Len() int {
	return len(m.errors)
}

// Err returns the multi-error or nil if empty
func (m *MultiError) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.errors
}

func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return "no errors"
	}

	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d errors occurred:", len(m.errors)))
	for i, err := range m.errors {
		parts = append(parts, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(parts, "\n")
}

// ContextError adds context to an existing error
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	var contextParts []string
	for k, v := range e.Context {
		contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(contextParts)

	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Operation: operation,
		Context:   context,
		Cause:     err,
	}
}

// IsUnknownPlaceholder checks if err is or wraps an unknown placeholder error
func IsUnknownPlaceholder(err error) bool {
	var target *UnknownPlaceholderError
	return errors.As(err, &target)
}

// IsMalformedPlaceholder checks if err is or wraps a malformed placeholder error
func IsMalformedPlaceholder(err error) bool {
	var target *MalformedPlaceholderError
	return errors.As(err, &target)
}

// IsFailedInterceptorExecution checks if err is or wraps a value interceptor failure
func IsFailedInterceptorExecution(err error) bool {
	var target *FailedInterceptorExecutionError
	return errors.As(err, &target)
}

// IsDocumentError checks if err is or wraps a document error
func IsDocumentError(err error) bool {
	var target *DocumentError
	return errors.As(err, &target)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
