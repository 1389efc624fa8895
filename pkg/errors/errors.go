package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCanceled     ErrorCode = "CANCELED"

	// Registry and filesystem state errors
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrConflict      ErrorCode = "CONFLICT"
	ErrStateMismatch ErrorCode = "STATE_MISMATCH"
	ErrIOFailure     ErrorCode = "IO_FAILURE"
	ErrSchema        ErrorCode = "SCHEMA"
	ErrValidation    ErrorCode = "VALIDATION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigSave  ErrorCode = "CONFIG_SAVE"
)

// Detail keys shared by callers that inspect error details
const (
	DetailPath     = "path"
	DetailOp       = "op"
	DetailModID    = "mod"
	DetailFailures = "failures"
)

// FmmError represents a structured error with code and details
type FmmError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *FmmError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *FmmError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *FmmError) Is(target error) bool {
	var targetErr *FmmError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new FmmError with the given code and message
func New(code ErrorCode, message string) *FmmError {
	return &FmmError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new FmmError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *FmmError {
	return &FmmError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an FmmError
func Wrap(err error, code ErrorCode, message string) *FmmError {
	if err == nil {
		return nil
	}
	return &FmmError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FmmError {
	if err == nil {
		return nil
	}
	return &FmmError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *FmmError) WithDetail(key string, value interface{}) *FmmError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *FmmError) WithDetails(details map[string]interface{}) *FmmError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IOFailure reports a filesystem operation that failed on path.
func IOFailure(err error, op, path string) *FmmError {
	if err == nil {
		return nil
	}
	return Wrapf(err, ErrIOFailure, "%s %s", op, path).
		WithDetail(DetailOp, op).
		WithDetail(DetailPath, path)
}

// Aggregate folds the failures of a multi-file operation into one error
// carrying code. Nil entries are skipped; it returns nil when nothing failed.
func Aggregate(code ErrorCode, message string, errs []error) error {
	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return Wrapf(errors.Join(failed...), code, "%s (%d failures)", message, len(failed)).
		WithDetail(DetailFailures, len(failed))
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var fmmErr *FmmError
	if errors.As(err, &fmmErr) {
		return fmmErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an FmmError
func GetErrorCode(err error) ErrorCode {
	var fmmErr *FmmError
	if errors.As(err, &fmmErr) {
		return fmmErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an FmmError
func GetErrorDetails(err error) map[string]interface{} {
	var fmmErr *FmmError
	if errors.As(err, &fmmErr) {
		return fmmErr.Details
	}
	return nil
}

// IsRetryable reports whether repeating the operation unchanged can succeed.
// A state mismatch needs a reconcile first and a schema error needs a
// human, so neither is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch GetErrorCode(err) {
	case ErrStateMismatch, ErrSchema, ErrValidation, ErrNotFound:
		return false
	}
	return true
}
