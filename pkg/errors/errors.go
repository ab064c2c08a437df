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

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrRootNotFound  ErrorCode = "ROOT_NOT_FOUND"
	ErrDestNotDir    ErrorCode = "DEST_NOT_DIR"
	ErrEmptyName     ErrorCode = "EMPTY_NAME"

	// Rule errors
	ErrRuleInvalid ErrorCode = "RULE_INVALID"

	// FileSystem errors
	ErrDirList   ErrorCode = "DIR_LIST"
	ErrDirCreate ErrorCode = "DIR_CREATE"
	ErrFileCopy  ErrorCode = "FILE_COPY"
	ErrFileHash  ErrorCode = "FILE_HASH"

	// Integrity errors
	ErrHashMismatch ErrorCode = "HASH_MISMATCH"

	// Run coordination errors
	ErrLocked ErrorCode = "LOCKED"
)

// FlatError represents a structured error with code and details
type FlatError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *FlatError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *FlatError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *FlatError) Is(target error) bool {
	var targetErr *FlatError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new FlatError with the given code and message
func New(code ErrorCode, message string) *FlatError {
	return &FlatError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new FlatError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *FlatError {
	return &FlatError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a FlatError
func Wrap(err error, code ErrorCode, message string) *FlatError {
	if err == nil {
		return nil
	}
	return &FlatError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FlatError {
	if err == nil {
		return nil
	}
	return &FlatError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *FlatError) WithDetail(key string, value interface{}) *FlatError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *FlatError) WithDetails(details map[string]interface{}) *FlatError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var flatErr *FlatError
	if errors.As(err, &flatErr) {
		return flatErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a FlatError
func GetErrorCode(err error) ErrorCode {
	var flatErr *FlatError
	if errors.As(err, &flatErr) {
		return flatErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a FlatError
func GetErrorDetails(err error) map[string]interface{} {
	var flatErr *FlatError
	if errors.As(err, &flatErr) {
		return flatErr.Details
	}
	return nil
}
