package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Error codes used across the ingestion and reporting boundary.
// Statistically undefined results are never errors; they surface as
// absent values instead.
const (
	CodeInternal       = "INTERNAL_ERROR"
	CodeMalformedInput = "MALFORMED_INPUT"
	CodeEmptyDataset   = "EMPTY_DATASET"
	CodeReadFailed     = "READ_FAILED"
	CodeFetchFailed    = "FETCH_FAILED"
	CodeGenerator      = "GENERATOR_ERROR"
)
