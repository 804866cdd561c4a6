package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Failure taxonomy. Only ErrConfiguration aborts a whole run; every
// other kind degrades to a partial record and the batch proceeds.
var (
	ErrConfiguration  = errors.New("invalid configuration")
	ErrAcquisition    = errors.New("no extractable content")
	ErrBudgetExceeded = errors.New("token budget exceeded")
	ErrTransport      = errors.New("backend transport failure")
	ErrResponseFormat = errors.New("malformed model response")
	ErrFileSystemRace = errors.New("rename target occupied")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ErrorKind maps an error to its taxonomy label for reporting sinks.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrAcquisition):
		return "acquisition"
	case errors.Is(err, ErrBudgetExceeded):
		return "budget_exceeded"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrResponseFormat):
		return "response_format"
	case errors.Is(err, ErrFileSystemRace):
		return "filesystem_race"
	default:
		return "internal"
	}
}
