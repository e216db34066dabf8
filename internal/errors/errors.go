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

// Wrap wraps an error with additional context, keeping the code of an inner AppError.
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
		Code:    CodeInternalError,
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

// WithCode attaches code to err, replacing any existing code.
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeNotFound      = "NOT_FOUND"
	CodeInternalError = "INTERNAL_ERROR"
	CodeInvalidInput  = "INVALID_INPUT"
)

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
