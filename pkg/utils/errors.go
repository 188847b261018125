package utils

import (
	"context"
	"errors"
	"fmt"
	"syscall"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeIO          ErrorType = "io"
	ErrorTypeUnsupported ErrorType = "unsupported"
	ErrorTypeUnavailable ErrorType = "unavailable"
	ErrorTypeCommand     ErrorType = "command"
	ErrorTypeTimeout     ErrorType = "timeout"
	ErrorTypeMalformed   ErrorType = "malformed"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeFatal       ErrorType = "fatal"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type
	}
	return false
}

// NewError creates a new application error
func NewError(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewError(ErrorTypeValidation, message, cause)
}

// NewIOError creates an I/O error
func NewIOError(message string, cause error) *AppError {
	return NewError(ErrorTypeIO, message, cause)
}

// NewUnavailableError reports a converter that cannot be executed
func NewUnavailableError(message string, cause error) *AppError {
	return NewError(ErrorTypeUnavailable, message, cause)
}

// NewCommandError reports a converter that ran and failed
func NewCommandError(message string, cause error) *AppError {
	return NewError(ErrorTypeCommand, message, cause)
}

// NewMalformedError reports an unreadable archive or invalid XML
func NewMalformedError(message string, cause error) *AppError {
	return NewError(ErrorTypeMalformed, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string, cause error) *AppError {
	return NewError(ErrorTypeNotFound, message, cause)
}

// NewFatalError creates an error that extraction must not swallow
func NewFatalError(message string, cause error) *AppError {
	return NewError(ErrorTypeFatal, message, cause)
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}

	// Keep the original type unless explicitly overridden
	var appErr *AppError
	if errors.As(err, &appErr) && errorType == "" {
		return &AppError{
			Type:    appErr.Type,
			Message: message + ": " + appErr.Message,
			Cause:   appErr.Cause,
		}
	}

	if errorType == "" {
		errorType = classifyError(err)
	}

	// A fatal cause stays fatal whatever the caller asked for
	if IsFatal(err) {
		errorType = ErrorTypeFatal
	}

	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   err,
	}
}

// classifyError classifies a foreign error
func classifyError(err error) ErrorType {
	switch {
	case IsFatal(err):
		return ErrorTypeFatal
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeTimeout
	case errors.Is(err, syscall.ENOENT):
		return ErrorTypeNotFound
	default:
		return ErrorTypeIO
	}
}

// resourceExhaustion lists errnos meaning the host ran out of something
var resourceExhaustion = []error{
	syscall.ENOMEM,
	syscall.EAGAIN,
	syscall.EMFILE,
	syscall.ENFILE,
	syscall.ENOSPC,
}

// IsFatal reports whether err belongs to the non-recoverable partition:
// explicit fatal errors, cancellation of the caller's context (process
// termination) and resource exhaustion.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Type == ErrorTypeFatal {
		return true
	}

	if errors.Is(err, context.Canceled) {
		return true
	}

	for _, errno := range resourceExhaustion {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// IsRecoverable reports whether extraction may fold err into "no text"
func IsRecoverable(err error) bool {
	return err != nil && !IsFatal(err)
}

// GetErrorType extracts the error type from an error
func GetErrorType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return classifyError(err)
}
