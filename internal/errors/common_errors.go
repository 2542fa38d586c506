package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeInvalidArgument ErrorType = "INVALID_ARGUMENT"
	ErrTypeUnknownFeature  ErrorType = "UNKNOWN_FEATURE"
	ErrTypeParsing         ErrorType = "PARSING"
	ErrTypeValidation      ErrorType = "VALIDATION"
	ErrTypeConfig          ErrorType = "CONFIG"
)

// Sentinels for errors.Is. Any AppError of the same type matches.
var (
	ErrInvalidArgument = &AppError{Type: ErrTypeInvalidArgument}
	ErrUnknownFeature  = &AppError{Type: ErrTypeUnknownFeature}
	ErrParsing         = &AppError{Type: ErrTypeParsing}
	ErrValidation      = &AppError{Type: ErrTypeValidation}
	ErrConfig          = &AppError{Type: ErrTypeConfig}
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError carrying the same type
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewInvalidArgument creates an error for structurally invalid input
func NewInvalidArgument(format string, args ...interface{}) *AppError {
	return NewAppError(ErrTypeInvalidArgument, fmt.Sprintf(format, args...), nil)
}

// NewUnknownFeature creates an error for a feature name outside the closed set
func NewUnknownFeature(name string) *AppError {
	return NewAppError(ErrTypeUnknownFeature, fmt.Sprintf("unknown feature %q", name), nil).
		WithContext("feature", name)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
