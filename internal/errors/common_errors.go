package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType categorizes a failure so callers can dispatch on it without
// string-matching messages.
type ErrorType string

const (
	ErrTypeFileAccess   ErrorType = "FILE_ACCESS"
	ErrTypeEmptyDataset ErrorType = "EMPTY_DATASET"
	ErrTypeParse        ErrorType = "PARSE"
	ErrTypeNetwork      ErrorType = "NETWORK"
	ErrTypePresentation ErrorType = "PRESENTATION"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeConfig       ErrorType = "CONFIG"
)

// AppError is the error currency of the pipeline: a category, a message for
// humans, the wrapped cause and loose key/value context that surfaces as
// problem-response extensions.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext attaches one key/value pair and returns the error for
// chaining.
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewAppError builds an AppError of the given type. Context stays nil until
// WithContext adds something.
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{Type: errType, Message: message, Cause: cause}
}

// IsType reports whether err is (or wraps) an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// NewFileAccessError signals that the dataset path resolved to nothing
// readable. The attempted path travels in the error context.
func NewFileAccessError(path string, cause error) *AppError {
	return NewAppError(ErrTypeFileAccess, fmt.Sprintf("cannot access dataset file %s", path), cause).
		WithContext("path", path)
}

// NewEmptyDatasetError signals a file that parsed but yielded zero rows.
func NewEmptyDatasetError(path string) *AppError {
	return NewAppError(ErrTypeEmptyDataset, fmt.Sprintf("dataset file %s contains no rows", path), nil).
		WithContext("path", path)
}

// NewParseError covers malformed dates and missing required columns.
func NewParseError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParse, message, cause)
}

// NewNetworkError covers transport failures and bad statuses on the
// dataset download.
func NewNetworkError(message string, cause error) *AppError {
	return NewAppError(ErrTypeNetwork, message, cause)
}

// NewPresentationError marks a failure in one output surface (chart,
// console, export). The surface name travels in the error context.
func NewPresentationError(surface, message string, cause error) *AppError {
	return NewAppError(ErrTypePresentation, message, cause).
		WithContext("surface", surface)
}

// NewAppValidationError reports rejected request input.
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError reports a missing resource by name.
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError reports unusable configuration.
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
