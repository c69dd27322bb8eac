package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{
			name:     "file access error type",
			errType:  ErrTypeFileAccess,
			expected: "FILE_ACCESS",
		},
		{
			name:     "empty dataset error type",
			errType:  ErrTypeEmptyDataset,
			expected: "EMPTY_DATASET",
		},
		{
			name:     "parse error type",
			errType:  ErrTypeParse,
			expected: "PARSE",
		},
		{
			name:     "network error type",
			errType:  ErrTypeNetwork,
			expected: "NETWORK",
		},
		{
			name:     "presentation error type",
			errType:  ErrTypePresentation,
			expected: "PRESENTATION",
		},
		{
			name:     "validation error type",
			errType:  ErrTypeValidation,
			expected: "VALIDATION",
		},
		{
			name:     "not found error type",
			errType:  ErrTypeNotFound,
			expected: "NOT_FOUND",
		},
		{
			name:     "config error type",
			errType:  ErrTypeConfig,
			expected: "CONFIG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeNetwork,
				Message: "download failed",
				Cause:   fmt.Errorf("connection refused"),
			},
			expected: "[NETWORK] download failed: connection refused",
		},
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeEmptyDataset,
				Message: "no rows",
			},
			expected: "[EMPTY_DATASET] no rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying failure")
	err := NewAppError(ErrTypeFileAccess, "cannot open file", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))

	var appErr *AppError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &appErr))
	assert.Equal(t, ErrTypeFileAccess, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewAppError(ErrTypeParse, "bad date", nil).
		WithContext("row", 42).
		WithContext("column", "date")

	assert.Equal(t, 42, err.Context["row"])
	assert.Equal(t, "date", err.Context["column"])
}

func TestNewFileAccessError(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewFileAccessError("data/owid-covid-data.csv", cause)

	assert.Equal(t, ErrTypeFileAccess, err.Type)
	assert.Contains(t, err.Error(), "data/owid-covid-data.csv")
	assert.Contains(t, err.Error(), "permission denied")
	assert.Equal(t, "data/owid-covid-data.csv", err.Context["path"])
}

func TestNewEmptyDatasetError(t *testing.T) {
	err := NewEmptyDatasetError("data/owid-covid-data.csv")

	assert.Equal(t, ErrTypeEmptyDataset, err.Type)
	assert.Contains(t, err.Message, "no rows")
	assert.Nil(t, err.Cause)
}

func TestNewPresentationError(t *testing.T) {
	cause := errors.New("render fault")
	err := NewPresentationError("chart", "failed to render trend chart", cause)

	assert.Equal(t, ErrTypePresentation, err.Type)
	assert.Equal(t, "chart", err.Context["surface"])
	assert.True(t, errors.Is(err, cause))
}

func TestIsType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		errType  ErrorType
		expected bool
	}{
		{
			name:     "direct match",
			err:      NewEmptyDatasetError("x.csv"),
			errType:  ErrTypeEmptyDataset,
			expected: true,
		},
		{
			name:     "wrapped match",
			err:      fmt.Errorf("pipeline: %w", NewParseError("bad date", nil)),
			errType:  ErrTypeParse,
			expected: true,
		},
		{
			name:     "type mismatch",
			err:      NewNetworkError("fetch failed", nil),
			errType:  ErrTypeParse,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			errType:  ErrTypeNetwork,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsType(tt.err, tt.errType))
		})
	}
}
