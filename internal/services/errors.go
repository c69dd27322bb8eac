package services

import "errors"

// Dashboard service errors
var (
	// Data readiness errors
	ErrDataNotReady = errors.New("dataset not loaded yet")

	// Country lookup errors
	ErrCountryNotFound = errors.New("country not found")

	// Trend errors
	ErrNoTrendData = errors.New("no trend data available")
)
