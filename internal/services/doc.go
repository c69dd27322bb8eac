// Package services implements the business logic layer between the HTTP
// handlers and the pipeline output. Handlers stay thin; every payload the
// dashboard API serves is shaped here.
//
// # Architecture
//
// The package exposes a single DashboardService that holds the immutable
// result of the last pipeline run behind a read/write mutex. The server
// installs a result once at startup (and again after any re-run); request
// goroutines only ever read, so concurrent access is cheap and safe.
//
// # Common Service Pattern
//
// Services follow the constructor-injection shape used across the codebase:
//
//	service := services.NewDashboardService(logger)
//	service.SetResult(result)
//
//	options, err := service.Countries(ctx)
//	if err != nil {
//	    // map to a problem response in the handler
//	}
//
// # Error Handling
//
// Services return package-level sentinel errors (ErrDataNotReady,
// ErrCountryNotFound, ErrNoTrendData) that handlers translate into HTTP
// problem responses. Sentinels keep the service layer free of transport
// concerns.
package services
