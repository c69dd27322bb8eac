// Package app wires the dashboard server together and manages its lifecycle.
// It assembles the dataset pipeline, the dashboard service, the HTTP router
// and the server, then runs them until interrupted.
//
// # Initialization Flow
//
// The entry point loads configuration and builds the logger, then hands both
// to NewApplication, which:
//
//	1. Creates the metrics registry and the dataset pipeline
//	2. Creates the dashboard service and the HTTP error handler
//	3. Builds the router with the full middleware chain
//	4. Creates the HTTP server with the configured timeouts
//
// Run then starts the server, loads the dataset in the background and opens
// the browser once the server answers its own health endpoint. The dashboard
// answers 503 for data endpoints until the background load completes, so the
// page is reachable immediately.
//
// # Shutdown
//
// Run installs handlers for SIGINT and SIGTERM and drains in-flight requests
// within the configured shutdown timeout before returning.
package app
