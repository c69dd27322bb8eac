package config

import "time"

// Application constants for the EpiPulse pipeline
const (
	// Application Info
	AppName = "EpiPulse"

	// Dataset file layout (relative to the executable or working directory)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultReportsDir = "data/reports"
	DataFileName      = "owid-covid-data.csv"

	// Well-known report files
	TrendsChartFileName  = "global-trends.html"
	SnapshotCSVFileName  = "latest-snapshot.csv"
	SnapshotJSONFileName = "latest-snapshot.json"
	SnapshotXLSXFileName = "latest-snapshot.xlsx"

	// Remote dataset source
	DefaultDownloadURL = "https://raw.githubusercontent.com/owid/covid-19-data/master/public/data/owid-covid-data.csv"

	// Network timeouts. The source file is a few hundred megabytes, so the
	// download window is generous.
	DefaultDownloadTimeout = 10 * time.Minute

	// Rate limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Log settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	// Server
	DefaultServerPort      = 8080
	DefaultShutdownTimeout = 30 * time.Second

	// HTTP mount points outside the dashboard router
	APIBasePath     = "/api"
	HealthEndpoint  = "/api/healthz"
	MetricsEndpoint = "/metrics"
)
