package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Dataset DatasetConfig `yaml:"dataset" envconfig:"DATASET"`
}

// ServerConfig contains dashboard HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	OpenBrowser     bool            `yaml:"open_browser" envconfig:"OPEN_BROWSER" default:"true"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig controls the per-client API request throttle.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig controls log level, encoding and destination.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stderr"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/epipulse.log"`
}

// DatasetConfig contains dataset source configuration
type DatasetConfig struct {
	DownloadURL     string        `yaml:"download_url" envconfig:"DOWNLOAD_URL" default:"https://raw.githubusercontent.com/owid/covid-19-data/master/public/data/owid-covid-data.csv"`
	DownloadTimeout time.Duration `yaml:"download_timeout" envconfig:"DOWNLOAD_TIMEOUT" default:"10m"`
}

// Load loads configuration from environment variables and config file.
// Environment variables (EPIPULSE_ prefix) and struct defaults take
// precedence; an optional config.yaml fills remaining gaps.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("EPIPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the built-in configuration, used when no environment or
// file overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultServerPort,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: DefaultShutdownTimeout,
			OpenBrowser:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "stderr",
			FilePath: "logs/epipulse.log",
		},
		Dataset: DatasetConfig{
			DownloadURL:     DefaultDownloadURL,
			DownloadTimeout: DefaultDownloadTimeout,
		},
	}
}

// loadFromFile reads configuration from a YAML file
func loadFromFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// mergeConfigs fills zero-valued fields of the env-derived config from the
// file config. Fields already set by environment or defaults win.
func mergeConfigs(fileConfig, envConfig Config) Config {
	// Server config
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Server.WriteTimeout == 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if envConfig.Server.IdleTimeout == 0 {
		envConfig.Server.IdleTimeout = fileConfig.Server.IdleTimeout
	}
	if envConfig.Server.ShutdownTimeout == 0 {
		envConfig.Server.ShutdownTimeout = fileConfig.Server.ShutdownTimeout
	}
	if envConfig.Server.RateLimit.RPS == 0 {
		envConfig.Server.RateLimit.RPS = fileConfig.Server.RateLimit.RPS
	}
	if envConfig.Server.RateLimit.Burst == 0 {
		envConfig.Server.RateLimit.Burst = fileConfig.Server.RateLimit.Burst
	}

	// Logging config
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}

	// Dataset config
	if envConfig.Dataset.DownloadURL == "" {
		envConfig.Dataset.DownloadURL = fileConfig.Dataset.DownloadURL
	}
	if envConfig.Dataset.DownloadTimeout == 0 {
		envConfig.Dataset.DownloadTimeout = fileConfig.Dataset.DownloadTimeout
	}

	return envConfig
}

// validate checks ranges and normalizes the logging enums in place.
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		c.Logging.Format = DefaultLogFormat
	}

	switch strings.ToLower(c.Logging.Output) {
	case "stderr", "file", "both":
	default:
		c.Logging.Output = "stderr"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/epipulse.log"
	}

	if c.Dataset.DownloadURL == "" {
		return fmt.Errorf("dataset download URL must not be empty")
	}

	if c.Dataset.DownloadTimeout <= 0 {
		return fmt.Errorf("dataset download timeout must be positive")
	}

	return nil
}

// getConfigFilePath returns the path to the config file, or empty when none
// of the common locations has one.
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		filepath.Join("configs", "config.yaml"),
	}

	if paths, err := GetPaths(); err == nil {
		locations = append(locations, filepath.Join(paths.ExecutableDir, "config.yaml"))
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}
