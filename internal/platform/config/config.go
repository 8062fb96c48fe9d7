// Package config provides configuration loading and management using koanf.
package config

import (
	"time"
)

// Defaults referenced outside the defaults table.
const (
	DefaultServerPort             = 8080
	DefaultClientRetryMaxAttempts = 3
	DefaultSyncInterval           = 30 * time.Second
	DefaultSyncFetchTimeout       = 20 * time.Second

	// DefaultSourceBaseURL serves the default "placeholder" source.
	DefaultSourceBaseURL = "https://jsonplaceholder.typicode.com"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Storage   StorageConfig   `koanf:"storage"   validate:"required"`
	Sync      SyncConfig      `koanf:"sync"      validate:"required"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// StorageConfig selects and configures the durable slot store.
type StorageConfig struct {
	// Driver is the backend: file (one JSON file per slot), sqlite, or memory.
	Driver string `koanf:"driver" validate:"required,oneof=file sqlite memory"`

	// Path is the directory (file driver) or database file (sqlite driver).
	// Empty resolves under the XDG data directory.
	Path string `koanf:"path"`
}

// SyncConfig controls the periodic reconciliation against remote sources.
type SyncConfig struct {
	Enabled      bool           `koanf:"enabled"`
	Interval     time.Duration  `koanf:"interval"      validate:"required,min=1s"`
	FetchTimeout time.Duration  `koanf:"fetch_timeout" validate:"omitempty,min=100ms"`
	Sources      []SourceConfig `koanf:"sources"       validate:"required_if=Enabled true,unique=Name,dive"`
}

// SourceConfig describes one remote quote source.
type SourceConfig struct {
	Name    string `koanf:"name"     validate:"required"`
	BaseURL string `koanf:"base_url" validate:"required,url"`
	Path    string `koanf:"path"     validate:"required,startswith=/"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	Level      string `koanf:"level"       validate:"omitempty,oneof=trace debug info warn error"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig contains HTTP client settings for downstream services.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"         validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"      validate:"required,min=1s"`
}
