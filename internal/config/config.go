// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
// It is immutable after LoadWithKoanf returns and safe for concurrent reads.
type Config struct {
	Database   DatabaseConfig   `koanf:"database"`
	Provider   ProviderConfig   `koanf:"provider"`
	Enrich     EnrichConfig     `koanf:"enrich"`
	Journal    JournalConfig    `koanf:"journal"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Server     ServerConfig     `koanf:"server"`
	API        APIConfig        `koanf:"api"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// DatabaseConfig configures the DuckDB entity store.
type DatabaseConfig struct {
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory" validate:"required"`
	Threads   int    `koanf:"threads" validate:"min=0,max=256"` // 0 = runtime.NumCPU()
}

// ProviderConfig configures the TMDB metadata provider client.
type ProviderConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	APIKey  string `koanf:"api_key"`

	// Timeout bounds every provider request. The client never retries.
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond throttles outgoing calls (0 = unlimited).
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"min=0"`
	Burst             int     `koanf:"burst" validate:"min=0"`

	// BreakerEnabled wraps the client in a circuit breaker.
	BreakerEnabled bool `koanf:"breaker_enabled"`
}

// EnrichConfig configures the background enrichment worker pool.
type EnrichConfig struct {
	// MaxInFlight is the number of workers, i.e. the maximum number of
	// enrichment tasks running at once.
	MaxInFlight int `koanf:"max_in_flight" validate:"min=1,max=256"`

	// QueueSize bounds the task channel. Submissions beyond it are dropped
	// (and left pending in the journal when it is enabled).
	QueueSize int `koanf:"queue_size" validate:"min=1,max=100000"`

	// TaskTimeout bounds a single task including its store writes.
	TaskTimeout time.Duration `koanf:"task_timeout"`

	// DrainTimeout bounds how long shutdown waits for queued tasks.
	DrainTimeout time.Duration `koanf:"drain_timeout"`

	// Coalesce shares one provider fetch between concurrent misses for the same id.
	Coalesce bool `koanf:"coalesce"`
}

// JournalConfig configures the badger-backed enrichment task journal.
type JournalConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"`
	SyncWrites bool   `koanf:"sync_writes"`

	// MaxAttempts is how many times a pending task is replayed before it
	// is discarded.
	MaxAttempts int `koanf:"max_attempts" validate:"min=1"`

	// RetryInterval is how often pending tasks not currently queued are
	// resubmitted. GCInterval is how often the value log is collected.
	RetryInterval time.Duration `koanf:"retry_interval"`
	GCInterval    time.Duration `koanf:"gc_interval"`
}

// RecommendConfig configures the genre-affinity recommendation engine.
type RecommendConfig struct {
	DefaultLimit int     `koanf:"default_limit" validate:"min=1"`
	MaxLimit     int     `koanf:"max_limit" validate:"min=1"`
	MinRating    float64 `koanf:"min_rating" validate:"min=0,max=10"`
	TopGenres    int     `koanf:"top_genres" validate:"min=1,max=10"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig holds list and pagination limits.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size" validate:"min=1"`
	MaxPageSize     int `koanf:"max_page_size" validate:"min=1"`

	// CacheTTL bounds how long aggregate responses (analytics, genre counts,
	// top lists) are reused. Zero disables the cache. Movie and actor details
	// are never cached here.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// SecurityConfig holds CORS and rate limiting settings.
// There is no authentication; favorites are keyed by client address.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	Caller bool `koanf:"caller"`
}

// SupervisorConfig configures the suture supervisor tree.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}
