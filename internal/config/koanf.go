// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
// The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinecache/config.yaml",
	"/etc/cinecache/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultProviderBaseURL is the public TMDB v3 API root.
const DefaultProviderBaseURL = "https://api.themoviedb.org/3"

// defaultConfig returns the built-in defaults. They are loaded first and
// overridden by the config file and then the environment.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:      "/data/cinecache.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Provider: ProviderConfig{
			BaseURL:           DefaultProviderBaseURL,
			APIKey:            "",
			Timeout:           8 * time.Second,
			RequestsPerSecond: 40, // TMDB allows roughly 50 req/s per IP
			Burst:             20,
			BreakerEnabled:    true,
		},
		Enrich: EnrichConfig{
			MaxInFlight:  4,
			QueueSize:    256,
			TaskTimeout:  30 * time.Second,
			DrainTimeout: 15 * time.Second,
			Coalesce:     true,
		},
		Journal: JournalConfig{
			Enabled:       false,
			Path:          "/data/journal",
			SyncWrites:    true,
			MaxAttempts:   5,
			RetryInterval: time.Minute,
			GCInterval:    10 * time.Minute,
		},
		Recommend: RecommendConfig{
			DefaultLimit: 15,
			MaxLimit:     100,
			MinRating:    7.0,
			TopGenres:    2,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			CacheTTL:        30 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration in order defaults, file, environment
// and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated string values of known slice paths.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps flat environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Store
	"db_uri":            "database.path",
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Provider
	"tmdb_api_key":             "provider.api_key",
	"tmdb_base":                "provider.base_url",
	"tmdb_timeout":             "provider.timeout",
	"tmdb_requests_per_second": "provider.requests_per_second",
	"tmdb_burst":               "provider.burst",
	"tmdb_breaker_enabled":     "provider.breaker_enabled",

	// Enrichment pool
	"enrich_max_in_flight": "enrich.max_in_flight",
	"enrich_queue_size":    "enrich.queue_size",
	"enrich_task_timeout":  "enrich.task_timeout",
	"enrich_drain_timeout": "enrich.drain_timeout",
	"enrich_coalesce":      "enrich.coalesce",

	// Journal
	"journal_enabled":        "journal.enabled",
	"journal_path":           "journal.path",
	"journal_sync_writes":    "journal.sync_writes",
	"journal_max_attempts":   "journal.max_attempts",
	"journal_retry_interval": "journal.retry_interval",
	"journal_gc_interval":    "journal.gc_interval",

	// Recommendations
	"recommend_default_limit": "recommend.default_limit",
	"recommend_max_limit":     "recommend.max_limit",
	"recommend_min_rating":    "recommend.min_rating",
	"recommend_top_genres":    "recommend.top_genres",

	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",
	"api_cache_ttl":         "api.cache_ttl",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Supervisor
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unknown variables return "" and are skipped by the env provider.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
