// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/cinecache/internal/validation"
)

// Provider timeout bounds. Requests are never retried, so the timeout is
// the whole budget a cache miss can spend waiting on TMDB.
const (
	minProviderTimeout = 5 * time.Second
	maxProviderTimeout = 10 * time.Second
)

// Rate limit bounds.
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// Validate checks struct tags and then the cross-field rules.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validateEnrich(); err != nil {
		return err
	}
	if err := c.validateJournal(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateProvider() error {
	if c.Provider.Timeout < minProviderTimeout || c.Provider.Timeout > maxProviderTimeout {
		return fmt.Errorf("TMDB_TIMEOUT must be between %v and %v", minProviderTimeout, maxProviderTimeout)
	}
	if c.Provider.RequestsPerSecond > 0 && c.Provider.Burst < 1 {
		return fmt.Errorf("TMDB_BURST must be at least 1 when TMDB_REQUESTS_PER_SECOND is set")
	}
	return nil
}

func (c *Config) validateEnrich() error {
	if c.Enrich.TaskTimeout < c.Provider.Timeout {
		return fmt.Errorf("ENRICH_TASK_TIMEOUT (%v) must not be shorter than TMDB_TIMEOUT (%v)",
			c.Enrich.TaskTimeout, c.Provider.Timeout)
	}
	if c.Enrich.DrainTimeout <= 0 {
		return fmt.Errorf("ENRICH_DRAIN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateJournal() error {
	if !c.Journal.Enabled {
		return nil
	}
	if c.Journal.Path == "" {
		return fmt.Errorf("JOURNAL_PATH is required when JOURNAL_ENABLED is true")
	}
	if c.Journal.RetryInterval < time.Second {
		return fmt.Errorf("JOURNAL_RETRY_INTERVAL must be at least 1s, got %v", c.Journal.RetryInterval)
	}
	if c.Journal.GCInterval < time.Minute {
		return fmt.Errorf("JOURNAL_GC_INTERVAL must be at least 1m, got %v", c.Journal.GCInterval)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.DefaultLimit > c.Recommend.MaxLimit {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT (%d) must not exceed RECOMMEND_MAX_LIMIT (%d)",
			c.Recommend.DefaultLimit, c.Recommend.MaxLimit)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE (%d) must not exceed API_MAX_PAGE_SIZE (%d)",
			c.API.DefaultPageSize, c.API.MaxPageSize)
	}
	if c.API.CacheTTL < 0 {
		return fmt.Errorf("API_CACHE_TTL must not be negative")
	}
	return nil
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// HasWildcardCORS reports whether any origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
