// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinecache/internal/config"
	"github.com/tomtom215/cinecache/internal/logging"
	"github.com/tomtom215/cinecache/internal/metrics"
	"github.com/tomtom215/cinecache/internal/models"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

const (
	opMovie  = "movie"
	opPerson = "person"
)

// Fetcher is the provider surface used by the enrichment orchestrator.
type Fetcher interface {
	FetchMovie(ctx context.Context, externalID int64) (*models.RawMovie, error)
	FetchActor(ctx context.Context, externalID int64) (*models.RawActor, error)
}

// Client is a TMDB client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter                     // nil when unthrottled
	breaker    *gobreaker.CircuitBreaker[[]byte] // nil when disabled
	name       string
}

// New creates a client from cfg.
func New(cfg *config.ProviderConfig) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		name: "tmdb-api",
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	if cfg.BreakerEnabled {
		c.breaker = newBreaker(c.name)
	}
	return c
}

// FetchMovie fetches a movie with its credits and videos.
func (c *Client) FetchMovie(ctx context.Context, externalID int64) (*models.RawMovie, error) {
	body, err := c.get(ctx, opMovie, externalID, "credits,videos")
	if err != nil {
		return nil, err
	}

	var raw models.RawMovie
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &models.ProviderError{Op: opMovie, ExternalID: externalID, StatusCode: http.StatusOK,
			Kind: models.ErrMalformedResponse, Err: fmt.Errorf("decode: %w", err)}
	}
	if raw.ID == 0 || strings.TrimSpace(raw.Title) == "" {
		return nil, &models.ProviderError{Op: opMovie, ExternalID: externalID, StatusCode: http.StatusOK,
			Kind: models.ErrMalformedResponse, Err: errors.New("missing id or title")}
	}
	raw.Genres = models.NormalizeGenres(raw.Genres)
	return &raw, nil
}

// FetchActor fetches a person with their movie credits and images.
func (c *Client) FetchActor(ctx context.Context, externalID int64) (*models.RawActor, error) {
	body, err := c.get(ctx, opPerson, externalID, "movie_credits,images")
	if err != nil {
		return nil, err
	}

	var raw models.RawActor
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &models.ProviderError{Op: opPerson, ExternalID: externalID, StatusCode: http.StatusOK,
			Kind: models.ErrMalformedResponse, Err: fmt.Errorf("decode: %w", err)}
	}
	if raw.ID == 0 || strings.TrimSpace(raw.Name) == "" {
		return nil, &models.ProviderError{Op: opPerson, ExternalID: externalID, StatusCode: http.StatusOK,
			Kind: models.ErrMalformedResponse, Err: errors.New("missing id or name")}
	}
	return &raw, nil
}

// get performs one GET of /{op}/{id} and returns the 2xx body.
func (c *Client) get(ctx context.Context, op string, externalID int64, appendTo string) ([]byte, error) {
	if c.breaker == nil {
		body, err := c.do(ctx, op, externalID, appendTo)
		var abort *callerAbortError
		if errors.As(err, &abort) {
			return nil, abort.err
		}
		return body, err
	}

	if err := ctx.Err(); err != nil {
		return nil, &models.ProviderError{Op: op, ExternalID: externalID,
			Kind: models.ErrProviderUnavailable, Err: err}
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		body, err := c.do(ctx, op, externalID, appendTo)
		var abort *callerAbortError
		if err != nil && ctx.Err() != nil && !errors.As(err, &abort) {
			return nil, &callerAbortError{err: err}
		}
		return body, err
	})
	var abort *callerAbortError
	if errors.As(err, &abort) {
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "canceled").Inc()
		return nil, abort.err
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
		logging.Warn().Err(err).Str("op", op).Int64("external_id", externalID).
			Msg("[CIRCUIT BREAKER] Request rejected")
		return nil, &models.ProviderError{Op: op, ExternalID: externalID,
			Kind: models.ErrProviderUnavailable, Err: err}
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
	return body, err
}

func (c *Client) do(ctx context.Context, op string, externalID int64, appendTo string) ([]byte, error) {
	fail := func(status int, kind, cause error) error {
		return &models.ProviderError{Op: op, ExternalID: externalID, StatusCode: status, Kind: kind, Err: cause}
	}

	if c.limiter != nil {
		// Wait fails only when ctx ends or its deadline is too close.
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &callerAbortError{err: fail(0, models.ErrProviderUnavailable, fmt.Errorf("rate limiter: %w", err))}
		}
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("append_to_response", appendTo)
	reqURL := fmt.Sprintf("%s/%s/%d?%s", c.baseURL, op, externalID, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fail(0, models.ErrProviderUnavailable, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordProviderRequest(op, 0, time.Since(start))
		return nil, fail(0, models.ErrProviderUnavailable, fmt.Errorf("HTTP request failed: %w", redactKey(err, c.apiKey)))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	metrics.RecordProviderRequest(op, resp.StatusCode, time.Since(start))
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fail(resp.StatusCode, models.ErrNotFound, nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fail(resp.StatusCode, models.ErrProviderUnavailable, nil)
	case err != nil:
		return nil, fail(resp.StatusCode, models.ErrProviderUnavailable, fmt.Errorf("read body: %w", err))
	}
	return body, nil
}

// redactedError hides the API key in the message of a transport error
// while keeping the cause reachable through errors.Is.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// redactKey removes the API key from transport errors, which embed the URL.
func redactKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, "REDACTED"), err: err}
}
