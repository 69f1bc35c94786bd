package pokeapi

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
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/jonathan/smile-fortune/internal/logging"
	"github.com/jonathan/smile-fortune/internal/metrics"
	"github.com/jonathan/smile-fortune/internal/schemas"
)

// DefaultBaseURL is the public PokeAPI v2 root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "SmileFortune/1.0 (+https://pokeapi.co)"

// Endpoint names.
const (
	EndpointPokemon = "pokemon"
	EndpointSpecies = "pokemon-species"
)

// Config configures the client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// BreakerFailures consecutive upstream failures open the breaker.
	BreakerFailures uint32
	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration
	// BreakerMaxRequests is the number of probes allowed while half-open.
	BreakerMaxRequests uint32
}

// DefaultConfig returns sensible defaults for the public API.
func DefaultConfig() Config {
	return Config{
		BaseURL:            DefaultBaseURL,
		Timeout:            DefaultTimeout,
		UserAgent:          DefaultUserAgent,
		BreakerFailures:    5,
		BreakerTimeout:     30 * time.Second,
		BreakerMaxRequests: 1,
	}
}

// Client fetches Pokemon and species resources. It is safe for concurrent use.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker[[]byte]
	logger    zerolog.Logger
}

// NewClient creates a client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = defaults.BreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = defaults.BreakerTimeout
	}
	if cfg.BreakerMaxRequests == 0 {
		cfg.BreakerMaxRequests = defaults.BreakerMaxRequests
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      httpClient,
		logger:    logging.WithComponent("pokeapi"),
	}
	c.breaker = newBreaker(cfg, c.logger)
	return c
}

func newBreaker(cfg Config, logger zerolog.Logger) *gobreaker.CircuitBreaker[[]byte] {
	metrics.CircuitBreakerState.WithLabelValues("pokeapi").Set(float64(gobreaker.StateClosed))

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "pokeapi",
		MaxRequests: cfg.BreakerMaxRequests,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		// 4xx responses say nothing about upstream health.
		IsSuccessful: func(err error) bool {
			var se *statusError
			if errors.As(err, &se) {
				return se.code < 500
			}
			if errors.Is(err, context.Canceled) {
				return true
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
}

// Pokemon fetches /pokemon/{id}.
func (c *Client) Pokemon(ctx context.Context, id string) (*Pokemon, error) {
	var p Pokemon
	if err := c.fetch(ctx, EndpointPokemon, id, schemas.Pokemon, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Species fetches /pokemon-species/{id}.
func (c *Client) Species(ctx context.Context, id string) (*Species, error) {
	var s Species
	if err := c.fetch(ctx, EndpointSpecies, id, schemas.Species, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// BreakerState returns the current circuit breaker state name.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

func (c *Client) fetch(ctx context.Context, endpoint, id, schema string, out any) error {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return &Error{Endpoint: endpoint, ID: id, Message: "empty identifier"}
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, endpoint, id)
	})
	outcome := "ok"
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(endpoint, outcome).Observe(time.Since(start).Seconds())
	}()

	if err != nil {
		outcome = "error"
		fetchErr := &Error{Endpoint: endpoint, ID: id, Message: "request failed", Cause: err}
		var se *statusError
		switch {
		case errors.As(err, &se):
			fetchErr.StatusCode = se.code
			fetchErr.Message = se.Error()
			fetchErr.Cause = nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			outcome = "rejected"
			fetchErr.Message = "circuit breaker open"
		}
		return fetchErr
	}

	if err := schemas.ValidateBytes(schema, body); err != nil {
		outcome = "malformed"
		return &Error{Endpoint: endpoint, ID: id, StatusCode: http.StatusOK, Message: "malformed response", Cause: err}
	}

	if err := json.Unmarshal(body, out); err != nil {
		outcome = "malformed"
		return &Error{Endpoint: endpoint, ID: id, StatusCode: http.StatusOK, Message: "failed to decode response", Cause: err}
	}

	c.logger.Debug().Str("endpoint", endpoint).Str("id", id).Dur("elapsed", time.Since(start)).Msg("fetched")
	return nil
}

func (c *Client) get(ctx context.Context, endpoint, id string) ([]byte, error) {
	u := fmt.Sprintf("%s/%s/%s", c.baseURL, endpoint, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
