// Package base provides the shared HTTP client infrastructure for the Ghost
// Content API: a tuned transport, a concurrency limit, a circuit breaker and
// trace-context propagation. Each call makes exactly one attempt.
package base

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/olgasafonova/ghost-content-mcp-server/internal/infra"
	"github.com/olgasafonova/ghost-content-mcp-server/metrics"
	"github.com/olgasafonova/ghost-content-mcp-server/tracing"
)

const (
	// DefaultTimeout for API requests
	DefaultTimeout = 30 * time.Second

	// MaxConcurrentRequests limits parallel API calls
	MaxConcurrentRequests = 5

	// MaxResponseBytes caps how much of a response body is read
	MaxResponseBytes = 32 << 20

	// DefaultUserAgent identifies the server to Ghost sites
	DefaultUserAgent = "ghost-content-mcp-server/1.0 (github.com/olgasafonova/ghost-content-mcp-server)"
)

// Client provides common HTTP client infrastructure with rate limiting and
// circuit breaking.
type Client struct {
	HTTPClient     *http.Client
	Logger         *slog.Logger
	CircuitBreaker *infra.CircuitBreaker
	Semaphore      chan struct{}
	UserAgent      string
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.HTTPClient = c
	}
}

// WithLogger sets a custom logger
func WithLogger(l *slog.Logger) ClientOption {
	return func(client *Client) {
		client.Logger = l
	}
}

// WithTimeout replaces the HTTP client with one using the given timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		if d > 0 {
			client.HTTPClient = newHTTPClient(d)
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(ua string) ClientOption {
	return func(client *Client) {
		if ua != "" {
			client.UserAgent = ua
		}
	}
}

// WithMaxConcurrency sets how many requests may be in flight at once
func WithMaxConcurrency(n int) ClientOption {
	return func(client *Client) {
		if n > 0 {
			client.Semaphore = make(chan struct{}, n)
		}
	}
}

// WithCircuitBreaker sets a custom circuit breaker
func WithCircuitBreaker(cb *infra.CircuitBreaker) ClientOption {
	return func(client *Client) {
		client.CircuitBreaker = cb
	}
}

// NewClient creates a new base client with default settings
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		HTTPClient: newHTTPClient(DefaultTimeout),
		Logger:     slog.Default(),
		CircuitBreaker: infra.NewCircuitBreaker(infra.BreakerConfig{
			OnStateChange: func(s infra.CircuitState) { metrics.SetCircuitState(int(s)) },
		}),
		Semaphore: make(chan struct{}, MaxConcurrentRequests),
		UserAgent: DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Close releases idle connections held by the client
func (c *Client) Close() {
	if c.HTTPClient != nil {
		c.HTTPClient.CloseIdleConnections()
	}
}

// CircuitBreakerStats returns the current circuit breaker state
func (c *Client) CircuitBreakerStats() infra.CircuitBreakerStats {
	return c.CircuitBreaker.Stats()
}

// AcquireSlot blocks until a request slot is available or context is canceled
func (c *Client) AcquireSlot(ctx context.Context) error {
	select {
	case c.Semaphore <- struct{}{}:
		return nil
	default:
	}

	metrics.RateLimitWaits.Inc()
	select {
	case c.Semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context canceled while waiting for a request slot: %w", ctx.Err())
	}
}

// ReleaseSlot releases a request slot
func (c *Client) ReleaseSlot() {
	<-c.Semaphore
}

// CheckCircuitBreaker returns nil if requests are allowed, or an error if the circuit is open
func (c *Client) CheckCircuitBreaker() error {
	if !c.CircuitBreaker.Allow() {
		stats := c.CircuitBreaker.Stats()
		return &infra.ErrCircuitOpen{
			RetryAt:  stats.RetryAt,
			Failures: stats.ConsecutiveFails,
		}
	}
	return nil
}

// Request describes a single GET request
type Request struct {
	URL    string
	Header http.Header
}

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// TransportError reports a request that produced no HTTP response. Its message
// never includes the request URL, because Content API URLs carry the key.
type TransportError struct {
	Err     error
	Timeout bool
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Get performs one GET request through the semaphore and circuit breaker.
// Any HTTP status is returned as a Response; only transport failures, an open
// circuit or an unreadable body produce an error. Requests ended by the
// caller's context are not counted against the site.
func (c *Client) Get(ctx context.Context, r Request) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", unwrapURLError(err))
	}

	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set("User-Agent", c.UserAgent)
	tracing.InjectHeaders(ctx, req.Header)

	// Slot before breaker: a caller canceled while queued must not hold a probe.
	if err := c.AcquireSlot(ctx); err != nil {
		return nil, &TransportError{Err: err, Timeout: errors.Is(err, context.DeadlineExceeded)}
	}
	defer c.ReleaseSlot()

	if err := c.CheckCircuitBreaker(); err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		te := &TransportError{Err: unwrapURLError(err)}
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			te.Timeout = urlErr.Timeout()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			te.Timeout = true
		}
		c.recordTransportFailure(ctx)
		c.Logger.Warn("Content API request failed",
			"path", req.URL.Path,
			"timeout", te.Timeout,
			"canceled", ctx.Err() != nil,
			"error", te.Err)
		return nil, te
	}

	body, err := readAndClose(resp)
	if err != nil {
		c.recordTransportFailure(ctx)
		return nil, &TransportError{
			Err:     fmt.Errorf("failed to read response: %w", err),
			Timeout: errors.Is(err, context.DeadlineExceeded),
		}
	}

	if resp.StatusCode >= 500 {
		c.CircuitBreaker.RecordFailure()
	} else {
		c.CircuitBreaker.RecordSuccess()
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// recordTransportFailure counts a failed attempt against the breaker unless
// the caller's context ended it, in which case any half-open probe is handed back.
func (c *Client) recordTransportFailure(ctx context.Context) {
	if ctx.Err() != nil {
		c.CircuitBreaker.Release()
		return
	}
	c.CircuitBreaker.RecordFailure()
}

// unwrapURLError strips the *url.Error wrapper, whose message embeds the URL.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

// readAndClose reads the response body, up to MaxResponseBytes, and closes it
func readAndClose(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxResponseBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", MaxResponseBytes)
	}
	return body, nil
}

// Truncate shortens a string to at most maxLen bytes, adding "..." if
// truncated. It never splits a UTF-8 sequence.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// newHTTPClient creates an HTTP client with optimized transport settings
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       120 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
