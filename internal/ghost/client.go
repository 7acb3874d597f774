package ghost

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/olgasafonova/ghost-content-mcp-server/internal/base"
	"github.com/olgasafonova/ghost-content-mcp-server/internal/credentials"
	apierrors "github.com/olgasafonova/ghost-content-mcp-server/internal/errors"
	"github.com/olgasafonova/ghost-content-mcp-server/internal/infra"
	"github.com/olgasafonova/ghost-content-mcp-server/metrics"
	"github.com/olgasafonova/ghost-content-mcp-server/tracing"
)

const (
	// APIPath is appended to the admin domain to form the Content API root
	APIPath = "/ghost/api/content/"

	// maxErrorBody bounds how much of a non-JSON error body ends up in a diagnostic
	maxErrorBody = 500
)

// Client provides read-only access to one Ghost site's Content API
type Client struct {
	*base.Client
	resolver *credentials.Resolver
}

// NewClient creates a Content API client. Credentials are resolved from
// provider on first use and cached for the client's lifetime.
func NewClient(provider credentials.Provider, opts ...base.ClientOption) *Client {
	return &Client{
		Client:   base.NewClient(opts...),
		resolver: credentials.NewResolver(provider),
	}
}

// CredentialState reports whether credentials have been resolved yet.
func (c *Client) CredentialState() credentials.State {
	return c.resolver.State()
}

// BaseURL returns the Content API root for an admin domain. A domain without
// a scheme is served over https.
func BaseURL(adminDomain string) string {
	domain := strings.TrimRight(adminDomain, "/")
	if !strings.HasPrefix(domain, "https://") && !strings.HasPrefix(domain, "http://") {
		domain = "https://" + domain
	}
	return domain + APIPath
}

func (c *Client) credentials(ctx context.Context) (credentials.Bundle, error) {
	before := c.resolver.State()
	b, err := c.resolver.Resolve(ctx)
	if before == credentials.StateUnresolved {
		metrics.RecordCredentialResolution(err == nil)
		if err != nil {
			c.Logger.Error("Ghost credentials could not be resolved", "error", err)
		} else {
			c.Logger.Info("Ghost Content API client configured",
				"base_url", BaseURL(b.AdminDomain),
				"api_version", b.APIVersion)
		}
	}
	return b, err
}

// get issues one GET to endpoint (relative to the API root) and returns the
// JSON body unchanged.
func (c *Client) get(ctx context.Context, resource Resource, endpoint string, params map[string]any) (json.RawMessage, error) {
	ctx, span := tracing.StartSpan(ctx, "ghost."+string(resource))
	defer span.End()

	start := time.Now()
	statusCode := 0

	raw, err := func() (json.RawMessage, error) {
		b, err := c.credentials(ctx)
		if err != nil {
			return nil, err
		}
		tracing.AddContentAPIAttributes(span, string(resource), endpoint, b.APIVersion)

		reqURL := BaseURL(b.AdminDomain) + endpoint + "?" + NormalizeParams(b.ContentAPIKey, params).Encode()
		resp, err := c.Get(ctx, base.Request{
			URL:    reqURL,
			Header: http.Header{"Accept-Version": []string{b.APIVersion}},
		})
		if err != nil {
			return nil, classifyTransportError(endpoint, err)
		}
		statusCode = resp.StatusCode
		metrics.RecordResponseSize(string(resource), len(resp.Body))
		return decodeResponse(endpoint, resp)
	}()

	kind := ""
	if err != nil {
		kind = string(apierrors.KindOf(err))
		tracing.RecordError(span, err)
		c.Logger.Warn("Content API call failed",
			"resource", resource,
			"endpoint", endpoint,
			"status", statusCode,
			"kind", kind,
			"error", err)
	} else {
		c.Logger.Debug("Content API call succeeded",
			"resource", resource,
			"endpoint", endpoint,
			"status", statusCode,
			"bytes", len(raw))
	}
	metrics.RecordAPICall(string(resource), time.Since(start).Seconds(), statusCode, kind)

	return raw, err
}

// decodeResponse maps an HTTP response to the raw payload or an HTTPStatusError.
func decodeResponse(endpoint string, resp *base.Response) (json.RawMessage, error) {
	if resp.StatusCode >= 400 {
		return nil, newStatusError(endpoint, resp)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, &apierrors.UnexpectedError{Endpoint: endpoint, Err: err}
	}
	return raw, nil
}

// newStatusError builds an HTTPStatusError, preferring Ghost's errors[] array
// over the raw body.
func newStatusError(endpoint string, resp *base.Response) *apierrors.HTTPStatusError {
	statusErr := &apierrors.HTTPStatusError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
	}

	var envelope struct {
		Errors []apierrors.GhostError `json:"errors"`
	}
	if json.Unmarshal(resp.Body, &envelope) == nil && len(envelope.Errors) > 0 {
		statusErr.Errors = envelope.Errors
		return statusErr
	}

	statusErr.Body = base.Truncate(strings.TrimSpace(string(resp.Body)), maxErrorBody)
	return statusErr
}

// classifyTransportError maps a failure from base.Client.Get to the error taxonomy.
func classifyTransportError(endpoint string, err error) error {
	var (
		transportErr *base.TransportError
		openErr      *infra.ErrCircuitOpen
	)
	switch {
	case errors.As(err, &transportErr):
		return &apierrors.NetworkError{Endpoint: endpoint, Timeout: transportErr.Timeout, Err: transportErr.Err}
	case errors.As(err, &openErr):
		return &apierrors.NetworkError{Endpoint: endpoint, Err: openErr}
	default:
		return &apierrors.UnexpectedError{Endpoint: endpoint, Err: err}
	}
}
