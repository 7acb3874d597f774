// Package errors provides the error taxonomy shared by the Ghost Content API client
// and the MCP tool layer. Every error renders as a self-contained diagnostic string
// that can be handed to an LLM without further formatting.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error for metrics and callers that branch on failure type.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindHTTPStatus    Kind = "http_status"
	KindNetwork       Kind = "network"
	KindValidation    Kind = "validation"
	KindUnexpected    Kind = "unexpected"
)

// ConfigurationError indicates the site credentials could not be resolved.
type ConfigurationError struct {
	Setting string // environment/credential name, e.g. GHOST_ADMIN_DOMAIN
	Message string
	Err     error // underlying provider failure, if any
}

func (e *ConfigurationError) Error() string {
	msg := "Configuration error: " + e.Message
	if e.Setting != "" {
		msg += " (set " + e.Setting + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// GhostError is one entry of the errors[] array returned by the Ghost API.
type GhostError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Context string `json:"context,omitempty"`
}

func (g GhostError) String() string {
	var sb strings.Builder
	if g.Type != "" {
		sb.WriteString(g.Type)
		sb.WriteString(": ")
	}
	sb.WriteString(g.Message)
	if g.Context != "" && g.Context != g.Message {
		sb.WriteString(" (")
		sb.WriteString(g.Context)
		sb.WriteString(")")
	}
	return sb.String()
}

// HTTPStatusError indicates the Content API answered with a 4xx or 5xx status.
type HTTPStatusError struct {
	Endpoint   string       // e.g. "posts/slug/welcome/"
	StatusCode int          // HTTP status code
	Errors     []GhostError // parsed Ghost errors, may be empty
	Body       string       // truncated raw body when no Ghost errors were parsed
}

func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("Error fetching %s: %d", e.Endpoint, e.StatusCode)
	if len(e.Errors) > 0 {
		parts := make([]string, 0, len(e.Errors))
		for _, ge := range e.Errors {
			parts = append(parts, ge.String())
		}
		return msg + " - " + strings.Join(parts, "; ")
	}
	if e.Body != "" {
		return msg + " - " + e.Body
	}
	return msg
}

// NetworkError indicates the request never produced an HTTP response.
type NetworkError struct {
	Endpoint string
	Timeout  bool
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("Network error fetching %s: request timed out: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("Network error fetching %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError indicates invalid input parameters.
type ValidationError struct {
	Field   string // field name that failed validation
	Value   string // the invalid value (may be empty)
	Message string // human-readable error message
}

func (e *ValidationError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("validation failed for %s=%q: %s", e.Field, e.Value, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// UnexpectedError wraps any failure that fits no other kind.
type UnexpectedError struct {
	Endpoint string
	Err      error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("Unexpected error fetching %s: %T - %v", e.Endpoint, e.Err, e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

// KindOf reports the Kind of err. Unknown errors are KindUnexpected.
func KindOf(err error) Kind {
	var (
		cfgErr    *ConfigurationError
		statusErr *HTTPStatusError
		netErr    *NetworkError
		valErr    *ValidationError
	)
	switch {
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &statusErr):
		return KindHTTPStatus
	case errors.As(err, &netErr):
		return KindNetwork
	case errors.As(err, &valErr):
		return KindValidation
	default:
		return KindUnexpected
	}
}

// IsNotFound returns true if err is an HTTP 404 from the Content API.
func IsNotFound(err error) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == 404
}

// IsValidation returns true if the error is a ValidationError.
func IsValidation(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
