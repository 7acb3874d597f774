package credentials

import (
	"context"
	"strings"
	"sync"

	apierrors "github.com/olgasafonova/ghost-content-mcp-server/internal/errors"
)

// State is the resolution state of a Resolver.
type State int

const (
	StateUnresolved State = iota // provider not consulted yet
	StateSucceeded               // bundle cached
	StateFailed                  // error cached
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resolver consults its Provider on first use and caches the outcome, success
// or failure, for its whole lifetime.
type Resolver struct {
	provider Provider

	mu     sync.Mutex
	state  State
	bundle Bundle
	err    error
}

// NewResolver creates a Resolver backed by provider.
func NewResolver(provider Provider) *Resolver {
	return &Resolver{provider: provider}
}

// Resolve returns the validated credential bundle. The provider is called at
// most once; later calls return the cached bundle or the cached error.
func (r *Resolver) Resolve(ctx context.Context) (Bundle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateSucceeded:
		return r.bundle, nil
	case StateFailed:
		return Bundle{}, r.err
	}

	b, err := r.fetch(ctx)
	if err != nil {
		r.state, r.err = StateFailed, err
		return Bundle{}, err
	}
	r.state, r.bundle = StateSucceeded, b
	return b, nil
}

// State reports the current resolution state.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Resolver) fetch(ctx context.Context) (Bundle, error) {
	if r.provider == nil {
		return Bundle{}, &apierrors.ConfigurationError{
			Message: "no Ghost credential provider is configured",
		}
	}

	b, err := r.provider.Credentials(ctx)
	if err != nil {
		return Bundle{}, &apierrors.ConfigurationError{
			Message: "could not load Ghost credentials",
			Err:     err,
		}
	}

	b.AdminDomain = strings.TrimSpace(b.AdminDomain)
	b.ContentAPIKey = strings.TrimSpace(b.ContentAPIKey)
	b.APIVersion = strings.TrimSpace(b.APIVersion)

	if b.AdminDomain == "" {
		return Bundle{}, &apierrors.ConfigurationError{
			Setting: EnvAdminDomain,
			Message: "Ghost admin domain is missing; cannot build the Content API base URL",
		}
	}
	if b.ContentAPIKey == "" {
		return Bundle{}, &apierrors.ConfigurationError{
			Setting: EnvContentAPIKey,
			Message: "Ghost Content API key is missing; cannot make requests",
		}
	}
	if b.APIVersion == "" {
		b.APIVersion = DefaultAPIVersion
	}
	return b, nil
}
