// Package credentials resolves the Ghost site credentials used by the Content API
// client. Credentials come from a Provider and are resolved at most once per
// Resolver.
package credentials

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Credential names, shared by the environment and the YAML file store.
const (
	EnvAdminDomain   = "GHOST_ADMIN_DOMAIN"
	EnvContentAPIKey = "GHOST_CONTENT_API_KEY"
	EnvAPIVersion    = "GHOST_API_VERSION"

	// DefaultAPIVersion is sent as Accept-Version when none is configured.
	DefaultAPIVersion = "v5.0"
)

// Bundle holds the credentials of one Ghost site.
type Bundle struct {
	AdminDomain   string `yaml:"GHOST_ADMIN_DOMAIN"`
	ContentAPIKey string `yaml:"GHOST_CONTENT_API_KEY"`
	APIVersion    string `yaml:"GHOST_API_VERSION"`
}

// Provider fetches credentials from an external store. Fields that are not
// configured are left empty; validation happens in the Resolver.
type Provider interface {
	Credentials(ctx context.Context) (Bundle, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Bundle, error)

// Credentials calls f(ctx).
func (f ProviderFunc) Credentials(ctx context.Context) (Bundle, error) {
	return f(ctx)
}

// EnvProvider reads credentials from the process environment.
type EnvProvider struct {
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Credentials implements Provider.
func (p EnvProvider) Credentials(_ context.Context) (Bundle, error) {
	lookup := p.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	return Bundle{
		AdminDomain:   get(EnvAdminDomain),
		ContentAPIKey: get(EnvContentAPIKey),
		APIVersion:    get(EnvAPIVersion),
	}, nil
}

// FileProvider reads credentials from a YAML file keyed by the same names as
// the environment variables:
//
//	GHOST_ADMIN_DOMAIN: demo.ghost.io
//	GHOST_CONTENT_API_KEY: 22444f78447824223cefc48062
//	GHOST_API_VERSION: v5.0
type FileProvider struct {
	Path string
}

// Credentials implements Provider.
func (p FileProvider) Credentials(_ context.Context) (Bundle, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return Bundle{}, fmt.Errorf("reading credentials file: %w", err)
	}

	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("parsing credentials file %s: %w", p.Path, err)
	}
	return b, nil
}

// StaticProvider always returns the same bundle.
type StaticProvider Bundle

// Credentials implements Provider.
func (p StaticProvider) Credentials(_ context.Context) (Bundle, error) {
	return Bundle(p), nil
}

// ChainProvider merges several providers field by field. For each field the
// first non-empty value wins, so earlier providers take precedence.
type ChainProvider []Provider

// Credentials implements Provider. A failing provider aborts the chain.
func (c ChainProvider) Credentials(ctx context.Context) (Bundle, error) {
	var merged Bundle
	for _, p := range c {
		b, err := p.Credentials(ctx)
		if err != nil {
			return Bundle{}, err
		}
		if merged.AdminDomain == "" {
			merged.AdminDomain = b.AdminDomain
		}
		if merged.ContentAPIKey == "" {
			merged.ContentAPIKey = b.ContentAPIKey
		}
		if merged.APIVersion == "" {
			merged.APIVersion = b.APIVersion
		}
	}
	return merged, nil
}
