package ghost

import (
	"fmt"
	"os"
	"time"

	"github.com/olgasafonova/ghost-content-mcp-server/internal/base"
)

// Config holds process-level settings for the Content API client. Site
// credentials are not part of it; they come from a credentials.Provider.
type Config struct {
	// Timeout for API requests
	Timeout time.Duration

	// UserAgent identifies the client to Ghost sites
	UserAgent string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	timeout := base.DefaultTimeout
	if t := os.Getenv("GHOST_TIMEOUT"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("GHOST_TIMEOUT must be a positive duration such as 30s, got %q", t)
		}
		timeout = d
	}

	userAgent := os.Getenv("GHOST_USER_AGENT")
	if userAgent == "" {
		userAgent = base.DefaultUserAgent
	}

	return &Config{
		Timeout:   timeout,
		UserAgent: userAgent,
	}, nil
}

// Options converts the config into base client options
func (c *Config) Options() []base.ClientOption {
	return []base.ClientOption{
		base.WithTimeout(c.Timeout),
		base.WithUserAgent(c.UserAgent),
	}
}
