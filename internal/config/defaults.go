package config

import (
	"time"

	"github.com/ziadkadry99/learnroute/internal/catalog"
	"github.com/ziadkadry99/learnroute/internal/comments"
	"github.com/ziadkadry99/learnroute/internal/manifest"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".learnroute.yml"

// DefaultExcludes are glob patterns never listed in a generated manifest.
var DefaultExcludes = manifest.DefaultExcludes

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ContentRoot:           "content",
		AssetPrefix:           "/content",
		DataDir:               ".learnroute",
		Port:                  8080,
		Renderer:              "basic",
		DefaultTheme:          "blue",
		CommentsURL:           comments.DefaultBaseURL,
		MaxConcurrency:        8,
		FetchTimeoutSeconds:   10,
		SessionTTLHours:       24 * 30,
		RequestTimeoutSeconds: 60,
		Include:               []string{"**"},
		Exclude:               append([]string(nil), DefaultExcludes...),
	}
}

// Catalog returns the configured topics, or the built-in catalog when none
// are configured.
func (c *Config) Catalog() *catalog.Catalog {
	if len(c.Topics) == 0 {
		return catalog.Default()
	}
	return catalog.New(c.Topics)
}

// FetchTimeout returns the per-request timeout for the content root.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// RequestTimeout returns the HTTP request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// SessionTTL returns how long an idle session is kept. Zero disables expiry.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}
