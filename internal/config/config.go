package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/learnroute/internal/catalog"
)

// EnvPrefix prefixes environment overrides, e.g. LEARNROUTE_CONTENT_ROOT.
const EnvPrefix = "LEARNROUTE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (LEARNROUTE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: LEARNROUTE_PORT -> port, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validRenderers is the set of recognized renderer values.
var validRenderers = map[string]bool{
	"basic":    true,
	"goldmark": true,
}

// validThemes is the set of recognized default_theme values.
var validThemes = map[string]bool{
	"blue":   true,
	"orange": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.ContentRoot == "" {
		return fmt.Errorf("content_root is required")
	}

	if !validRenderers[c.Renderer] {
		return fmt.Errorf("invalid renderer %q: must be one of basic, goldmark", c.Renderer)
	}

	if !validThemes[c.DefaultTheme] {
		return fmt.Errorf("invalid default_theme %q: must be one of blue, orange", c.DefaultTheme)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be non-negative")
	}

	if c.FetchTimeoutSeconds < 0 {
		return fmt.Errorf("fetch_timeout_seconds must be non-negative")
	}

	if c.SessionTTLHours < 0 {
		return fmt.Errorf("session_ttl_hours must be non-negative")
	}

	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("request_timeout_seconds must be non-negative")
	}

	if c.CommentsURL != "" {
		u, err := url.Parse(c.CommentsURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid comments_url %q: must be an http(s) URL", c.CommentsURL)
		}
	}

	seen := make(map[string]bool, len(c.Topics))
	for _, t := range c.Topics {
		if !catalog.ValidTopicID(t.ID) {
			return fmt.Errorf("invalid topic id %q", t.ID)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate topic id %q", t.ID)
		}
		seen[t.ID] = true
	}

	return nil
}

// IsRemote reports whether the content root is an http(s) URL.
func (c *Config) IsRemote() bool {
	return strings.HasPrefix(c.ContentRoot, "http://") || strings.HasPrefix(c.ContentRoot, "https://")
}
