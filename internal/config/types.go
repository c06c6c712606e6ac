package config

import "github.com/ziadkadry99/learnroute/internal/catalog"

// Config is the top-level learnroute configuration, corresponding to
// .learnroute.yml.
type Config struct {
	// ContentRoot is either an http(s) base URL or a local directory holding
	// one subdirectory per topic.
	ContentRoot string `yaml:"content_root" koanf:"content_root"`
	// AssetPrefix is the URL path the server mounts a local content root on.
	AssetPrefix           string          `yaml:"asset_prefix" koanf:"asset_prefix"`
	DataDir               string          `yaml:"data_dir" koanf:"data_dir"`
	Port                  int             `yaml:"port" koanf:"port"`
	Renderer              string          `yaml:"renderer" koanf:"renderer"`
	DefaultTheme          string          `yaml:"default_theme" koanf:"default_theme"`
	CommentsURL           string          `yaml:"comments_url" koanf:"comments_url"`
	MaxConcurrency        int             `yaml:"max_concurrency" koanf:"max_concurrency"`
	FetchTimeoutSeconds   int             `yaml:"fetch_timeout_seconds" koanf:"fetch_timeout_seconds"`
	SessionTTLHours       int             `yaml:"session_ttl_hours" koanf:"session_ttl_hours"`
	RequestTimeoutSeconds int             `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
	Include               []string        `yaml:"include" koanf:"include"`
	Exclude               []string        `yaml:"exclude" koanf:"exclude"`
	Topics                []catalog.Topic `yaml:"topics,omitempty" koanf:"topics"`
}
