package cmd

import (
	"fmt"

	"github.com/ziadkadry99/learnroute/internal/config"
	"github.com/ziadkadry99/learnroute/internal/loader"
	"github.com/ziadkadry99/learnroute/internal/render"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `learnroute init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLoader builds the content loader for cfg. Missing manifests and
// skipped files are logged to stderr with the "loader: " prefix.
func newLoader(cfg *config.Config) (*loader.Loader, error) {
	fetcher, err := loader.NewFetcher(cfg.ContentRoot, cfg.AssetPrefix, cfg.FetchTimeout())
	if err != nil {
		return nil, fmt.Errorf("creating fetcher: %w", err)
	}
	return loader.New(fetcher, loader.NewCache(),
		loader.WithConcurrency(cfg.MaxConcurrency),
	), nil
}

func newRenderer(cfg *config.Config) (render.Renderer, error) {
	return render.New(render.Kind(cfg.Renderer))
}
