package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/learnroute/internal/catalog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ContentRoot != "content" {
		t.Errorf("expected default content_root %q, got %q", "content", cfg.ContentRoot)
	}
	if cfg.Renderer != "basic" {
		t.Errorf("expected default renderer %q, got %q", "basic", cfg.Renderer)
	}
	if cfg.DefaultTheme != "blue" {
		t.Errorf("expected default theme %q, got %q", "blue", cfg.DefaultTheme)
	}
	if cfg.MaxConcurrency != 8 {
		t.Errorf("expected default max_concurrency 8, got %d", cfg.MaxConcurrency)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.learnroute.yml")

	original := DefaultConfig()
	original.ContentRoot = "https://cdn.example.com/learning-content/"
	original.Renderer = "goldmark"
	original.DefaultTheme = "orange"
	original.Port = 9090
	original.Include = []string{"**/*.md", "**/*.pdf"}
	original.Topics = []catalog.Topic{
		{ID: "go", Name: "Go", Description: "Concurrency"},
		{ID: "sql", Name: "SQL", Description: "Queries"},
	}

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.ContentRoot != original.ContentRoot {
		t.Errorf("content_root: got %q, want %q", loaded.ContentRoot, original.ContentRoot)
	}
	if loaded.Renderer != original.Renderer {
		t.Errorf("renderer: got %q, want %q", loaded.Renderer, original.Renderer)
	}
	if loaded.DefaultTheme != original.DefaultTheme {
		t.Errorf("default_theme: got %q, want %q", loaded.DefaultTheme, original.DefaultTheme)
	}
	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if len(loaded.Include) != len(original.Include) {
		t.Errorf("include length: got %d, want %d", len(loaded.Include), len(original.Include))
	}
	for i, v := range loaded.Include {
		if v != original.Include[i] {
			t.Errorf("include[%d]: got %q, want %q", i, v, original.Include[i])
		}
	}
	if len(loaded.Topics) != 2 || loaded.Topics[1].ID != "sql" || loaded.Topics[0].Description != "Concurrency" {
		t.Errorf("topics: got %+v", loaded.Topics)
	}
	if !loaded.IsRemote() {
		t.Error("expected remote content root")
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.ContentRoot != "content" {
		t.Errorf("expected default content root, got %q", cfg.ContentRoot)
	}
	if cfg.Catalog().Len() != len(catalog.DefaultTopics) {
		t.Errorf("expected built-in catalog, got %d topics", cfg.Catalog().Len())
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("LEARNROUTE_RENDERER", "goldmark")
	t.Setenv("LEARNROUTE_PORT", "9000")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Renderer != "goldmark" {
		t.Errorf("env override failed: got %q, want %q", loaded.Renderer, "goldmark")
	}
	if loaded.Port != 9000 {
		t.Errorf("env override failed: got %d, want 9000", loaded.Port)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("port: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty content root", func(c *Config) { c.ContentRoot = "" }},
		{"unknown renderer", func(c *Config) { c.Renderer = "fancy" }},
		{"unknown theme", func(c *Config) { c.DefaultTheme = "purple" }},
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"port too high", func(c *Config) { c.Port = 70000 }},
		{"negative concurrency", func(c *Config) { c.MaxConcurrency = -1 }},
		{"negative timeout", func(c *Config) { c.FetchTimeoutSeconds = -1 }},
		{"negative ttl", func(c *Config) { c.SessionTTLHours = -1 }},
		{"negative request timeout", func(c *Config) { c.RequestTimeoutSeconds = -1 }},
		{"bad comments url", func(c *Config) { c.CommentsURL = "ftp://example.com" }},
		{"topic id with slash", func(c *Config) { c.Topics = []catalog.Topic{{ID: "a/b"}} }},
		{"duplicate topic", func(c *Config) { c.Topics = []catalog.Topic{{ID: "a"}, {ID: "a"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateCommentsDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CommentsURL = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty comments_url should be valid: %v", err)
	}
}

func TestCatalogOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Topics = []catalog.Topic{{ID: "rust", Name: "Rust"}}
	cat := cfg.Catalog()
	if cat.Len() != 1 {
		t.Fatalf("expected 1 topic, got %d", cat.Len())
	}
	if _, ok := cat.Find("rust"); !ok {
		t.Error("expected rust topic")
	}
}

func TestDurations(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.FetchTimeout().Seconds() != 10 {
		t.Errorf("fetch timeout = %s", cfg.FetchTimeout())
	}
	if cfg.RequestTimeout().Seconds() != 60 {
		t.Errorf("request timeout = %s", cfg.RequestTimeout())
	}
	if cfg.SessionTTL().Hours() != 720 {
		t.Errorf("session ttl = %s", cfg.SessionTTL())
	}
}

func TestDetectContentRoot(t *testing.T) {
	t.Chdir(t.TempDir())

	if got := detectContentRoot(); got != "" {
		t.Errorf("expected no content root, got %q", got)
	}

	os.MkdirAll(filepath.Join("learning-content", "react"), 0755)
	os.WriteFile(filepath.Join("learning-content", "react", "manifest.json"), []byte("[]"), 0644)
	if got := detectContentRoot(); got != "learning-content" {
		t.Errorf("expected learning-content, got %q", got)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"**/*.md", []string{"**/*.md"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
