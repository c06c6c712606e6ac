package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// contentRootCandidates are directories checked, in order, for an existing
// content tree.
var contentRootCandidates = []string{
	"content",
	"learning-content",
	filepath.Join("public", "learning-content"),
	filepath.Join("static", "learning-content"),
}

// detectContentRoot returns the first candidate directory that contains at
// least one topic manifest.
func detectContentRoot() string {
	for _, dir := range contentRootCandidates {
		matches, _ := filepath.Glob(filepath.Join(dir, "*", "manifest.json"))
		if len(matches) > 0 {
			return dir
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to learnroute! Let's configure your content.")
	fmt.Println()

	defaults := DefaultConfig()

	// Detect an existing content tree.
	defaultRoot := defaults.ContentRoot
	if found := detectContentRoot(); found != "" {
		fmt.Printf("Detected content root: %s\n\n", found)
		defaultRoot = found
	}

	// 1. Content root.
	rootPrompt := promptui.Prompt{
		Label:   "Content root (directory or http(s) URL)",
		Default: defaultRoot,
	}
	contentRoot, err := rootPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content root: %w", err)
	}

	// 2. Renderer.
	rendererPrompt := promptui.Select{
		Label: "Select markdown renderer",
		Items: []string{
			"basic    - headings, lists and bold only",
			"goldmark - full GitHub-flavoured markdown with highlighting",
		},
	}
	rendererIdx, _, err := rendererPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("renderer selection: %w", err)
	}
	renderer := []string{"basic", "goldmark"}[rendererIdx]

	// 3. Default theme.
	themePrompt := promptui.Select{
		Label: "Select default theme",
		Items: []string{"blue", "orange"},
	}
	_, theme, err := themePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(defaults.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("port must be between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	// 5. Extra exclude patterns for manifest generation.
	excludePrompt := promptui.Prompt{
		Label:   "Extra manifest exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	exclude := append([]string(nil), DefaultExcludes...)
	if excludeStr != "" {
		exclude = append(exclude, splitAndTrim(excludeStr)...)
	}

	cfg := defaults
	cfg.ContentRoot = contentRoot
	cfg.Renderer = renderer
	cfg.DefaultTheme = theme
	cfg.Port = port
	cfg.Exclude = exclude

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !cfg.IsRemote() {
		if _, err := os.Stat(contentRoot); os.IsNotExist(err) {
			fmt.Printf("\nNote: %s does not exist yet. Create one directory per topic, then run learnroute manifest %s.\n", contentRoot, contentRoot)
		}
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
