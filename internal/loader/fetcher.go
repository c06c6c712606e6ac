package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Fetcher reads resources addressed relative to the content root, e.g.
// "react/manifest.json".
type Fetcher interface {
	Fetch(ctx context.Context, rel string) ([]byte, error)
	// URL returns the address a viewer should use to load rel by reference.
	URL(rel string) string
}

// StatusError reports a non-success HTTP status from the content root.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: status %d", e.URL, e.StatusCode)
}

// HTTPFetcher reads content from a static HTTP server.
type HTTPFetcher struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPFetcher creates a fetcher rooted at baseURL.
func NewHTTPFetcher(baseURL string, timeout time.Duration) (*HTTPFetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing content root %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("content root %q must be an http(s) URL", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &HTTPFetcher{
		base:   u,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// URL resolves rel against the base URL.
func (f *HTTPFetcher) URL(rel string) string {
	return f.base.ResolveReference(&url.URL{Path: rel}).String()
}

// Fetch GETs rel and returns the body. Any non-2xx status is a *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rel string) ([]byte, error) {
	target := f.URL(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", target, err)
	}
	return body, nil
}

// DirFetcher reads content from a local directory. Reference URLs are
// built from assetPrefix, where the HTTP server mounts the directory.
type DirFetcher struct {
	root        string
	assetPrefix string
}

// NewDirFetcher creates a fetcher over the directory root.
func NewDirFetcher(root, assetPrefix string) *DirFetcher {
	return &DirFetcher{
		root:        root,
		assetPrefix: "/" + strings.Trim(assetPrefix, "/"),
	}
}

// Root returns the directory the fetcher reads from.
func (f *DirFetcher) Root() string { return f.root }

// URL joins rel onto the asset prefix.
func (f *DirFetcher) URL(rel string) string {
	return path.Join(f.assetPrefix, rel)
}

// Fetch reads rel from disk. rel must stay inside the root.
func (f *DirFetcher) Fetch(ctx context.Context, rel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := path.Clean("/" + rel)
	if clean == "/" || slices.Contains(strings.Split(rel, "/"), "..") {
		return nil, fmt.Errorf("invalid content path %q", rel)
	}
	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(clean)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	return data, nil
}

// NewFetcher picks an HTTPFetcher for http(s) roots and a DirFetcher
// otherwise.
func NewFetcher(root, assetPrefix string, timeout time.Duration) (Fetcher, error) {
	if strings.HasPrefix(root, "http://") || strings.HasPrefix(root, "https://") {
		return NewHTTPFetcher(root, timeout)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("accessing content root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content root %s is not a directory", root)
	}
	return NewDirFetcher(root, assetPrefix), nil
}
