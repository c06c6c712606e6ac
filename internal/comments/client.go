package comments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public placeholder API the demo thread talks to.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// Comment is one entry of a demo comment thread.
type Comment struct {
	PostID int    `json:"postId"`
	ID     int    `json:"id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Body   string `json:"body"`
}

// ValidationError lists the invalid fields of a comment, keyed by field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid comment: " + strings.Join(parts, "; ")
}

// Validate checks that the comment has a post, a name and a body.
func (c Comment) Validate() error {
	fields := map[string]string{}
	if c.PostID < 1 {
		fields["postId"] = "must be positive"
	}
	if strings.TrimSpace(c.Name) == "" {
		fields["name"] = "is required"
	}
	if strings.TrimSpace(c.Body) == "" {
		fields["body"] = "is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// PostIDForIndex maps a file index to the synthetic post id of its thread.
func PostIDForIndex(index int) int {
	return index + 1
}

// Client reads and writes comments on a JSONPlaceholder-compatible API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Client for baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// List returns the comments of postID.
func (c *Client) List(ctx context.Context, postID int) ([]Comment, error) {
	u := c.baseURL + "/comments?" + url.Values{"postId": {strconv.Itoa(postID)}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing comments: status %d", resp.StatusCode)
	}

	var out []Comment
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding comments: %w", err)
	}
	if out == nil {
		out = []Comment{}
	}
	return out, nil
}

// Post validates and submits a comment, returning the stored version.
func (c *Client) Post(ctx context.Context, comment Comment) (*Comment, error) {
	comment.Name = strings.TrimSpace(comment.Name)
	comment.Body = strings.TrimSpace(comment.Body)
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(comment)
	if err != nil {
		return nil, fmt.Errorf("marshalling comment: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/comments", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting comment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("posting comment: status %d", resp.StatusCode)
	}

	var created Comment
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decoding created comment: %w", err)
	}
	return &created, nil
}
