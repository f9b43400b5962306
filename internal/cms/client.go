// Package cms reads glossary terms and static content pages from a headless
// CMS, with a local markdown fallback for pages.
package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound reports a missing CMS resource.
var ErrNotFound = errors.New("cms: not found")

const defaultTimeout = 10 * time.Second

// Client talks to the headless CMS HTTP API. The zero base URL disables
// remote fetches and every read falls back to local content.
type Client struct {
	baseURL    string
	apiToken   string
	http       *http.Client
	contentDir string
}

// NewClient builds a CMS client for the given base URL and API token.
func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiToken:   strings.TrimSpace(apiToken),
		http:       &http.Client{Timeout: defaultTimeout},
		contentDir: defaultContentDir,
	}
}

// getJSON issues an authenticated GET and decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if c.baseURL == "" {
		return ErrNotFound
	}
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("cms: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("cms: build request: %w", err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("api-token", c.apiToken)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cms: %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("cms: %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("cms: decode %s: %w", path, err)
	}
	return nil
}
