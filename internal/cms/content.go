package cms

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rishi-store/storefront/internal/domain"
)

const (
	defaultContentFormat = "markdown"
	defaultContentDir    = "content"
)

var (
	contentCache = struct {
		mu    sync.RWMutex
		items map[string]contentCacheEntry
	}{
		items: map[string]contentCacheEntry{},
	}
	contentCacheTTL = 5 * time.Minute
)

type contentCacheEntry struct {
	page    domain.ContentPage
	expires time.Time
}

// SetContentCacheDuration overrides the in-memory page cache duration,
// primarily for tests.
func SetContentCacheDuration(d time.Duration) {
	if d <= 0 {
		d = time.Minute
	}
	contentCacheTTL = d
}

// SetContentDir configures the fallback directory for local markdown pages.
func (c *Client) SetContentDir(dir string) {
	if c == nil {
		return
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultContentDir
	}
	c.contentDir = dir
}

// ContentDir returns the configured fallback directory.
func (c *Client) ContentDir() string {
	if c == nil || strings.TrimSpace(c.contentDir) == "" {
		return defaultContentDir
	}
	return c.contentDir
}

type contentFrontMatter struct {
	Title     string `yaml:"title"`
	Excerpt   string `yaml:"excerpt"`
	Format    string `yaml:"format"`
	UpdatedAt string `yaml:"updated_at"`
}

// GetContentPage fetches a static page, consulting the remote CMS when
// configured, otherwise falling back to local markdown.
func (c *Client) GetContentPage(ctx context.Context, slug string) (domain.ContentPage, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return domain.ContentPage{}, ErrNotFound
	}

	if page, ok := cachedContent(slug); ok {
		return page, nil
	}

	page, err := c.fetchContentPage(ctx, slug)
	if err != nil {
		return domain.ContentPage{}, err
	}
	storeContent(slug, page)
	return page, nil
}

func (c *Client) fetchContentPage(ctx context.Context, slug string) (domain.ContentPage, error) {
	if c != nil && c.baseURL != "" {
		page, err := c.fetchContentPageRemote(ctx, slug)
		if err == nil {
			return page, nil
		}
		if !errors.Is(err, ErrNotFound) {
			// Remote hiccups fall through to the local copy.
		}
	}
	return readContentMarkdown(c.ContentDir(), slug)
}

func (c *Client) fetchContentPageRemote(ctx context.Context, slug string) (domain.ContentPage, error) {
	var payload struct {
		Slug      string    `json:"slug"`
		Title     string    `json:"title"`
		Excerpt   string    `json:"excerpt"`
		Body      string    `json:"body"`
		Format    string    `json:"format"`
		UpdatedAt time.Time `json:"updated_at"`
	}
	path, err := url.JoinPath("api/content/item/pages", slug)
	if err != nil {
		return domain.ContentPage{}, err
	}
	if err := c.getJSON(ctx, path, nil, &payload); err != nil {
		return domain.ContentPage{}, err
	}
	if strings.TrimSpace(payload.Body) == "" {
		return domain.ContentPage{}, fmt.Errorf("cms: empty body for page %s", slug)
	}
	return domain.ContentPage{
		Slug:      firstNonEmpty(payload.Slug, slug),
		Title:     payload.Title,
		Excerpt:   payload.Excerpt,
		Body:      payload.Body,
		Format:    firstNonEmpty(payload.Format, defaultContentFormat),
		UpdatedAt: payload.UpdatedAt,
	}, nil
}

func readContentMarkdown(contentDir, slug string) (domain.ContentPage, error) {
	if strings.TrimSpace(contentDir) == "" {
		contentDir = defaultContentDir
	}
	file := filepath.Join(contentDir, slug+".md")

	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ContentPage{}, ErrNotFound
		}
		return domain.ContentPage{}, err
	}
	info, statErr := os.Stat(file)
	if statErr != nil {
		info = nil
	}

	fm, body := splitFrontMatter(string(data))
	front := contentFrontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return domain.ContentPage{}, fmt.Errorf("cms: parse front matter %s: %w", file, err)
		}
	}

	page := domain.ContentPage{
		Slug:    slug,
		Title:   strings.TrimSpace(front.Title),
		Excerpt: strings.TrimSpace(front.Excerpt),
		Body:    body,
		Format:  firstNonEmpty(strings.TrimSpace(front.Format), defaultContentFormat),
	}
	page.UpdatedAt = parseContentDate(front.UpdatedAt)
	if page.UpdatedAt.IsZero() && info != nil {
		page.UpdatedAt = info.ModTime()
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	return page, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if len(lines) == 0 {
		return "", ""
	}
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006/01/02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	parts := strings.Split(strings.TrimSpace(slug), "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		if runes[0] >= 'a' && runes[0] <= 'z' {
			runes[0] -= 'a' - 'A'
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" || strings.Contains(slug, "..") {
		return ""
	}
	if strings.ContainsRune(slug, os.PathSeparator) {
		return ""
	}
	return slug
}

func cachedContent(key string) (domain.ContentPage, bool) {
	now := time.Now()
	contentCache.mu.RLock()
	entry, ok := contentCache.items[key]
	contentCache.mu.RUnlock()
	if !ok || now.After(entry.expires) {
		return domain.ContentPage{}, false
	}
	return entry.page, true
}

func storeContent(key string, page domain.ContentPage) {
	contentCache.mu.Lock()
	defer contentCache.mu.Unlock()
	contentCache.items[key] = contentCacheEntry{
		page:    page,
		expires: time.Now().Add(contentCacheTTL),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
