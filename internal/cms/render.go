package cms

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/rishi-store/storefront/internal/domain"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// newPagePolicy builds the sanitizer for rendered page bodies. Glossary
// markers must survive sanitization so linked output can be re-sanitized
// without being stripped.
func newPagePolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption", "glossaryterm")
	policy.AllowAttrs("slug").OnElements("glossaryterm")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

var pagePolicy = newPagePolicy()

// RenderHTML converts a page body to sanitized HTML. Markdown bodies go
// through the renderer; bodies already in HTML form are sanitized as-is.
func RenderHTML(page domain.ContentPage) (string, error) {
	body := page.Body
	if strings.TrimSpace(page.Format) != "html" {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(body), &buf); err != nil {
			return "", fmt.Errorf("cms: render %s: %w", page.Slug, err)
		}
		body = buf.String()
	}
	return pagePolicy.Sanitize(body), nil
}
