package cms

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rishi-store/storefront/internal/domain"
)

func writePage(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestGetContentPageLocalFallback(t *testing.T) {
	SetContentCacheDuration(time.Nanosecond)
	dir := t.TempDir()
	writePage(t, dir, "about-us.md", `---
title: About Us
excerpt: Who we are
updated_at: 2026-01-15
---
We sell **herbal** products.
`)

	client := NewClient("", "")
	client.SetContentDir(dir)

	page, err := client.GetContentPage(context.Background(), "about-us")
	if err != nil {
		t.Fatalf("GetContentPage: %v", err)
	}
	if page.Title != "About Us" || page.Excerpt != "Who we are" {
		t.Fatalf("front matter not applied: %+v", page)
	}
	if !strings.Contains(page.Body, "**herbal**") {
		t.Fatalf("body = %q", page.Body)
	}
	if page.Format != "markdown" {
		t.Fatalf("format = %q", page.Format)
	}
	if page.UpdatedAt.Format("2006-01-02") != "2026-01-15" {
		t.Fatalf("updated_at = %v", page.UpdatedAt)
	}
}

func TestGetContentPageNoFrontMatter(t *testing.T) {
	SetContentCacheDuration(time.Nanosecond)
	dir := t.TempDir()
	writePage(t, dir, "shipping-policy.md", "Plain body only.\n")

	client := NewClient("", "")
	client.SetContentDir(dir)

	page, err := client.GetContentPage(context.Background(), "shipping-policy")
	if err != nil {
		t.Fatalf("GetContentPage: %v", err)
	}
	if page.Title != "Shipping Policy" {
		t.Fatalf("prettified title = %q", page.Title)
	}
	if page.Body != "Plain body only.\n" {
		t.Fatalf("body = %q", page.Body)
	}
}

func TestGetContentPageRejectsTraversal(t *testing.T) {
	client := NewClient("", "")
	for _, slug := range []string{"", "../etc/passwd", "a/../b"} {
		if _, err := client.GetContentPage(context.Background(), slug); err != ErrNotFound {
			t.Errorf("slug %q: err = %v, want ErrNotFound", slug, err)
		}
	}
}

func TestRenderHTMLMarkdown(t *testing.T) {
	page := domain.ContentPage{
		Slug:   "test",
		Body:   "Hello **world** <script>alert(1)</script>",
		Format: "markdown",
	}
	out, err := RenderHTML(page)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(out, "<strong>world</strong>") {
		t.Fatalf("markdown not rendered: %q", out)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("script not sanitized: %q", out)
	}
}

func TestRenderHTMLKeepsGlossaryMarkers(t *testing.T) {
	page := domain.ContentPage{
		Slug:   "test",
		Body:   `<p>Take <GlossaryTerm slug="ashwagandha">Ashwagandha</GlossaryTerm> daily.</p>`,
		Format: "html",
	}
	out, err := RenderHTML(page)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(strings.ToLower(out), `<glossaryterm slug="ashwagandha">`) {
		t.Fatalf("glossary marker stripped: %q", out)
	}
}
