package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rishi-store/storefront/internal/autolink"
	"github.com/rishi-store/storefront/internal/cms"
	"github.com/rishi-store/storefront/internal/domain"
	"github.com/rishi-store/storefront/internal/platform/httpx"
)

// LinkerProvider resolves the compiled glossary auto-linker. The container
// builds it lazily on first use.
type LinkerProvider func(ctx context.Context) *autolink.Linker

// GlossaryHandlers serves glossary terms and the auto-linking endpoint.
type GlossaryHandlers struct {
	glossary *cms.Glossary
	linker   LinkerProvider
}

// NewGlossaryHandlers constructs the glossary endpoints.
func NewGlossaryHandlers(glossary *cms.Glossary, linker LinkerProvider) *GlossaryHandlers {
	return &GlossaryHandlers{glossary: glossary, linker: linker}
}

// Routes wires the /glossary endpoints onto the provided router.
func (h *GlossaryHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/terms", h.listTerms)
	r.Get("/terms/{slug}", h.getTerm)
	r.Get("/categories", h.listCategories)
	r.Post("/link", h.linkContent)
}

type termPayload struct {
	Title        string          `json:"title"`
	Slug         string          `json:"slug"`
	Excerpt      string          `json:"excerpt,omitempty"`
	Category     string          `json:"category"`
	Description  string          `json:"description,omitempty"`
	Details      []detailPayload `json:"details,omitempty"`
	RelatedTerms []string        `json:"related_terms,omitempty"`
	Linkable     bool            `json:"linkable"`
}

type detailPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func toTermPayload(term domain.GlossaryTerm) termPayload {
	payload := termPayload{
		Title:        term.Title,
		Slug:         term.Slug,
		Excerpt:      term.Excerpt,
		Category:     term.Category,
		Description:  term.Description,
		RelatedTerms: term.RelatedTerms,
		Linkable:     term.Linkable,
	}
	for _, detail := range term.Details {
		payload.Details = append(payload.Details, detailPayload{
			Title:       detail.Title,
			Description: detail.Description,
		})
	}
	return payload
}

func (h *GlossaryHandlers) listTerms(w http.ResponseWriter, r *http.Request) {
	terms := h.glossary.Terms(r.Context())

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	out := make([]termPayload, 0, len(terms))
	for _, term := range terms {
		if category != "" && !strings.EqualFold(term.Category, category) {
			continue
		}
		out = append(out, toTermPayload(term))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"terms": out})
}

func (h *GlossaryHandlers) getTerm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	term := h.glossary.TermBySlug(ctx, chi.URLParam(r, "slug"))
	if term == nil {
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "unknown glossary term", http.StatusNotFound))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTermPayload(*term))
}

func (h *GlossaryHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"categories": h.glossary.Categories(r.Context()),
	})
}

type linkRequest struct {
	Content string `json:"content"`
	HTML    bool   `json:"html"`
}

func (h *GlossaryHandlers) linkContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req linkRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	linker := h.linker(ctx)
	linked := req.Content
	if linker != nil && !linker.Empty() {
		if req.HTML {
			linked = linker.LinkHTML(req.Content)
		} else {
			linked = linker.LinkText(req.Content)
		}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"content": linked})
}

// PageHandlers serves CMS content pages, rendered and auto-linked.
type PageHandlers struct {
	cms    *cms.Client
	linker LinkerProvider
}

// NewPageHandlers constructs the content page endpoints.
func NewPageHandlers(client *cms.Client, linker LinkerProvider) *PageHandlers {
	return &PageHandlers{cms: client, linker: linker}
}

// Routes wires the /pages endpoints onto the provided router.
func (h *PageHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/{slug}", h.getPage)
}

func (h *PageHandlers) getPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	page, err := h.cms.GetContentPage(ctx, slug)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			httpx.WriteError(ctx, w, httpx.NewError("not_found", "page not found", http.StatusNotFound))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("cms_unavailable", "could not load page", http.StatusBadGateway))
		return
	}

	rendered, err := cms.RenderHTML(page)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("render_failed", "could not render page", http.StatusInternalServerError))
		return
	}
	if linker := h.linker(ctx); linker != nil && !linker.Empty() {
		rendered = linker.LinkHTML(rendered)
	}

	payload := map[string]any{
		"slug":    page.Slug,
		"title":   page.Title,
		"excerpt": page.Excerpt,
		"html":    rendered,
	}
	if !page.UpdatedAt.IsZero() {
		payload["updated_at"] = page.UpdatedAt.UTC()
	}
	httpx.WriteJSON(w, http.StatusOK, payload)
}
