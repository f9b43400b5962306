package cms

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/rishi-store/storefront/internal/domain"
)

const (
	defaultTermCategory = "No Category"
	defaultTermLimit    = 1
)

type glossaryPayload struct {
	Data []glossaryEntry `json:"data"`
}

type glossaryEntry struct {
	Title        string           `json:"title"`
	Slug         string           `json:"slug"`
	Excerpt      string           `json:"excerpt"`
	Category     string           `json:"category"`
	Description  string           `json:"description"`
	Details      []glossaryDetail `json:"details"`
	RelatedTerms []string         `json:"related_terms"`
	Linkable     *bool            `json:"linkable"`
	Occurrences  *int             `json:"occurrences"`
}

type glossaryDetail struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FetchGlossary reads the full glossary collection. The payload may be a bare
// array or wrapped in a data key.
func (c *Client) FetchGlossary(ctx context.Context) ([]domain.GlossaryTerm, error) {
	query := url.Values{"populate": {"1"}}

	var raw json.RawMessage
	if err := c.getJSON(ctx, "api/content/items/glossary", query, &raw); err != nil {
		return nil, err
	}

	var entries []glossaryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		var wrapped glossaryPayload
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, err
		}
		entries = wrapped.Data
	}

	terms := make([]domain.GlossaryTerm, 0, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Title) == "" {
			continue
		}
		terms = append(terms, entry.toTerm())
	}
	return terms, nil
}

func (e glossaryEntry) toTerm() domain.GlossaryTerm {
	term := domain.GlossaryTerm{
		Title:           strings.TrimSpace(e.Title),
		Slug:            strings.TrimSpace(e.Slug),
		Excerpt:         strings.TrimSpace(e.Excerpt),
		Category:        strings.TrimSpace(e.Category),
		Description:     e.Description,
		Linkable:        true,
		OccurrenceLimit: defaultTermLimit,
	}
	if term.Slug == "" {
		term.Slug = Slugify(term.Title)
	}
	if term.Category == "" {
		term.Category = defaultTermCategory
	}
	if e.Linkable != nil {
		term.Linkable = *e.Linkable
	}
	if e.Occurrences != nil && *e.Occurrences > 0 {
		term.OccurrenceLimit = *e.Occurrences
	}
	for _, detail := range e.Details {
		if strings.TrimSpace(detail.Title) == "" && strings.TrimSpace(detail.Description) == "" {
			continue
		}
		term.Details = append(term.Details, domain.GlossaryDetail{
			Title:       strings.TrimSpace(detail.Title),
			Description: detail.Description,
		})
	}
	for _, related := range e.RelatedTerms {
		if related = strings.TrimSpace(related); related != "" {
			term.RelatedTerms = append(term.RelatedTerms, related)
		}
	}
	return term
}

// Slugify derives a URL slug from a term title.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	return strings.Join(strings.Fields(slug), "-")
}

// GlossarySource is the read the glossary cache depends on.
type GlossarySource interface {
	FetchGlossary(ctx context.Context) ([]domain.GlossaryTerm, error)
}

// Glossary caches the term list for the lifetime of the process. Terms change
// rarely; one fetch per session is enough, and a failed fetch degrades to an
// empty glossary rather than surfacing an error to readers.
type Glossary struct {
	source GlossarySource
	logger *zap.Logger

	once  sync.Once
	mu    sync.RWMutex
	terms []domain.GlossaryTerm
	index map[string]int
}

// NewGlossary wraps a source in a load-once cache.
func NewGlossary(source GlossarySource, logger *zap.Logger) *Glossary {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Glossary{source: source, logger: logger}
}

func (g *Glossary) load(ctx context.Context) {
	g.once.Do(func() {
		terms, err := g.source.FetchGlossary(ctx)
		if err != nil {
			g.logger.Warn("glossary fetch failed, continuing with empty glossary", zap.Error(err))
			terms = nil
		}
		index := make(map[string]int, len(terms))
		for i, term := range terms {
			index[strings.ToLower(term.Slug)] = i
		}
		g.mu.Lock()
		g.terms = terms
		g.index = index
		g.mu.Unlock()
	})
}

// Terms returns every glossary term, loading on first use.
func (g *Glossary) Terms(ctx context.Context) []domain.GlossaryTerm {
	g.load(ctx)
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.GlossaryTerm, len(g.terms))
	copy(out, g.terms)
	return out
}

// TermBySlug looks a term up case-insensitively. A miss returns nil; lookups
// never fail.
func (g *Glossary) TermBySlug(ctx context.Context, slug string) *domain.GlossaryTerm {
	g.load(ctx)
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	i, ok := g.index[slug]
	if !ok {
		return nil
	}
	term := g.terms[i]
	return &term
}

// Categories returns the distinct term categories in first-seen order.
func (g *Glossary) Categories(ctx context.Context) []string {
	g.load(ctx)
	g.mu.RLock()
	defer g.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for _, term := range g.terms {
		if !seen[term.Category] {
			seen[term.Category] = true
			out = append(out, term.Category)
		}
	}
	return out
}
