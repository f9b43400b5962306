// Package autolink injects glossary links into rendered content. Matching is
// case-insensitive, whole-word, longest-surface-form-first, bounded by each
// term's occurrence limit, and never wraps text that is already linked.
package autolink

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rishi-store/storefront/internal/domain"
)

const (
	markerOpen  = "<GlossaryTerm"
	markerClose = "</GlossaryTerm>"
)

// Linker is an immutable matcher compiled from a glossary snapshot. Build it
// once per term set and reuse it across documents; occurrence counters are
// per-call, not per-Linker.
type Linker struct {
	pattern  *regexp.Regexp
	terms    []domain.GlossaryTerm
	bySlug   map[string]domain.GlossaryTerm
	surfaces map[string]string // lowercased surface form -> owning slug
}

// New compiles a Linker from the term set. Terms that are not linkable are
// ignored. A term set yielding no surface forms produces a Linker whose Link
// methods return their input unchanged.
func New(terms []domain.GlossaryTerm) *Linker {
	l := &Linker{
		terms:    terms,
		bySlug:   make(map[string]domain.GlossaryTerm),
		surfaces: make(map[string]string),
	}

	var forms []string
	for _, term := range terms {
		if !term.Linkable {
			continue
		}
		slug := strings.TrimSpace(term.Slug)
		if slug == "" {
			continue
		}
		l.bySlug[strings.ToLower(slug)] = term
		for _, surface := range append([]string{term.Title}, term.RelatedTerms...) {
			surface = strings.TrimSpace(surface)
			if surface == "" {
				continue
			}
			lower := strings.ToLower(surface)
			if _, seen := l.surfaces[lower]; seen {
				continue
			}
			l.surfaces[lower] = slug
			forms = append(forms, surface)
		}
	}
	if len(forms) == 0 {
		return l
	}

	// Alternation is tried left to right, so longer forms must come first for
	// a compound term to beat the shorter term it contains at the same
	// position. This ordering is a correctness requirement.
	sort.SliceStable(forms, func(i, j int) bool {
		return len(forms[i]) > len(forms[j])
	})
	escaped := make([]string, len(forms))
	for i, form := range forms {
		escaped[i] = regexp.QuoteMeta(form)
	}

	pattern, err := regexp.Compile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`)
	if err != nil {
		// An unparseable derived pattern behaves like an empty term set.
		return &Linker{terms: terms, bySlug: l.bySlug, surfaces: map[string]string{}}
	}
	l.pattern = pattern
	return l
}

// Empty reports whether the linker has no usable pattern.
func (l *Linker) Empty() bool {
	return l == nil || l.pattern == nil
}

// LinkText wraps qualifying occurrences in plain prose. All unmatched text is
// returned byte-for-byte unchanged; running the output through LinkText again
// is a no-op.
func (l *Linker) LinkText(content string) string {
	counters := map[string]int{}
	return l.linkWithCounters(content, counters)
}

// linkWithCounters performs one substitution pass sharing occurrence counters
// with the caller, allowing the HTML walker to keep one budget per document.
func (l *Linker) linkWithCounters(content string, counters map[string]int) string {
	if l.Empty() || content == "" {
		return content
	}

	matches := l.pattern.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var b strings.Builder
	b.Grow(len(content) + len(matches)*32)
	last := 0
	for _, span := range matches {
		start, end := span[0], span[1]
		matched := content[start:end]

		term, ok := l.lookup(matched)
		if !ok {
			continue
		}
		if insideMarker(content, start) {
			continue
		}
		slug := strings.TrimSpace(term.Slug)
		if counters[slug] >= term.OccurrenceLimit {
			continue
		}
		counters[slug]++

		b.WriteString(content[last:start])
		// Original casing of the matched text is preserved inside the marker.
		fmt.Fprintf(&b, `%s slug="%s">%s%s`, markerOpen, slug, matched, markerClose)
		last = end
	}
	b.WriteString(content[last:])
	return b.String()
}

// lookup resolves the owning term for a matched surface form.
func (l *Linker) lookup(matched string) (domain.GlossaryTerm, bool) {
	slug, ok := l.surfaces[strings.ToLower(matched)]
	if !ok {
		return domain.GlossaryTerm{}, false
	}
	term, ok := l.bySlug[strings.ToLower(slug)]
	return term, ok
}

// insideMarker reports whether position pos falls within a previously
// inserted marker, either its tag text or its wrapped content. This is the
// duplicate-injection guard that makes linking idempotent.
func insideMarker(content string, pos int) bool {
	before := content[:pos]
	open := strings.LastIndex(before, markerOpen)
	if open < 0 {
		return false
	}
	closed := strings.LastIndex(before, markerClose)
	return closed < open
}
