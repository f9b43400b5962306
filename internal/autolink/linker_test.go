package autolink

import (
	"strings"
	"testing"

	"github.com/rishi-store/storefront/internal/domain"
)

func term(title, slug string, related ...string) domain.GlossaryTerm {
	return domain.GlossaryTerm{
		Title:           title,
		Slug:            slug,
		RelatedTerms:    related,
		Linkable:        true,
		OccurrenceLimit: 1,
	}
}

func TestLinkTextWrapsWholeWords(t *testing.T) {
	l := New([]domain.GlossaryTerm{term("Vata", "vata")})

	got := l.LinkText("Vata governs movement.")
	want := `<GlossaryTerm slug="vata">Vata</GlossaryTerm> governs movement.`
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestLinkTextIgnoresSubstrings(t *testing.T) {
	l := New([]domain.GlossaryTerm{term("Vata", "vata")})

	in := "Prativata is not a match."
	if got := l.LinkText(in); got != in {
		t.Fatalf("substring was wrapped: %q", got)
	}
}

func TestLinkTextPreservesCasing(t *testing.T) {
	l := New([]domain.GlossaryTerm{term("Vata", "vata")})

	got := l.LinkText("VATA imbalance")
	if !strings.Contains(got, ">VATA<") {
		t.Fatalf("original casing lost: %q", got)
	}
}

func TestCompoundTermBeatsContainedTerm(t *testing.T) {
	l := New([]domain.GlossaryTerm{
		term("Vata", "vata"),
		term("Vata Dosha", "vata-dosha"),
	})

	got := l.LinkText("A Vata Dosha imbalance.")
	if !strings.Contains(got, `slug="vata-dosha">Vata Dosha<`) {
		t.Fatalf("compound term lost to its prefix: %q", got)
	}
	if strings.Contains(got, `slug="vata">`) {
		t.Fatalf("contained term matched inside the compound: %q", got)
	}
}

func TestOccurrenceLimit(t *testing.T) {
	tr := term("Pitta", "pitta")
	tr.OccurrenceLimit = 2
	l := New([]domain.GlossaryTerm{tr})

	got := l.LinkText("Pitta here, Pitta there, Pitta everywhere.")
	if n := strings.Count(got, markerOpen); n != 2 {
		t.Fatalf("wrapped %d occurrences, want 2: %q", n, got)
	}
	// The third occurrence stays plain.
	if !strings.HasSuffix(got, "Pitta everywhere.") {
		t.Fatalf("got %q", got)
	}
}

func TestRelatedTermsResolveToOwningSlug(t *testing.T) {
	l := New([]domain.GlossaryTerm{term("Ashwagandha", "ashwagandha", "Winter Cherry")})

	got := l.LinkText("Winter Cherry is an adaptogen.")
	if !strings.Contains(got, `slug="ashwagandha">Winter Cherry<`) {
		t.Fatalf("related surface form not linked: %q", got)
	}
}

func TestLinkTextIdempotent(t *testing.T) {
	l := New([]domain.GlossaryTerm{term("Vata", "vata")})

	once := l.LinkText("Vata governs movement.")
	twice := l.LinkText(once)
	if once != twice {
		t.Fatalf("relinking changed the output:\nonce  %q\ntwice %q", once, twice)
	}
}

func TestNonLinkableTermsIgnored(t *testing.T) {
	tr := term("Kapha", "kapha")
	tr.Linkable = false
	l := New([]domain.GlossaryTerm{tr})

	if !l.Empty() {
		t.Fatal("linker built from non-linkable terms should be empty")
	}
	in := "Kapha stays plain."
	if got := l.LinkText(in); got != in {
		t.Fatalf("got %q", got)
	}
}

func TestEmptyLinkerReturnsInput(t *testing.T) {
	var l *Linker
	if !l.Empty() {
		t.Fatal("nil linker must report empty")
	}
	if got := l.LinkText("anything"); got != "anything" {
		t.Fatalf("got %q", got)
	}

	l = New(nil)
	if got := l.LinkHTML("<p>anything</p>"); got != "<p>anything</p>" {
		t.Fatalf("got %q", got)
	}
}
