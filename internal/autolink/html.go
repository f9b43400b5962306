package autolink

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// skipElements are the elements whose text must never be rewrapped: existing
// hyperlinks, code and preformatted spans, and previously inserted markers.
var skipElements = map[string]bool{
	"a":            true,
	"code":         true,
	"pre":          true,
	"glossaryterm": true,
}

// LinkHTML wraps qualifying occurrences in structured content. Only plain
// prose text nodes are matched; text inside anchors, code/pre spans, and
// existing markers is walked past untouched. Markup and unmatched text are
// emitted byte-for-byte as they appeared in the input.
func (l *Linker) LinkHTML(content string) string {
	if l.Empty() || content == "" {
		return content
	}
	if !strings.ContainsRune(content, '<') {
		return l.LinkText(content)
	}

	counters := map[string]int{}
	tokenizer := html.NewTokenizer(strings.NewReader(content))
	var b strings.Builder
	b.Grow(len(content))
	skipDepth := 0

	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			if tokenizer.Err() == io.EOF {
				return b.String()
			}
			// Unparseable markup: leave the document as it arrived.
			return content
		}

		raw := string(tokenizer.Raw())
		switch tokenType {
		case html.StartTagToken:
			if name, _ := tokenizer.TagName(); skipElements[string(name)] {
				skipDepth++
			}
			b.WriteString(raw)
		case html.EndTagToken:
			if name, _ := tokenizer.TagName(); skipElements[string(name)] && skipDepth > 0 {
				skipDepth--
			}
			b.WriteString(raw)
		case html.TextToken:
			if skipDepth == 0 {
				b.WriteString(l.linkWithCounters(raw, counters))
			} else {
				b.WriteString(raw)
			}
		default:
			b.WriteString(raw)
		}
	}
}
