package render

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mithrel/dossier/pkg/api"
)

// Category identifies a highlight term group. Categories apply in
// declaration order.
type Category int

const (
	CategoryEntity Category = iota
	CategoryTechnical
	CategoryKeyword
)

func (c Category) String() string {
	switch c {
	case CategoryEntity:
		return "entity"
	case CategoryTechnical:
		return "technical"
	case CategoryKeyword:
		return "keyword"
	default:
		return "unknown"
	}
}

// Wrap draws one matched span. match keeps the casing found in the text.
type Wrap func(c Category, match string) string

// Marker pairs a Wrap with the spans of the text that matches must never
// overlap: markup the text already carries and markup Wrap itself emits.
// A nil Protect leaves every match eligible.
type Marker struct {
	Wrap    Wrap
	Protect *regexp.Regexp
}

// HTMLMarkup matches tags and character references.
var HTMLMarkup = regexp.MustCompile(`<[^<>]*>|&(?:[A-Za-z][A-Za-z0-9]*|#[0-9]+|#[xX][0-9A-Fa-f]+);`)

// ANSIEscape matches CSI escape sequences such as SGR color codes.
var ANSIEscape = regexp.MustCompile(`\x1b\[[0-9;:?]*[ -/]*[@-~]`)

// SpanMarker wraps matches in a category-specific HTML span and leaves HTML
// markup alone.
var SpanMarker = Marker{Wrap: spanWrap, Protect: HTMLMarkup}

func spanWrap(c Category, match string) string {
	return `<span class="highlight highlight-` + c.String() + `">` + match + `</span>`
}

// Highlight wraps whole-word, case-insensitive occurrences of every term.
// Entities are applied first, then technical terms, then keywords; each term
// in list order. A later term may wrap text already wrapped by an earlier one.
// Matches overlapping a span of mark.Protect are left alone. A zero Marker
// means SpanMarker.
func Highlight(text string, terms api.KeywordSet, mark Marker) string {
	if mark.Wrap == nil {
		mark = SpanMarker
	}
	groups := []struct {
		cat   Category
		terms []string
	}{
		{CategoryEntity, terms.Entities},
		{CategoryTechnical, terms.Technical},
		{CategoryKeyword, terms.Keywords},
	}
	for _, g := range groups {
		for _, term := range g.terms {
			text = highlightTerm(text, term, g.cat, mark)
		}
	}
	return text
}

func highlightTerm(text, term string, cat Category, mark Marker) string {
	if strings.TrimSpace(term) == "" || text == "" {
		return text
	}
	// QuoteMeta output always compiles.
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term))
	needLeft := isWordByte(term[0])
	needRight := isWordByte(term[len(term)-1])
	var protected [][]int
	if mark.Protect != nil {
		protected = mark.Protect.FindAllStringIndex(text, -1)
	}

	var b strings.Builder
	last, pos := 0, 0
	for pos <= len(text) {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		s, e := pos+loc[0], pos+loc[1]
		ok := !(needLeft && s > 0 && isWordByte(text[s-1])) &&
			!(needRight && e < len(text) && isWordByte(text[e])) &&
			!overlapsAny(protected, s, e)
		if !ok {
			// Retry one rune later so an overlapping, properly bounded match
			// is still found.
			_, size := utf8.DecodeRuneInString(text[s:])
			if size == 0 {
				break
			}
			pos = s + size
			continue
		}
		b.WriteString(text[last:s])
		b.WriteString(mark.Wrap(cat, text[s:e]))
		last, pos = e, e
		if e == s {
			pos++
		}
	}
	if last == 0 && b.Len() == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// isWordByte mirrors the ASCII word class used by \b.
func isWordByte(c byte) bool {
	return c == '_' ||
		('0' <= c && c <= '9') ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z')
}

func overlapsAny(spans [][]int, s, e int) bool {
	for _, t := range spans {
		if t[0] >= e {
			return false
		}
		if s < t[1] && t[0] < e {
			return true
		}
	}
	return false
}

// Highlighting keeps the pre-highlight text of the current report so that
// turning highlighting off restores it byte for byte.
type Highlighting struct {
	mark    Marker
	active  bool
	content string
	summary string
}

// NewHighlighting returns an inactive state using mark for matches.
func NewHighlighting(mark Marker) *Highlighting {
	if mark.Wrap == nil {
		mark = SpanMarker
	}
	return &Highlighting{mark: mark}
}

// Active reports whether originals are currently held.
func (h *Highlighting) Active() bool { return h.active }

// Enable captures content and summary on first application and returns the
// highlighted pair. While active the transform always runs over the captured
// originals, never over previously highlighted text.
func (h *Highlighting) Enable(content, summary string, terms api.KeywordSet) (string, string) {
	if !h.active {
		h.content, h.summary = content, summary
		h.active = true
	}
	return Highlight(h.content, terms, h.mark), Highlight(h.summary, terms, h.mark)
}

// Disable returns the captured originals and drops them. ok is false when
// highlighting was not active.
func (h *Highlighting) Disable() (content, summary string, ok bool) {
	if !h.active {
		return "", "", false
	}
	content, summary = h.content, h.summary
	h.Reset()
	return content, summary, true
}

// Toggle flips the state and returns the text to display next.
func (h *Highlighting) Toggle(content, summary string, terms api.KeywordSet) (string, string, bool) {
	if h.active {
		c, s, _ := h.Disable()
		return c, s, false
	}
	c, s := h.Enable(content, summary, terms)
	return c, s, true
}

// Reset forgets captured originals, e.g. when the current report changes.
func (h *Highlighting) Reset() {
	h.active = false
	h.content, h.summary = "", ""
}
