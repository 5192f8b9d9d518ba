package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/dossier/pkg/api"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"header then paragraph", "## A\n\nplain", "<h2>A</h2>\n<p>plain</p>"},
		{"bold", "**bold** text", "<p><strong>bold</strong> text</p>"},
		{"multiple bold per line", "**a** and **b**", "<p><strong>a</strong> and <strong>b</strong></p>"},
		{"h3", "### Sub\n\nbody", "<h3>Sub</h3>\n<p>body</p>"},
		{"empty input", "", "<p></p>"},
		{"whitespace block kept", "a\n\n   \n\nb", "<p>a</p>\n<p>   </p>\n<p>b</p>"},
		{"markup passes through", "<b>x</b>", "<p><b>x</b></p>"},
		{"header joined to text in one block", "## Title\nline", "<h2>Title</h2>\nline"},
		{"hash without space is not a header", "##Title", "<p>##Title</p>"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.in))
		})
	}
}

func TestFormatDoesNotRewrapHeaders(t *testing.T) {
	once := Format("## A\n\nplain")
	twice := Format(once)
	assert.NotContains(t, twice, "<p><h2>")
	assert.True(t, strings.HasPrefix(twice, "<h2>A</h2>"))
}

var mark = Marker{Wrap: func(c Category, m string) string { return "[" + c.String() + ":" + m + "]" }}

func TestHighlightWordBoundaries(t *testing.T) {
	terms := api.KeywordSet{Keywords: []string{"AI"}}
	got := Highlight("AI and ai, but fAIled", terms, mark)
	assert.Equal(t, "[keyword:AI] and [keyword:ai], but fAIled", got)
}

func TestHighlightEscapesMetacharacters(t *testing.T) {
	terms := api.KeywordSet{Technical: []string{"C++"}}
	got := Highlight("C++ beats Cxx; c++ too", terms, mark)
	assert.Equal(t, "[technical:C++] beats Cxx; [technical:c++] too", got)

	dots := api.KeywordSet{Technical: []string{"v1.2"}}
	assert.Equal(t, "v1x2 [technical:v1.2]", Highlight("v1x2 v1.2", dots, mark))
}

func TestHighlightCategoryOrder(t *testing.T) {
	terms := api.KeywordSet{
		Entities:  []string{"Google"},
		Technical: []string{"quantum supremacy"},
		Keywords:  []string{"quantum"},
	}
	got := Highlight("Google claimed quantum supremacy.", terms, mark)
	assert.Equal(t, "[entity:Google] claimed [technical:[keyword:quantum] supremacy].", got)
}

func TestHighlightSkipsTagMarkup(t *testing.T) {
	terms := api.KeywordSet{Keywords: []string{"strong", "highlight"}}
	in := Format("**strong** claims")
	got := Highlight(in, terms, SpanMarker)
	assert.True(t, strings.HasPrefix(got, "<p><strong>"), got)
	assert.Contains(t, got, `<span class="highlight highlight-keyword">strong</span>`)
	assert.Equal(t, 1, strings.Count(got, "<span"))
}

func TestHighlightRetriesOverlappingMatch(t *testing.T) {
	terms := api.KeywordSet{Keywords: []string{"a-a"}}
	assert.Equal(t, "xa-[keyword:a-a]", Highlight("xa-a-a", terms, mark))
}

func TestHighlightIgnoresEmptyTerms(t *testing.T) {
	terms := api.KeywordSet{Entities: []string{"", "  "}}
	assert.Equal(t, "text", Highlight("text", terms, mark))
}

func TestHighlightingRoundTrip(t *testing.T) {
	cases := []struct {
		text    string
		changes bool
	}{
		{"", false},
		{"plain text", false},
		{"<h2>AI</h2>\n<p>ai systems and C++ tooling</p>", true},
		{"Ünïcode AI — ai", true},
	}
	terms := api.KeywordSet{
		Entities:  []string{"AI"},
		Technical: []string{"C++"},
		Keywords:  []string{"systems", "ai"},
	}
	for _, tc := range cases {
		text := tc.text
		h := NewHighlighting(SpanMarker)
		hc, _ := h.Enable(text, "summary "+text, terms)
		require.True(t, h.Active())
		if tc.changes {
			assert.NotEqual(t, text, hc)
		} else {
			assert.Equal(t, text, hc)
		}
		c, s, ok := h.Disable()
		require.True(t, ok)
		assert.Equal(t, text, c)
		assert.Equal(t, "summary "+text, s)
		assert.False(t, h.Active())
	}
}

func TestHighlightingReenableUsesOriginals(t *testing.T) {
	terms := api.KeywordSet{Keywords: []string{"qubit"}}
	h := NewHighlighting(mark)

	c1, _ := h.Enable("a qubit", "", terms)
	// Passing already highlighted text while active must not double wrap.
	c2, _ := h.Enable(c1, "", terms)
	assert.Equal(t, c1, c2)

	orig, _, on := h.Toggle(c2, "", terms)
	assert.False(t, on)
	assert.Equal(t, "a qubit", orig)

	c3, _, on := h.Toggle(orig, "", terms)
	assert.True(t, on)
	assert.Equal(t, c1, c3)
}

func TestDisableWhenInactive(t *testing.T) {
	h := NewHighlighting(Marker{})
	_, _, ok := h.Disable()
	assert.False(t, ok)
}

func TestSanitizeStripsScripts(t *testing.T) {
	out := Sanitize(Format("hello<script>alert(1)</script>\n\n## Title"))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<h2>Title</h2>")
	assert.Contains(t, out, "<p>hello")
}

func TestStyleMarkerUnknownCategory(t *testing.T) {
	m := StyleMarker(TerminalStyles{})
	assert.Equal(t, "x", m.Wrap(CategoryEntity, "x"))
	assert.Same(t, ANSIEscape, m.Protect)
}

func TestHighlightPlainTextAngleBrackets(t *testing.T) {
	terms := api.KeywordSet{Keywords: []string{"AI"}}
	got := Highlight("cost < AI budget > x", terms, mark)
	assert.Equal(t, "cost < [keyword:AI] budget > x", got)
}

func TestHighlightSkipsEscapeSequences(t *testing.T) {
	ansi := Marker{
		Wrap: func(c Category, m string) string {
			if c == CategoryEntity {
				return "\x1b[1;38;5;81m" + m + "\x1b[0m"
			}
			return "[" + c.String() + ":" + m + "]"
		},
		Protect: ANSIEscape,
	}
	terms := api.KeywordSet{
		Entities:  []string{"Google"},
		Technical: []string{"1"},
		Keywords:  []string{"5"},
	}
	got := Highlight("Google 5 ways", terms, ansi)
	assert.Equal(t, "\x1b[1;38;5;81mGoogle\x1b[0m [keyword:5] ways", got)
}

func TestHighlightSkipsCharacterReferences(t *testing.T) {
	terms := api.KeywordSet{Keywords: []string{"amp", "39"}}
	got := Highlight("AT&amp;T&#39;s amp", terms, SpanMarker)
	assert.Equal(t, `AT&amp;T&#39;s <span class="highlight highlight-keyword">amp</span>`, got)
}

func TestZeroMarkerMeansSpans(t *testing.T) {
	terms := api.KeywordSet{Entities: []string{"Go"}}
	assert.Equal(t, `<span class="highlight highlight-entity">Go</span>`, Highlight("Go", terms, Marker{}))
}
