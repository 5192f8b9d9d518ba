// Package render turns report text into display fragments: the markdown
// subset formatter and the reversible keyword highlighter.
package render

import (
	"regexp"
	"strings"
)

var (
	h2Line = regexp.MustCompile(`(?m)^## (.+)$`)
	h3Line = regexp.MustCompile(`(?m)^### (.+)$`)
	strong = regexp.MustCompile(`\*\*(.+?)\*\*`)
	// headerBlock matches blocks that already open with a header tag.
	headerBlock = regexp.MustCompile(`^<h[1-6][ >]`)
)

// Format converts the markdown subset used by reports into an HTML fragment.
//
// Rules apply in order: "## x" lines become <h2>, "### x" lines become <h3>,
// **x** spans become <strong>, then blank-line separated blocks are wrapped
// in <p> unless they already start with a header tag. Input is not escaped;
// markup embedded in the text passes through verbatim. Use Sanitize on the
// result when the source is untrusted.
func Format(s string) string {
	s = h2Line.ReplaceAllString(s, "<h2>$1</h2>")
	s = h3Line.ReplaceAllString(s, "<h3>$1</h3>")
	s = strong.ReplaceAllString(s, "<strong>$1</strong>")

	blocks := strings.Split(s, "\n\n")
	out := make([]string, len(blocks))
	for i, b := range blocks {
		if headerBlock.MatchString(b) {
			out[i] = b
			continue
		}
		out[i] = "<p>" + b + "</p>"
	}
	return strings.Join(out, "\n")
}
