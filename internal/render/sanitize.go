package render

import "github.com/microcosm-cc/bluemonday"

var ugc = bluemonday.UGCPolicy()

// Sanitize strips markup outside the user-generated-content policy from a
// formatted fragment. Format itself never escapes; callers opt in here.
func Sanitize(fragment string) string {
	return ugc.Sanitize(fragment)
}
