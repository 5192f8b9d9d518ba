package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// timestamp layouts the backend is known to emit; SQLite's CURRENT_TIMESTAMP
// is the space-separated form.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp decodes loosely formatted backend times. Values that do not
// parse keep Raw and leave Time zero instead of failing the whole payload.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// ParseTimestamp parses s with the known layouts.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	ts := Timestamp{Raw: s}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			break
		}
	}
	return ts
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// Numbers or objects: keep the raw text, no time.
		*t = Timestamp{Raw: string(b)}
		return nil
	}
	*t = ParseTimestamp(s)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		if t.Raw == "" {
			return []byte("null"), nil
		}
		return json.Marshal(t.Raw)
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// IsZero reports whether no time could be parsed.
func (t Timestamp) IsZero() bool { return t.Time.IsZero() }

// Date returns YYYY-MM-DD, or the raw value when unparsed.
func (t Timestamp) Date() string {
	if t.Time.IsZero() {
		return t.Raw
	}
	return t.Time.Format("2006-01-02")
}

// String formats for list display.
func (t Timestamp) String() string {
	if t.Time.IsZero() {
		return t.Raw
	}
	return t.Time.Format("2006-01-02 15:04")
}
