package content

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Timestamp is a time.Time that decodes leniently. Bundled files mix several
// layouts; an unparseable value decodes to the zero time instead of failing
// the record.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t in UTC.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Time: t.UTC()}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the layouts seen in bundled and remote payloads.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// UnmarshalJSON accepts strings in any supported layout and unix seconds.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return nil
		}
		if parsed, ok := ParseTimestamp(value); ok {
			t.Time = parsed
		}
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return nil
	}
	if seconds, err := number.Int64(); err == nil {
		t.Time = time.Unix(seconds, 0).UTC()
		return nil
	}
	if seconds, err := number.Float64(); err == nil {
		t.Time = time.Unix(int64(seconds), 0).UTC()
	}
	return nil
}
