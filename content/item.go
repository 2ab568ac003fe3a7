package content

import (
	"strings"
	"time"
)

// DefaultLanguage is the language assumed for records that carry no language.
const DefaultLanguage = "uk"

// LanguageTagPrefix marks a tag that declares the record language, e.g. "lang:en".
const LanguageTagPrefix = "lang:"

// Item is the capability shared by every catalog record. The engine only
// relies on identity, language, priority, timestamps and the searchable text
// projection; everything else is kind-specific payload.
type Item interface {
	Metadata() Meta
	Kind() Kind
	SearchText() SearchText
}

// SearchText is the per-kind projection consumed by the search ranker.
type SearchText struct {
	Title    string
	Subtitle string
	Body     string
	Category string
	Tags     []string
}

// Meta carries the fields every kind shares. Concrete records embed it.
type Meta struct {
	ID           ID        `json:"id"`
	LanguageCode string    `json:"language,omitempty"`
	Priority     int       `json:"priority"`
	Tags         []string  `json:"tags,omitempty"`
	LastUpdated  Timestamp `json:"lastUpdated"`
	CreatedAt    Timestamp `json:"createdAt"`
}

// Metadata satisfies Item for every type embedding Meta.
func (m Meta) Metadata() Meta { return m }

// HasLanguage reports whether the record declares language code either in its
// language field or through a lang:<code> tag. Both sides are compared
// lowercased; callers normalise region subtags beforehand.
func (m Meta) HasLanguage(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return false
	}
	if strings.ToLower(m.LanguageCode) == code {
		return true
	}
	return m.HasTag(LanguageTagPrefix + code)
}

// HasTag reports whether the record carries tag (case-insensitive).
func (m Meta) HasTag(tag string) bool {
	for _, candidate := range m.Tags {
		if strings.EqualFold(strings.TrimSpace(candidate), tag) {
			return true
		}
	}
	return false
}

// Updated returns the last update time.
func (m Meta) Updated() time.Time { return m.LastUpdated.Time }

// languageFromTags returns the first lang:<code> tag value.
func languageFromTags(tags []string) string {
	for _, tag := range tags {
		trimmed := strings.ToLower(strings.TrimSpace(tag))
		if !strings.HasPrefix(trimmed, LanguageTagPrefix) {
			continue
		}
		if code := strings.TrimSpace(strings.TrimPrefix(trimmed, LanguageTagPrefix)); code != "" {
			return code
		}
	}
	return ""
}

func (m *Meta) normalize() {
	m.LanguageCode = strings.ToLower(strings.TrimSpace(m.LanguageCode))
	if m.LanguageCode == "" {
		m.LanguageCode = languageFromTags(m.Tags)
	}
}
