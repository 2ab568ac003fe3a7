package content

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
)

// SlugNormalizer exposes the slug normalizer interface.
type SlugNormalizer = slug.Normalizer

// DefaultSlugNormalizer returns the default slug normalizer.
func DefaultSlugNormalizer() SlugNormalizer {
	return slug.Default()
}

// IsValidSlug reports whether the slug matches the default rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}

// Slugify derives a slug from free text. Titles the default normalizer cannot
// reduce (e.g. Cyrillic only) fall back to a lowercase, dash separated key that
// keeps letters and digits of any script.
func Slugify(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if normalized, err := slug.Normalize(value); err == nil && normalized != "" {
		return normalized
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
