// Package locale resolves which items of a collection to show for a language.
package locale

import (
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/goliatone/go-catalog/content"
)

// Normalize reduces a locale code to its lowercase base language, dropping
// region and script subtags ("en_US" and "en-GB" become "en"). Codes that do
// not parse as BCP 47 fall back to their first subtag.
func Normalize(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	code = strings.ReplaceAll(code, "_", "-")
	if tag, err := language.Parse(code); err == nil {
		if base, _ := tag.Base(); base.String() != "und" {
			return strings.ToLower(base.String())
		}
	}
	if idx := strings.Index(code, "-"); idx >= 0 {
		code = code[:idx]
	}
	return strings.ToLower(code)
}

// Resolver picks the items to display for a requested language.
type Resolver struct {
	Default string
}

// NewResolver returns a resolver falling back to defaultLanguage (uk when
// empty).
func NewResolver(defaultLanguage string) Resolver {
	return Resolver{Default: defaultLanguage}
}

func (r Resolver) defaultLanguage() string {
	if code := Normalize(r.Default); code != "" {
		return code
	}
	return content.DefaultLanguage
}

// Resolve returns the items in requested language. When none exist it falls
// back to items in the default language (or without a language), then to the
// whole collection. The result is ordered by priority then recency, holds each
// id once and never aliases items.
func (r Resolver) Resolve(items content.Collection, requested string) content.Collection {
	fallback := r.defaultLanguage()
	requested = Normalize(requested)
	if requested == "" {
		requested = fallback
	}

	unique := dedupe(items)

	if matched := filter(unique, func(meta content.Meta) bool {
		return matchesLanguage(meta, requested)
	}); len(matched) > 0 {
		return SortByPriority(matched)
	}

	if matched := filter(unique, func(meta content.Meta) bool {
		return matchesLanguage(meta, fallback) || languageAbsent(meta)
	}); len(matched) > 0 {
		return SortByPriority(matched)
	}

	return SortByPriority(unique)
}

// SortByPriority orders a copy of items by priority desc then lastUpdated
// desc. Equal items keep their relative order.
func SortByPriority(items content.Collection) content.Collection {
	out := items.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		left, right := out[i].Metadata(), out[j].Metadata()
		if left.Priority != right.Priority {
			return left.Priority > right.Priority
		}
		return left.LastUpdated.After(right.LastUpdated.Time)
	})
	return out
}

// Matches reports whether item is in language code (normalised).
func Matches(item content.Item, code string) bool {
	return matchesLanguage(item.Metadata(), Normalize(code))
}

func matchesLanguage(meta content.Meta, code string) bool {
	if code == "" {
		return false
	}
	if Normalize(meta.LanguageCode) == code {
		return true
	}
	for _, tag := range meta.Tags {
		if tagged, ok := tagLanguage(tag); ok && tagged == code {
			return true
		}
	}
	return false
}

// languageAbsent reads lang: tags itself so items that never went through
// content.Normalize resolve the same way as decoded ones.
func languageAbsent(meta content.Meta) bool {
	if strings.TrimSpace(meta.LanguageCode) != "" {
		return false
	}
	for _, tag := range meta.Tags {
		if _, ok := tagLanguage(tag); ok {
			return false
		}
	}
	return true
}

func tagLanguage(tag string) (string, bool) {
	tag = strings.TrimSpace(tag)
	if len(tag) <= len(content.LanguageTagPrefix) || !strings.EqualFold(tag[:len(content.LanguageTagPrefix)], content.LanguageTagPrefix) {
		return "", false
	}
	code := Normalize(tag[len(content.LanguageTagPrefix):])
	return code, code != ""
}

func dedupe(items content.Collection) content.Collection {
	seen := make(map[content.ID]struct{}, len(items))
	out := make(content.Collection, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		id := item.Metadata().ID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, item)
	}
	return out
}

func filter(items content.Collection, keep func(content.Meta) bool) content.Collection {
	out := make(content.Collection, 0, len(items))
	for _, item := range items {
		if keep(item.Metadata()) {
			out = append(out, item)
		}
	}
	return out
}
