// Package seeds lists and loads the read-only seed files bundled with the
// catalog.
package seeds

import (
	"strings"

	"github.com/goliatone/go-catalog/content"
	"github.com/goliatone/go-catalog/internal/locale"
)

// Tier orders seed files by how specific they are to a request.
type Tier int

const (
	// TierPrimary files are language-specific.
	TierPrimary Tier = iota
	// TierComprehensive files group a category across languages.
	TierComprehensive
	// TierLegacy is the unsuffixed base file.
	TierLegacy
	// TierSupplementary files carry extras merged after remote results.
	TierSupplementary
)

func (t Tier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierComprehensive:
		return "comprehensive"
	case TierLegacy:
		return "legacy"
	case TierSupplementary:
		return "supplementary"
	default:
		return "unknown"
	}
}

// Source names one bundled file (or markdown glob pattern) and its tier.
type Source struct {
	Name string
	Tier Tier
}

// IsPattern reports whether the source is a glob over markdown files.
func (s Source) IsPattern() bool {
	return strings.ContainsAny(s.Name, "*?[")
}

// FileListFunc produces the ordered seed list for a normalised language.
type FileListFunc func(language string) []Source

// Catalog maps kinds to their seed lists.
type Catalog struct {
	lists map[content.Kind]FileListFunc
}

// DefaultCatalog returns the seed layout shipped with the catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{lists: map[content.Kind]FileListFunc{
		content.KindGuide:       guideFiles,
		content.KindChecklist:   checklistFiles,
		content.KindTemplate:    templateFiles,
		content.KindPlace:       placeFiles,
		content.KindBenefitRule: benefitRuleFiles,
		content.KindNews:        newsFiles,
	}}
}

// WithFiles returns a copy of the catalog with the list for kind replaced.
func (c *Catalog) WithFiles(kind content.Kind, fn FileListFunc) *Catalog {
	next := &Catalog{lists: make(map[content.Kind]FileListFunc, len(c.lists)+1)}
	for k, v := range c.lists {
		next.lists[k] = v
	}
	if fn == nil {
		delete(next.lists, kind)
	} else {
		next.lists[kind] = fn
	}
	return next
}

// WithoutPatterns returns a copy of the catalog that skips markdown globs.
func (c *Catalog) WithoutPatterns() *Catalog {
	next := &Catalog{lists: make(map[content.Kind]FileListFunc, len(c.lists))}
	for kind, fn := range c.lists {
		fn := fn
		next.lists[kind] = func(language string) []Source {
			var out []Source
			for _, src := range fn(language) {
				if !src.IsPattern() {
					out = append(out, src)
				}
			}
			return out
		}
	}
	return next
}

// FilesFor returns the de-duplicated seed list for kind in load order.
func (c *Catalog) FilesFor(kind content.Kind, language string) []Source {
	if c == nil {
		return nil
	}
	fn, ok := c.lists[kind]
	if !ok {
		return nil
	}
	lang := locale.Normalize(language)
	if lang == "" {
		lang = content.DefaultLanguage
	}
	return dedupe(fn(lang))
}

// Tier returns only the sources of kind in tier.
func (c *Catalog) Tier(kind content.Kind, language string, tier Tier) []Source {
	var out []Source
	for _, src := range c.FilesFor(kind, language) {
		if src.Tier == tier {
			out = append(out, src)
		}
	}
	return out
}

func dedupe(sources []Source) []Source {
	seen := make(map[string]struct{}, len(sources))
	out := make([]Source, 0, len(sources))
	for _, src := range sources {
		if _, ok := seen[src.Name]; ok {
			continue
		}
		seen[src.Name] = struct{}{}
		out = append(out, src)
	}
	return out
}

func tier(t Tier, names ...string) []Source {
	out := make([]Source, 0, len(names))
	for _, name := range names {
		out = append(out, Source{Name: name, Tier: t})
	}
	return out
}

func join(groups ...[]Source) []Source {
	var out []Source
	for _, group := range groups {
		out = append(out, group...)
	}
	return out
}

func guideFiles(lang string) []Source {
	return join(
		tier(TierPrimary, "guides_"+lang+".json", "guides_uk.json", "guides_en.json", "guides_de.json"),
		tier(TierComprehensive,
			"guides_documents_all.json",
			"guides_housing_all.json",
			"guides_work_finance_all.json",
			"guides_health_insurance_all.json",
			"guides_education_integration_all.json",
			"guides_education_integration_en.json",
			"guides_education_integration_de.json",
			"guides_legal_emergency_all.json",
			"guides_transport_banking_all.json",
			"guides_comprehensive_uk.json",
			"guides_comprehensive_en.json",
			"guides_comprehensive_de.json",
		),
		tier(TierLegacy, "guides.json"),
		tier(TierSupplementary, "guides_expanded_uk.json", "guides_extra.json", "guides/*.md"),
	)
}

func checklistFiles(lang string) []Source {
	return join(
		tier(TierPrimary, "checklists_"+lang+".json"),
		tier(TierLegacy, "checklists.json"),
		tier(TierSupplementary, "checklists_extra.json"),
	)
}

func templateFiles(string) []Source {
	return join(
		tier(TierLegacy, "templates.json"),
		tier(TierSupplementary, "templates_extra.json", "templates_new.json", "templates_bilingual.json"),
	)
}

func placeFiles(string) []Source {
	return join(
		tier(TierLegacy, "places.json"),
		tier(TierSupplementary, "places_extra.json", "places_new.json", "places_ukrainian_community.json"),
	)
}

func benefitRuleFiles(lang string) []Source {
	return join(
		tier(TierPrimary, "benefit_rules_"+lang+".json"),
		tier(TierLegacy, "benefit_rules.json"),
		tier(TierSupplementary, "benefit_rules_new.json"),
	)
}

func newsFiles(string) []Source {
	return join(
		tier(TierLegacy, "news.json"),
		tier(TierSupplementary, "news_extra.json"),
	)
}
