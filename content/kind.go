package content

import (
	"fmt"
	"strings"
)

// Kind names one of the content collections managed by the catalog.
type Kind string

const (
	KindGuide       Kind = "guides"
	KindChecklist   Kind = "checklists"
	KindTemplate    Kind = "templates"
	KindPlace       Kind = "places"
	KindBenefitRule Kind = "benefit_rules"
	KindNews        Kind = "news"
)

var kindOrder = []Kind{
	KindGuide,
	KindChecklist,
	KindTemplate,
	KindPlace,
	KindBenefitRule,
	KindNews,
}

var kindAliases = map[string]Kind{
	"guides":        KindGuide,
	"guide":         KindGuide,
	"articles":      KindGuide,
	"article":       KindGuide,
	"checklists":    KindChecklist,
	"checklist":     KindChecklist,
	"templates":     KindTemplate,
	"template":      KindTemplate,
	"places":        KindPlace,
	"place":         KindPlace,
	"poi":           KindPlace,
	"benefit_rules": KindBenefitRule,
	"benefit_rule":  KindBenefitRule,
	"benefits":      KindBenefitRule,
	"news":          KindNews,
	"news_item":     KindNews,
}

// Kinds returns every managed kind in load order.
func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// ParseKind resolves a kind from its name or a common alias.
func ParseKind(value string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	key = strings.ReplaceAll(key, "-", "_")
	if kind, ok := kindAliases[key]; ok {
		return kind, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, value)
}

func (k Kind) String() string { return string(k) }

// Valid reports whether k is one of the managed kinds.
func (k Kind) Valid() bool {
	for _, known := range kindOrder {
		if k == known {
			return true
		}
	}
	return false
}
