package catalogcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-catalog/content"
	"github.com/goliatone/go-catalog/internal/locale"
)

const (
	refreshMessageType      = "catalog.refresh"
	switchLocaleMessageType = "catalog.switch_locale"
	clearCacheMessageType   = "catalog.clear_cache"
)

// RefreshCatalogCommand reloads the named kinds, or every kind when empty.
type RefreshCatalogCommand struct {
	Kinds []string `json:"kinds,omitempty"`
}

// Type implements command.Message.
func (RefreshCatalogCommand) Type() string { return refreshMessageType }

// Validate ensures every kind is known.
func (cmd RefreshCatalogCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Kinds, validation.Each(validation.By(func(value any) error {
			if _, err := content.ParseKind(value.(string)); err != nil {
				return validation.NewError("catalog.refresh.kind_unknown", "unknown content kind")
			}
			return nil
		}))),
	)
}

// ParsedKinds resolves the requested kinds.
func (cmd RefreshCatalogCommand) ParsedKinds() []content.Kind {
	kinds := make([]content.Kind, 0, len(cmd.Kinds))
	for _, raw := range cmd.Kinds {
		if kind, err := content.ParseKind(raw); err == nil {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// SwitchLocaleCommand changes the active language and reloads the catalog.
type SwitchLocaleCommand struct {
	Locale string `json:"locale"`
}

// Type implements command.Message.
func (SwitchLocaleCommand) Type() string { return switchLocaleMessageType }

// Validate ensures the locale names a language.
func (cmd SwitchLocaleCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Locale, validation.Required, validation.By(func(value any) error {
			if locale.Normalize(strings.TrimSpace(value.(string))) == "" {
				return validation.NewError("catalog.switch_locale.locale_invalid", "locale is invalid")
			}
			return nil
		})),
	)
}

// ClearCacheCommand empties the persistent cache.
type ClearCacheCommand struct{}

// Type implements command.Message.
func (ClearCacheCommand) Type() string { return clearCacheMessageType }

// Validate satisfies command.Message.
func (ClearCacheCommand) Validate() error { return nil }
