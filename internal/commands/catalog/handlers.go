// Package catalogcmd exposes catalog refresh, locale and cache operations as
// go-command handlers.
package catalogcmd

import (
	"context"
	"strings"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-catalog/content"
	"github.com/goliatone/go-catalog/internal/commands"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// DefaultRefreshCron is the schedule of the background refresh.
const DefaultRefreshCron = "@every 6h"

// Catalog is the engine surface the handlers drive.
type Catalog interface {
	Refresh(ctx context.Context, kinds ...content.Kind) error
	SwitchLocale(ctx context.Context, locale string) error
	ClearCache(ctx context.Context) error
}

var (
	_ command.Commander[RefreshCatalogCommand] = (*RefreshHandler)(nil)
	_ command.Commander[SwitchLocaleCommand]   = (*SwitchLocaleHandler)(nil)
	_ command.Commander[ClearCacheCommand]     = (*ClearCacheHandler)(nil)
)

// RefreshOption customises the refresh handler.
type RefreshOption func(*RefreshHandler)

// WithRefreshCron overrides the cron expression.
func WithRefreshCron(expression string) RefreshOption {
	return func(h *RefreshHandler) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			h.cronConfig.Expression = trimmed
		}
	}
}

// WithRefreshTimeout overrides the execution timeout.
func WithRefreshTimeout(timeout time.Duration) RefreshOption {
	return func(h *RefreshHandler) {
		h.timeout = timeout
	}
}

// RefreshHandler reloads the catalog, on demand or from cron.
type RefreshHandler struct {
	inner      *commands.Handler[RefreshCatalogCommand]
	cronConfig command.HandlerConfig
	timeout    time.Duration
}

// NewRefreshHandler builds a refresh handler over catalog.
func NewRefreshHandler(catalog Catalog, logger interfaces.Logger, opts ...RefreshOption) *RefreshHandler {
	h := &RefreshHandler{
		cronConfig: command.HandlerConfig{Expression: DefaultRefreshCron},
		timeout:    commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	logger = commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg RefreshCatalogCommand) error {
		return catalog.Refresh(ctx, msg.ParsedKinds()...)
	}
	h.inner = commands.NewHandler(exec,
		commands.WithLogger[RefreshCatalogCommand](logger),
		commands.WithOperation[RefreshCatalogCommand]("catalog.refresh"),
		commands.WithTimeout[RefreshCatalogCommand](h.timeout),
		commands.WithMessageFields(func(msg RefreshCatalogCommand) map[string]any {
			if len(msg.Kinds) == 0 {
				return map[string]any{"kinds": "all"}
			}
			return map[string]any{"kinds": strings.Join(msg.Kinds, ",")}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RefreshCatalogCommand](logger)),
	)
	return h
}

// Execute satisfies command.Commander[RefreshCatalogCommand].
func (h *RefreshHandler) Execute(ctx context.Context, msg RefreshCatalogCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CronHandler satisfies command.CronCommand by refreshing every kind.
func (h *RefreshHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), RefreshCatalogCommand{})
	}
}

// CronOptions satisfies command.CronCommand.
func (h *RefreshHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// CLIHandler exposes the refresh handler to CLI integrations.
func (h *RefreshHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for refresh.
func (h *RefreshHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"catalog", "refresh"},
		Group:       "catalog",
		Description: "Reload catalog content from remote, seeds and cache",
	}
}

// SwitchLocaleHandler changes the active catalog language.
type SwitchLocaleHandler struct {
	inner *commands.Handler[SwitchLocaleCommand]
}

// NewSwitchLocaleHandler builds a locale handler over catalog.
func NewSwitchLocaleHandler(catalog Catalog, logger interfaces.Logger, opts ...commands.HandlerOption[SwitchLocaleCommand]) *SwitchLocaleHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg SwitchLocaleCommand) error {
		return catalog.SwitchLocale(ctx, msg.Locale)
	}
	handlerOpts := []commands.HandlerOption[SwitchLocaleCommand]{
		commands.WithLogger[SwitchLocaleCommand](logger),
		commands.WithOperation[SwitchLocaleCommand]("catalog.switch_locale"),
		commands.WithMessageFields(func(msg SwitchLocaleCommand) map[string]any {
			return map[string]any{"locale": msg.Locale}
		}),
	}
	return &SwitchLocaleHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[SwitchLocaleCommand].
func (h *SwitchLocaleHandler) Execute(ctx context.Context, msg SwitchLocaleCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ClearCacheHandler empties the persistent cache.
type ClearCacheHandler struct {
	inner *commands.Handler[ClearCacheCommand]
}

// NewClearCacheHandler builds a cache handler over catalog.
func NewClearCacheHandler(catalog Catalog, logger interfaces.Logger, opts ...commands.HandlerOption[ClearCacheCommand]) *ClearCacheHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, _ ClearCacheCommand) error {
		return catalog.ClearCache(ctx)
	}
	handlerOpts := []commands.HandlerOption[ClearCacheCommand]{
		commands.WithLogger[ClearCacheCommand](logger),
		commands.WithOperation[ClearCacheCommand]("catalog.clear_cache"),
	}
	return &ClearCacheHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[ClearCacheCommand].
func (h *ClearCacheHandler) Execute(ctx context.Context, msg ClearCacheCommand) error {
	return h.inner.Execute(ctx, msg)
}
