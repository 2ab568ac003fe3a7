package commands

import (
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	internalcommands "github.com/goliatone/go-catalog/internal/commands"
	catalogcmd "github.com/goliatone/go-catalog/internal/commands/catalog"
	"github.com/goliatone/go-catalog/internal/di"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// RefreshCron overrides Config.Refresh.Cron for the scheduled refresh.
	RefreshCron string
}

// RegistrationResult captures the constructed command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// CommandLogger returns the logger used by catalog command handlers.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	return internalcommands.CommandLogger(provider, module)
}

// RegisterContainerCommands builds the catalog command handlers for the
// container's engine and optionally registers them with registry, dispatcher
// and cron integrations. Cron registration only happens when the
// scheduled_fetch feature is on.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	cfg := container.Config

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	cronEnabled := opts.CronRegistrar != nil && cfg.Features.ScheduledFetch

	if opts.Registry != nil && cronEnabled {
		if reg, ok := opts.Registry.(interface {
			SetCronRegister(func(command.HandlerConfig, any) error) *command.Registry
		}); ok && reg != nil {
			reg.SetCronRegister(opts.CronRegistrar)
		}
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}

		if cronEnabled {
			if cronCmd, ok := handler.(command.CronCommand); ok {
				if err := opts.CronRegistrar(cronCmd.CronOptions(), cronCmd.CronHandler()); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
	}

	eng := container.Engine()
	if eng == nil {
		return result, errors.New("no command handlers registered; container has no engine")
	}
	logger := CommandLogger(provider, "catalog")

	cron := strings.TrimSpace(opts.RefreshCron)
	if cron == "" {
		cron = cfg.Refresh.Cron
	}
	refreshOpts := []catalogcmd.RefreshOption{catalogcmd.WithRefreshCron(cron)}
	if cfg.Refresh.Timeout > 0 {
		refreshOpts = append(refreshOpts, catalogcmd.WithRefreshTimeout(cfg.Refresh.Timeout))
	}

	register(catalogcmd.NewRefreshHandler(eng, logger, refreshOpts...))
	register(catalogcmd.NewSwitchLocaleHandler(eng, logger))
	register(catalogcmd.NewClearCacheHandler(eng, logger))

	return result, errs
}
