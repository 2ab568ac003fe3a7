package commands

import (
	"context"
	"errors"
	"testing"

	command "github.com/goliatone/go-command"

	catalogcmd "github.com/goliatone/go-catalog/internal/commands/catalog"
	"github.com/goliatone/go-catalog/internal/di"
	"github.com/goliatone/go-catalog/internal/engine"
	"github.com/goliatone/go-catalog/internal/runtimeconfig"
)

func newContainer(t *testing.T, cfg runtimeconfig.Config) *di.Container {
	t.Helper()
	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	return container
}

func TestRegisterContainerCommandsBuildsHandlers(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.ScheduledFetch = true

	registry := &recordingRegistry{}
	dispatcher := &recordingDispatcher{}
	cron := &recordingCron{}

	result, err := RegisterContainerCommands(newContainer(t, cfg), RegistrationOptions{
		Registry:      registry,
		Dispatcher:    dispatcher,
		CronRegistrar: cron.Registrar(),
		RefreshCron:   "@hourly",
	})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	if len(result.Handlers) != 3 {
		t.Fatalf("expected three catalog handlers, got %d", len(result.Handlers))
	}
	if len(result.Handlers) != len(registry.handlers) {
		t.Fatalf("expected registry to record all handlers, got %d of %d", len(registry.handlers), len(result.Handlers))
	}
	if len(dispatcher.subscriptions) != 3 || len(result.Subscriptions) != 3 {
		t.Fatalf("expected dispatcher subscriptions for every handler, got %d", len(dispatcher.subscriptions))
	}
	if len(cron.registrations) != 1 {
		t.Fatalf("expected only the refresh handler on cron, got %d", len(cron.registrations))
	}
	if got := cron.registrations[0].config.Expression; got != "@hourly" {
		t.Fatalf("expected refresh cron expression override, got %q", got)
	}
	if cron.registrations[0].handler == nil {
		t.Fatal("expected cron handler func")
	}
}

func TestRegisterContainerCommandsSkipsCronWhenSchedulingDisabled(t *testing.T) {
	cron := &recordingCron{}
	result, err := RegisterContainerCommands(newContainer(t, runtimeconfig.DefaultConfig()), RegistrationOptions{
		CronRegistrar: cron.Registrar(),
	})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(result.Handlers) == 0 {
		t.Fatal("expected handlers to be built even without scheduling")
	}
	if len(cron.registrations) != 0 {
		t.Fatalf("expected no cron registrations, got %d", len(cron.registrations))
	}
}

func TestRegisterContainerCommandsWithoutRegistrars(t *testing.T) {
	result, err := RegisterContainerCommands(newContainer(t, runtimeconfig.DefaultConfig()), RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(result.Subscriptions) != 0 {
		t.Fatalf("expected no dispatcher subscriptions without dispatcher, got %d", len(result.Subscriptions))
	}

	var refresh *catalogcmd.RefreshHandler
	for _, handler := range result.Handlers {
		if h, ok := handler.(*catalogcmd.RefreshHandler); ok {
			refresh = h
		}
	}
	if refresh == nil {
		t.Fatal("expected refresh handler")
	}
	if got := refresh.CronOptions().Expression; got != "@every 6h" {
		t.Fatalf("expected configured refresh cron, got %q", got)
	}
}

func TestRegisteredHandlersDriveTheEngine(t *testing.T) {
	container := newContainer(t, runtimeconfig.DefaultConfig())
	result, err := RegisterContainerCommands(container, RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	ctx := context.Background()
	for _, handler := range result.Handlers {
		switch h := handler.(type) {
		case *catalogcmd.RefreshHandler:
			if err := h.Execute(ctx, catalogcmd.RefreshCatalogCommand{Kinds: []string{"guides"}}); err != nil {
				t.Fatalf("refresh: %v", err)
			}
		case *catalogcmd.SwitchLocaleHandler:
			if err := h.Execute(ctx, catalogcmd.SwitchLocaleCommand{Locale: "en"}); err != nil {
				t.Fatalf("switch locale: %v", err)
			}
		}
	}

	eng := container.Engine()
	if eng.Language() != "en" {
		t.Fatalf("expected locale switched to en, got %q", eng.Language())
	}
	if state := eng.State("guides"); state != engine.StateReady {
		t.Fatalf("expected guides ready, got %s", state)
	}
}

func TestRegisterContainerCommandsCollectsRegistrarErrors(t *testing.T) {
	dispatcher := &recordingDispatcher{err: errors.New("dispatcher down")}
	result, err := RegisterContainerCommands(newContainer(t, runtimeconfig.DefaultConfig()), RegistrationOptions{
		Dispatcher: dispatcher,
	})
	if err == nil {
		t.Fatal("expected dispatcher error")
	}
	if len(result.Handlers) != 3 {
		t.Fatalf("expected handlers despite dispatcher errors, got %d", len(result.Handlers))
	}
}

func TestRegisterContainerCommandsNilContainer(t *testing.T) {
	result, err := RegisterContainerCommands(nil, RegistrationOptions{})
	if err != nil || len(result.Handlers) != 0 {
		t.Fatalf("expected empty result, got %v, %v", result, err)
	}
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

type cronRegistration struct {
	config  command.HandlerConfig
	handler func() error
}

type recordingCron struct {
	registrations []cronRegistration
	err           error
}

func (c *recordingCron) Registrar() CronRegistrar {
	return func(cfg command.HandlerConfig, handler any) error {
		if c.err != nil {
			return c.err
		}
		var fn func() error
		if h, ok := handler.(func() error); ok {
			fn = h
		}
		c.registrations = append(c.registrations, cronRegistration{
			config:  cfg,
			handler: fn,
		})
		return nil
	}
}

type recordingDispatcher struct {
	handlers      []any
	subscriptions []*recordingSubscription
	err           error
}

func (d *recordingDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.handlers = append(d.handlers, handler)
	sub := &recordingSubscription{handler: handler}
	d.subscriptions = append(d.subscriptions, sub)
	return sub, nil
}

type recordingSubscription struct {
	handler      any
	unsubscribed bool
}

func (s *recordingSubscription) Unsubscribe() {
	s.unsubscribed = true
}
