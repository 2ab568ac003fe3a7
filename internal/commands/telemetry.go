package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

const commandModuleRoot = "catalog.commands"

// TelemetryStatus classifies how a command execution ended.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo is handed to Telemetry callbacks once a command returns.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry observes command outcomes. Installing one replaces the handler's
// built-in outcome logging.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs outcomes as command.execute.<status> with the elapsed time.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = EnsureLogger(logger)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		logOutcome(logging.WithFields(logger, info.Fields), info.Status, info.Error,
			"duration_ms", info.Duration.Milliseconds())
	}
}

// CommandLogger scopes a logger to catalog.commands.<module>.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.ModuleLogger(provider, commandModuleRoot+"."+name), map[string]any{
		"component":      "command",
		"command_module": name,
	})
}

// classify maps the wrapped function's error, and the state of ctx after it
// returned, onto a status and a tagged error.
func classify(ctx context.Context, err error) (TelemetryStatus, error) {
	switch {
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		return TelemetryStatusContextError, WrapContextError(err)
	case err != nil:
		return TelemetryStatusFailed, WrapExecuteError(err)
	case ctx.Err() != nil:
		return TelemetryStatusContextError, WrapContextError(ctx.Err())
	}
	return TelemetryStatusSuccess, nil
}

func logOutcome(logger interfaces.Logger, status TelemetryStatus, err error, args ...any) {
	if status == TelemetryStatusSuccess {
		logger.Info("command.execute.success", args...)
		return
	}
	logger.Error("command.execute."+string(status), append(args, "error", err)...)
}
