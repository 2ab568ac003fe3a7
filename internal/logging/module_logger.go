package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-catalog/pkg/interfaces"
)

const (
	rootModule     = "catalog"
	engineModule   = "catalog.engine"
	cacheModule    = "catalog.cache"
	seedsModule    = "catalog.seeds"
	remoteModule   = "catalog.remote"
	markdownModule = "catalog.markdown"
)

const (
	fieldKind     = "kind"
	fieldLanguage = "language"
	fieldSource   = "source"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// EngineLogger returns the logger namespace of the load orchestrator.
func EngineLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, engineModule)
}

// CacheLogger returns the logger namespace of the persistent cache stores.
func CacheLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, cacheModule)
}

// SeedsLogger returns the logger namespace of the bundled seed loader.
func SeedsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, seedsModule)
}

// RemoteLogger returns the logger namespace of remote sources.
func RemoteLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, remoteModule)
}

// MarkdownLogger returns the logger namespace of markdown parsing and rendering.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// WithLoadContext enriches logger with the kind, language and source of a
// load step. Empty values are ignored.
func WithLoadContext(logger interfaces.Logger, kind, language, source string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(kind); trimmed != "" {
		fields[fieldKind] = trimmed
	}
	if trimmed := strings.TrimSpace(language); trimmed != "" {
		fields[fieldLanguage] = trimmed
	}
	if trimmed := strings.TrimSpace(source); trimmed != "" {
		fields[fieldSource] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
