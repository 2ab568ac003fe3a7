// Package gologger adapts github.com/goliatone/go-logger to the catalog
// logging contract.
package gologger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// ErrUnsupportedFormat is returned for an output format go-logger lacks.
var ErrUnsupportedFormat = errors.New("gologger: unsupported format")

// Config mirrors the logging section of the runtime configuration.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Provider hands out go-logger child loggers per catalog module.
type Provider struct {
	root *glog.BaseLogger
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// NewProvider builds the root go-logger from cfg.
func NewProvider(cfg Config) (*Provider, error) {
	options, err := optionsFor(cfg)
	if err != nil {
		return nil, err
	}
	root := glog.NewLogger(options...)
	if focus := trimmed(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root}, nil
}

func optionsFor(cfg Config) ([]glog.Option, error) {
	var options []glog.Option
	if level, ok := levels[strings.ToLower(strings.TrimSpace(cfg.Level))]; ok {
		options = append(options, glog.WithLevel(level))
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, cfg.Format)
	}
	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}
	return options, nil
}

// GetLogger returns the child logger for a module name.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name == "" {
		return wrap(p.root)
	}
	return wrap(p.root.GetLogger(name))
}

func wrap(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &adapter{inner: inner}
}

type adapter struct {
	inner glog.Logger
}

func (l *adapter) Trace(msg string, args ...any) { l.inner.Trace(msg, args...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, args...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatal(msg, args...) }

// WithFields prefers go-logger's native field support and falls back to
// sorted key/value pairs.
func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	copied := make(map[string]any, len(fields))
	keys := make([]string, 0, len(fields))
	for key, value := range fields {
		copied[key] = value
		keys = append(keys, key)
	}
	if native, ok := l.inner.(glog.FieldsLogger); ok {
		return wrap(native.WithFields(copied))
	}

	sort.Strings(keys)
	pairs := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, key, copied[key])
	}
	if with, ok := l.inner.(interface{ With(...any) *glog.BaseLogger }); ok {
		return wrap(with.With(pairs...))
	}
	return l
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	return wrap(l.inner.WithContext(ctx))
}

func trimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
