// Package console writes catalog log entries as single key=value lines.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// Level represents the severity attached to a log entry.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "INFO"
}

// ParseLevel maps a configuration value to a Level. Unknown values resolve to
// LevelInfo and false.
func ParseLevel(value string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "TRACE":
		return LevelTrace, true
	case "DEBUG":
		return LevelDebug, true
	case "INFO", "":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "FATAL":
		return LevelFatal, true
	}
	return LevelInfo, false
}

// Options configures the console logger provider.
type Options struct {
	Writer   io.Writer
	TimeFunc func() time.Time
	MinLevel *Level
	// Focus limits output to loggers whose name starts with one of the
	// prefixes, e.g. "catalog.engine". Empty means every logger.
	Focus []string
}

type provider struct {
	writer   io.Writer
	clock    func() time.Time
	minLevel Level
	focus    []string
	mu       sync.Mutex
}

// NewProvider constructs a console-backed logger provider. Entries go to
// stdout at DEBUG and above unless Options say otherwise.
func NewProvider(opts Options) interfaces.LoggerProvider {
	p := &provider{
		writer:   opts.Writer,
		clock:    opts.TimeFunc,
		minLevel: LevelDebug,
	}
	if p.writer == nil {
		p.writer = os.Stdout
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if opts.MinLevel != nil {
		p.minLevel = *opts.MinLevel
	}
	for _, prefix := range opts.Focus {
		if trimmed := strings.TrimSpace(prefix); trimmed != "" {
			p.focus = append(p.focus, trimmed)
		}
	}
	return p
}

func (p *provider) GetLogger(name string) interfaces.Logger {
	return &consoleLogger{
		provider: p,
		muted:    !p.focused(name),
		fields:   map[string]any{"logger": name},
	}
}

func (p *provider) focused(name string) bool {
	if len(p.focus) == 0 {
		return true
	}
	for _, prefix := range p.focus {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

type consoleLogger struct {
	provider *provider
	muted    bool
	fields   map[string]any
	ctx      context.Context
}

var (
	_ interfaces.Logger       = (*consoleLogger)(nil)
	_ interfaces.FieldsLogger = (*consoleLogger)(nil)
)

func (l *consoleLogger) Trace(msg string, args ...any) { l.log(LevelTrace, msg, args) }
func (l *consoleLogger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args) }
func (l *consoleLogger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args) }
func (l *consoleLogger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args) }
func (l *consoleLogger) Error(msg string, args ...any) { l.log(LevelError, msg, args) }
func (l *consoleLogger) Fatal(msg string, args ...any) { l.log(LevelFatal, msg, args) }

func (l *consoleLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	child := l.clone()
	for key, value := range fields {
		child.fields[key] = value
	}
	return child
}

func (l *consoleLogger) WithContext(ctx context.Context) interfaces.Logger {
	child := l.clone()
	child.ctx = ctx
	return child
}

func (l *consoleLogger) clone() *consoleLogger {
	fields := make(map[string]any, len(l.fields)+2)
	for key, value := range l.fields {
		fields[key] = value
	}
	return &consoleLogger{provider: l.provider, muted: l.muted, fields: fields, ctx: l.ctx}
}

func (l *consoleLogger) log(level Level, msg string, args []any) {
	if l.provider == nil || l.muted || level < l.provider.minLevel {
		return
	}

	fields := make(map[string]any, len(l.fields)+len(args)/2+2)
	for key, value := range l.fields {
		fields[key] = value
	}
	for key, value := range logging.ContextFields(l.ctx) {
		fields[key] = value
	}
	mergeArgs(fields, args)

	line := formatEntry(l.provider.clock().UTC(), level, msg, fields)

	l.provider.mu.Lock()
	defer l.provider.mu.Unlock()
	// Best effort: a failing writer must not take the caller down.
	_, _ = io.WriteString(l.provider.writer, line+"\n")
}

// mergeArgs reads args as key/value pairs. Values without a usable string key
// are stored positionally as field_<n>.
func mergeArgs(fields map[string]any, args []any) {
	for i := 0; i < len(args); i += 2 {
		if i == len(args)-1 {
			fields[fmt.Sprintf("field_%d", i/2)] = args[i]
			return
		}
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = fmt.Sprintf("field_%d", i/2)
		}
		fields[key] = args[i+1]
	}
}

func formatEntry(ts time.Time, level Level, msg string, fields map[string]any) string {
	var b strings.Builder
	b.Grow(64 + len(msg) + len(fields)*16)
	b.WriteString(ts.Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(level.String())
	b.WriteByte(' ')
	b.WriteString(msg)

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(formatValue(fields[key]))
	}
	return b.String()
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return quoteIfNeeded(v)
	case time.Time:
		return quoteIfNeeded(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return v.String()
	case error:
		return quoteIfNeeded(v.Error())
	case fmt.Stringer:
		return quoteIfNeeded(v.String())
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	default:
		return quoteIfNeeded(fmt.Sprint(v))
	}
}

func quoteIfNeeded(value string) string {
	if value == "" {
		return `""`
	}
	if strings.IndexFunc(value, func(r rune) bool { return r <= 0x20 || r == '=' || r == '"' }) >= 0 {
		return strconv.Quote(value)
	}
	return value
}
