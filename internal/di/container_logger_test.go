package di_test

import (
	"context"
	"sync"
	"testing"

	"github.com/goliatone/go-catalog/content"
	"github.com/goliatone/go-catalog/internal/di"
	"github.com/goliatone/go-catalog/internal/runtimeconfig"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

func TestContainerRoutesEngineLogsThroughProvider(t *testing.T) {
	rec := newRecordingProvider()
	container := newContainer(t, runtimeconfig.DefaultConfig(),
		di.WithLoggerProvider(rec),
		di.WithBundle(seedBundle(map[string]string{"guides_uk.json": guidesUK})),
	)

	if err := container.Engine().Refresh(context.Background(), content.KindGuide); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	entry := rec.find("engine.kind.published")
	if entry == nil {
		t.Fatalf("expected engine.kind.published log entry, got %#v", rec.snapshot())
	}
	if got := entry.fields["module"]; got != "catalog.engine" {
		t.Fatalf("expected module field to be catalog.engine, got %v", got)
	}
	if got := entry.fields["source"]; got != "seeds" {
		t.Fatalf("expected source field to be seeds, got %v", got)
	}
	if got := entry.fields["count"]; got != 1 {
		t.Fatalf("expected count 1, got %v", got)
	}
}

func TestContainerReportsLoadErrorsThroughProvider(t *testing.T) {
	rec := newRecordingProvider()
	container := newContainer(t, runtimeconfig.DefaultConfig(),
		di.WithLoggerProvider(rec),
		di.WithBundle(seedBundle(map[string]string{"guides_uk.json": `{"not":"an array"}`})),
	)

	if err := container.Engine().Refresh(context.Background(), content.KindGuide); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	entry := rec.find("catalog.load.error")
	if entry == nil {
		t.Fatalf("expected catalog.load.error entry, got %#v", rec.snapshot())
	}
	if got := entry.fields["module"]; got != "catalog.errors" {
		t.Fatalf("expected module field to be catalog.errors, got %v", got)
	}
}

type recordingProvider struct {
	mu      sync.Mutex
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{entries: []recordedEntry{}}
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{
		provider: p,
		fields: map[string]any{
			"logger": name,
		},
	}
}

func (p *recordingProvider) record(entry recordedEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry)
}

func (p *recordingProvider) snapshot() []recordedEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]recordedEntry(nil), p.entries...)
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	entries := p.snapshot()
	for i := range entries {
		if entries[i].msg == msg {
			return &entries[i]
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

var _ interfaces.Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("TRACE", msg, args...) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("FATAL", msg, args...) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	merged := make(map[string]any, len(l.fields)+len(fields))
	for key, value := range l.fields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &recordingLogger{
		provider: l.provider,
		fields:   merged,
	}
}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return &recordingLogger{
		provider: l.provider,
		fields:   cloneFields(l.fields),
	}
}

func (l *recordingLogger) log(level, msg string, args ...any) {
	fields := cloneFields(l.fields)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			break
		}
		key, _ := args[i].(string)
		if key == "" {
			continue
		}
		fields[key] = args[i+1]
	}
	l.provider.record(recordedEntry{
		level:  level,
		msg:    msg,
		fields: fields,
	})
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}
