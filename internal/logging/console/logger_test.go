package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("catalog.engine")
	logger = logging.WithFields(logger, map[string]any{"module": "catalog.engine"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"cycle": 3,
	})
	logger = logger.WithContext(ctx)

	logger.Info("engine.kind.published",
		"kind", "guides",
		"items", 12,
		"took", 1500*time.Millisecond,
		"err", errors.New("remote unavailable"),
	)

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26.535897Z INFO engine.kind.published cycle=3 err="remote unavailable" items=12 kind=guides logger=catalog.engine module=catalog.engine took=1.5s`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("catalog.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
}

func TestConsoleLogger_FocusMutesOtherModules(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{
		Writer: &buf,
		Focus:  []string{"catalog.cache"},
	})

	provider.GetLogger("catalog.engine").Info("engine.load.start")
	provider.GetLogger("catalog.cache").Info("cache.entry.purged", "odd")

	got := strings.TrimSpace(buf.String())
	if strings.Contains(got, "engine.load.start") {
		t.Fatalf("expected engine logger muted, got %s", got)
	}
	if !strings.Contains(got, "cache.entry.purged field_0=odd") {
		t.Fatalf("expected cache entry with positional field, got %s", got)
	}
}

func TestParseLevel(t *testing.T) {
	if level, ok := console.ParseLevel("warning"); !ok || level != console.LevelWarn {
		t.Fatalf("expected warn, got %v %v", level, ok)
	}
	if level, ok := console.ParseLevel("loud"); ok || level != console.LevelInfo {
		t.Fatalf("expected info fallback, got %v %v", level, ok)
	}
}
