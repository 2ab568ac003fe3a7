// Package cachestore persists merged collections per (kind, language) so the
// last good catalog survives restarts and offline periods.
package cachestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-catalog/content"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

const (
	// DefaultTTL bounds how long an entry stays valid after it was written.
	DefaultTTL = 7 * 24 * time.Hour
	// DefaultFormatVersion tags entries; a mismatch invalidates them.
	DefaultFormatVersion = "v1"
)

var (
	ErrInvalidKey      = errors.New("cachestore: kind and language are required")
	ErrStoreRequiresDB = errors.New("cachestore: bun store requires a database")
	ErrEntryCorrupt    = errors.New("cachestore: entry corrupt")
)

// Store is the persistence contract used by the load engine. Get reports
// absent entries (including expired or corrupt ones, which it purges) with
// ok=false and a nil error.
type Store interface {
	Put(ctx context.Context, kind content.Kind, language string, items content.Collection) error
	Get(ctx context.Context, kind content.Kind, language string) (content.Collection, bool, error)
	Invalidate(ctx context.Context, kind content.Kind, language string) error
	ClearAll(ctx context.Context) error
	ClearLanguage(ctx context.Context, language string) error
	Stats(ctx context.Context) (Stats, error)
}

// Stats summarises the stored entries.
type Stats struct {
	Entries int
	Items   int
	Bytes   int64
}

// EntryMeta is the commit record written alongside every payload.
type EntryMeta struct {
	FormatVersion string    `json:"formatVersion"`
	WrittenAt     time.Time `json:"writtenAt"`
	Kind          string    `json:"kind"`
	Language      string    `json:"language"`
	Count         int       `json:"count"`
}

// Option customises a store.
type Option func(*options)

type options struct {
	ttl           time.Duration
	formatVersion string
	now           func() time.Time
	logger        interfaces.Logger
}

func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

func WithFormatVersion(version string) Option {
	return func(o *options) {
		if v := strings.TrimSpace(version); v != "" {
			o.formatVersion = v
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		ttl:           DefaultTTL,
		formatVersion: DefaultFormatVersion,
		now:           time.Now,
		logger:        logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// valid reports whether meta describes a live entry under o.
func (o options) valid(meta EntryMeta) bool {
	if meta.FormatVersion != o.formatVersion {
		return false
	}
	if meta.WrittenAt.IsZero() {
		return false
	}
	return o.now().Sub(meta.WrittenAt) <= o.ttl
}

func (o options) newMeta(kind content.Kind, language string, count int) EntryMeta {
	return EntryMeta{
		FormatVersion: o.formatVersion,
		WrittenAt:     o.now().UTC(),
		Kind:          string(kind),
		Language:      language,
		Count:         count,
	}
}

func (o options) purged(kind content.Kind, language, reason string) {
	o.logger.Debug("cache.entry.purged", "kind", string(kind), "language", language, "reason", reason)
}

func normalizeKey(kind content.Kind, language string) (content.Kind, string, error) {
	kind = content.Kind(strings.TrimSpace(string(kind)))
	language = strings.ToLower(strings.TrimSpace(language))
	if kind == "" || language == "" {
		return "", "", ErrInvalidKey
	}
	if strings.ContainsAny(string(kind)+language, `/\`) || strings.Contains(language, "_") {
		return "", "", fmt.Errorf("%w: %q/%q", ErrInvalidKey, kind, language)
	}
	return kind, language, nil
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
