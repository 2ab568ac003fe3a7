package cachestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog/content"
)

// BunStore persists entries in the catalog_cache_entries table.
type BunStore struct {
	db   *bun.DB
	opts options
}

var _ Store = (*BunStore)(nil)

func NewBunStore(db *bun.DB, opts ...Option) *BunStore {
	return &BunStore{db: db, opts: newOptions(opts)}
}

type cacheEntryModel struct {
	bun.BaseModel `bun:"table:catalog_cache_entries"`

	Kind          string    `bun:"kind,pk"`
	Language      string    `bun:"language,pk"`
	Payload       string    `bun:"payload,notnull"`
	FormatVersion string    `bun:"format_version,notnull"`
	WrittenAt     time.Time `bun:"written_at,notnull"`
	ItemCount     int       `bun:"item_count"`
}

func (m *cacheEntryModel) meta() EntryMeta {
	return EntryMeta{
		FormatVersion: m.FormatVersion,
		WrittenAt:     m.WrittenAt,
		Kind:          m.Kind,
		Language:      m.Language,
		Count:         m.ItemCount,
	}
}

// EnsureSchema creates the cache table when it does not exist.
func (s *BunStore) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return ErrStoreRequiresDB
	}
	_, err := s.db.NewCreateTable().Model((*cacheEntryModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *BunStore) Put(ctx context.Context, kind content.Kind, language string, items content.Collection) error {
	if s.db == nil {
		return ErrStoreRequiresDB
	}
	kind, language, err := normalizeKey(kind, language)
	if err != nil {
		return err
	}
	payload, err := content.EncodeCollection(items)
	if err != nil {
		return fmt.Errorf("cachestore: encode %s/%s: %w", kind, language, err)
	}
	meta := s.opts.newMeta(kind, language, len(items))
	model := cacheEntryModel{
		Kind:          meta.Kind,
		Language:      meta.Language,
		Payload:       string(payload),
		FormatVersion: meta.FormatVersion,
		WrittenAt:     meta.WrittenAt,
		ItemCount:     meta.Count,
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var existing cacheEntryModel
		err := tx.NewSelect().
			Model(&existing).
			Where("kind = ? AND language = ?", model.Kind, model.Language).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			_, err = tx.NewInsert().Model(&model).Exec(ctx)
			return err
		}
		if err != nil {
			return err
		}
		_, err = tx.NewUpdate().
			Model(&model).
			Column("payload", "format_version", "written_at", "item_count").
			WherePK().
			Exec(ctx)
		return err
	})
}

func (s *BunStore) Get(ctx context.Context, kind content.Kind, language string) (content.Collection, bool, error) {
	if s.db == nil {
		return nil, false, ErrStoreRequiresDB
	}
	kind, language, err := normalizeKey(kind, language)
	if err != nil {
		return nil, false, err
	}
	var model cacheEntryModel
	err = s.db.NewSelect().
		Model(&model).
		Where("kind = ? AND language = ?", string(kind), language).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cachestore: select %s/%s: %w", kind, language, err)
	}
	if !s.opts.valid(model.meta()) {
		s.opts.purged(kind, language, "expired or version mismatch")
		return nil, false, s.delete(ctx, kind, language)
	}
	items, err := content.DecodeCollection(kind, []byte(model.Payload))
	if err != nil {
		s.opts.purged(kind, language, "payload corrupt")
		return nil, false, s.delete(ctx, kind, language)
	}
	return items, true, nil
}

func (s *BunStore) delete(ctx context.Context, kind content.Kind, language string) error {
	_, err := s.db.NewDelete().
		Model((*cacheEntryModel)(nil)).
		Where("kind = ? AND language = ?", string(kind), language).
		Exec(ctx)
	return err
}

func (s *BunStore) Invalidate(ctx context.Context, kind content.Kind, language string) error {
	if s.db == nil {
		return ErrStoreRequiresDB
	}
	kind, language, err := normalizeKey(kind, language)
	if err != nil {
		return err
	}
	return s.delete(ctx, kind, language)
}

func (s *BunStore) ClearAll(ctx context.Context) error {
	if s.db == nil {
		return ErrStoreRequiresDB
	}
	_, err := s.db.NewDelete().Model((*cacheEntryModel)(nil)).Where("1 = 1").Exec(ctx)
	return err
}

func (s *BunStore) ClearLanguage(ctx context.Context, language string) error {
	if s.db == nil {
		return ErrStoreRequiresDB
	}
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return ErrInvalidKey
	}
	_, err := s.db.NewDelete().Model((*cacheEntryModel)(nil)).Where("language = ?", language).Exec(ctx)
	return err
}

func (s *BunStore) Stats(ctx context.Context) (Stats, error) {
	if s.db == nil {
		return Stats{}, ErrStoreRequiresDB
	}
	var models []cacheEntryModel
	if err := s.db.NewSelect().Model(&models).Scan(ctx); err != nil {
		return Stats{}, err
	}
	var stats Stats
	for i := range models {
		if !s.opts.valid(models[i].meta()) {
			continue
		}
		stats.Entries++
		stats.Items += models[i].ItemCount
		stats.Bytes += int64(len(models[i].Payload))
	}
	return stats, nil
}
