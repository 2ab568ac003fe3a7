package cachestore

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-catalog/content"
)

type memoryEntry struct {
	meta    EntryMeta
	payload []byte
}

// MemoryStore keeps encoded entries in process memory. Entries go through the
// same encode/decode path as the persistent stores so callers never share
// item pointers with the cache.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	opts    options
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), opts: newOptions(opts)}
}

func memoryKey(kind content.Kind, language string) string {
	return string(kind) + "\x00" + language
}

func (s *MemoryStore) Put(ctx context.Context, kind content.Kind, language string, items content.Collection) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	kind, language, err := normalizeKey(kind, language)
	if err != nil {
		return err
	}
	payload, err := content.EncodeCollection(items)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[memoryKey(kind, language)] = memoryEntry{meta: s.opts.newMeta(kind, language, len(items)), payload: payload}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, kind content.Kind, language string) (content.Collection, bool, error) {
	if err := checkContext(ctx); err != nil {
		return nil, false, err
	}
	kind, language, err := normalizeKey(kind, language)
	if err != nil {
		return nil, false, err
	}
	key := memoryKey(kind, language)
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !s.opts.valid(entry.meta) {
		s.drop(key, kind, language, "expired or version mismatch")
		return nil, false, nil
	}
	items, err := content.DecodeCollection(kind, entry.payload)
	if err != nil {
		s.drop(key, kind, language, "payload corrupt")
		return nil, false, nil
	}
	return items, true, nil
}

func (s *MemoryStore) drop(key string, kind content.Kind, language, reason string) {
	s.opts.purged(kind, language, reason)
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *MemoryStore) Invalidate(ctx context.Context, kind content.Kind, language string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	kind, language, err := normalizeKey(kind, language)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.entries, memoryKey(kind, language))
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) ClearAll(ctx context.Context) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.entries = make(map[string]memoryEntry)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) ClearLanguage(ctx context.Context, language string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.entries {
		if entry.meta.Language == language {
			delete(s.entries, key)
		}
	}
	return nil
}

func (s *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	if err := checkContext(ctx); err != nil {
		return Stats{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats Stats
	for _, entry := range s.entries {
		if !s.opts.valid(entry.meta) {
			continue
		}
		stats.Entries++
		stats.Items += entry.meta.Count
		stats.Bytes += int64(len(entry.payload))
	}
	return stats, nil
}
