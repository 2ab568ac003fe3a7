package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-catalog/content"
)

const (
	payloadSuffix = ".json"
	metaSuffix    = ".json.meta"
)

// FileStore keeps one payload file and one metadata file per entry under a
// root directory. The metadata file is written last and commits the entry.
type FileStore struct {
	root string
	opts options
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store rooted at dir. The directory is created lazily.
func NewFileStore(dir string, opts ...Option) *FileStore {
	return &FileStore{root: filepath.Clean(dir), opts: newOptions(opts)}
}

// Root returns the cache directory.
func (s *FileStore) Root() string { return s.root }

func (s *FileStore) paths(kind content.Kind, language string) (string, string) {
	base := filepath.Join(s.root, fmt.Sprintf("%s_%s", kind, language))
	return base + payloadSuffix, base + metaSuffix
}

func (s *FileStore) Put(ctx context.Context, kind content.Kind, language string, items content.Collection) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	kind, language, err := normalizeKey(kind, language)
	if err != nil {
		return err
	}
	payload, err := content.EncodeCollection(items)
	if err != nil {
		return fmt.Errorf("cachestore: encode %s/%s: %w", kind, language, err)
	}
	meta, err := json.Marshal(s.opts.newMeta(kind, language, len(items)))
	if err != nil {
		return fmt.Errorf("cachestore: encode meta %s/%s: %w", kind, language, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("cachestore: create root: %w", err)
	}
	payloadPath, metaPath := s.paths(kind, language)
	if err := writeAtomic(payloadPath, payload); err != nil {
		return fmt.Errorf("cachestore: write payload %s/%s: %w", kind, language, err)
	}
	if err := writeAtomic(metaPath, meta); err != nil {
		return fmt.Errorf("cachestore: write meta %s/%s: %w", kind, language, err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, kind content.Kind, language string) (content.Collection, bool, error) {
	if err := checkContext(ctx); err != nil {
		return nil, false, err
	}
	kind, language, err := normalizeKey(kind, language)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	payloadPath, metaPath := s.paths(kind, language)

	rawMeta, err := os.ReadFile(metaPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cachestore: read meta %s/%s: %w", kind, language, err)
	}
	var meta EntryMeta
	if err := json.Unmarshal(rawMeta, &meta); err != nil {
		return nil, false, s.purge(kind, language, "meta unreadable")
	}
	if !s.opts.valid(meta) || meta.Kind != string(kind) {
		return nil, false, s.purge(kind, language, "expired or version mismatch")
	}

	payload, err := os.ReadFile(payloadPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, s.purge(kind, language, "payload missing")
	}
	if err != nil {
		return nil, false, fmt.Errorf("cachestore: read payload %s/%s: %w", kind, language, err)
	}
	items, err := content.DecodeCollection(kind, payload)
	if err != nil {
		return nil, false, s.purge(kind, language, "payload corrupt")
	}
	return items, true, nil
}

// purge removes an invalid entry. The returned error is non-nil only when the
// files could not be removed.
func (s *FileStore) purge(kind content.Kind, language, reason string) error {
	s.opts.purged(kind, language, reason)
	return s.remove(kind, language)
}

func (s *FileStore) remove(kind content.Kind, language string) error {
	payloadPath, metaPath := s.paths(kind, language)
	var errs []error
	// Meta first so a crash in between leaves an uncommitted payload.
	for _, path := range []string{metaPath, payloadPath} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *FileStore) Invalidate(ctx context.Context, kind content.Kind, language string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	kind, language, err := normalizeKey(kind, language)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(kind, language)
}

func (s *FileStore) ClearAll(ctx context.Context) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("cachestore: clear root: %w", err)
	}
	return os.MkdirAll(s.root, 0o755)
}

func (s *FileStore) ClearLanguage(ctx context.Context, language string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.entries()
	if err != nil {
		return err
	}
	var errs []error
	for _, entry := range entries {
		if entry.language == language {
			errs = append(errs, s.remove(entry.kind, entry.language))
		}
	}
	return errors.Join(errs...)
}

func (s *FileStore) Stats(ctx context.Context) (Stats, error) {
	if err := checkContext(ctx); err != nil {
		return Stats{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.entries()
	if err != nil {
		return Stats{}, err
	}
	var stats Stats
	for _, entry := range entries {
		payloadPath, metaPath := s.paths(entry.kind, entry.language)
		rawMeta, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}
		var meta EntryMeta
		if json.Unmarshal(rawMeta, &meta) != nil || !s.opts.valid(meta) {
			continue
		}
		stats.Entries++
		stats.Items += meta.Count
		if info, err := os.Stat(payloadPath); err == nil {
			stats.Bytes += info.Size()
		}
		stats.Bytes += int64(len(rawMeta))
	}
	return stats, nil
}

type fileEntry struct {
	kind     content.Kind
	language string
}

// entries lists committed entries by their metadata files.
func (s *FileStore) entries() ([]fileEntry, error) {
	dirEntries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cachestore: list root: %w", err)
	}
	var out []fileEntry
	for _, dirEntry := range dirEntries {
		name := dirEntry.Name()
		if dirEntry.IsDir() || !strings.HasSuffix(name, metaSuffix) {
			continue
		}
		key := strings.TrimSuffix(name, metaSuffix)
		idx := strings.LastIndex(key, "_")
		if idx <= 0 || idx == len(key)-1 {
			continue
		}
		out = append(out, fileEntry{kind: content.Kind(key[:idx]), language: key[idx+1:]})
	}
	return out, nil
}

// writeAtomic replaces path with data through a synced temp file and rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
