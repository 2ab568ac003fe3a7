package seeds

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-catalog/pkg/interfaces"
)

var (
	// ErrBundleRequired indicates a loader was built without a bundle.
	ErrBundleRequired = errors.New("seeds: bundle resolver is required")
	errInvalidName    = errors.New("seeds: invalid file name")
)

// FSBundle serves seed files from an fs.FS, typically an embed.FS or
// os.DirFS.
type FSBundle struct {
	fsys fs.FS
}

var (
	_ interfaces.BundleResolver = (*FSBundle)(nil)
	_ interfaces.BundleGlobber  = (*FSBundle)(nil)
)

// NewFSBundle wraps fsys.
func NewFSBundle(fsys fs.FS) *FSBundle {
	return &FSBundle{fsys: fsys}
}

// NewDirBundle serves seed files from a directory on disk.
func NewDirBundle(dir string) *FSBundle {
	return NewFSBundle(os.DirFS(dir))
}

// Resolve reads name. Missing files yield an error wrapping fs.ErrNotExist.
func (b *FSBundle) Resolve(name string) ([]byte, error) {
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if b == nil || b.fsys == nil {
		return nil, fmt.Errorf("seeds: resolve %s: %w", clean, fs.ErrNotExist)
	}
	data, err := fs.ReadFile(b.fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("seeds: resolve %s: %w", clean, err)
	}
	return data, nil
}

// Glob lists files matching pattern in lexical order.
func (b *FSBundle) Glob(pattern string) ([]string, error) {
	clean, err := cleanName(pattern)
	if err != nil {
		return nil, err
	}
	if b == nil || b.fsys == nil {
		return nil, nil
	}
	matches, err := fs.Glob(b.fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("seeds: glob %s: %w", clean, err)
	}
	sort.Strings(matches)
	return matches, nil
}

func cleanName(name string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(name), "/")
	if trimmed == "" {
		return "", errInvalidName
	}
	clean := path.Clean(trimmed)
	if !fs.ValidPath(clean) {
		return "", fmt.Errorf("%w: %q", errInvalidName, name)
	}
	return clean, nil
}
