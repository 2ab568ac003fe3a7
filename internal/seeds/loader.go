package seeds

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/goliatone/go-catalog/content"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/markdown"
	"github.com/goliatone/go-catalog/internal/merge"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// FileResult holds the items decoded from one seed file.
type FileResult struct {
	Source Source
	Items  content.Collection
}

// Result is the outcome of loading the seed files of one kind. Errors are
// recoverable load errors (see content.ErrorCodeOf); they never stop the
// remaining files from loading.
type Result struct {
	Kind     content.Kind
	Language string
	Files    []FileResult
	Errors   []error
}

// Items merges the per-file collections in catalog order, first id wins.
func (r Result) Items() content.Collection {
	sources := make([]content.Collection, 0, len(r.Files))
	for _, file := range r.Files {
		sources = append(sources, file.Items)
	}
	return merge.Collections(sources...)
}

// Option configures a Loader.
type Option func(*Loader)

// WithCatalog overrides the seed layout.
func WithCatalog(catalog *Catalog) Option {
	return func(l *Loader) {
		if catalog != nil {
			l.catalog = catalog
		}
	}
}

// WithLogger sets the loader logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader reads seed files for a kind from a bundle.
type Loader struct {
	bundle  interfaces.BundleResolver
	catalog *Catalog
	logger  interfaces.Logger
}

// NewLoader builds a loader over bundle.
func NewLoader(bundle interfaces.BundleResolver, opts ...Option) (*Loader, error) {
	if bundle == nil {
		return nil, ErrBundleRequired
	}
	loader := &Loader{
		bundle:  bundle,
		catalog: DefaultCatalog(),
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(loader)
		}
	}
	return loader, nil
}

// Catalog exposes the seed layout in use.
func (l *Loader) Catalog() *Catalog {
	return l.catalog
}

// Load reads every seed file listed for kind and language.
func (l *Loader) Load(ctx context.Context, kind content.Kind, language string) Result {
	return l.load(ctx, kind, language, l.catalog.FilesFor(kind, language))
}

// LoadTier reads only the seed files of tier.
func (l *Loader) LoadTier(ctx context.Context, kind content.Kind, language string, tier Tier) Result {
	return l.load(ctx, kind, language, l.catalog.Tier(kind, language, tier))
}

func (l *Loader) load(ctx context.Context, kind content.Kind, language string, sources []Source) Result {
	result := Result{Kind: kind, Language: language}
	for _, src := range sources {
		if ctx != nil && ctx.Err() != nil {
			result.Errors = append(result.Errors, content.NewLoadError(content.CodeSourceUnavailable, kind, src.Name, ctx.Err()))
			break
		}
		if src.IsPattern() {
			l.loadPattern(kind, src, &result)
			continue
		}
		items, err := l.loadFile(kind, src.Name)
		if err != nil {
			result.Errors = append(result.Errors, err)
		}
		if len(items) > 0 {
			result.Files = append(result.Files, FileResult{Source: src, Items: items})
		}
	}

	logging.WithLoadContext(l.logger, string(kind), language, "seeds").Debug("seeds.load.completed",
		"files", len(result.Files),
		"errors", len(result.Errors),
	)
	return result
}

func (l *Loader) loadFile(kind content.Kind, name string) (content.Collection, error) {
	payload, err := l.bundle.Resolve(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, content.NewLoadError(content.CodeFileMissing, kind, name, err)
		}
		return nil, content.NewLoadError(content.CodeSourceUnavailable, kind, name, err)
	}

	items, report, err := content.DecodeCollectionReport(kind, payload)
	if err != nil {
		l.logger.Warn("seeds.file.decode_failed", "kind", kind, "file", name, "error", err)
		return nil, content.NewLoadError(content.CodeDecodeFailed, kind, name, err)
	}
	if len(report.Skipped) > 0 {
		l.logger.Warn("seeds.file.records_skipped", "kind", kind, "file", name, "skipped", len(report.Skipped))
		return items, content.NewLoadError(content.CodeDecodeFailed, kind, name, errors.New(report.Issues()))
	}
	return items, nil
}

func (l *Loader) loadPattern(kind content.Kind, src Source, result *Result) {
	if kind != content.KindGuide || !strings.HasSuffix(src.Name, ".md") {
		return
	}
	globber, ok := l.bundle.(interfaces.BundleGlobber)
	if !ok {
		return
	}
	names, err := globber.Glob(src.Name)
	if err != nil {
		result.Errors = append(result.Errors, content.NewLoadError(content.CodeSourceUnavailable, kind, src.Name, err))
		return
	}

	items := make(content.Collection, 0, len(names))
	for _, name := range names {
		payload, err := l.bundle.Resolve(name)
		if err != nil {
			result.Errors = append(result.Errors, content.NewLoadError(content.CodeFileMissing, kind, name, err))
			continue
		}
		article, err := markdown.ParseArticle(name, payload)
		if err != nil {
			result.Errors = append(result.Errors, content.NewLoadError(content.CodeDecodeFailed, kind, name, err))
			continue
		}
		items = append(items, article)
	}
	if len(items) > 0 {
		result.Files = append(result.Files, FileResult{Source: src, Items: items})
	}
}
