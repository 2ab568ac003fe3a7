// Package catalog aggregates migrant-support content (guides, checklists,
// templates, places, benefit rules and news) from a remote API, bundled
// seeds and a persistent cache, and serves it per language.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-catalog/content"
	"github.com/goliatone/go-catalog/internal/cachestore"
	"github.com/goliatone/go-catalog/internal/di"
	"github.com/goliatone/go-catalog/internal/engine"
)

// ErrNilArticle is returned when RenderArticle receives no article.
var ErrNilArticle = errors.New("catalog: article is required")

type (
	// SearchRequest narrows Module.Search.
	SearchRequest = engine.SearchRequest
	// Snapshot is one published collection.
	Snapshot = engine.Snapshot
	// Event announces a publication.
	Event = engine.Event
	// State is the lifecycle state of one kind.
	State = engine.State
	// CacheStats summarises the persistent cache.
	CacheStats = cachestore.Stats
)

// Module represents the top level catalog runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a catalog module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Engine exposes the content engine.
func (m *Module) Engine() *engine.Engine {
	return m.container.Engine()
}

// Close releases resources owned by the module.
func (m *Module) Close() error {
	return m.container.Close()
}

// Load runs the initial load cycle for every kind.
func (m *Module) Load(ctx context.Context) error {
	return m.Engine().Load(ctx)
}

// Refresh reloads kinds, or every kind when none are named.
func (m *Module) Refresh(ctx context.Context, kinds ...content.Kind) error {
	return m.Engine().Refresh(ctx, kinds...)
}

// SwitchLocale changes the active language and reloads the catalog.
func (m *Module) SwitchLocale(ctx context.Context, locale string) error {
	return m.Engine().SwitchLocale(ctx, locale)
}

// ClearCache empties the persistent cache and marks published kinds stale.
func (m *Module) ClearCache(ctx context.Context) error {
	return m.Engine().ClearCache(ctx)
}

// Language returns the active language code.
func (m *Module) Language() string {
	return m.Engine().Language()
}

// State reports the lifecycle state of kind.
func (m *Module) State(kind content.Kind) State {
	return m.Engine().State(kind)
}

// IsLoading reports whether any load cycle is in flight.
func (m *Module) IsLoading() bool {
	return m.Engine().IsLoading()
}

// LastUpdated returns the time of the most recent publication.
func (m *Module) LastUpdated() time.Time {
	return m.Engine().LastUpdated()
}

// Subscribe streams publication events until ctx is done.
func (m *Module) Subscribe(ctx context.Context) (<-chan Event, error) {
	return m.Engine().Subscribe(ctx)
}

// Snapshot returns the published snapshot of kind.
func (m *Module) Snapshot(kind content.Kind) (Snapshot, bool) {
	return m.Engine().Snapshot(kind)
}

// Search ranks published items. Config.Search.MatchesOnly applies to every request.
func (m *Module) Search(req SearchRequest) []content.Item {
	if m.container.Config.Search.MatchesOnly {
		req.MatchesOnly = true
	}
	return m.Engine().Search(req)
}

// Get finds an item by id across every kind.
func (m *Module) Get(id content.ID) (content.Item, bool) {
	return m.Engine().Get(id)
}

// GetKind finds an item by id within kind.
func (m *Module) GetKind(kind content.Kind, id content.ID) (content.Item, bool) {
	return m.Engine().GetKind(kind, id)
}

// Latest returns news newest first.
func (m *Module) Latest(limit int, language string) []*content.NewsItem {
	return m.Engine().Latest(limit, language)
}

// ItemsForLocale resolves kind to locale, or to the active language when empty.
func (m *Module) ItemsForLocale(kind content.Kind, locale string) content.Collection {
	return m.Engine().ItemsForLocale(kind, locale)
}

// Guides returns the guides of the active language.
func (m *Module) Guides() []*content.Article {
	return content.Filter[*content.Article](m.ItemsForLocale(content.KindGuide, ""))
}

// Checklists returns the checklists of the active language.
func (m *Module) Checklists() []*content.Checklist {
	return content.Filter[*content.Checklist](m.ItemsForLocale(content.KindChecklist, ""))
}

// Templates returns the document templates of the active language.
func (m *Module) Templates() []*content.Template {
	return content.Filter[*content.Template](m.ItemsForLocale(content.KindTemplate, ""))
}

// Places returns every published place; places are not language-scoped.
func (m *Module) Places() []*content.Place {
	return content.Filter[*content.Place](m.Engine().Items(content.KindPlace))
}

// BenefitRules returns the published benefit rules.
func (m *Module) BenefitRules() []*content.BenefitRule {
	return content.Filter[*content.BenefitRule](m.Engine().Items(content.KindBenefitRule))
}

// RenderArticle renders the article body to HTML.
func (m *Module) RenderArticle(article *content.Article) ([]byte, error) {
	if article == nil {
		return nil, ErrNilArticle
	}
	return m.container.Renderer().Render([]byte(article.BodyMarkdown))
}

// CacheStats summarises the persistent cache.
func (m *Module) CacheStats(ctx context.Context) (CacheStats, error) {
	return m.Engine().CacheStats(ctx)
}
