package engine

import (
	"sort"
	"strings"

	"github.com/goliatone/go-catalog/content"
	"github.com/goliatone/go-catalog/internal/locale"
	"github.com/goliatone/go-catalog/internal/search"
)

// SearchRequest narrows a search. Kind defaults to guides; Locale, when set,
// resolves the collection to that language first.
type SearchRequest struct {
	Kind        content.Kind
	Query       string
	Category    string
	Locale      string
	MatchesOnly bool
}

// Snapshot returns the published snapshot of kind.
func (e *Engine) Snapshot(kind content.Kind) (Snapshot, bool) {
	slot, ok := e.slots[kind]
	if !ok {
		return Snapshot{}, false
	}
	snap := slot.snapshot.Load()
	if snap == nil {
		return Snapshot{}, false
	}
	return *snap, true
}

// Items returns the published collection of kind, or nil before the first
// publication.
func (e *Engine) Items(kind content.Kind) content.Collection {
	snap, ok := e.Snapshot(kind)
	if !ok {
		return nil
	}
	return snap.Items.Clone()
}

// ItemsForLocale resolves the published collection of kind to code, falling
// back to the active language when code is empty.
func (e *Engine) ItemsForLocale(kind content.Kind, code string) content.Collection {
	if strings.TrimSpace(code) == "" {
		code = e.Language()
	}
	return e.resolver.Resolve(e.Items(kind), code)
}

// Search ranks the published items of a kind against req.Query.
func (e *Engine) Search(req SearchRequest) []content.Item {
	kind := req.Kind
	if kind == "" {
		kind = content.KindGuide
	}
	items := e.Items(kind)
	if strings.TrimSpace(req.Locale) != "" {
		items = e.resolver.Resolve(items, req.Locale)
	}
	if category := strings.TrimSpace(req.Category); category != "" {
		filtered := make(content.Collection, 0, len(items))
		for _, item := range items {
			if strings.EqualFold(strings.TrimSpace(item.SearchText().Category), category) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	ranked := search.Search(items, req.Query, search.Options{Now: e.now(), MatchesOnly: req.MatchesOnly})
	return []content.Item(ranked)
}

// Get finds id across every kind, in kind order.
func (e *Engine) Get(id content.ID) (content.Item, bool) {
	for _, kind := range content.Kinds() {
		if item, ok := e.GetKind(kind, id); ok {
			return item, true
		}
	}
	return nil, false
}

// GetKind finds id in the published collection of kind.
func (e *Engine) GetKind(kind content.Kind, id content.ID) (content.Item, bool) {
	snap, ok := e.Snapshot(kind)
	if !ok {
		return nil, false
	}
	return snap.Items.Find(content.ParseID(string(id)))
}

// Latest returns news ordered by publication time, newest first. An empty
// language keeps every item; limit <= 0 keeps them all.
func (e *Engine) Latest(limit int, language string) []*content.NewsItem {
	news := content.Filter[*content.NewsItem](e.Items(content.KindNews))
	if code := locale.Normalize(language); code != "" {
		filtered := news[:0]
		for _, item := range news {
			if locale.Matches(item, code) {
				filtered = append(filtered, item)
			}
		}
		news = filtered
	}
	sort.SliceStable(news, func(i, j int) bool {
		return news[i].Published().After(news[j].Published())
	})
	if limit > 0 && len(news) > limit {
		news = news[:limit]
	}
	return news
}
