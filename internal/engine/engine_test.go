package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-catalog/content"
	"github.com/goliatone/go-catalog/internal/cachestore"
	"github.com/goliatone/go-catalog/internal/seeds"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type recordingReporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *recordingReporter) Report(_ context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordingReporter) codes() map[content.ErrorCode]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[content.ErrorCode]int{}
	for _, err := range r.errs {
		out[content.ErrorCodeOf(err)]++
	}
	return out
}

func bundleLoader(t *testing.T, files map[string]string) *seeds.Loader {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	loader, err := seeds.NewLoader(seeds.NewFSBundle(fsys))
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	return loader
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	base := []Option{WithClock(clock), WithMetrics(NewMetrics(nil))}
	eng, err := New(Config{Language: "uk"}, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return eng
}

func failingRemote(calls *atomic.Int32) content.RemoteSource {
	return content.RemoteSourceFunc(func(_ context.Context, req content.FetchRequest) content.LoadResult {
		calls.Add(1)
		return content.Failed(content.NewLoadError(content.CodeSourceUnavailable, req.Kind, "remote", errors.New("offline")))
	})
}

func TestOfflineLoadUsesSeedsThenCache(t *testing.T) {
	cache := cachestore.NewMemoryStore(cachestore.WithClock(clock))
	reporter := &recordingReporter{}
	var calls atomic.Int32
	eng := newEngine(t,
		WithRemote(failingRemote(&calls)),
		WithCache(cache),
		WithReporter(reporter),
		WithSeeds(bundleLoader(t, map[string]string{
			"guides_uk.json": `[{"id":"g1","title":"Permit","language":"uk","priority":2}]`,
			"guides.json":    `[{"id":"g1","title":"Old permit"},{"id":"g2","title":"Housing"}]`,
			"places.json":    `[{"id":"p1","name":"Caritas"}]`,
		})),
	)

	if err := eng.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected only guides to hit the remote without a credential, got %d calls", calls.Load())
	}
	snap, ok := eng.Snapshot(content.KindGuide)
	if !ok || snap.Origin != OriginSeeds {
		t.Fatalf("expected seeds origin, got %+v", snap)
	}
	if diff := cmp.Diff([]content.ID{"g1", "g2"}, snap.Items.IDs()); diff != "" {
		t.Fatalf("guides mismatch (-want +got):\n%s", diff)
	}
	if eng.State(content.KindGuide) != StateReady || eng.IsLoading() {
		t.Fatalf("expected ready and idle engine")
	}
	if !eng.LastUpdated().Equal(fixedNow) {
		t.Fatalf("expected last updated %v, got %v", fixedNow, eng.LastUpdated())
	}
	if codes := reporter.codes(); codes[content.CodeSourceUnavailable] != 1 || codes[content.CodeFileMissing] == 0 {
		t.Fatalf("unexpected reported codes %v", codes)
	}

	news, ok := eng.Snapshot(content.KindNews)
	if !ok || news.Origin != OriginNone || news.Items == nil || len(news.Items) != 0 {
		t.Fatalf("expected empty published news, got %+v", news)
	}

	offline := newEngine(t, WithRemote(failingRemote(&calls)), WithCache(cache))
	if err := offline.Refresh(context.Background(), content.KindGuide, content.KindPlace); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	cached, _ := offline.Snapshot(content.KindGuide)
	if cached.Origin != OriginCache || len(cached.Items) != 2 {
		t.Fatalf("expected cached guides, got %+v", cached)
	}
	if places := offline.Items(content.KindPlace); len(places) != 1 {
		t.Fatalf("expected cached places, got %d", len(places))
	}
	if offline.State(content.KindNews) != StateIdle {
		t.Fatalf("expected untouched kind to stay idle")
	}
}

func TestRemoteResultsMergeSupplementarySeeds(t *testing.T) {
	cache := cachestore.NewMemoryStore(cachestore.WithClock(clock))
	remote := content.RemoteSourceFunc(func(_ context.Context, req content.FetchRequest) content.LoadResult {
		if req.Kind != content.KindGuide {
			return content.Empty()
		}
		return content.Populated(content.Collection{
			content.Normalize(&content.Article{Meta: content.Meta{ID: "r1", LanguageCode: "uk"}, Title: "Remote"}),
			content.Normalize(&content.Article{Meta: content.Meta{ID: "x1", LanguageCode: "uk"}, Title: "Remote wins"}),
		})
	})
	eng := newEngine(t,
		WithRemote(remote),
		WithCache(cache),
		WithSeeds(bundleLoader(t, map[string]string{
			"guides_uk.json":    `[{"id":"s1","title":"Seed only"}]`,
			"guides_extra.json": `[{"id":"x1","title":"Extra duplicate"},{"id":"x2","title":"Extra"}]`,
		})),
	)
	if err := eng.Refresh(context.Background(), content.KindGuide); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	snap, _ := eng.Snapshot(content.KindGuide)
	if snap.Origin != OriginRemote {
		t.Fatalf("expected remote origin, got %s", snap.Origin)
	}
	if diff := cmp.Diff([]content.ID{"r1", "x1", "x2"}, snap.Items.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	item, ok := eng.GetKind(content.KindGuide, "x1")
	if !ok || item.(*content.Article).Title != "Remote wins" {
		t.Fatalf("expected remote item to win, got %+v", item)
	}
	stored, ok, err := cache.Get(context.Background(), content.KindGuide, "uk")
	if err != nil || !ok || len(stored) != 3 {
		t.Fatalf("expected merged collection persisted, got %d (%v, %v)", len(stored), ok, err)
	}
}

func TestCredentialedKindsRequireToken(t *testing.T) {
	var seen sync.Map
	remote := content.RemoteSourceFunc(func(_ context.Context, req content.FetchRequest) content.LoadResult {
		seen.Store(req.Kind, req.Token)
		return content.Empty()
	})
	eng := newEngine(t, WithRemote(remote))
	if err := eng.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := seen.Load(content.KindTemplate); ok {
		t.Fatalf("expected templates skipped without credential")
	}
	if token, ok := seen.Load(content.KindGuide); !ok || token != "" {
		t.Fatalf("expected anonymous guides fetch, got %v %v", token, ok)
	}

	withToken := newEngine(t, WithRemote(remote), WithCredentials(interfaces.CredentialFunc(func(context.Context) (string, bool) {
		return "secret", true
	})))
	if err := withToken.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, kind := range []content.Kind{content.KindGuide, content.KindTemplate, content.KindChecklist, content.KindNews} {
		if token, _ := seen.Load(kind); token != "secret" {
			t.Fatalf("expected token for %s, got %v", kind, token)
		}
	}
	if _, ok := seen.Load(content.KindPlace); ok {
		t.Fatalf("expected places never fetched remotely")
	}
}

func TestStaleGenerationIsDiscarded(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	remote := content.RemoteSourceFunc(func(ctx context.Context, req content.FetchRequest) content.LoadResult {
		n := calls.Add(1)
		if n == 1 {
			close(entered)
			<-release
			return content.Populated(content.Collection{content.Normalize(&content.Article{Meta: content.Meta{ID: "old"}, Title: "Old"})})
		}
		return content.Populated(content.Collection{content.Normalize(&content.Article{Meta: content.Meta{ID: "new"}, Title: "New"})})
	})
	eng := newEngine(t, WithRemote(remote))

	done := make(chan error, 1)
	go func() { done <- eng.Refresh(context.Background(), content.KindGuide) }()
	<-entered
	if !eng.IsLoading() || eng.State(content.KindGuide) != StateLoading {
		t.Fatalf("expected loading while first cycle runs")
	}

	if err := eng.Refresh(context.Background(), content.KindGuide); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if eng.State(content.KindGuide) != StateReady {
		t.Fatalf("expected ready after latest generation published")
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	snap, _ := eng.Snapshot(content.KindGuide)
	if diff := cmp.Diff([]content.ID{"new"}, snap.Items.IDs()); diff != "" {
		t.Fatalf("expected newer generation kept (-want +got):\n%s", diff)
	}
	if snap.Generation != 2 {
		t.Fatalf("expected generation 2, got %d", snap.Generation)
	}
	if got := testutil.ToFloat64(eng.metrics.Discarded.WithLabelValues("guides")); got != 1 {
		t.Fatalf("expected one discarded load, got %v", got)
	}
	if eng.IsLoading() {
		t.Fatalf("expected no cycle in flight")
	}
}

func TestStaleGenerationNeverReachesCache(t *testing.T) {
	cache := cachestore.NewMemoryStore(cachestore.WithClock(clock))
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	remote := content.RemoteSourceFunc(func(ctx context.Context, req content.FetchRequest) content.LoadResult {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
			return content.Populated(content.Collection{content.Normalize(&content.Article{Meta: content.Meta{ID: "old"}, Title: "Old"})})
		}
		return content.Populated(content.Collection{content.Normalize(&content.Article{Meta: content.Meta{ID: "new"}, Title: "New"})})
	})
	eng := newEngine(t, WithRemote(remote), WithCache(cache))

	done := make(chan error, 1)
	go func() { done <- eng.Refresh(context.Background(), content.KindGuide) }()
	<-entered
	if err := eng.Refresh(context.Background(), content.KindGuide); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	cached, ok, err := cache.Get(context.Background(), content.KindGuide, "uk")
	if err != nil || !ok {
		t.Fatalf("expected cached guides, got ok=%v err=%v", ok, err)
	}
	snap, _ := eng.Snapshot(content.KindGuide)
	if diff := cmp.Diff(snap.Items.IDs(), cached.IDs()); diff != "" {
		t.Fatalf("cache diverged from published snapshot (-published +cached):\n%s", diff)
	}
	if diff := cmp.Diff([]content.ID{"new"}, cached.IDs()); diff != "" {
		t.Fatalf("expected newer generation cached (-want +got):\n%s", diff)
	}
}

func TestLastUpdatedNeverMovesBackwards(t *testing.T) {
	var mu sync.Mutex
	now := fixedNow
	eng := newEngine(t, WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}))

	if err := eng.Refresh(context.Background(), content.KindGuide); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !eng.LastUpdated().Equal(fixedNow) {
		t.Fatalf("expected %v, got %v", fixedNow, eng.LastUpdated())
	}

	mu.Lock()
	now = fixedNow.Add(-time.Hour)
	mu.Unlock()
	if err := eng.Refresh(context.Background(), content.KindNews); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !eng.LastUpdated().Equal(fixedNow) {
		t.Fatalf("expected last updated to stay at %v, got %v", fixedNow, eng.LastUpdated())
	}
}

func TestRemotePanicFallsBackToSeeds(t *testing.T) {
	reporter := &recordingReporter{}
	remote := content.RemoteSourceFunc(func(context.Context, content.FetchRequest) content.LoadResult {
		panic("boom")
	})
	eng := newEngine(t, WithRemote(remote), WithReporter(reporter), WithSeeds(bundleLoader(t, map[string]string{
		"guides.json": `[{"id":"g1","title":"Permit"}]`,
	})))
	if err := eng.Refresh(context.Background(), content.KindGuide); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if snap, _ := eng.Snapshot(content.KindGuide); snap.Origin != OriginSeeds {
		t.Fatalf("expected seeds after panic, got %s", snap.Origin)
	}
	if reporter.codes()[content.CodeSourceUnavailable] != 1 {
		t.Fatalf("expected panic reported as unavailable")
	}
}

func TestSwitchLocaleAndClearCache(t *testing.T) {
	cache := cachestore.NewMemoryStore(cachestore.WithClock(clock))
	eng := newEngine(t, WithCache(cache), WithSeeds(bundleLoader(t, map[string]string{
		"guides.json": `[
			{"id":"1","title":"Ukrainian","language":"uk","priority":5},
			{"id":"2","title":"English","language":"en","priority":3},
			{"id":"3","title":"Neutral","priority":9}
		]`,
	})))
	if err := eng.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]content.ID{"1"}, eng.ItemsForLocale(content.KindGuide, "").IDs()); diff != "" {
		t.Fatalf("uk resolution mismatch (-want +got):\n%s", diff)
	}

	if err := eng.SwitchLocale(context.Background(), "en_US"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if eng.Language() != "en" {
		t.Fatalf("expected en, got %q", eng.Language())
	}
	if diff := cmp.Diff([]content.ID{"2"}, eng.ItemsForLocale(content.KindGuide, "").IDs()); diff != "" {
		t.Fatalf("en resolution mismatch (-want +got):\n%s", diff)
	}
	stats, err := eng.CacheStats(context.Background())
	if err != nil || stats.Entries != 2 {
		t.Fatalf("expected uk and en cache entries, got %+v (%v)", stats, err)
	}

	if err := eng.ClearCache(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if eng.State(content.KindGuide) != StateStale {
		t.Fatalf("expected stale after cache clear, got %s", eng.State(content.KindGuide))
	}
	if len(eng.Items(content.KindGuide)) != 3 {
		t.Fatalf("expected published content kept after cache clear")
	}
	if stats, _ := eng.CacheStats(context.Background()); stats.Entries != 0 {
		t.Fatalf("expected empty cache, got %+v", stats)
	}
}

func TestCancelledRefreshPublishesNothing(t *testing.T) {
	eng := newEngine(t, WithSeeds(bundleLoader(t, map[string]string{
		"news.json": `[{"id":"n1","title":"News"}]`,
	})))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := eng.Refresh(ctx, content.KindNews); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, ok := eng.Snapshot(content.KindNews); ok {
		t.Fatalf("expected nothing published")
	}
	if eng.State(content.KindNews) != StateIdle {
		t.Fatalf("expected idle, got %s", eng.State(content.KindNews))
	}
}

func TestRefreshRejectsUnknownKind(t *testing.T) {
	eng := newEngine(t)
	if err := eng.Refresh(context.Background(), content.Kind("recipes")); !errors.Is(err, content.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestQueries(t *testing.T) {
	eng := newEngine(t, WithSeeds(bundleLoader(t, map[string]string{
		"guides.json": `[
			{"id":"g1","title":"Health insurance","category":"health","priority":1,"lastUpdated":"2024-05-30"},
			{"id":"g2","title":"Housing","bodyMarkdown":"health cover for tenants","category":"housing","priority":4},
			{"id":"g3","title":"Bank","category":"finance","language":"en"}
		]`,
		"news.json": `[
			{"id":"n1","title":"Old","language":"uk","publishedAt":"2024-01-01T00:00:00Z"},
			{"id":"n2","title":"New","language":"en","publishedAt":"2024-05-01T00:00:00Z"},
			{"id":"n3","title":"Mid","language":"uk","publishedAt":"2024-03-01T00:00:00Z"}
		]`,
	})))
	if err := eng.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	ranked := content.Collection(eng.Search(SearchRequest{Query: "health", MatchesOnly: true}))
	if diff := cmp.Diff([]content.ID{"g1", "g2"}, ranked.IDs()); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}
	browse := content.Collection(eng.Search(SearchRequest{Locale: "uk"}))
	if diff := cmp.Diff([]content.ID{"g2", "g1"}, browse.IDs()); diff != "" {
		t.Fatalf("browse mismatch (-want +got):\n%s", diff)
	}
	byCategory := eng.Search(SearchRequest{Category: "FINANCE"})
	if len(byCategory) != 1 || byCategory[0].Metadata().ID != "g3" {
		t.Fatalf("unexpected category filter %v", byCategory)
	}

	if item, ok := eng.Get("n2"); !ok || item.Kind() != content.KindNews {
		t.Fatalf("expected news item from Get")
	}
	if _, ok := eng.Get("missing"); ok {
		t.Fatalf("expected missing id")
	}

	latest := eng.Latest(2, "")
	if len(latest) != 2 || latest[0].ID != "n2" || latest[1].ID != "n3" {
		t.Fatalf("unexpected latest %v", latest)
	}
	ukOnly := eng.Latest(0, "uk_UA")
	if len(ukOnly) != 2 || ukOnly[0].ID != "n3" {
		t.Fatalf("unexpected uk latest %v", ukOnly)
	}
}

func TestSubscribeReceivesPublications(t *testing.T) {
	eng := newEngine(t, WithSeeds(bundleLoader(t, map[string]string{
		"places.json": `[{"id":"p1","name":"Caritas"}]`,
	})))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := eng.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := eng.Refresh(context.Background(), content.KindPlace); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	select {
	case evt := <-events:
		if evt.Kind != content.KindPlace || evt.Origin != OriginSeeds || evt.Count != 1 {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
	if got := testutil.ToFloat64(eng.metrics.Loads.WithLabelValues("places", "seeds")); got != 1 {
		t.Fatalf("expected one seeds load, got %v", got)
	}
}
