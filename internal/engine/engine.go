// Package engine orchestrates the per-kind load pipeline: remote source,
// bundled seeds, persistent cache, then atomic publication.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-catalog/content"
	"github.com/goliatone/go-catalog/internal/adapters/noop"
	"github.com/goliatone/go-catalog/internal/cachestore"
	"github.com/goliatone/go-catalog/internal/locale"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/merge"
	"github.com/goliatone/go-catalog/internal/seeds"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// DefaultRemoteTimeout bounds one remote fetch.
const DefaultRemoteTimeout = 15 * time.Second

// ErrUnknownKind is returned when a refresh names a kind the engine does not manage.
var ErrUnknownKind = content.ErrUnknownKind

// Config captures engine behaviour.
type Config struct {
	DefaultLanguage string
	Language        string
	RemoteTimeout   time.Duration
	Policies        map[content.Kind]KindPolicy
}

// Option wires a collaborator into the engine.
type Option func(*Engine)

func WithSeeds(loader *seeds.Loader) Option {
	return func(e *Engine) {
		if loader != nil {
			e.seeds = loader
		}
	}
}

func WithRemote(source content.RemoteSource) Option {
	return func(e *Engine) {
		if source != nil {
			e.remote = source
		}
	}
}

func WithCredentials(provider interfaces.CredentialProvider) Option {
	return func(e *Engine) {
		if provider != nil {
			e.credentials = provider
		}
	}
}

func WithCache(store cachestore.Store) Option {
	return func(e *Engine) {
		if store != nil {
			e.cache = store
		}
	}
}

func WithReporter(reporter interfaces.ErrorReporter) Option {
	return func(e *Engine) {
		if reporter != nil {
			e.reporter = reporter
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(e *Engine) {
		if metrics != nil {
			e.metrics = metrics
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

type kindSlot struct {
	kind      content.Kind
	snapshot  atomic.Pointer[Snapshot]
	state     atomic.Int32
	requested atomic.Uint64

	mu        sync.Mutex
	published uint64
}

// Engine owns the published snapshots of every kind.
type Engine struct {
	cfg         Config
	seeds       *seeds.Loader
	remote      content.RemoteSource
	credentials interfaces.CredentialProvider
	cache       cachestore.Store
	reporter    interfaces.ErrorReporter
	logger      interfaces.Logger
	metrics     *Metrics
	now         func() time.Time
	resolver    locale.Resolver
	events      *broadcaster

	slots       map[content.Kind]*kindSlot
	language    atomic.Pointer[string]
	inflight    atomic.Int64
	lastUpdated atomic.Pointer[time.Time]
}

// New builds an engine. Missing collaborators fall back to inert defaults: an
// empty bundle, no remote, no credential and an in-memory cache.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg.DefaultLanguage = locale.Normalize(cfg.DefaultLanguage)
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = content.DefaultLanguage
	}
	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = DefaultRemoteTimeout
	}
	policies := DefaultPolicies()
	for kind, policy := range cfg.Policies {
		policies[kind] = policy
	}
	cfg.Policies = policies

	e := &Engine{
		cfg:         cfg,
		remote:      noop.Remote(),
		credentials: noop.Credentials(),
		logger:      logging.NoOp(),
		now:         time.Now,
		resolver:    locale.NewResolver(cfg.DefaultLanguage),
		events:      newBroadcaster(),
		slots:       make(map[content.Kind]*kindSlot),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.seeds == nil {
		loader, err := seeds.NewLoader(noop.Bundle(), seeds.WithLogger(e.logger))
		if err != nil {
			return nil, err
		}
		e.seeds = loader
	}
	if e.cache == nil {
		e.cache = cachestore.NewMemoryStore(cachestore.WithClock(e.now))
	}
	if e.reporter == nil {
		e.reporter = logging.NewReporter(e.logger)
	}
	for _, kind := range content.Kinds() {
		e.slots[kind] = &kindSlot{kind: kind}
	}

	language := locale.Normalize(cfg.Language)
	if language == "" {
		language = cfg.DefaultLanguage
	}
	e.language.Store(&language)
	return e, nil
}

// Load runs the initial load cycle for every kind.
func (e *Engine) Load(ctx context.Context) error {
	return e.Refresh(ctx)
}

// Refresh reloads kinds (all when none are given) for the current language.
// Kinds load concurrently; each publishes as soon as it finishes.
func (e *Engine) Refresh(ctx context.Context, kinds ...content.Kind) error {
	if ctx == nil {
		ctx = context.Background()
	}
	targets, err := e.targets(kinds)
	if err != nil {
		return err
	}
	language := e.Language()

	type job struct {
		slot *kindSlot
		gen  uint64
	}
	jobs := make([]job, 0, len(targets))
	for _, slot := range targets {
		jobs = append(jobs, job{slot: slot, gen: slot.requested.Add(1)})
		slot.state.Store(int32(StateLoading))
		e.inflight.Add(1)
	}

	logger := logging.WithLoadContext(e.logger, "", language, "")
	logger.Debug("engine.load.start", "kinds", len(jobs))

	group, groupCtx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		group.Go(func() error {
			defer e.inflight.Add(-1)
			e.loadKind(groupCtx, j.slot, language, j.gen)
			return nil
		})
	}
	_ = group.Wait()
	return ctx.Err()
}

// SwitchLocale changes the active language, marks published kinds stale and
// reloads everything for the new language.
func (e *Engine) SwitchLocale(ctx context.Context, code string) error {
	language := locale.Normalize(code)
	if language == "" {
		language = e.cfg.DefaultLanguage
	}
	previous := e.Language()
	e.language.Store(&language)
	e.markStale()
	e.logger.Info("engine.locale.switched", "from", previous, "to", language)
	return e.Refresh(ctx)
}

// ClearCache empties the persistent cache and marks published kinds stale.
// Published snapshots stay readable until the next refresh.
func (e *Engine) ClearCache(ctx context.Context) error {
	if err := e.cache.ClearAll(ctx); err != nil {
		return err
	}
	e.markStale()
	e.logger.Info("engine.cache.cleared")
	return nil
}

func (e *Engine) markStale() {
	for _, slot := range e.slots {
		slot.state.CompareAndSwap(int32(StateReady), int32(StateStale))
	}
}

func (e *Engine) targets(kinds []content.Kind) ([]*kindSlot, error) {
	if len(kinds) == 0 {
		kinds = content.Kinds()
	}
	seen := make(map[content.Kind]struct{}, len(kinds))
	out := make([]*kindSlot, 0, len(kinds))
	for _, kind := range kinds {
		slot, ok := e.slots[kind]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
		}
		if _, dup := seen[kind]; dup {
			continue
		}
		seen[kind] = struct{}{}
		out = append(out, slot)
	}
	return out, nil
}

func (e *Engine) policy(kind content.Kind) KindPolicy {
	return e.cfg.Policies[kind]
}

// loadKind runs the pipeline for one kind. Steps run strictly in order; every
// recoverable error is reported and the pipeline continues.
func (e *Engine) loadKind(ctx context.Context, slot *kindSlot, language string, gen uint64) {
	started := e.now()
	kind := slot.kind
	policy := e.policy(kind)
	ctx = logging.ContextWithFields(ctx, map[string]any{"kind": string(kind), "generation": gen})
	logger := logging.WithLoadContext(e.logger, string(kind), language, "").WithContext(ctx)

	var (
		items  content.Collection
		origin = OriginNone
	)

	remote := e.fetchRemote(ctx, kind, language, policy)
	switch remote.Status {
	case content.LoadPopulated:
		items, origin = remote.Items, OriginRemote
		if policy.MergeSupplementary {
			extras := e.seeds.LoadTier(ctx, kind, language, seeds.TierSupplementary)
			e.reportAll(ctx, kind, extras.Errors)
			items = merge.Collections(items, extras.Items())
		}
	case content.LoadFailed:
		e.report(ctx, kind, remote.Err)
	}

	if origin == OriginNone {
		bundled := e.seeds.Load(ctx, kind, language)
		e.reportAll(ctx, kind, bundled.Errors)
		if merged := bundled.Items(); len(merged) > 0 {
			items, origin = merged, OriginSeeds
		}
	}

	if origin == OriginNone {
		cached, ok, err := e.cache.Get(ctx, kind, language)
		if err != nil {
			e.report(ctx, kind, err)
		}
		if ok && len(cached) > 0 {
			items, origin = cached, OriginCache
		}
	}

	if ctx.Err() != nil {
		e.abandon(slot, gen)
		logger.Warn("engine.kind.abandoned", "generation", gen, "error", ctx.Err())
		return
	}
	if items == nil {
		items = content.Collection{}
	}
	e.publish(ctx, slot, &Snapshot{
		Kind:        kind,
		Language:    language,
		Items:       items,
		Origin:      origin,
		Generation:  gen,
		PublishedAt: e.now(),
	}, started, origin == OriginRemote || origin == OriginSeeds)
}

func (e *Engine) fetchRemote(ctx context.Context, kind content.Kind, language string, policy KindPolicy) content.LoadResult {
	if policy.Remote == RemoteNone {
		return content.Empty()
	}
	token, hasToken := e.credentials.Credential(ctx)
	if policy.Remote == RemoteCredentialed && !hasToken {
		return content.Empty()
	}
	if !hasToken {
		token = ""
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.RemoteTimeout)
	defer cancel()
	result := e.safeFetch(fetchCtx, content.FetchRequest{Kind: kind, Language: language, Token: token}).Normalized()
	if result.Status == content.LoadEmpty {
		e.report(ctx, kind, content.NewLoadError(content.CodeSourceEmpty, kind, "remote", nil))
	}
	return result
}

func (e *Engine) safeFetch(ctx context.Context, req content.FetchRequest) (result content.LoadResult) {
	defer func() {
		if r := recover(); r != nil {
			result = content.Failed(content.NewLoadError(content.CodeSourceUnavailable, req.Kind, "remote", errors.New("remote source panicked")))
		}
	}()
	result = e.remote.Fetch(ctx, req)
	if result.Status == content.LoadFailed && result.Err == nil {
		result.Err = content.NewLoadError(content.CodeSourceUnavailable, req.Kind, "remote", nil)
	}
	return result
}

func (e *Engine) persist(ctx context.Context, kind content.Kind, language string, items content.Collection) {
	if err := e.cache.Put(ctx, kind, language, items); err != nil {
		e.report(ctx, kind, content.NewLoadError(content.CodeCacheWriteFailed, kind, "cache", err))
	}
}

func (e *Engine) report(ctx context.Context, kind content.Kind, err error) {
	if err == nil {
		return
	}
	e.metrics.recordError(kind, err)
	e.reporter.Report(ctx, err)
}

func (e *Engine) reportAll(ctx context.Context, kind content.Kind, errs []error) {
	for _, err := range errs {
		e.report(ctx, kind, err)
	}
}

// publish installs snap unless a newer generation already won. The kind
// becomes Ready only once the latest requested generation is published.
// Fresh collections are persisted under slot.mu so cache writes for a kind
// land in generation order and a discarded result never reaches the cache.
func (e *Engine) publish(ctx context.Context, slot *kindSlot, snap *Snapshot, started time.Time, persist bool) {
	slot.mu.Lock()
	if snap.Generation < slot.published {
		slot.mu.Unlock()
		e.metrics.recordDiscard(slot.kind)
		e.logger.Debug("engine.kind.discarded", "kind", slot.kind, "generation", snap.Generation)
		return
	}
	slot.published = snap.Generation
	if persist {
		e.persist(ctx, slot.kind, snap.Language, snap.Items)
	}
	slot.snapshot.Store(snap)
	if snap.Generation == slot.requested.Load() {
		slot.state.Store(int32(StateReady))
	}
	slot.mu.Unlock()

	at := snap.PublishedAt
	e.advanceLastUpdated(at)
	e.metrics.recordPublish(slot.kind, snap.Origin, len(snap.Items), e.now().Sub(started))
	logging.WithLoadContext(e.logger, string(slot.kind), snap.Language, string(snap.Origin)).
		Info("engine.kind.published", "count", len(snap.Items), "generation", snap.Generation)
	e.events.Broadcast(Event{
		Kind:       slot.kind,
		Language:   snap.Language,
		Origin:     snap.Origin,
		Count:      len(snap.Items),
		Generation: snap.Generation,
		At:         at,
	})
}

// advanceLastUpdated moves lastUpdated forward only; kinds publishing
// concurrently may arrive out of timestamp order.
func (e *Engine) advanceLastUpdated(at time.Time) {
	for {
		current := e.lastUpdated.Load()
		if current != nil && !at.After(*current) {
			return
		}
		if e.lastUpdated.CompareAndSwap(current, &at) {
			return
		}
	}
}

// abandon handles a cancelled cycle: nothing is published and, when no newer
// request is pending, the kind falls back to Stale (content kept) or Idle.
func (e *Engine) abandon(slot *kindSlot, gen uint64) {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	if gen != slot.requested.Load() {
		return
	}
	if slot.snapshot.Load() != nil {
		slot.state.Store(int32(StateStale))
		return
	}
	slot.state.Store(int32(StateIdle))
}

// Language returns the active, normalised language.
func (e *Engine) Language() string {
	if current := e.language.Load(); current != nil {
		return *current
	}
	return e.cfg.DefaultLanguage
}

// DefaultLanguage returns the fallback language.
func (e *Engine) DefaultLanguage() string {
	return e.cfg.DefaultLanguage
}

// State returns the lifecycle state of kind.
func (e *Engine) State(kind content.Kind) State {
	slot, ok := e.slots[kind]
	if !ok {
		return StateIdle
	}
	return State(slot.state.Load())
}

// IsLoading reports whether any kind of any in-flight cycle is still running.
func (e *Engine) IsLoading() bool {
	return e.inflight.Load() > 0
}

// LastUpdated returns the time of the most recent publication.
func (e *Engine) LastUpdated() time.Time {
	if at := e.lastUpdated.Load(); at != nil {
		return *at
	}
	return time.Time{}
}

// Subscribe streams publication events until ctx is done.
func (e *Engine) Subscribe(ctx context.Context) (<-chan Event, error) {
	return e.events.Subscribe(ctx)
}

// CacheStats reports the persistent cache footprint.
func (e *Engine) CacheStats(ctx context.Context) (cachestore.Stats, error) {
	return e.cache.Stats(ctx)
}

// Policy returns the effective policy of kind.
func (e *Engine) Policy(kind content.Kind) KindPolicy {
	return e.policy(kind)
}
