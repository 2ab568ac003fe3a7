package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-catalog/content"
	"github.com/goliatone/go-catalog/internal/adapters/noop"
	"github.com/goliatone/go-catalog/internal/cachestore"
	"github.com/goliatone/go-catalog/internal/engine"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/logging/console"
	"github.com/goliatone/go-catalog/internal/logging/gologger"
	"github.com/goliatone/go-catalog/internal/markdown"
	"github.com/goliatone/go-catalog/internal/remote"
	"github.com/goliatone/go-catalog/internal/runtimeconfig"
	"github.com/goliatone/go-catalog/internal/seeds"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// ErrBunDBRequired is returned when the bun backend cannot obtain a database.
var ErrBunDBRequired = errors.New("di: bun cache backend requires a database")

// Container wires module dependencies from the runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	bundle         interfaces.BundleResolver
	remote         content.RemoteSource
	credentials    interfaces.CredentialProvider
	reporter       interfaces.ErrorReporter
	renderer       interfaces.MarkdownRenderer

	cache   cachestore.Store
	bunDB   *bun.DB
	ownedDB *bun.DB

	registerer prometheus.Registerer
	metrics    *engine.Metrics
	now        func() time.Time

	seeds  *seeds.Loader
	engine *engine.Engine
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBundle overrides the seed bundle. Without it the container reads
// Config.Seeds.Dir, or an empty bundle when that is blank.
func WithBundle(bundle interfaces.BundleResolver) Option {
	return func(c *Container) {
		c.bundle = bundle
	}
}

// WithRemote overrides the remote source built from Config.Remote.
func WithRemote(source content.RemoteSource) Option {
	return func(c *Container) {
		c.remote = source
	}
}

// WithCredentials wires the bearer credential provider.
func WithCredentials(provider interfaces.CredentialProvider) Option {
	return func(c *Container) {
		c.credentials = provider
	}
}

// WithReporter overrides the logging error reporter.
func WithReporter(reporter interfaces.ErrorReporter) Option {
	return func(c *Container) {
		c.reporter = reporter
	}
}

// WithRenderer overrides the goldmark article renderer.
func WithRenderer(renderer interfaces.MarkdownRenderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// WithCacheStore overrides the cache backend selected by Config.Cache.
func WithCacheStore(store cachestore.Store) Option {
	return func(c *Container) {
		c.cache = store
	}
}

// WithBunDB supplies the database used by the bun cache backend.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithMetricsRegisterer enables load metrics on reg.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(c *Container) {
		c.registerer = reg
	}
}

// WithClock overrides the time source used by the cache and engine.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.now = now
		}
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:      cfg,
		credentials: noop.Credentials(),
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureBundle()
	if err := c.configureRemote(); err != nil {
		return nil, err
	}
	if err := c.configureCache(); err != nil {
		return nil, err
	}
	c.configureMetrics()
	if c.renderer == nil {
		c.renderer = markdown.NewGoldmarkRenderer(interfaces.RenderOptions{})
	}
	if c.reporter == nil {
		c.reporter = logging.NewReporter(logging.ModuleLogger(c.loggerProvider, "catalog.errors"))
	}

	catalog := seeds.DefaultCatalog()
	if !cfg.Features.MarkdownSeeds {
		catalog = catalog.WithoutPatterns()
	}
	loader, err := seeds.NewLoader(c.bundle,
		seeds.WithCatalog(catalog),
		seeds.WithLogger(logging.SeedsLogger(c.loggerProvider)),
	)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.seeds = loader

	engineOpts := []engine.Option{
		engine.WithSeeds(loader),
		engine.WithCache(c.cache),
		engine.WithCredentials(c.credentials),
		engine.WithReporter(c.reporter),
		engine.WithLogger(logging.EngineLogger(c.loggerProvider)),
		engine.WithClock(c.now),
	}
	if c.remote != nil {
		engineOpts = append(engineOpts, engine.WithRemote(c.remote))
	}
	if c.metrics != nil {
		engineOpts = append(engineOpts, engine.WithMetrics(c.metrics))
	}
	eng, err := engine.New(engine.Config{
		DefaultLanguage: cfg.DefaultLocale,
		Language:        cfg.Locale,
		RemoteTimeout:   cfg.Remote.Timeout,
	}, engineOpts...)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.engine = eng
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		c.loggerProvider = noopProvider{}
		return nil
	}
	switch c.Config.LoggingProvider() {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: configure go-logger: %w", err)
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{Focus: c.Config.Logging.Focus}
		if level, ok := console.ParseLevel(c.Config.Logging.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureBundle() {
	if c.bundle != nil {
		return
	}
	if dir := strings.TrimSpace(c.Config.Seeds.Dir); dir != "" {
		c.bundle = seeds.NewDirBundle(dir)
		return
	}
	c.bundle = noop.Bundle()
}

func (c *Container) configureRemote() error {
	if c.remote != nil || !c.Config.Features.Remote {
		return nil
	}
	source, err := remote.NewHTTPSource(c.Config.Remote.BaseURL,
		remote.WithTimeout(c.Config.Remote.Timeout),
		remote.WithLimits(c.Config.Remote.Limit, c.Config.Remote.NewsLimit),
		remote.WithLogger(logging.RemoteLogger(c.loggerProvider)),
	)
	if err != nil {
		return fmt.Errorf("di: configure remote: %w", err)
	}
	c.remote = source
	return nil
}

func (c *Container) configureCache() error {
	if c.cache != nil {
		return nil
	}
	opts := []cachestore.Option{
		cachestore.WithTTL(c.Config.Cache.TTL),
		cachestore.WithFormatVersion(c.Config.Cache.FormatVersion),
		cachestore.WithClock(c.now),
		cachestore.WithLogger(logging.CacheLogger(c.loggerProvider)),
	}
	switch c.Config.CacheBackend() {
	case runtimeconfig.CacheBackendFile:
		c.cache = cachestore.NewFileStore(c.Config.Cache.Dir, opts...)
	case runtimeconfig.CacheBackendBun:
		db := c.bunDB
		if db == nil {
			opened, err := openSQLite(c.Config.Cache.DSN)
			if err != nil {
				return err
			}
			c.ownedDB = opened
			db = opened
		}
		store := cachestore.NewBunStore(db, opts...)
		if err := store.EnsureSchema(context.Background()); err != nil {
			c.Close()
			return fmt.Errorf("di: prepare bun cache: %w", err)
		}
		c.cache = store
	default:
		c.cache = cachestore.NewMemoryStore(opts...)
	}
	return nil
}

func openSQLite(dsn string) (*bun.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrBunDBRequired
	}
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("di: open sqlite: %w", err)
	}
	// sqlite serialises writers; a single connection keeps in-memory DSNs alive.
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func (c *Container) configureMetrics() {
	if c.registerer == nil && c.Config.Features.Metrics {
		c.registerer = prometheus.DefaultRegisterer
	}
	if c.registerer != nil {
		c.metrics = engine.NewMetrics(c.registerer)
	}
}

// Engine returns the wired content engine.
func (c *Container) Engine() *engine.Engine {
	return c.engine
}

// Seeds returns the seed loader the engine reads from.
func (c *Container) Seeds() *seeds.Loader {
	return c.seeds
}

// CacheStore returns the configured cache backend.
func (c *Container) CacheStore() cachestore.Store {
	return c.cache
}

// Renderer returns the markdown renderer for article bodies.
func (c *Container) Renderer() interfaces.MarkdownRenderer {
	return c.renderer
}

// Metrics returns the engine metrics, nil when metrics are disabled.
func (c *Container) Metrics() *engine.Metrics {
	return c.metrics
}

// LoggerProvider returns the active logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Logger returns a module logger from the active provider.
func (c *Container) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

// Close releases resources the container opened itself.
func (c *Container) Close() error {
	if c.ownedDB == nil {
		return nil
	}
	db := c.ownedDB
	c.ownedDB = nil
	return db.Close()
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger {
	return logging.NoOp()
}
