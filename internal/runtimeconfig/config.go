package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-catalog/internal/locale"
)

var (
	// ErrDefaultLocaleRequired indicates the default locale was left blank.
	ErrDefaultLocaleRequired = errors.New("catalog config: default locale is required")
	// ErrLocaleInvalid indicates a locale value could not be normalized.
	ErrLocaleInvalid = errors.New("catalog config: locale is invalid")
	// ErrCacheBackendUnknown indicates the cache backend is not supported.
	ErrCacheBackendUnknown = errors.New("catalog config: cache backend is unknown")
	// ErrCacheDirRequired indicates the file backend was selected without a directory.
	ErrCacheDirRequired = errors.New("catalog config: cache dir is required for the file backend")
	// ErrCacheDSNRequired indicates the bun backend was selected without a DSN.
	ErrCacheDSNRequired = errors.New("catalog config: cache dsn is required for the bun backend")
	// ErrCacheTTLInvalid indicates a negative cache TTL.
	ErrCacheTTLInvalid = errors.New("catalog config: cache ttl must not be negative")
	// ErrRemoteBaseURLRequired indicates the remote feature is on without a base URL.
	ErrRemoteBaseURLRequired = errors.New("catalog config: remote base url is required when the remote feature is enabled")
	// ErrRemoteBaseURLInvalid indicates the remote base URL is not absolute.
	ErrRemoteBaseURLInvalid = errors.New("catalog config: remote base url must be an absolute http(s) url")
	// ErrRemoteLimitInvalid indicates a non-positive request limit.
	ErrRemoteLimitInvalid = errors.New("catalog config: remote limits must be positive")
	// ErrRemoteTimeoutInvalid indicates a negative remote timeout.
	ErrRemoteTimeoutInvalid = errors.New("catalog config: remote timeout must not be negative")
	// ErrRefreshCronRequired indicates scheduled refresh was enabled without an expression.
	ErrRefreshCronRequired = errors.New("catalog config: refresh cron expression is required when scheduling is enabled")
	// ErrLoggingProviderRequired indicates logging was enabled without a provider.
	ErrLoggingProviderRequired = errors.New("catalog config: logging provider is required when logger feature is enabled")
	// ErrLoggingProviderUnknown indicates an unsupported logging provider.
	ErrLoggingProviderUnknown = errors.New("catalog config: logging provider is unknown")
	// ErrLoggingLevelInvalid indicates the configured logging level is not recognised.
	ErrLoggingLevelInvalid = errors.New("catalog config: logging level is invalid")
	// ErrLoggingFormatInvalid indicates the configured logging format is not supported.
	ErrLoggingFormatInvalid = errors.New("catalog config: logging format is invalid")
)

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendFile   = "file"
	CacheBackendBun    = "bun"
)

// Config aggregates the runtime configuration of the catalog module.
type Config struct {
	DefaultLocale string        `yaml:"default_locale" env:"DEFAULT_LOCALE"`
	Locale        string        `yaml:"locale" env:"LOCALE"`
	Cache         CacheConfig   `yaml:"cache" envPrefix:"CACHE_"`
	Remote        RemoteConfig  `yaml:"remote" envPrefix:"REMOTE_"`
	Seeds         SeedsConfig   `yaml:"seeds" envPrefix:"SEEDS_"`
	Search        SearchConfig  `yaml:"search" envPrefix:"SEARCH_"`
	Refresh       RefreshConfig `yaml:"refresh" envPrefix:"REFRESH_"`
	Logging       LoggingConfig `yaml:"logging" envPrefix:"LOGGING_"`
	Features      Features      `yaml:"features" envPrefix:"FEATURE_"`
}

// CacheConfig selects and tunes the persistent cache backend.
type CacheConfig struct {
	Backend       string        `yaml:"backend" env:"BACKEND"`
	Dir           string        `yaml:"dir" env:"DIR"`
	DSN           string        `yaml:"dsn" env:"DSN"`
	TTL           time.Duration `yaml:"ttl" env:"TTL"`
	FormatVersion string        `yaml:"format_version" env:"FORMAT_VERSION"`
}

// RemoteConfig points the HTTP source at the content API.
type RemoteConfig struct {
	BaseURL   string        `yaml:"base_url" env:"BASE_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
	Limit     int           `yaml:"limit" env:"LIMIT"`
	NewsLimit int           `yaml:"news_limit" env:"NEWS_LIMIT"`
}

// SeedsConfig locates the bundled seed files. An empty Dir means no bundle.
type SeedsConfig struct {
	Dir string `yaml:"dir" env:"DIR"`
}

// SearchConfig tunes query behaviour.
type SearchConfig struct {
	MatchesOnly bool `yaml:"matches_only" env:"MATCHES_ONLY"`
}

// RefreshConfig drives the scheduled refresh command.
type RefreshConfig struct {
	Cron    string        `yaml:"cron" env:"CRON"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// LoggingConfig captures logger provider selection.
type LoggingConfig struct {
	Provider  string   `yaml:"provider" env:"PROVIDER"`
	Level     string   `yaml:"level" env:"LEVEL"`
	Format    string   `yaml:"format" env:"FORMAT"`
	AddSource bool     `yaml:"add_source" env:"ADD_SOURCE"`
	Focus     []string `yaml:"focus" env:"FOCUS" envSeparator:","`
}

// Features toggles optional subsystems.
type Features struct {
	Remote         bool `yaml:"remote" env:"REMOTE"`
	MarkdownSeeds  bool `yaml:"markdown_seeds" env:"MARKDOWN_SEEDS"`
	Metrics        bool `yaml:"metrics" env:"METRICS"`
	Logger         bool `yaml:"logger" env:"LOGGER"`
	ScheduledFetch bool `yaml:"scheduled_fetch" env:"SCHEDULED_FETCH"`
}

// DefaultConfig returns the offline-first defaults: Ukrainian content, an
// in-memory cache and no remote source.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "uk",
		Locale:        "uk",
		Cache: CacheConfig{
			Backend:       CacheBackendMemory,
			Dir:           ".catalog-cache",
			TTL:           0,
			FormatVersion: "v1",
		},
		Remote: RemoteConfig{
			Timeout:   15 * time.Second,
			Limit:     1000,
			NewsLimit: 50,
		},
		Refresh: RefreshConfig{
			Cron:    "@every 6h",
			Timeout: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{
			MarkdownSeeds: true,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLocale) == "" {
		return ErrDefaultLocaleRequired
	}
	if !validLocale(cfg.DefaultLocale) {
		return fmt.Errorf("%w: %q", ErrLocaleInvalid, cfg.DefaultLocale)
	}
	if strings.TrimSpace(cfg.Locale) != "" && !validLocale(cfg.Locale) {
		return fmt.Errorf("%w: %q", ErrLocaleInvalid, cfg.Locale)
	}

	switch normalize(cfg.Cache.Backend) {
	case "", CacheBackendMemory:
	case CacheBackendFile:
		if strings.TrimSpace(cfg.Cache.Dir) == "" {
			return ErrCacheDirRequired
		}
	case CacheBackendBun:
		if strings.TrimSpace(cfg.Cache.DSN) == "" {
			return ErrCacheDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrCacheBackendUnknown, cfg.Cache.Backend)
	}
	if cfg.Cache.TTL < 0 {
		return ErrCacheTTLInvalid
	}

	if cfg.Features.Remote {
		base := strings.TrimSpace(cfg.Remote.BaseURL)
		if base == "" {
			return ErrRemoteBaseURLRequired
		}
		parsed, err := url.Parse(base)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("%w: %s", ErrRemoteBaseURLInvalid, base)
		}
		if cfg.Remote.Limit <= 0 {
			return fmt.Errorf("%w: limit", ErrRemoteLimitInvalid)
		}
		if cfg.Remote.NewsLimit <= 0 {
			return fmt.Errorf("%w: news_limit", ErrRemoteLimitInvalid)
		}
	}
	if cfg.Remote.Timeout < 0 {
		return ErrRemoteTimeoutInvalid
	}

	if cfg.Features.ScheduledFetch && strings.TrimSpace(cfg.Refresh.Cron) == "" {
		return ErrRefreshCronRequired
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// CacheBackend returns the normalized backend name, defaulting to memory.
func (cfg Config) CacheBackend() string {
	if backend := normalize(cfg.Cache.Backend); backend != "" {
		return backend
	}
	return CacheBackendMemory
}

// LoggingProvider returns the normalized logging provider name.
func (cfg Config) LoggingProvider() string {
	return normalize(cfg.Logging.Provider)
}

func validLocale(code string) bool {
	normalized := locale.Normalize(code)
	if len(normalized) < 2 || len(normalized) > 3 {
		return false
	}
	for _, r := range normalized {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
