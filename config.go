package catalog

import "github.com/goliatone/go-catalog/internal/runtimeconfig"

var (
	ErrDefaultLocaleRequired   = runtimeconfig.ErrDefaultLocaleRequired
	ErrLocaleInvalid           = runtimeconfig.ErrLocaleInvalid
	ErrCacheBackendUnknown     = runtimeconfig.ErrCacheBackendUnknown
	ErrCacheDirRequired        = runtimeconfig.ErrCacheDirRequired
	ErrCacheDSNRequired        = runtimeconfig.ErrCacheDSNRequired
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
	ErrRemoteBaseURLRequired   = runtimeconfig.ErrRemoteBaseURLRequired
	ErrRemoteBaseURLInvalid    = runtimeconfig.ErrRemoteBaseURLInvalid
	ErrRemoteLimitInvalid      = runtimeconfig.ErrRemoteLimitInvalid
	ErrRemoteTimeoutInvalid    = runtimeconfig.ErrRemoteTimeoutInvalid
	ErrRefreshCronRequired     = runtimeconfig.ErrRefreshCronRequired
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	CacheConfig   = runtimeconfig.CacheConfig
	RemoteConfig  = runtimeconfig.RemoteConfig
	SeedsConfig   = runtimeconfig.SeedsConfig
	SearchConfig  = runtimeconfig.SearchConfig
	RefreshConfig = runtimeconfig.RefreshConfig
	LoggingConfig = runtimeconfig.LoggingConfig
	Features      = runtimeconfig.Features
	LoadOption    = runtimeconfig.LoadOption
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML file and CATALOG_* overrides over DefaultConfig.
func LoadConfig(path string, opts ...LoadOption) (Config, error) {
	return runtimeconfig.Load(path, opts...)
}
