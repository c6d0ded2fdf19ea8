package pacer

import "github.com/goliatone/go-pacer/internal/runtimeconfig"

var (
	ErrSiteBaseURLInvalid     = runtimeconfig.ErrSiteBaseURLInvalid
	ErrBlogContentDirRequired = runtimeconfig.ErrBlogContentDirRequired
	ErrBlogWordsPerMinute     = runtimeconfig.ErrBlogWordsPerMinute
	ErrWaitlistWebhookInvalid = runtimeconfig.ErrWaitlistWebhookInvalid
	ErrWaitlistNoChannel      = runtimeconfig.ErrWaitlistNoChannel
	ErrHoneypotFieldRequired  = runtimeconfig.ErrHoneypotFieldRequired
	ErrStorageDriverUnknown   = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrHTTPAddrRequired       = runtimeconfig.ErrHTTPAddrRequired
	ErrAuthSecretTooShort     = runtimeconfig.ErrAuthSecretTooShort
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	SiteConfig      = runtimeconfig.SiteConfig
	BlogConfig      = runtimeconfig.BlogConfig
	LegalConfig     = runtimeconfig.LegalConfig
	WaitlistConfig  = runtimeconfig.WaitlistConfig
	StorageConfig   = runtimeconfig.StorageConfig
	HTTPConfig      = runtimeconfig.HTTPConfig
	AuthConfig      = runtimeconfig.AuthConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	TelemetryConfig = runtimeconfig.TelemetryConfig
)

// DefaultConfig returns a configuration that serves the embedded landing
// page, reads posts from content/blog and keeps records in memory.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// ApplyEnv overlays PACER_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	return runtimeconfig.ApplyEnv(cfg)
}
