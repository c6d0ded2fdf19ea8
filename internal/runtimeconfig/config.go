package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

var (
	ErrSiteBaseURLInvalid     = errors.New("pacer config: site base url must be absolute")
	ErrBlogContentDirRequired = errors.New("pacer config: blog content directory is required")
	ErrBlogWordsPerMinute     = errors.New("pacer config: blog words per minute must be zero or positive")
	ErrWaitlistWebhookInvalid = errors.New("pacer config: waitlist webhook url must be http or https")
	ErrWaitlistNoChannel      = errors.New("pacer config: waitlist needs a webhook url, a mailto address or persistence")
	ErrHoneypotFieldRequired  = errors.New("pacer config: waitlist honeypot field is required")
	ErrStorageDriverUnknown   = errors.New("pacer config: storage driver is invalid")
	ErrStorageDSNRequired     = errors.New("pacer config: storage dsn is required for sql drivers")
	ErrHTTPAddrRequired       = errors.New("pacer config: http address is required")
	ErrAuthSecretTooShort     = errors.New("pacer config: auth secret must be at least 32 characters when set")
	ErrLoggingProviderUnknown = errors.New("pacer config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("pacer config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("pacer config: logging format is invalid")
)

// Config aggregates every runtime setting. Env tags name the PACER_* overrides
// applied by ApplyEnv.
type Config struct {
	Site      SiteConfig
	Blog      BlogConfig
	Legal     LegalConfig
	Waitlist  WaitlistConfig
	Storage   StorageConfig
	HTTP      HTTPConfig
	Auth      AuthConfig
	Logging   LoggingConfig
	Telemetry TelemetryConfig
}

// SiteConfig describes the public site.
type SiteConfig struct {
	Name         string `mapstructure:"name" env:"PACER_SITE_NAME"`
	BaseURL      string `mapstructure:"base_url" env:"PACER_SITE_BASE_URL"`
	ContactEmail string `mapstructure:"contact_email" env:"PACER_SITE_CONTACT_EMAIL"`
	ContentFile  string `mapstructure:"content_file" env:"PACER_SITE_CONTENT_FILE"`
	Description  string `mapstructure:"description" env:"PACER_SITE_DESCRIPTION"`
	Language     string `mapstructure:"language" env:"PACER_SITE_LANGUAGE"`
}

// BlogConfig controls markdown post loading.
type BlogConfig struct {
	ContentDir     string        `mapstructure:"content_dir" env:"PACER_BLOG_CONTENT_DIR"`
	Pattern        string        `mapstructure:"pattern" env:"PACER_BLOG_PATTERN"`
	Recursive      bool          `mapstructure:"recursive" env:"PACER_BLOG_RECURSIVE"`
	WordsPerMinute int           `mapstructure:"words_per_minute" env:"PACER_BLOG_WORDS_PER_MINUTE"`
	IncludeDrafts  bool          `mapstructure:"include_drafts" env:"PACER_BLOG_INCLUDE_DRAFTS"`
	Watch          bool          `mapstructure:"watch" env:"PACER_BLOG_WATCH"`
	WatchDebounce  time.Duration `mapstructure:"watch_debounce" env:"PACER_BLOG_WATCH_DEBOUNCE"`
	RelatedLimit   int           `mapstructure:"related_limit" env:"PACER_BLOG_RELATED_LIMIT"`
	PageSize       int           `mapstructure:"page_size" env:"PACER_BLOG_PAGE_SIZE"`
}

// LegalConfig points at the legal markdown pages. Empty Dir uses the
// embedded privacy and terms pages.
type LegalConfig struct {
	Dir string `mapstructure:"dir" env:"PACER_LEGAL_DIR"`
}

// WaitlistConfig controls signup delivery.
type WaitlistConfig struct {
	WebhookURL     string        `mapstructure:"webhook_url" env:"PACER_WAITLIST_WEBHOOK_URL"`
	WebhookTimeout time.Duration `mapstructure:"webhook_timeout" env:"PACER_WAITLIST_WEBHOOK_TIMEOUT"`
	MailtoAddress  string        `mapstructure:"mailto_address" env:"PACER_WAITLIST_MAILTO_ADDRESS"`
	MailtoSubject  string        `mapstructure:"mailto_subject" env:"PACER_WAITLIST_MAILTO_SUBJECT"`
	HoneypotField  string        `mapstructure:"honeypot_field" env:"PACER_WAITLIST_HONEYPOT_FIELD"`
	Persist        bool          `mapstructure:"persist" env:"PACER_WAITLIST_PERSIST"`
}

// StorageConfig selects the relational database.
type StorageConfig struct {
	Driver       string `mapstructure:"driver" env:"PACER_STORAGE_DRIVER"`
	DSN          string `mapstructure:"dsn" env:"PACER_STORAGE_DSN"`
	MaxOpenConns int    `mapstructure:"max_open_conns" env:"PACER_STORAGE_MAX_OPEN_CONNS"`
	AutoMigrate  bool   `mapstructure:"auto_migrate" env:"PACER_STORAGE_AUTO_MIGRATE"`
}

// HTTPConfig captures server settings.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr" env:"PACER_HTTP_ADDR"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" env:"PACER_HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" env:"PACER_HTTP_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" env:"PACER_HTTP_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" env:"PACER_HTTP_SHUTDOWN_TIMEOUT"`
}

// AuthConfig controls admin bearer tokens. An empty secret disables the
// admin API.
type AuthConfig struct {
	Secret   string        `mapstructure:"secret" env:"PACER_AUTH_SECRET"`
	Issuer   string        `mapstructure:"issuer" env:"PACER_AUTH_ISSUER"`
	TokenTTL time.Duration `mapstructure:"token_ttl" env:"PACER_AUTH_TOKEN_TTL"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider" env:"PACER_LOG_PROVIDER"`
	Level     string   `mapstructure:"level" env:"PACER_LOG_LEVEL"`
	Format    string   `mapstructure:"format" env:"PACER_LOG_FORMAT"`
	AddSource bool     `mapstructure:"add_source" env:"PACER_LOG_ADD_SOURCE"`
	Focus     []string `mapstructure:"focus" env:"PACER_LOG_FOCUS"`
}

// TelemetryConfig enables OTLP trace export when Endpoint is set.
type TelemetryConfig struct {
	Endpoint    string `mapstructure:"endpoint" env:"PACER_OTEL_ENDPOINT"`
	ServiceName string `mapstructure:"service_name" env:"PACER_OTEL_SERVICE_NAME"`
	Insecure    bool   `mapstructure:"insecure" env:"PACER_OTEL_INSECURE"`
}

// DefaultConfig returns settings that run the site standalone: embedded
// content, in-memory storage and mailto delivery.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Name:         "Pacer",
			BaseURL:      "http://localhost:8080",
			ContactEmail: "hello@pacer.run",
			Description:  "AI marathon coaching that adapts to every run.",
			Language:     "en",
		},
		Blog: BlogConfig{
			ContentDir:     "content/blog",
			Pattern:        "*.md",
			Recursive:      true,
			WordsPerMinute: 200,
			WatchDebounce:  250 * time.Millisecond,
			RelatedLimit:   3,
			PageSize:       10,
		},
		Waitlist: WaitlistConfig{
			WebhookTimeout: 5 * time.Second,
			MailtoAddress:  "hello@pacer.run",
			MailtoSubject:  "Join the Pacer waitlist",
			HoneypotField:  "website",
		},
		Storage: StorageConfig{
			Driver:      "memory",
			AutoMigrate: true,
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			Issuer:   "pacer",
			TokenTTL: 12 * time.Hour,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "pacer",
		},
	}
}

// ApplyEnv overlays PACER_* environment variables onto cfg. Unset variables
// leave the current values untouched.
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("pacer config: parse env: %w", err)
	}
	return nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if base := strings.TrimSpace(cfg.Site.BaseURL); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%w: %q", ErrSiteBaseURLInvalid, base)
		}
	}
	if strings.TrimSpace(cfg.Blog.ContentDir) == "" {
		return ErrBlogContentDirRequired
	}
	if cfg.Blog.WordsPerMinute < 0 {
		return ErrBlogWordsPerMinute
	}

	if hook := strings.TrimSpace(cfg.Waitlist.WebhookURL); hook != "" {
		parsed, err := url.Parse(hook)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("%w: %q", ErrWaitlistWebhookInvalid, hook)
		}
	}
	if strings.TrimSpace(cfg.Waitlist.HoneypotField) == "" {
		return ErrHoneypotFieldRequired
	}

	driver := normalize(cfg.Storage.Driver)
	switch driver {
	case "", "memory":
	case "postgres", "postgresql", "pgx", "sqlite", "sqlite3":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, driver)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}

	if strings.TrimSpace(cfg.Waitlist.WebhookURL) == "" &&
		strings.TrimSpace(cfg.Waitlist.MailtoAddress) == "" &&
		!cfg.Waitlist.Persist {
		return ErrWaitlistNoChannel
	}

	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return ErrHTTPAddrRequired
	}
	if secret := cfg.Auth.Secret; secret != "" && len(secret) < 32 {
		return ErrAuthSecretTooShort
	}

	provider := normalize(cfg.Logging.Provider)
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
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "", "console", "gologger", "none":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
