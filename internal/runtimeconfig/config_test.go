package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-pacer/internal/runtimeconfig"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.Waitlist.HoneypotField != "website" {
		t.Fatalf("expected default honeypot field, got %q", cfg.Waitlist.HoneypotField)
	}
}

func TestConfigValidate_RejectsRelativeBaseURL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Site.BaseURL = "/pacer"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrSiteBaseURLInvalid) {
		t.Fatalf("expected ErrSiteBaseURLInvalid, got %v", err)
	}
}

func TestConfigValidate_RequiresBlogContentDir(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Blog.ContentDir = " "

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrBlogContentDirRequired) {
		t.Fatalf("expected ErrBlogContentDirRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsNonHTTPWebhook(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Waitlist.WebhookURL = "ftp://hooks.example.com/waitlist"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrWaitlistWebhookInvalid) {
		t.Fatalf("expected ErrWaitlistWebhookInvalid, got %v", err)
	}
}

func TestConfigValidate_RequiresDeliveryChannel(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Waitlist.MailtoAddress = ""

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrWaitlistNoChannel) {
		t.Fatalf("expected ErrWaitlistNoChannel, got %v", err)
	}

	cfg.Waitlist.Persist = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("persistence alone should be enough, got %v", err)
	}
}

func TestConfigValidate_StorageDriver(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "mysql"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}

	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = ""
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestConfigValidate_AuthSecretLength(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Auth.Secret = "too-short"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrAuthSecretTooShort) {
		t.Fatalf("expected ErrAuthSecretTooShort, got %v", err)
	}
}

func TestConfigValidate_Logging(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}

	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}

	cfg.Logging.Format = "json"
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestApplyEnvOverridesOnlySetValues(t *testing.T) {
	t.Setenv("PACER_WAITLIST_WEBHOOK_URL", "https://hooks.example.com/waitlist")
	t.Setenv("PACER_WAITLIST_WEBHOOK_TIMEOUT", "2s")
	t.Setenv("PACER_BLOG_INCLUDE_DRAFTS", "true")
	t.Setenv("PACER_LOG_FOCUS", "pacer.blog,pacer.http")

	cfg := runtimeconfig.DefaultConfig()
	if err := runtimeconfig.ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.Waitlist.WebhookURL != "https://hooks.example.com/waitlist" {
		t.Fatalf("webhook url not applied: %q", cfg.Waitlist.WebhookURL)
	}
	if cfg.Waitlist.WebhookTimeout != 2*time.Second {
		t.Fatalf("webhook timeout not applied: %s", cfg.Waitlist.WebhookTimeout)
	}
	if !cfg.Blog.IncludeDrafts {
		t.Fatalf("include drafts not applied")
	}
	if len(cfg.Logging.Focus) != 2 || cfg.Logging.Focus[1] != "pacer.http" {
		t.Fatalf("focus not applied: %v", cfg.Logging.Focus)
	}
	if cfg.Waitlist.MailtoAddress != "hello@pacer.run" {
		t.Fatalf("unset variables must keep defaults, got %q", cfg.Waitlist.MailtoAddress)
	}
}

func TestApplyEnvRejectsMalformedValues(t *testing.T) {
	t.Setenv("PACER_HTTP_READ_TIMEOUT", "soon")

	cfg := runtimeconfig.DefaultConfig()
	if err := runtimeconfig.ApplyEnv(&cfg); err == nil {
		t.Fatalf("expected parse error")
	}
}
