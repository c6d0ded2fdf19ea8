package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-pacer/pkg/interfaces"
)

const (
	rootModule     = "pacer"
	blogModule     = "pacer.blog"
	waitlistModule = "pacer.waitlist"
	audienceModule = "pacer.audience"
	httpModule     = "pacer.http"
	siteModule     = "pacer.site"
)

const (
	fieldPostSlug   = "post_slug"
	fieldPostPath   = "markdown_path"
	fieldBlogAction = "blog_action"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// BlogLogger returns the logger namespace reserved for the blog pipeline.
func BlogLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, blogModule)
}

// WaitlistLogger returns the logger namespace reserved for waitlist signups.
func WaitlistLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, waitlistModule)
}

// AudienceLogger returns the logger namespace for subscriber and user records.
func AudienceLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, audienceModule)
}

// HTTPLogger returns the logger namespace for the HTTP adapter.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// SiteLogger returns the logger namespace for landing and legal content.
func SiteLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, siteModule)
}

// WithPostContext enriches logger with the post slug, source path and blog
// action. Empty values are skipped.
func WithPostContext(logger interfaces.Logger, slug, path, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldPostSlug] = trimmed
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldPostPath] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldBlogAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
