// Package gologger adapts github.com/goliatone/go-logger to the site's
// logging contract.
package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-pacer/internal/logging"
	"github.com/goliatone/go-pacer/pkg/interfaces"
)

// Config selects level, output format and focus for the root logger.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	// Focus limits output to the named module loggers, e.g. "pacer.waitlist".
	Focus []string
}

var (
	jsonFormat    = func() glog.Option { return glog.WithLoggerTypeJSON() }
	consoleFormat = func() glog.Option { return glog.WithLoggerTypeConsole() }
	prettyFormat  = func() glog.Option { return glog.WithLoggerTypePretty() }
)

var formats = map[string]func() glog.Option{
	"":        jsonFormat,
	"json":    jsonFormat,
	"console": consoleFormat,
	"text":    consoleFormat,
	"pretty":  prettyFormat,
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// Provider hands out go-logger children keyed by module name.
type Provider struct {
	root *glog.BaseLogger
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

// NewProvider builds the root logger. An empty format means json.
func NewProvider(cfg Config) (*Provider, error) {
	format, ok := formats[strings.ToLower(strings.TrimSpace(cfg.Format))]
	if !ok {
		return nil, fmt.Errorf("logging: unsupported go-logger format %q", cfg.Format)
	}
	options := []glog.Option{format()}
	if level := normalizeLevel(cfg.Level); level != "" {
		options = append(options, glog.WithLevel(level))
	}
	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	if focus := normalizeFocus(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root}, nil
}

// GetLogger returns the child logger for module; an empty name is the root.
func (p *Provider) GetLogger(module string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	if module = strings.TrimSpace(module); module == "" {
		return wrap(p.root)
	}
	return wrap(p.root.GetLogger(module))
}

func wrap(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &adapter{inner: inner}
}

type adapter struct {
	inner glog.Logger
}

func (a *adapter) Trace(msg string, args ...any) { a.inner.Trace(msg, args...) }
func (a *adapter) Debug(msg string, args ...any) { a.inner.Debug(msg, args...) }
func (a *adapter) Info(msg string, args ...any)  { a.inner.Info(msg, args...) }
func (a *adapter) Warn(msg string, args ...any)  { a.inner.Warn(msg, args...) }
func (a *adapter) Error(msg string, args ...any) { a.inner.Error(msg, args...) }
func (a *adapter) Fatal(msg string, args ...any) { a.inner.Fatal(msg, args...) }

// WithFields prefers go-logger's native field support and falls back to
// key/value pairs in sorted key order.
func (a *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return a
	}
	switch inner := a.inner.(type) {
	case glog.FieldsLogger:
		return wrap(inner.WithFields(maps.Clone(fields)))
	case interface{ With(...any) *glog.BaseLogger }:
		args := make([]any, 0, len(fields)*2)
		for _, key := range slices.Sorted(maps.Keys(fields)) {
			args = append(args, key, fields[key])
		}
		return wrap(inner.With(args...))
	}
	return a
}

func (a *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return a
	}
	return wrap(a.inner.WithContext(ctx))
}

func normalizeLevel(level string) string {
	return levels[strings.ToLower(strings.TrimSpace(level))]
}

func normalizeFocus(modules []string) []string {
	out := make([]string, 0, len(modules))
	for _, module := range modules {
		if module = strings.TrimSpace(module); module != "" {
			out = append(out, module)
		}
	}
	return out
}
