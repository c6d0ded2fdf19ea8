package di

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-pacer/internal/logging/gologger"
	"github.com/goliatone/go-pacer/internal/runtimeconfig"
)

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(context.Background(), cfg, WithBlogFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	defer container.Close()

	provider, ok := container.loggerProvider.(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.loggerProvider)
	}
	if logger := provider.GetLogger("pacer.test"); logger == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestConfigureLoggerProviderConsoleDefault(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()

	container, err := NewContainer(context.Background(), cfg, WithBlogFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.loggerProvider.(*gologger.Provider); !ok {
		t.Fatalf("expected console format to use go-logger, got %T", container.loggerProvider)
	}
}

func TestConfigureLoggerProviderNone(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "none"

	container, err := NewContainer(context.Background(), cfg, WithBlogFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.loggerProvider != nil {
		t.Fatalf("expected no provider, got %T", container.loggerProvider)
	}
	if container.Logger() == nil {
		t.Fatal("expected no-op logger")
	}
}
