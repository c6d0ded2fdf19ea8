package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-pacer/internal/runtimeconfig"
	"github.com/goliatone/go-pacer/internal/telemetry"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Start the HTTP server",
		Long: `Start the HTTP server. With --watch the blog directory is watched and
posts are reloaded when markdown files change.

Examples:
  pacer serve
  pacer serve --addr :3000 --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			container, err := root.container(ctx, func(cfg *runtimeconfig.Config) {
				if addr != "" {
					cfg.HTTP.Addr = addr
				}
				if watch {
					cfg.Blog.Watch = true
				}
			})
			if err != nil {
				return err
			}
			defer container.Close()

			cfg := container.Config
			logger := container.Logger()

			shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
				Endpoint:    cfg.Telemetry.Endpoint,
				ServiceName: cfg.Telemetry.ServiceName,
				Insecure:    cfg.Telemetry.Insecure,
			})
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
				defer cancel()
				if err := shutdownTelemetry(shutdownCtx); err != nil {
					logger.Warn("pacer.telemetry.shutdown_failed", "error", err)
				}
			}()

			if cfg.Blog.Watch {
				if watcher := container.Watcher(); watcher != nil {
					go func() {
						if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
							logger.Error("blog.watch.stopped", "error", err)
						}
					}()
				}
			}

			handler, err := container.Handler()
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:         cfg.HTTP.Addr,
				Handler:      handler,
				ReadTimeout:  cfg.HTTP.ReadTimeout,
				WriteTimeout: cfg.HTTP.WriteTimeout,
				IdleTimeout:  cfg.HTTP.IdleTimeout,
				BaseContext:  func(net.Listener) context.Context { return ctx },
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("pacer.http.listening", "addr", cfg.HTTP.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("pacer.http.shutdown")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.addr)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload posts when the blog directory changes")
	return cmd
}
