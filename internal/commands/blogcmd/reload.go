package blogcmd

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-pacer/internal/blog"
	"github.com/goliatone/go-pacer/internal/commands"
	"github.com/goliatone/go-pacer/pkg/interfaces"
)

const reloadPostsMessageType = "pacer.blog.posts.reload"

// ErrServiceRequired is returned when a handler is built without a blog service.
var ErrServiceRequired = errors.New("blogcmd: blog service is required")

// ReloadPostsCommand rebuilds the in-memory post catalog from disk.
type ReloadPostsCommand struct {
	// Reason is recorded with the log entry, e.g. "watch" or "signal".
	Reason string `json:"reason,omitempty"`
	// ResultCallback receives the reload summary when set.
	ResultCallback func(blog.ReloadResult) `json:"-"`
}

// Type implements command.Message.
func (ReloadPostsCommand) Type() string { return reloadPostsMessageType }

// Validate implements command.Message. The command carries no required fields.
func (ReloadPostsCommand) Validate() error { return nil }

// ReloadPostsHandler runs catalog reloads through the shared command handler.
type ReloadPostsHandler struct {
	inner *commands.Handler[ReloadPostsCommand]
}

// NewReloadPostsHandler constructs a handler bound to service.
func NewReloadPostsHandler(service blog.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ReloadPostsCommand]) *ReloadPostsHandler {
	exec := func(ctx context.Context, msg ReloadPostsCommand) error {
		if service == nil {
			return ErrServiceRequired
		}
		result, err := service.Reload(ctx)
		if err != nil {
			return err
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ReloadPostsCommand]{
		commands.WithLogger[ReloadPostsCommand](logger),
		commands.WithOperation[ReloadPostsCommand]("blog.reload"),
		commands.WithMessageFields(func(msg ReloadPostsCommand) map[string]any {
			if reason := strings.TrimSpace(msg.Reason); reason != "" {
				return map[string]any{"reason": reason}
			}
			return nil
		}),
		commands.WithObserver(commands.LogObserver[ReloadPostsCommand](nil)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ReloadPostsHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ReloadPostsCommand].
func (h *ReloadPostsHandler) Execute(ctx context.Context, msg ReloadPostsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// Reload is a convenience for callers that only need the error, such as the
// content watcher.
func (h *ReloadPostsHandler) Reload(reason string) func(context.Context) error {
	return func(ctx context.Context) error {
		return h.Execute(ctx, ReloadPostsCommand{Reason: reason})
	}
}
