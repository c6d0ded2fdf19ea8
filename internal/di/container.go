// Package di wires the site's services from a runtime configuration.
package di

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-pacer/internal/audience"
	"github.com/goliatone/go-pacer/internal/auth"
	"github.com/goliatone/go-pacer/internal/blog"
	"github.com/goliatone/go-pacer/internal/commands"
	"github.com/goliatone/go-pacer/internal/commands/audiencecmd"
	"github.com/goliatone/go-pacer/internal/commands/blogcmd"
	"github.com/goliatone/go-pacer/internal/feeds"
	pacerhttp "github.com/goliatone/go-pacer/internal/http"
	"github.com/goliatone/go-pacer/internal/logging"
	"github.com/goliatone/go-pacer/internal/logging/gologger"
	"github.com/goliatone/go-pacer/internal/markdown"
	"github.com/goliatone/go-pacer/internal/routes"
	"github.com/goliatone/go-pacer/internal/runtimeconfig"
	"github.com/goliatone/go-pacer/internal/site"
	"github.com/goliatone/go-pacer/internal/storage"
	"github.com/goliatone/go-pacer/internal/validation"
	"github.com/goliatone/go-pacer/internal/views"
	"github.com/goliatone/go-pacer/internal/waitlist"
	"github.com/goliatone/go-pacer/pkg/interfaces"
)

// Container owns every long-lived service.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger
	now            func() time.Time

	bunDB   *bun.DB
	ownsDB  bool
	blogFS  fs.FS
	legalFS fs.FS
	client  *http.Client

	postsMarkdown *markdown.Service
	legalMarkdown *markdown.Service

	blogSvc     blog.Service
	audienceSvc audience.Service
	waitlistSvc waitlist.Service
	notifier    waitlist.Notifier

	content  *site.Content
	legal    *site.Legal
	routes   *routes.Resolver
	feeds    *feeds.Builder
	renderer *views.Renderer
	tokens   *auth.Tokens

	reloadPosts    *blogcmd.ReloadPostsHandler
	exportWaitlist *audiencecmd.ExportWaitlistHandler

	server *pacerhttp.Server
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies an open database instead of dialling Config.Storage.
// The caller keeps ownership.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithBlogFS reads posts from fsys instead of Config.Blog.ContentDir.
func WithBlogFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.blogFS = fsys
	}
}

// WithLegalFS reads legal pages from fsys.
func WithLegalFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.legalFS = fsys
	}
}

// WithHTTPClient sets the client used for webhook delivery.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.client = client
	}
}

// WithWaitlistNotifier replaces the webhook notifier.
func WithWaitlistNotifier(notifier waitlist.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

// WithClock overrides the time source shared by every service.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.now = now
		}
	}
}

// NewContainer validates cfg, wires every service and loads the post catalog.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func(context.Context) error{
		c.configureLoggerProvider,
		c.configureStorage,
		c.configureAudience,
		c.configureWaitlist,
		c.configureBlog,
		c.configureSite,
		c.configureAuth,
		c.configureCommands,
		c.configureServer,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	if err := c.reloadPosts.Execute(ctx, blogcmd.ReloadPostsCommand{Reason: "startup"}); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.logger.Info("pacer.container.ready",
		"storage", strings.ToLower(cfg.Storage.Driver),
		"webhook", cfg.Waitlist.WebhookURL != "",
		"admin_api", c.tokens != nil,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider(context.Context) error {
	if c.loggerProvider == nil {
		cfg := c.Config.Logging
		switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
		case "none":
		case "gologger":
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     cfg.Level,
				Format:    cfg.Format,
				AddSource: cfg.AddSource,
				Focus:     cfg.Focus,
			})
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		default:
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     cfg.Level,
				Format:    "console",
				AddSource: cfg.AddSource,
				Focus:     cfg.Focus,
			})
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		}
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "pacer")
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.bunDB != nil {
		return c.migrate(ctx)
	}
	db, err := storage.Open(ctx, storage.Config{
		Driver:       c.Config.Storage.Driver,
		DSN:          c.Config.Storage.DSN,
		MaxOpenConns: c.Config.Storage.MaxOpenConns,
	})
	if err != nil {
		return err
	}
	if db == nil {
		return nil
	}
	c.bunDB = db
	c.ownsDB = true
	return c.migrate(ctx)
}

func (c *Container) migrate(ctx context.Context) error {
	if !c.Config.Storage.AutoMigrate {
		return nil
	}
	if err := storage.Migrate(ctx, c.bunDB, audience.Models()...); err != nil {
		return fmt.Errorf("di: migrate: %w", err)
	}
	return nil
}

func (c *Container) configureAudience(context.Context) error {
	var (
		waitlistRepo   audience.WaitlistRepository
		subscriberRepo audience.SubscriberRepository
		userRepo       audience.UserRepository
	)
	if c.bunDB != nil {
		waitlistRepo = audience.NewBunWaitlistRepository(c.bunDB)
		subscriberRepo = audience.NewBunSubscriberRepository(c.bunDB)
		userRepo = audience.NewBunUserRepository(c.bunDB)
	} else {
		waitlistRepo = audience.NewMemoryWaitlistRepository()
		subscriberRepo = audience.NewMemorySubscriberRepository()
		userRepo = audience.NewMemoryUserRepository()
	}
	c.audienceSvc = audience.NewService(waitlistRepo, subscriberRepo, userRepo,
		audience.WithClock(c.now),
		audience.WithLogger(logging.AudienceLogger(c.loggerProvider)),
	)
	return nil
}

func (c *Container) configureWaitlist(context.Context) error {
	cfg := c.Config.Waitlist
	opts := []waitlist.ServiceOption{
		waitlist.WithLogger(logging.WaitlistLogger(c.loggerProvider)),
		waitlist.WithClock(c.now),
	}
	if cfg.Persist {
		opts = append(opts, waitlist.WithRecorder(c.audienceSvc))
	}
	switch {
	case c.notifier != nil:
		opts = append(opts, waitlist.WithNotifier(c.notifier))
	case c.client != nil && strings.TrimSpace(cfg.WebhookURL) != "":
		opts = append(opts, waitlist.WithNotifier(waitlist.NewHTTPWebhook(cfg.WebhookURL, c.client)))
	}
	c.waitlistSvc = waitlist.NewService(waitlist.Config{
		WebhookURL:     cfg.WebhookURL,
		WebhookTimeout: cfg.WebhookTimeout,
		MailtoAddress:  cfg.MailtoAddress,
		MailtoSubject:  cfg.MailtoSubject,
	}, opts...)
	return nil
}

func (c *Container) configureBlog(context.Context) error {
	cfg := c.Config.Blog
	md, err := markdown.NewService(markdown.Config{
		BasePath:  cfg.ContentDir,
		FS:        c.blogFS,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	}, nil)
	if err != nil {
		return err
	}
	c.postsMarkdown = md
	c.blogSvc = blog.NewService(md, blog.Config{
		ContentDir:     cfg.ContentDir,
		Pattern:        cfg.Pattern,
		Recursive:      cfg.Recursive,
		WordsPerMinute: cfg.WordsPerMinute,
		IncludeDrafts:  cfg.IncludeDrafts,
		RelatedLimit:   cfg.RelatedLimit,
		PageSize:       cfg.PageSize,
	},
		blog.WithLogger(logging.BlogLogger(c.loggerProvider)),
		blog.WithClock(c.now),
		blog.WithFrontMatterValidator(validation.ValidatePostFrontMatter),
	)
	return nil
}

func (c *Container) configureSite(context.Context) error {
	content, err := site.LoadContent(c.Config.Site.ContentFile)
	if err != nil {
		return err
	}
	c.content = content
	logging.SiteLogger(c.loggerProvider).Debug("site.content.loaded",
		"brand", content.Brand,
		"source", c.Config.Site.ContentFile,
	)

	legalFS := c.legalFS
	if legalFS == nil && strings.TrimSpace(c.Config.Legal.Dir) == "" {
		legalFS = site.LegalFS()
	}
	legalMD, err := markdown.NewService(markdown.Config{
		BasePath: c.Config.Legal.Dir,
		FS:       legalFS,
		Pattern:  "*.md",
	}, nil)
	if err != nil {
		return err
	}
	c.legalMarkdown = legalMD
	c.legal = site.NewLegal(legalMD)

	resolver, err := routes.NewResolver(c.Config.Site.BaseURL)
	if err != nil {
		return err
	}
	c.routes = resolver

	title := strings.TrimSpace(content.Brand)
	if title == "" {
		title = c.Config.Site.Name
	}
	c.feeds = feeds.NewBuilder(c.blogSvc, resolver, feeds.Site{
		Title:       title,
		Description: c.Config.Site.Description,
		Language:    c.Config.Site.Language,
	}, feeds.WithLegal(c.legal), feeds.WithClock(c.now))

	c.renderer = views.NewRenderer(content, resolver)
	c.renderer.HoneypotField = c.Config.Waitlist.HoneypotField
	c.renderer.Now = c.now
	return nil
}

func (c *Container) configureAuth(context.Context) error {
	if strings.TrimSpace(c.Config.Auth.Secret) == "" {
		return nil
	}
	tokens, err := auth.NewTokens(auth.Config{
		Secret: c.Config.Auth.Secret,
		Issuer: c.Config.Auth.Issuer,
		TTL:    c.Config.Auth.TokenTTL,
		Now:    c.now,
	})
	if err != nil {
		return err
	}
	c.tokens = tokens
	return nil
}

func (c *Container) configureCommands(context.Context) error {
	c.reloadPosts = blogcmd.NewReloadPostsHandler(c.blogSvc,
		commands.CommandLogger(c.loggerProvider, "blog"),
		commands.WithHandlerClock[blogcmd.ReloadPostsCommand](c.now),
	)
	c.exportWaitlist = audiencecmd.NewExportWaitlistHandler(c.audienceSvc,
		commands.CommandLogger(c.loggerProvider, "audience"),
		commands.WithHandlerClock[audiencecmd.ExportWaitlistCommand](c.now),
	)
	return nil
}

func (c *Container) configureServer(context.Context) error {
	c.server = pacerhttp.NewServer(
		pacerhttp.WithBlogService(c.blogSvc),
		pacerhttp.WithWaitlistService(c.waitlistSvc),
		pacerhttp.WithAudienceService(c.audienceSvc),
		pacerhttp.WithLegal(c.legal),
		pacerhttp.WithFeeds(c.feeds),
		pacerhttp.WithRenderer(c.renderer),
		pacerhttp.WithTokens(c.tokens),
		pacerhttp.WithStatic(site.StaticFS()),
		pacerhttp.WithHoneypotField(c.Config.Waitlist.HoneypotField),
		pacerhttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)
	return nil
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Handler returns the HTTP handler with middleware applied.
func (c *Container) Handler() (http.Handler, error) { return c.server.Handler() }

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }
func (c *Container) Logger() interfaces.Logger                 { return c.logger }
func (c *Container) DB() *bun.DB                               { return c.bunDB }
func (c *Container) BlogService() blog.Service                 { return c.blogSvc }
func (c *Container) AudienceService() audience.Service         { return c.audienceSvc }
func (c *Container) WaitlistService() waitlist.Service         { return c.waitlistSvc }
func (c *Container) SiteContent() *site.Content                { return c.content }
func (c *Container) Legal() *site.Legal                        { return c.legal }
func (c *Container) Routes() *routes.Resolver                  { return c.routes }
func (c *Container) Feeds() *feeds.Builder                     { return c.feeds }
func (c *Container) Renderer() *views.Renderer                 { return c.renderer }

// Tokens returns nil when no auth secret is configured.
func (c *Container) Tokens() *auth.Tokens { return c.tokens }

func (c *Container) ReloadPostsHandler() *blogcmd.ReloadPostsHandler { return c.reloadPosts }

func (c *Container) ExportWaitlistHandler() *audiencecmd.ExportWaitlistHandler {
	return c.exportWaitlist
}

// Watcher returns a content watcher that reloads posts through the reload
// command. It is nil when posts come from an injected filesystem.
func (c *Container) Watcher() *blog.Watcher {
	if c.blogFS != nil {
		return nil
	}
	return blog.NewWatcher(c.Config.Blog.ContentDir, c.Config.Blog.WatchDebounce,
		c.reloadPosts.Reload("watch"), logging.BlogLogger(c.loggerProvider))
}
