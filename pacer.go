// Package pacer assembles the Pacer marketing site: the markdown blog, the
// waitlist funnel, and the audience records behind the admin API.
package pacer

import (
	"context"
	"net/http"

	"github.com/goliatone/go-pacer/internal/audience"
	"github.com/goliatone/go-pacer/internal/blog"
	"github.com/goliatone/go-pacer/internal/di"
	"github.com/goliatone/go-pacer/internal/feeds"
	"github.com/goliatone/go-pacer/internal/site"
	"github.com/goliatone/go-pacer/internal/waitlist"
)

// BlogService exports the post catalog contract.
type BlogService = blog.Service

// WaitlistService exports the signup funnel contract.
type WaitlistService = waitlist.Service

// AudienceService exports the waitlist, subscriber and user record contract.
type AudienceService = audience.Service

type (
	Post       = blog.Post
	PostPage   = blog.PostPage
	Submission = waitlist.Submission
	Outcome    = waitlist.Outcome
)

// Module is the top level runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg. Posts are loaded before it returns.
func New(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Blog returns the post catalog.
func (m *Module) Blog() BlogService {
	return m.container.BlogService()
}

// Waitlist returns the signup service.
func (m *Module) Waitlist() WaitlistService {
	return m.container.WaitlistService()
}

// Audience returns the record service.
func (m *Module) Audience() AudienceService {
	return m.container.AudienceService()
}

// Site returns the landing page copy.
func (m *Module) Site() *site.Content {
	return m.container.SiteContent()
}

// Feeds builds RSS, Atom, sitemap and robots documents.
func (m *Module) Feeds() *feeds.Builder {
	return m.container.Feeds()
}

// Handler returns the site's HTTP handler.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.Handler()
}

// Reload re-reads posts from disk.
func (m *Module) Reload(ctx context.Context, reason string) error {
	return m.container.ReloadPostsHandler().Reload(reason)(ctx)
}

// Close releases storage held by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
