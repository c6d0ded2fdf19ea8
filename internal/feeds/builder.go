package feeds

import (
	"context"
	"time"

	"github.com/goliatone/go-pacer/internal/blog"
	"github.com/goliatone/go-pacer/internal/routes"
	"github.com/goliatone/go-pacer/internal/site"
)

// LegalLister supplies legal pages for the sitemap.
type LegalLister interface {
	Pages(ctx context.Context) ([]*site.LegalPage, error)
}

// Bundle holds every generated document.
type Bundle struct {
	RSS     string
	Atom    string
	Sitemap string
	Robots  string
}

// Builder renders feeds and the sitemap from the live blog catalog.
type Builder struct {
	blog   blog.Service
	routes *routes.Resolver
	site   Site
	legal  LegalLister
	now    func() time.Time
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLegal adds legal pages to the sitemap.
func WithLegal(legal LegalLister) BuilderOption {
	return func(b *Builder) {
		b.legal = legal
	}
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder creates a builder. Site.BaseURL, FeedURL and AtomURL are
// filled from resolver when empty.
func NewBuilder(posts blog.Service, resolver *routes.Resolver, meta Site, opts ...BuilderOption) *Builder {
	if meta.BaseURL == "" {
		meta.BaseURL = resolver.BaseURL()
	}
	if meta.FeedURL == "" {
		meta.FeedURL = resolver.Feed()
	}
	if meta.AtomURL == "" {
		meta.AtomURL = resolver.Atom()
	}
	b := &Builder{
		blog:   posts,
		routes: resolver,
		site:   meta,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Items converts the newest posts into feed items.
func (b *Builder) Items(ctx context.Context) ([]Item, error) {
	posts, err := b.blog.Recent(ctx, MaxItems)
	if err != nil {
		return nil, err
	}
	return ItemsFromPosts(posts, b.routes), nil
}

// ItemsFromPosts maps posts to feed items using resolver for links.
func ItemsFromPosts(posts []*blog.Post, resolver *routes.Resolver) []Item {
	items := make([]Item, 0, len(posts))
	for _, post := range posts {
		if post == nil {
			continue
		}
		items = append(items, Item{
			Title:       post.Title,
			Summary:     post.Excerpt,
			Link:        resolver.Post(post.Slug),
			GUID:        "urn:uuid:" + post.ID.String(),
			Author:      post.Author,
			Categories:  append([]string(nil), post.Tags...),
			PublishedAt: post.PublishedAt,
			UpdatedAt:   post.UpdatedAt,
		})
	}
	return items
}

// RSS renders the RSS feed.
func (b *Builder) RSS(ctx context.Context) (string, error) {
	items, err := b.Items(ctx)
	if err != nil {
		return "", err
	}
	return BuildRSS(b.site, items, b.now()), nil
}

// Atom renders the Atom feed.
func (b *Builder) Atom(ctx context.Context) (string, error) {
	items, err := b.Items(ctx)
	if err != nil {
		return "", err
	}
	return BuildAtom(b.site, items, b.now()), nil
}

// Sitemap lists the landing page, blog index, every post, every tag and
// legal page.
func (b *Builder) Sitemap(ctx context.Context) (string, error) {
	now := b.now()
	posts, err := b.blog.All(ctx)
	if err != nil {
		return "", err
	}

	var newest time.Time
	entries := []SitemapEntry{
		{Location: b.routes.Home(), ChangeFreq: "weekly", Priority: "1.0"},
	}
	for _, post := range posts {
		lastMod := firstNonZeroTime(post.UpdatedAt, post.PublishedAt)
		if lastMod.After(newest) {
			newest = lastMod
		}
		entries = append(entries, SitemapEntry{Location: b.routes.Post(post.Slug), LastMod: lastMod, Priority: "0.8"})
	}
	entries = append(entries, SitemapEntry{Location: b.routes.Blog(), LastMod: newest, ChangeFreq: "daily", Priority: "0.9"})

	tags, err := b.blog.Tags(ctx)
	if err != nil {
		return "", err
	}
	for _, tag := range tags {
		entries = append(entries, SitemapEntry{Location: b.routes.Tag(tag.Slug), Priority: "0.5"})
	}

	if b.legal != nil {
		pages, err := b.legal.Pages(ctx)
		if err != nil {
			return "", err
		}
		for _, page := range pages {
			entries = append(entries, SitemapEntry{Location: b.routes.Legal(page.Slug), LastMod: page.UpdatedAt, Priority: "0.3"})
		}
	}

	return BuildSitemap(b.site.BaseURL, entries, now), nil
}

// Robots renders robots.txt pointing at the sitemap.
func (b *Builder) Robots() string {
	return BuildRobots(b.site.BaseURL, true)
}

// Build renders every document.
func (b *Builder) Build(ctx context.Context) (Bundle, error) {
	var (
		bundle Bundle
		err    error
	)
	if bundle.RSS, err = b.RSS(ctx); err != nil {
		return Bundle{}, err
	}
	if bundle.Atom, err = b.Atom(ctx); err != nil {
		return Bundle{}, err
	}
	if bundle.Sitemap, err = b.Sitemap(ctx); err != nil {
		return Bundle{}, err
	}
	bundle.Robots = b.Robots()
	return bundle, nil
}
