package routes

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	GroupSite = "site"

	RouteHome    = "home"
	RouteBlog    = "blog"
	RoutePost    = "post"
	RouteTag     = "tag"
	RouteSearch  = "search"
	RouteLegal   = "legal"
	RouteFeed    = "feed"
	RouteAtom    = "atom"
	RouteSitemap = "sitemap"
	RouteRobots  = "robots"
)

// Paths maps route names to their patterns. Parameters use urlkit's :name
// syntax.
var Paths = map[string]string{
	RouteHome:    "/",
	RouteBlog:    "/blog",
	RoutePost:    "/blog/:slug",
	RouteTag:     "/blog/tag/:tag",
	RouteSearch:  "/blog/search",
	RouteLegal:   "/legal/:slug",
	RouteFeed:    "/feed.xml",
	RouteAtom:    "/feed.atom.xml",
	RouteSitemap: "/sitemap.xml",
	RouteRobots:  "/robots.txt",
}

// Config returns the urlkit configuration for the public site.
func Config(baseURL string) *urlkit.Config {
	paths := make(map[string]string, len(Paths))
	for name, pattern := range Paths {
		paths[name] = pattern
	}
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    GroupSite,
				BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
				Paths:   paths,
			},
		},
	}
}

// Resolver builds absolute site URLs.
type Resolver struct {
	baseURL string
	group   *urlkit.Group
}

// NewResolver builds a resolver for baseURL. An empty base yields
// root-relative URLs.
func NewResolver(baseURL string) (*Resolver, error) {
	return NewResolverWithManager(urlkit.NewRouteManager(Config(baseURL)), baseURL)
}

// NewResolverWithManager reuses an existing route manager that defines the
// site group.
func NewResolverWithManager(manager *urlkit.RouteManager, baseURL string) (*Resolver, error) {
	if manager == nil {
		return nil, fmt.Errorf("routes: route manager is nil")
	}
	group, err := lookupGroup(manager, GroupSite)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		group:   group,
	}, nil
}

func (r *Resolver) Home() string    { return r.build(RouteHome, nil, nil) }
func (r *Resolver) Blog() string    { return r.build(RouteBlog, nil, nil) }
func (r *Resolver) Feed() string    { return r.build(RouteFeed, nil, nil) }
func (r *Resolver) Atom() string    { return r.build(RouteAtom, nil, nil) }
func (r *Resolver) Sitemap() string { return r.build(RouteSitemap, nil, nil) }
func (r *Resolver) Robots() string  { return r.build(RouteRobots, nil, nil) }

// Post returns the URL of a blog post.
func (r *Resolver) Post(slug string) string {
	return r.build(RoutePost, map[string]any{"slug": slug}, nil)
}

// Tag returns the URL of a tag listing. tag should already be a slug.
func (r *Resolver) Tag(tag string) string {
	return r.build(RouteTag, map[string]any{"tag": tag}, nil)
}

// Search returns the search page URL, with q when non-empty.
func (r *Resolver) Search(q string) string {
	var query map[string]string
	if q = strings.TrimSpace(q); q != "" {
		query = map[string]string{"q": q}
	}
	return r.build(RouteSearch, nil, query)
}

// BlogPage returns the blog index URL for page n; page 1 has no query.
func (r *Resolver) BlogPage(n int) string {
	if n <= 1 {
		return r.Blog()
	}
	return r.build(RouteBlog, nil, map[string]string{"page": fmt.Sprint(n)})
}

// Legal returns the URL of a legal page.
func (r *Resolver) Legal(slug string) string {
	return r.build(RouteLegal, map[string]any{"slug": slug}, nil)
}

// Absolute joins path onto the base URL.
func (r *Resolver) Absolute(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.baseURL + path
}

// BaseURL returns the configured base without a trailing slash.
func (r *Resolver) BaseURL() string { return r.baseURL }

func (r *Resolver) build(route string, params map[string]any, query map[string]string) string {
	builder, err := safeBuilder(r.group, route)
	if err != nil {
		return r.Absolute(Paths[route])
	}
	for key, val := range params {
		builder.WithParam(key, val)
	}
	for key, val := range query {
		builder.WithQuery(key, val)
	}
	url, err := builder.Build()
	if err != nil {
		return r.Absolute(Paths[route])
	}
	return url
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("routes: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("routes: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("routes: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}
