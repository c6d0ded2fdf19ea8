package views

import (
	"context"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/goliatone/go-pacer/internal/routes"
	"github.com/goliatone/go-pacer/internal/site"
)

// Meta carries per-page head values.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	NoIndex     bool
}

// Renderer builds full pages around the shared layout.
type Renderer struct {
	Site   *site.Content
	Routes *routes.Resolver
	// StylesheetURL is linked from every page when set.
	StylesheetURL string
	// HoneypotField names the hidden spam trap input on the waitlist form.
	HoneypotField string
	Now           func() time.Time
}

// NewRenderer returns a renderer with defaults for empty fields.
func NewRenderer(content *site.Content, resolver *routes.Resolver) *Renderer {
	return &Renderer{
		Site:          content,
		Routes:        resolver,
		StylesheetURL: "/static/site.css",
		HoneypotField: "website",
		Now:           time.Now,
	}
}

func (r *Renderer) brand() string {
	if r.Site != nil && strings.TrimSpace(r.Site.Brand) != "" {
		return r.Site.Brand
	}
	return "Pacer"
}

// PageTitle appends the brand unless title already ends with it.
func (r *Renderer) PageTitle(title string) string {
	brand := r.brand()
	title = strings.TrimSpace(title)
	if title == "" || title == brand {
		return brand
	}
	if strings.HasSuffix(title, "| "+brand) {
		return title
	}
	return title + " | " + brand
}

// Layout wraps body in the document shell.
func (r *Renderer) Layout(meta Meta, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw("<!DOCTYPE html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.tag("title", "", r.PageTitle(meta.Title))
		if meta.Description != "" {
			h.raw(`<meta name="description"`)
			h.attr("content", meta.Description)
			h.raw(">")
		}
		if meta.Canonical != "" {
			h.raw(`<link rel="canonical"`)
			h.href(meta.Canonical)
			h.raw(">")
		}
		if meta.NoIndex {
			h.raw(`<meta name="robots" content="noindex">`)
		}
		if r.StylesheetURL != "" {
			h.raw(`<link rel="stylesheet"`)
			h.href(r.StylesheetURL)
			h.raw(">")
		}
		if r.Routes != nil {
			h.raw(`<link rel="alternate" type="application/rss+xml"`)
			h.attr("title", r.brand()+" blog")
			h.href(r.Routes.Feed())
			h.raw(">")
		}
		h.raw("</head><body>")
		r.header(h)
		h.raw("<main>")
		h.component(ctx, body)
		h.raw("</main>")
		r.footer(h)
		h.raw("</body></html>\n")
	})
}

func (r *Renderer) header(h *htmlWriter) {
	h.raw(`<header class="site-header"><nav>`)
	home, blogURL := "/", "/blog"
	if r.Routes != nil {
		home, blogURL = r.Routes.Home(), r.Routes.Blog()
	}
	h.link(home, "brand", r.brand())
	h.link(blogURL, "", "Blog")
	h.link(home+"#waitlist", "cta", "Join the waitlist")
	h.raw("</nav></header>")
}

func (r *Renderer) footer(h *htmlWriter) {
	h.raw(`<footer class="site-footer">`)
	if r.Site != nil {
		if len(r.Site.Footer.Links) > 0 {
			h.raw("<nav>")
			for _, link := range r.Site.Footer.Links {
				h.link(link.Href, "", link.Label)
			}
			h.raw("</nav>")
		}
		if r.Site.Footer.Copyright != "" {
			year := time.Now().Year()
			if r.Now != nil {
				year = r.Now().Year()
			}
			h.tag("p", "muted", "© "+itoa(year)+" "+r.Site.Footer.Copyright)
		}
	}
	h.raw("</footer>")
}
