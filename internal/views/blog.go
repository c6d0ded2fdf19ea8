package views

import (
	"context"
	"strings"

	"github.com/a-h/templ"
	"github.com/goliatone/go-pacer/internal/blog"
)

const dateLayout = "January 2, 2006"

func (r *Renderer) canonical(path string) string {
	if r.Routes == nil {
		return ""
	}
	if path == "" {
		return r.Routes.Home()
	}
	return r.Routes.Absolute(path)
}

func (r *Renderer) postURL(slug string) string {
	if r.Routes == nil {
		return "/blog/" + slug
	}
	return r.Routes.Post(slug)
}

func (r *Renderer) tagURL(tag string) string {
	tagSlug := blog.TagSlug(tag)
	if r.Routes == nil {
		return "/blog/tag/" + tagSlug
	}
	return r.Routes.Tag(tagSlug)
}

func (r *Renderer) postList(posts []*blog.Post) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<ul class="post-list">`)
		for _, post := range posts {
			h.raw("<li><article>")
			h.raw("<h3>")
			h.link(r.postURL(post.Slug), "", post.Title)
			h.raw("</h3>")
			r.postMeta(h, post)
			if post.Excerpt != "" {
				h.tag("p", "excerpt", post.Excerpt)
			}
			h.raw("</article></li>")
		}
		h.raw("</ul>")
	})
}

func (r *Renderer) postMeta(h *htmlWriter, post *blog.Post) {
	h.raw(`<p class="post-meta">`)
	if !post.PublishedAt.IsZero() {
		h.raw("<time")
		h.attr("datetime", post.PublishedAt.UTC().Format("2006-01-02"))
		h.raw(">")
		h.text(post.PublishedAt.Format(dateLayout))
		h.raw("</time> · ")
	}
	h.text(itoa(post.ReadingTime) + " min read")
	if post.Author != "" {
		h.text(" · " + post.Author)
	}
	h.raw("</p>")
	if len(post.Tags) > 0 {
		h.raw(`<p class="tags">`)
		for _, tag := range post.Tags {
			h.link(r.tagURL(tag), "tag", "#"+tag)
		}
		h.raw("</p>")
	}
}

func (r *Renderer) pager(h *htmlWriter, page blog.PostPage) {
	if page.TotalPages <= 1 || r.Routes == nil {
		return
	}
	h.raw(`<nav class="pager">`)
	if page.Page > 1 {
		h.link(r.Routes.BlogPage(page.Page-1), "prev", "Newer posts")
	}
	h.tag("span", "muted", "Page "+itoa(page.Page)+" of "+itoa(page.TotalPages))
	if page.Page < page.TotalPages {
		h.link(r.Routes.BlogPage(page.Page+1), "next", "Older posts")
	}
	h.raw("</nav>")
}

// BlogIndex renders one page of posts plus the tag cloud.
func (r *Renderer) BlogIndex(page blog.PostPage, tags []blog.TagCount) templ.Component {
	body := component(func(ctx context.Context, h *htmlWriter) {
		h.tag("h1", "", "Blog")
		r.searchForm(h, "")
		if len(page.Posts) == 0 {
			h.tag("p", "muted", "No posts yet.")
		} else {
			h.component(ctx, r.postList(page.Posts))
		}
		r.pager(h, page)
		if len(tags) > 0 {
			h.raw(`<aside class="tag-cloud">`)
			h.tag("h2", "", "Topics")
			for _, tag := range tags {
				h.link(r.tagURL(tag.Tag), "tag", tag.Tag+" ("+itoa(tag.Count)+")")
			}
			h.raw("</aside>")
		}
	})
	return r.Layout(Meta{Title: "Blog", Canonical: r.canonical("/blog")}, body)
}

// PostDetail renders a post with related reading.
func (r *Renderer) PostDetail(post *blog.Post, related []*blog.Post) templ.Component {
	body := component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<article class="post">`)
		h.tag("h1", "", post.Title)
		r.postMeta(h, post)
		if post.CoverImage != "" {
			h.raw("<img")
			h.attr("src", string(templ.URL(post.CoverImage)))
			h.attr("alt", post.Title)
			h.raw(">")
		}
		h.raw(`<div class="post-body">`)
		// Post HTML comes from our own markdown files rendered in safe mode.
		h.component(ctx, templ.Raw(post.HTML))
		h.raw("</div></article>")
		if len(related) > 0 {
			h.raw(`<aside class="related">`)
			h.tag("h2", "", "Keep reading")
			h.component(ctx, r.postList(related))
			h.raw("</aside>")
		}
	})
	return r.Layout(Meta{
		Title:       post.Title,
		Description: post.Excerpt,
		Canonical:   r.postURL(post.Slug),
	}, body)
}

// TagIndex renders every post carrying tag.
func (r *Renderer) TagIndex(tag string, posts []*blog.Post) templ.Component {
	body := component(func(ctx context.Context, h *htmlWriter) {
		h.tag("h1", "", "Posts tagged “"+tag+"”")
		if len(posts) == 0 {
			h.tag("p", "muted", "Nothing here yet.")
			return
		}
		h.component(ctx, r.postList(posts))
	})
	return r.Layout(Meta{Title: "#" + tag, Canonical: r.tagURL(tag)}, body)
}

// SearchResults renders matches for query.
func (r *Renderer) SearchResults(query string, posts []*blog.Post) templ.Component {
	query = strings.TrimSpace(query)
	body := component(func(ctx context.Context, h *htmlWriter) {
		h.tag("h1", "", "Search")
		r.searchForm(h, query)
		switch {
		case query == "":
			h.tag("p", "muted", "Type a word to search the blog.")
		case len(posts) == 0:
			h.tag("p", "muted", "No posts match “"+query+"”.")
		default:
			h.tag("p", "muted", itoa(len(posts))+" result(s) for “"+query+"”")
			h.component(ctx, r.postList(posts))
		}
	})
	return r.Layout(Meta{Title: "Search", NoIndex: true}, body)
}

func (r *Renderer) searchForm(h *htmlWriter, query string) {
	action := "/blog/search"
	if r.Routes != nil {
		action = r.Routes.Search("")
	}
	h.raw(`<form class="search" method="get"`)
	h.attr("action", action)
	h.raw(`><input type="search" name="q" placeholder="Search posts"`)
	if query != "" {
		h.attr("value", query)
	}
	h.raw(`><button type="submit">Search</button></form>`)
}
