package routes

import (
	"strings"
	"testing"
)

func TestResolverBuildsAbsoluteURLs(t *testing.T) {
	r, err := NewResolver("https://pacer.run/")
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	cases := map[string]string{
		"post":    r.Post("long-run-basics"),
		"tag":     r.Tag("nutrition"),
		"legal":   r.Legal("privacy"),
		"blog":    r.Blog(),
		"feed":    r.Feed(),
		"atom":    r.Atom(),
		"sitemap": r.Sitemap(),
	}
	want := map[string]string{
		"post":    "https://pacer.run/blog/long-run-basics",
		"tag":     "https://pacer.run/blog/tag/nutrition",
		"legal":   "https://pacer.run/legal/privacy",
		"blog":    "https://pacer.run/blog",
		"feed":    "https://pacer.run/feed.xml",
		"atom":    "https://pacer.run/feed.atom.xml",
		"sitemap": "https://pacer.run/sitemap.xml",
	}
	for name, got := range cases {
		if got != want[name] {
			t.Fatalf("%s: expected %q, got %q", name, want[name], got)
		}
	}
}

func TestResolverSearchAddsQueryOnlyWhenPresent(t *testing.T) {
	r, err := NewResolver("https://pacer.run")
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if got := r.Search("  "); got != "https://pacer.run/blog/search" {
		t.Fatalf("expected bare search url, got %q", got)
	}
	got := r.Search("taper")
	if !strings.HasPrefix(got, "https://pacer.run/blog/search?") || !strings.Contains(got, "q=taper") {
		t.Fatalf("expected q parameter, got %q", got)
	}
	if r.BlogPage(1) != r.Blog() {
		t.Fatalf("expected page 1 to be the blog index")
	}
	if !strings.Contains(r.BlogPage(3), "page=3") {
		t.Fatalf("expected page query, got %q", r.BlogPage(3))
	}
}

func TestResolverAbsolute(t *testing.T) {
	r, err := NewResolver("https://pacer.run")
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if got := r.Absolute("static/site.css"); got != "https://pacer.run/static/site.css" {
		t.Fatalf("unexpected %q", got)
	}
	if got := r.Absolute("https://cdn.example.com/a.png"); got != "https://cdn.example.com/a.png" {
		t.Fatalf("expected absolute url untouched, got %q", got)
	}
}
