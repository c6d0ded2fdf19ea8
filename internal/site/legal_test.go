package site

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-pacer/internal/markdown"
)

func newLegal(t *testing.T, fsys fstest.MapFS) *Legal {
	t.Helper()
	var md *markdown.Service
	var err error
	if fsys == nil {
		md, err = markdown.NewService(markdown.Config{FS: LegalFS()}, nil)
	} else {
		md, err = markdown.NewService(markdown.Config{FS: fsys}, nil)
	}
	if err != nil {
		t.Fatalf("markdown service: %v", err)
	}
	return NewLegal(md)
}

func TestLegalPagesFromEmbeddedDefaults(t *testing.T) {
	legal := newLegal(t, nil)

	pages, err := legal.Pages(context.Background())
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 legal pages, got %d", len(pages))
	}
	if pages[0].Slug != "privacy" || pages[1].Slug != "terms" {
		t.Fatalf("unexpected order %s, %s", pages[0].Slug, pages[1].Slug)
	}

	page, err := legal.Page(context.Background(), "Terms")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if page.Title != "Terms of Service" || !strings.Contains(page.HTML, ">Changes</h2>") {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.UpdatedAt.IsZero() {
		t.Fatal("expected updated date from frontmatter")
	}
}

func TestLegalPageFallsBackToFileStem(t *testing.T) {
	legal := newLegal(t, fstest.MapFS{
		"cookie-policy.md": {Data: []byte("We use one cookie.\n")},
	})

	page, err := legal.Page(context.Background(), "cookie-policy")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if page.Title != "cookie-policy" {
		t.Fatalf("expected slug as title fallback, got %q", page.Title)
	}
}

func TestLegalPageNotFound(t *testing.T) {
	legal := newLegal(t, nil)
	if _, err := legal.Page(context.Background(), "refunds"); !errors.Is(err, ErrLegalNotFound) {
		t.Fatalf("expected ErrLegalNotFound, got %v", err)
	}
}
