package site

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-pacer/pkg/interfaces"
	"github.com/goliatone/go-slug"
)

var ErrLegalNotFound = errors.New("site: legal page not found")

// LegalPage is a rendered policy document.
type LegalPage struct {
	Slug      string
	Title     string
	UpdatedAt time.Time
	HTML      string
}

// Legal serves policy pages from a markdown service rooted at the legal
// directory.
type Legal struct {
	markdown interfaces.MarkdownService
}

// NewLegal wraps md. Documents are read on every call; the set is small.
func NewLegal(md interfaces.MarkdownService) *Legal {
	return &Legal{markdown: md}
}

// Page returns the legal page with the given slug.
func (l *Legal) Page(ctx context.Context, pageSlug string) (*LegalPage, error) {
	pages, err := l.Pages(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(strings.TrimSpace(pageSlug))
	for _, page := range pages {
		if page.Slug == want {
			return page, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrLegalNotFound, pageSlug)
}

// Pages lists every legal page sorted by title.
func (l *Legal) Pages(ctx context.Context) ([]*LegalPage, error) {
	if l == nil || l.markdown == nil {
		return nil, nil
	}
	docs, err := l.markdown.LoadDirectory(ctx, ".", interfaces.LoadOptions{Pattern: "*.md"})
	if err != nil {
		return nil, fmt.Errorf("site: load legal pages: %w", err)
	}

	pages := make([]*LegalPage, 0, len(docs))
	for _, doc := range docs {
		pageSlug := legalSlug(doc)
		if pageSlug == "" {
			continue
		}
		title := strings.TrimSpace(doc.FrontMatter.Title)
		if title == "" {
			title = pageSlug
		}
		updated := doc.FrontMatter.Updated
		if updated.IsZero() {
			updated = doc.LastModified
		}
		pages = append(pages, &LegalPage{
			Slug:      pageSlug,
			Title:     title,
			UpdatedAt: updated,
			HTML:      string(doc.BodyHTML),
		})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Title < pages[j].Title })
	return pages, nil
}

func legalSlug(doc *interfaces.Document) string {
	candidate := strings.TrimSpace(doc.FrontMatter.Slug)
	if candidate == "" {
		base := path.Base(doc.FilePath)
		candidate = strings.TrimSuffix(base, path.Ext(base))
	}
	normalized, err := slug.Normalize(candidate)
	if err != nil {
		return ""
	}
	return normalized
}
