package blog

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-slug"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-pacer/internal/identity"
	"github.com/goliatone/go-pacer/internal/logging"
	"github.com/goliatone/go-pacer/internal/validation"
	"github.com/goliatone/go-pacer/pkg/interfaces"
)

// Service exposes the blog read model.
type Service interface {
	Reload(ctx context.Context) (ReloadResult, error)
	List(ctx context.Context, opts ListOptions) (PostPage, error)
	All(ctx context.Context) ([]*Post, error)
	Get(ctx context.Context, slug string) (*Post, error)
	Search(ctx context.Context, query string) ([]*Post, error)
	ByTag(ctx context.Context, tag string) ([]*Post, error)
	Tags(ctx context.Context) ([]TagCount, error)
	Related(ctx context.Context, slug string, limit int) ([]*Post, error)
	Featured(ctx context.Context, limit int) ([]*Post, error)
	Recent(ctx context.Context, limit int) ([]*Post, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithLogger overrides the no-op logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used to time reloads.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithTracer overrides the global otel tracer.
func WithTracer(tracer trace.Tracer) ServiceOption {
	return func(s *service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithFrontMatterValidator replaces the JSON schema check applied to every
// post's raw frontmatter.
func WithFrontMatterValidator(validate func(map[string]any) error) ServiceOption {
	return func(s *service) {
		if validate != nil {
			s.validate = validate
		}
	}
}

type service struct {
	cfg      Config
	markdown interfaces.MarkdownService
	logger   interfaces.Logger
	tracer   trace.Tracer
	now      func() time.Time
	validate func(map[string]any) error

	mu      sync.RWMutex
	catalog *catalog
}

type catalog struct {
	posts  []*Post
	bySlug map[string]*Post
}

var _ Service = (*service)(nil)

// NewService builds a blog service reading posts through markdown. Posts are
// not loaded until Reload is called.
func NewService(markdown interfaces.MarkdownService, cfg Config, opts ...ServiceOption) Service {
	s := &service{
		cfg:      cfg.withDefaults(),
		markdown: markdown,
		logger:   logging.NoOp(),
		tracer:   otel.Tracer("github.com/goliatone/go-pacer/internal/blog"),
		now:      time.Now,
		validate: validation.ValidatePostFrontMatter,
		catalog:  &catalog{bySlug: map[string]*Post{}},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Reload reads every post from disk and swaps the catalog. On error the
// previous catalog stays in place.
func (s *service) Reload(ctx context.Context) (ReloadResult, error) {
	ctx, span := s.tracer.Start(ctx, "blog.reload")
	defer span.End()

	started := s.now()
	logger := logging.WithPostContext(s.logger, "", s.cfg.ContentDir, "reload").WithContext(ctx)

	result, next, err := s.load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("blog.reload.failed", "error", err)
		return ReloadResult{}, err
	}

	s.mu.Lock()
	s.catalog = next
	s.mu.Unlock()

	result.Duration = s.now().Sub(started)
	span.SetAttributes(
		attribute.Int("blog.posts_loaded", result.Loaded),
		attribute.Int("blog.drafts_skipped", result.Drafts),
	)
	logger.Info("blog.reload.completed", "loaded", result.Loaded, "drafts_skipped", result.Drafts, "duration", result.Duration)
	return result, nil
}

func (s *service) load(ctx context.Context) (ReloadResult, *catalog, error) {
	if s.markdown == nil {
		return ReloadResult{}, nil, errors.New("blog: markdown service not configured")
	}

	opts := interfaces.LoadOptions{Pattern: s.cfg.Pattern}
	// Unset defers to the markdown service's own setting.
	if s.cfg.Recursive {
		recursive := true
		opts.Recursive = &recursive
	}
	docs, err := s.markdown.LoadDirectory(ctx, ".", opts)
	if err != nil {
		return ReloadResult{}, nil, fmt.Errorf("blog: load content: %w", err)
	}

	result := ReloadResult{}
	next := &catalog{
		posts:  make([]*Post, 0, len(docs)),
		bySlug: make(map[string]*Post, len(docs)),
	}

	for _, doc := range docs {
		post, err := s.buildPost(doc)
		if err != nil {
			return ReloadResult{}, nil, err
		}
		if post.Draft && !s.cfg.IncludeDrafts {
			result.Drafts++
			s.logger.Debug("blog.reload.draft_skipped", "post_slug", post.Slug, "path", post.SourcePath)
			continue
		}
		key := lookupKey(post.Slug)
		if existing, ok := next.bySlug[key]; ok {
			return ReloadResult{}, nil, &PostError{
				Path: post.SourcePath,
				Err:  fmt.Errorf("%w: %q already used by %s", ErrDuplicateSlug, post.Slug, existing.SourcePath),
			}
		}
		next.bySlug[key] = post
		next.posts = append(next.posts, post)
	}

	sort.SliceStable(next.posts, func(i, j int) bool {
		return lessByDate(next.posts[i], next.posts[j])
	})

	result.Loaded = len(next.posts)
	return result, next, nil
}

func (s *service) buildPost(doc *interfaces.Document) (*Post, error) {
	if doc == nil {
		return nil, errors.New("blog: nil document")
	}
	fm := doc.FrontMatter

	if err := s.validate(fm.Raw); err != nil {
		return nil, &PostError{Path: doc.FilePath, Err: fmt.Errorf("%w: %w", ErrInvalidPost, err)}
	}

	postSlug, err := deriveSlug(fm.Slug, doc.FilePath)
	if err != nil {
		return nil, &PostError{Path: doc.FilePath, Err: err}
	}

	body := string(doc.Body)
	post := &Post{
		ID:          identity.PostUUID(postSlug),
		Slug:        postSlug,
		Title:       strings.TrimSpace(fm.Title),
		Excerpt:     strings.TrimSpace(fm.Excerpt),
		Author:      strings.TrimSpace(fm.Author),
		AuthorRole:  strings.TrimSpace(fm.AuthorRole),
		PublishedAt: fm.Date,
		UpdatedAt:   fm.Updated,
		Tags:        cleanTags(fm.Tags),
		Category:    strings.TrimSpace(fm.Category),
		CoverImage:  strings.TrimSpace(fm.CoverImage),
		Featured:    fm.Featured,
		Draft:       fm.Draft,
		ReadingTime: fm.ReadingTime,
		Metadata:    fm.Custom,
		Body:        body,
		HTML:        string(doc.BodyHTML),
		SourcePath:  doc.FilePath,
		Checksum:    doc.Checksum,
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.PublishedAt
	}
	if post.ReadingTime <= 0 {
		post.ReadingTime = ReadingTime(body, s.cfg.WordsPerMinute)
		post.ReadingTimeDerived = true
	}
	if post.Excerpt == "" {
		post.Excerpt = excerptFrom(body, 160)
	}
	post.tagKeys = buildTagKeys(post.Tags)
	post.searchText = buildSearchText(post)
	return post, nil
}

func (s *service) snapshot() *catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// List filters posts by tag and query, then paginates.
func (s *service) List(ctx context.Context, opts ListOptions) (PostPage, error) {
	if err := ctx.Err(); err != nil {
		return PostPage{}, err
	}

	posts := s.snapshot().posts
	if strings.TrimSpace(opts.Tag) != "" {
		posts = filterByTag(posts, opts.Tag)
	}
	if terms := searchTerms(opts.Query); len(terms) > 0 {
		posts = filterByTerms(posts, terms)
	}

	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = s.cfg.PageSize
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}

	total := len(posts)
	result := PostPage{
		Posts:      []*Post{},
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	start := (page - 1) * perPage
	if start < total {
		end := min(start+perPage, total)
		result.Posts = append(result.Posts, posts[start:end]...)
	}
	return result, nil
}

// All returns every loaded post, newest first.
func (s *service) All(ctx context.Context) ([]*Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]*Post(nil), s.snapshot().posts...), nil
}

// Get looks up a post by slug, ignoring case.
func (s *service) Get(ctx context.Context, postSlug string) (*Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := s.snapshot()
	if post, ok := snap.bySlug[lookupKey(postSlug)]; ok {
		return post, nil
	}
	if normalized, err := slug.Normalize(postSlug); err == nil && normalized != "" {
		if post, ok := snap.bySlug[lookupKey(normalized)]; ok {
			return post, nil
		}
	}
	return nil, &NotFoundError{Slug: strings.TrimSpace(postSlug)}
}

// Search returns posts containing every whitespace separated term of query.
func (s *service) Search(ctx context.Context, query string) ([]*Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	posts := s.snapshot().posts
	terms := searchTerms(query)
	if len(terms) == 0 {
		return append([]*Post(nil), posts...), nil
	}
	return filterByTerms(posts, terms), nil
}

// ByTag returns posts tagged with tag.
func (s *service) ByTag(ctx context.Context, tag string) ([]*Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return filterByTag(s.snapshot().posts, tag), nil
}

// Tags counts tag usage across posts, most used first.
func (s *service) Tags(ctx context.Context) ([]TagCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Spellings that share a slug are one tag; the newest post names it.
	counts := map[string]*TagCount{}
	for _, post := range s.snapshot().posts {
		seen := map[string]struct{}{}
		for _, tag := range post.Tags {
			key := TagSlug(tag)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			entry, ok := counts[key]
			if !ok {
				entry = &TagCount{Tag: tag, Slug: key}
				counts[key] = entry
			}
			entry.Count++
		}
	}

	out := make([]TagCount, 0, len(counts))
	for _, entry := range counts {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

// Related ranks other posts by the number of tags they share with slug.
// Posts sharing no tag are never returned.
func (s *service) Related(ctx context.Context, postSlug string, limit int) ([]*Post, error) {
	target, err := s.Get(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.RelatedLimit
	}

	targetTags := map[string]struct{}{}
	for _, tag := range target.Tags {
		targetTags[fold(tag)] = struct{}{}
	}

	type candidate struct {
		post    *Post
		overlap int
	}
	var candidates []candidate
	for _, post := range s.snapshot().posts {
		if post.Slug == target.Slug {
			continue
		}
		overlap := 0
		for _, tag := range post.Tags {
			if _, ok := targetTags[fold(tag)]; ok {
				overlap++
			}
		}
		if overlap > 0 {
			candidates = append(candidates, candidate{post: post, overlap: overlap})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].overlap != candidates[j].overlap {
			return candidates[i].overlap > candidates[j].overlap
		}
		return lessByDate(candidates[i].post, candidates[j].post)
	})

	out := make([]*Post, 0, min(limit, len(candidates)))
	for _, c := range candidates {
		if len(out) == limit {
			break
		}
		out = append(out, c.post)
	}
	return out, nil
}

// Featured returns featured posts, newest first. A non-positive limit returns
// all of them.
func (s *service) Featured(ctx context.Context, limit int) ([]*Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*Post
	for _, post := range s.snapshot().posts {
		if limit > 0 && len(out) == limit {
			break
		}
		if post.Featured {
			out = append(out, post)
		}
	}
	return out, nil
}

// Recent returns the newest limit posts.
func (s *service) Recent(ctx context.Context, limit int) ([]*Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	posts := s.snapshot().posts
	if limit <= 0 || limit > len(posts) {
		limit = len(posts)
	}
	return append([]*Post(nil), posts[:limit]...), nil
}

func filterByTag(posts []*Post, tag string) []*Post {
	out := []*Post{}
	for _, post := range posts {
		if post.HasTag(tag) {
			out = append(out, post)
		}
	}
	return out
}

func filterByTerms(posts []*Post, terms []string) []*Post {
	out := []*Post{}
	for _, post := range posts {
		if post.matchesTerms(terms) {
			out = append(out, post)
		}
	}
	return out
}

func lessByDate(a, b *Post) bool {
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.After(b.PublishedAt)
	}
	return a.Slug < b.Slug
}

func lookupKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func deriveSlug(explicit, filePath string) (string, error) {
	candidate := strings.TrimSpace(explicit)
	if candidate == "" {
		base := path.Base(filePath)
		candidate = strings.TrimSuffix(base, path.Ext(base))
	}
	normalized, err := slug.Normalize(candidate)
	if err != nil || normalized == "" {
		return "", fmt.Errorf("%w from %q", ErrSlugUnresolvable, candidate)
	}
	return normalized, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		key := fold(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func excerptFrom(body string, limit int) string {
	text := PlainText(body)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "…"
}
