package blog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-pacer/internal/markdown"
	"github.com/goliatone/go-pacer/internal/validation"
)

func TestReloadBuildsPostsNewestFirst(t *testing.T) {
	svc := newTestBlog(t, samplePosts(), Config{})

	posts, err := svc.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}

	want := []string{"taper-week", "long-run-basics", "cafe-fueling", "base-building"}
	if len(posts) != len(want) {
		t.Fatalf("expected %d posts, got %d", len(want), len(posts))
	}
	for i, post := range posts {
		if post.Slug != want[i] {
			t.Fatalf("expected %s at %d, got %s", want[i], i, post.Slug)
		}
		if post.HTML == "" {
			t.Fatalf("expected rendered html for %s", post.Slug)
		}
	}
}

func TestReloadSkipsDraftsByDefault(t *testing.T) {
	files := samplePosts()
	files["secret.md"] = mdPost("Secret Workout", "2025-05-01", "[speed]", "draft: true\n", "Not ready.")

	svc := newTestBlog(t, files, Config{})
	if _, err := svc.Get(context.Background(), "secret"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected draft to be hidden, got %v", err)
	}

	withDrafts := newTestBlog(t, files, Config{IncludeDrafts: true})
	post, err := withDrafts.Get(context.Background(), "secret")
	if err != nil {
		t.Fatalf("expected draft when IncludeDrafts is set: %v", err)
	}
	if !post.Draft {
		t.Fatal("expected Draft flag to be preserved")
	}
}

func TestReloadDerivesReadingTime(t *testing.T) {
	files := fstest.MapFS{
		"short.md": mdPost("Short", "2025-01-01", "[]", "", "Just a few words."),
		"long.md":  mdPost("Long", "2025-01-02", "[]", "", strings.Repeat("stride ", 401)),
		"set.md":   mdPost("Set", "2025-01-03", "[]", "reading_time: 12\n", "tiny"),
		"zero.md":  mdPost("Zero", "2025-01-04", "[]", "reading_time: 0\n", "tiny"),
	}
	svc := newTestBlog(t, files, Config{})
	ctx := context.Background()

	cases := map[string]struct {
		minutes int
		derived bool
	}{
		"short": {1, true},
		"long":  {3, true},
		"set":   {12, false},
		"zero":  {1, true},
	}
	for slugValue, want := range cases {
		post, err := svc.Get(ctx, slugValue)
		if err != nil {
			t.Fatalf("Get %s: %v", slugValue, err)
		}
		if post.ReadingTime != want.minutes || post.ReadingTimeDerived != want.derived {
			t.Fatalf("%s: expected %d (derived=%t), got %d (derived=%t)", slugValue, want.minutes, want.derived, post.ReadingTime, post.ReadingTimeDerived)
		}
	}
}

func TestReloadUsesFrontMatterSlug(t *testing.T) {
	files := fstest.MapFS{
		"2025-01-01-intervals.md": mdPost("Intervals", "2025-01-01", "[speed]", "slug: Track Intervals\n", "Go fast."),
	}
	svc := newTestBlog(t, files, Config{})

	post, err := svc.Get(context.Background(), "track-intervals")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if post.SourcePath != "2025-01-01-intervals.md" {
		t.Fatalf("unexpected source path %s", post.SourcePath)
	}
}

func TestReloadRejectsDuplicateSlugAndKeepsPreviousCatalog(t *testing.T) {
	files := samplePosts()
	svc := newTestBlog(t, files, Config{})

	files["copy.md"] = mdPost("Copy", "2025-01-01", "[]", "slug: taper-week\n", "dup")
	_, err := svc.Reload(context.Background())
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}

	posts, _ := svc.All(context.Background())
	if len(posts) != 4 {
		t.Fatalf("expected previous catalog to survive, got %d posts", len(posts))
	}
}

func TestReloadRejectsInvalidFrontMatter(t *testing.T) {
	files := fstest.MapFS{
		"untitled.md": &fstest.MapFile{Data: []byte("---\ndate: 2025-01-01\n---\nbody\n")},
	}
	mdSvc, err := markdown.NewService(markdown.Config{FS: files}, nil)
	if err != nil {
		t.Fatalf("markdown.NewService: %v", err)
	}
	svc := NewService(mdSvc, Config{})

	_, err = svc.Reload(context.Background())
	if !errors.Is(err, ErrInvalidPost) {
		t.Fatalf("expected ErrInvalidPost, got %v", err)
	}
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation cause, got %v", err)
	}
	var postErr *PostError
	if !errors.As(err, &postErr) || postErr.Path != "untitled.md" {
		t.Fatalf("expected PostError naming the file, got %v", err)
	}
}

func TestGetIsCaseInsensitiveAndReportsNotFound(t *testing.T) {
	svc := newTestBlog(t, samplePosts(), Config{})
	ctx := context.Background()

	if _, err := svc.Get(ctx, " Taper-Week "); err != nil {
		t.Fatalf("expected case-insensitive lookup, got %v", err)
	}

	_, err := svc.Get(ctx, "missing")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) || notFound.Slug != "missing" {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestSearchMatchesAllTermsIgnoringCaseAndAccents(t *testing.T) {
	svc := newTestBlog(t, samplePosts(), Config{})
	ctx := context.Background()

	results, err := svc.Search(ctx, "CAFÉ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Slug != "cafe-fueling" {
		t.Fatalf("expected cafe-fueling, got %v", slugs(results))
	}

	results, _ = svc.Search(ctx, "long aerobic")
	if len(results) != 1 || results[0].Slug != "long-run-basics" {
		t.Fatalf("expected long-run-basics for AND terms, got %v", slugs(results))
	}

	results, _ = svc.Search(ctx, "long nonexistentword")
	if len(results) != 0 {
		t.Fatalf("expected no results, got %v", slugs(results))
	}

	results, _ = svc.Search(ctx, "   ")
	if len(results) != 4 {
		t.Fatalf("expected blank query to return all posts, got %d", len(results))
	}
}

func TestByTagMatchesCaseInsensitivelyAndBySlug(t *testing.T) {
	svc := newTestBlog(t, samplePosts(), Config{})
	ctx := context.Background()

	results, _ := svc.ByTag(ctx, "ENDURANCE")
	if got := slugs(results); strings.Join(got, ",") != "long-run-basics,base-building" {
		t.Fatalf("unexpected endurance posts %v", got)
	}

	results, _ = svc.ByTag(ctx, "race-day")
	if got := slugs(results); strings.Join(got, ",") != "taper-week" {
		t.Fatalf("expected slug match on Race Day tag, got %v", got)
	}
}

func TestTagsSortedByCount(t *testing.T) {
	svc := newTestBlog(t, samplePosts(), Config{})

	tags, err := svc.Tags(context.Background())
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if len(tags) == 0 || tags[0].Tag != "endurance" || tags[0].Count != 2 {
		t.Fatalf("expected endurance first with 2 posts, got %+v", tags)
	}
	for _, tag := range tags {
		if tag.Tag == "Race Day" && tag.Slug != "race-day" {
			t.Fatalf("expected slugged tag, got %+v", tag)
		}
	}
}

func TestTagsMergeSpellingsBySlug(t *testing.T) {
	files := fstest.MapFS{
		"tempo.md":    mdPost("Tempo Tuesday", "2025-02-01", "[Long Run, long run]", "", "Hold the pace."),
		"recovery.md": mdPost("Recovery Jog", "2025-01-01", "[long-run]", "", "Easy miles."),
	}
	svc := newTestBlog(t, files, Config{})

	tags, err := svc.Tags(context.Background())
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("expected one merged tag, got %+v", tags)
	}
	if tags[0].Tag != "Long Run" || tags[0].Slug != "long-run" || tags[0].Count != 2 {
		t.Fatalf("unexpected merged tag %+v", tags[0])
	}
}

func TestRelatedRanksBySharedTags(t *testing.T) {
	svc := newTestBlog(t, samplePosts(), Config{})
	ctx := context.Background()

	related, err := svc.Related(ctx, "long-run-basics", 0)
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	got := slugs(related)
	if strings.Join(got, ",") != "cafe-fueling,base-building" {
		t.Fatalf("unexpected related order %v", got)
	}

	related, _ = svc.Related(ctx, "long-run-basics", 1)
	if len(related) != 1 || related[0].Slug != "cafe-fueling" {
		t.Fatalf("expected limit to apply, got %v", slugs(related))
	}

	if _, err := svc.Related(ctx, "missing", 3); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected not found for unknown slug, got %v", err)
	}
}

func TestRelatedPrefersGreaterOverlap(t *testing.T) {
	files := fstest.MapFS{
		"a.md": mdPost("A", "2025-01-01", "[hills, speed, tempo]", "", "a"),
		"b.md": mdPost("B", "2025-03-01", "[hills]", "", "b"),
		"c.md": mdPost("C", "2025-02-01", "[hills, speed]", "", "c"),
		"d.md": mdPost("D", "2025-04-01", "[recovery]", "", "d"),
	}
	svc := newTestBlog(t, files, Config{})

	related, err := svc.Related(context.Background(), "a", 5)
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if got := strings.Join(slugs(related), ","); got != "c,b" {
		t.Fatalf("expected c,b without unrelated filler, got %s", got)
	}
}

func TestListPaginatesAndFilters(t *testing.T) {
	svc := newTestBlog(t, samplePosts(), Config{PageSize: 3})
	ctx := context.Background()

	page, err := svc.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Page != 1 || page.PerPage != 3 || page.Total != 4 || page.TotalPages != 2 || len(page.Posts) != 3 {
		t.Fatalf("unexpected first page %+v", page)
	}

	page, _ = svc.List(ctx, ListOptions{Page: 2})
	if len(page.Posts) != 1 || page.Posts[0].Slug != "base-building" {
		t.Fatalf("unexpected second page %v", slugs(page.Posts))
	}

	page, _ = svc.List(ctx, ListOptions{Page: 9})
	if page.Posts == nil || len(page.Posts) != 0 {
		t.Fatalf("expected empty non-nil page past the end, got %#v", page.Posts)
	}

	page, _ = svc.List(ctx, ListOptions{Tag: "endurance", Query: "base", PerPage: 500})
	if page.PerPage != MaxPageSize || page.Total != 1 {
		t.Fatalf("expected filtered result capped per page, got %+v", page)
	}
}

func TestFeaturedAndRecent(t *testing.T) {
	svc := newTestBlog(t, samplePosts(), Config{})
	ctx := context.Background()

	featured, _ := svc.Featured(ctx, 0)
	if got := slugs(featured); strings.Join(got, ",") != "long-run-basics" {
		t.Fatalf("unexpected featured %v", got)
	}

	recent, _ := svc.Recent(ctx, 2)
	if got := slugs(recent); strings.Join(got, ",") != "taper-week,long-run-basics" {
		t.Fatalf("unexpected recent %v", got)
	}
}

func TestExcerptDerivedFromBody(t *testing.T) {
	files := fstest.MapFS{
		"plain.md": mdPost("Plain", "2025-01-01", "[]", "", "Run **easy** on [recovery days](/blog/recovery)."),
	}
	svc := newTestBlog(t, files, Config{})

	post, _ := svc.Get(context.Background(), "plain")
	if post.Excerpt != "Run easy on recovery days." {
		t.Fatalf("unexpected excerpt %q", post.Excerpt)
	}
}

func TestReloadReportsDuration(t *testing.T) {
	mdSvc, err := markdown.NewService(markdown.Config{FS: samplePosts()}, nil)
	if err != nil {
		t.Fatalf("markdown.NewService: %v", err)
	}
	calls := 0
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(mdSvc, Config{Recursive: true}, WithClock(func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}))

	result, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if result.Loaded != 4 || result.Duration != time.Second {
		t.Fatalf("unexpected reload result %+v", result)
	}
}

func TestReloadDefersRecursionToMarkdownService(t *testing.T) {
	for _, tc := range []struct {
		name      string
		recursive bool
		want      int
	}{
		{name: "flat", recursive: false, want: 3},
		{name: "recursive", recursive: true, want: 4},
	} {
		t.Run(tc.name, func(t *testing.T) {
			mdSvc, err := markdown.NewService(markdown.Config{FS: samplePosts(), Recursive: tc.recursive}, nil)
			if err != nil {
				t.Fatalf("markdown.NewService: %v", err)
			}
			result, err := NewService(mdSvc, Config{}).Reload(context.Background())
			if err != nil {
				t.Fatalf("Reload: %v", err)
			}
			if result.Loaded != tc.want {
				t.Fatalf("expected %d posts, got %d", tc.want, result.Loaded)
			}
		})
	}
}

func newTestBlog(tb testing.TB, files fstest.MapFS, cfg Config) Service {
	tb.Helper()

	mdSvc, err := markdown.NewService(markdown.Config{FS: files, Recursive: true}, nil)
	if err != nil {
		tb.Fatalf("markdown.NewService: %v", err)
	}
	cfg.Recursive = true
	svc := NewService(mdSvc, cfg)
	if _, err := svc.Reload(context.Background()); err != nil {
		tb.Fatalf("Reload: %v", err)
	}
	return svc
}

func samplePosts() fstest.MapFS {
	return fstest.MapFS{
		"long-run-basics.md": mdPost("Long Run Basics", "2025-03-01", "[endurance, nutrition]", "featured: true\nauthor: Jordan Vale\n",
			"The long run builds aerobic capacity. Keep the pace easy."),
		"base-building.md": mdPost("Base Building", "2025-01-15", "[endurance]", "",
			"Twelve weeks of base miles before any speed work."),
		"fuel/cafe-fueling.md": mdPost("Café Fueling", "2025-02-20", "[nutrition]", "",
			"What to eat before a long session."),
		"taper-week.md": mdPost("Taper Week", "2025-04-01", "[Race Day]", "",
			"Trust the training and rest."),
	}
}

func mdPost(title, date, tags, extra, body string) *fstest.MapFile {
	source := "---\ntitle: " + title + "\ndate: " + date + "\ntags: " + tags + "\n" + extra + "---\n" + body + "\n"
	return &fstest.MapFile{Data: []byte(source)}
}

func slugs(posts []*Post) []string {
	out := make([]string, 0, len(posts))
	for _, post := range posts {
		out = append(out, post.Slug)
	}
	return out
}
