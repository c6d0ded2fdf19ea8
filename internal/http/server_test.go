package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-pacer/internal/audience"
	"github.com/goliatone/go-pacer/internal/auth"
	"github.com/goliatone/go-pacer/internal/blog"
	"github.com/goliatone/go-pacer/internal/feeds"
	"github.com/goliatone/go-pacer/internal/markdown"
	"github.com/goliatone/go-pacer/internal/routes"
	"github.com/goliatone/go-pacer/internal/site"
	"github.com/goliatone/go-pacer/internal/views"
	"github.com/goliatone/go-pacer/internal/waitlist"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	handler http.Handler
	tokens  *auth.Tokens
}

func setupServer(t *testing.T, extra ...ServerOption) fixture {
	t.Helper()
	ctx := context.Background()

	posts := fstest.MapFS{
		"long-run-basics.md": post("Long Run Basics", "2025-03-01", "[endurance, nutrition]", "The long run builds aerobic capacity."),
		"base-building.md":   post("Base Building", "2025-01-15", "[endurance]", "Twelve weeks of base miles."),
		"taper-week.md":      post("Taper Week", "2025-04-01", "[Race Day]", "Trust the training & rest."),
	}
	postsMD, err := markdown.NewService(markdown.Config{FS: posts, Recursive: true}, nil)
	require.NoError(t, err)
	blogSvc := blog.NewService(postsMD, blog.Config{Recursive: true})
	_, err = blogSvc.Reload(ctx)
	require.NoError(t, err)

	legalMD, err := markdown.NewService(markdown.Config{FS: site.LegalFS()}, nil)
	require.NoError(t, err)
	legal := site.NewLegal(legalMD)

	audienceSvc := audience.NewService(
		audience.NewMemoryWaitlistRepository(),
		audience.NewMemorySubscriberRepository(),
		audience.NewMemoryUserRepository(),
	)
	waitlistSvc := waitlist.NewService(waitlist.Config{MailtoAddress: "hello@pacer.run"},
		waitlist.WithRecorder(audienceSvc))

	content, err := site.DefaultContent()
	require.NoError(t, err)
	resolver, err := routes.NewResolver("https://pacer.run")
	require.NoError(t, err)

	tokens, err := auth.NewTokens(auth.Config{Secret: testSecret})
	require.NoError(t, err)

	opts := []ServerOption{
		WithBlogService(blogSvc),
		WithWaitlistService(waitlistSvc),
		WithAudienceService(audienceSvc),
		WithLegal(legal),
		WithFeeds(feeds.NewBuilder(blogSvc, resolver, feeds.Site{Title: "Pacer"}, feeds.WithLegal(legal))),
		WithRenderer(views.NewRenderer(content, resolver)),
		WithTokens(tokens),
		WithStatic(site.StaticFS()),
	}
	server := NewServer(append(opts, extra...)...)
	handler, err := server.Handler()
	require.NoError(t, err)
	return fixture{handler: handler, tokens: tokens}
}

func post(title, date, tags, body string) *fstest.MapFile {
	source := "---\ntitle: " + title + "\ndate: " + date + "\ntags: " + tags + "\n---\n" + body + "\n"
	return &fstest.MapFile{Data: []byte(source), ModTime: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}
}

func (f fixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f fixture) bearer(t *testing.T, role string) map[string]string {
	t.Helper()
	token, _, err := f.tokens.Issue("ops@pacer.run", role)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestHealthz(t *testing.T) {
	f := setupServer(t)
	rec := f.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestLandingPageRendersFormAndLatestPosts(t *testing.T) {
	f := setupServer(t)
	rec := f.do(t, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Pacer")
	assert.Contains(t, body, `name="website"`)
	assert.Contains(t, body, "Taper Week")
}

func TestBlogPagesAndNotFound(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodGet, "/blog/long-run-basics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Long Run Basics")
	assert.Contains(t, rec.Body.String(), "Base Building", "related post should be linked")

	rec = f.do(t, http.MethodGet, "/blog/tag/race-day", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Taper Week")

	rec = f.do(t, http.MethodGet, "/blog/search?q=aerobic", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Long Run Basics")

	rec = f.do(t, http.MethodGet, "/blog/missing-post", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")

	rec = f.do(t, http.MethodGet, "/nowhere", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLegalPage(t *testing.T) {
	f := setupServer(t)
	rec := f.do(t, http.MethodGet, "/legal/privacy", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Privacy")

	rec = f.do(t, http.MethodGet, "/legal/cookies", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostsAPI(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodGet, "/api/posts?tag=endurance", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page postPageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "long-run-basics", page.Posts[0].Slug)

	rec = f.do(t, http.MethodGet, "/api/posts/LONG-RUN-BASICS", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail blog.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "Long Run Basics", detail.Title)
	assert.NotEmpty(t, detail.HTML)
	assert.Equal(t, 1, detail.ReadingTime)

	rec = f.do(t, http.MethodGet, "/api/posts/long-run-basics/related", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var related []postSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &related))
	require.Len(t, related, 1)
	assert.Equal(t, "base-building", related[0].Slug)

	rec = f.do(t, http.MethodGet, "/api/posts/missing", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	var errPayload errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errPayload))
	assert.Equal(t, "not_found", errPayload.Error)

	rec = f.do(t, http.MethodGet, "/api/tags", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tags []blog.TagCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tags))
	require.NotEmpty(t, tags)
	assert.Equal(t, "endurance", tags[0].Tag)
	assert.Equal(t, 2, tags[0].Count)
}

func TestWaitlistJSONSubmission(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodPost, "/api/waitlist", map[string]any{
		"email": "  Runner@Example.com ",
		"name":  "Avery",
		"goal":  "Sub-4 marathon",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var outcome waitlist.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.True(t, outcome.Accepted)
	assert.Equal(t, waitlist.MethodMailto, outcome.Method)
	assert.True(t, strings.HasPrefix(outcome.MailtoURL, "mailto:hello@pacer.run?subject="))

	rec = f.do(t, http.MethodPost, "/api/waitlist", map[string]any{"email": "runner@example.com"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.True(t, outcome.Duplicate)

	rec = f.do(t, http.MethodPost, "/api/waitlist", map[string]any{"email": "not-an-email"}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var errPayload errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errPayload))
	assert.Equal(t, "validation_failed", errPayload.Error)
	require.Len(t, errPayload.Issues, 1)
	assert.Equal(t, "/email", errPayload.Issues[0].Location)

	rec = f.do(t, http.MethodPost, "/api/waitlist", map[string]any{"email": "bot@example.com", "website": "http://spam"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, waitlist.MethodDiscarded, outcome.Method)
}

func TestWaitlistFormRedirectsToMailto(t *testing.T) {
	f := setupServer(t)

	form := url.Values{"email": {"runner@example.com"}, "name": {"Avery"}, "source": {"landing"}}
	req := httptest.NewRequest(http.MethodPost, "/api/waitlist", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "mailto:hello@pacer.run"))

	bad := url.Values{"email": {"nope"}}
	req = httptest.NewRequest(http.MethodPost, "/api/waitlist", strings.NewReader(bad.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a valid email address.")
}

func TestWaitlistJSONUsesConfiguredHoneypotField(t *testing.T) {
	f := setupServer(t, WithHoneypotField("company"))

	rec := f.do(t, http.MethodPost, "/api/waitlist", map[string]any{"email": "bot@example.com", "company": "Spam Inc"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var outcome waitlist.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, waitlist.MethodDiscarded, outcome.Method)

	rec = f.do(t, http.MethodPost, "/api/waitlist", map[string]any{"email": "bot@example.com", "website": "http://spam"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/waitlist", map[string]any{"email": 42}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWaitlistMultipartFormRedirectsToMailto(t *testing.T) {
	f := setupServer(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("email", "runner@example.com"))
	require.NoError(t, writer.WriteField("name", "Avery"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/waitlist", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "mailto:hello@pacer.run"))
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodPost, "/api/subscribe", map[string]any{"email": "news@example.com"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var sub audience.Subscriber
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	assert.Equal(t, audience.SubscriberActive, sub.Status)

	rec = f.do(t, http.MethodPost, "/api/unsubscribe", map[string]any{"email": "NEWS@example.com"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	assert.Equal(t, audience.SubscriberUnsubscribed, sub.Status)

	rec = f.do(t, http.MethodPost, "/api/unsubscribe", map[string]any{"email": "ghost@example.com"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRequiresToken(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodGet, "/api/admin/users", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/admin/users", nil, f.bearer(t, "member"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminUserLifecycle(t *testing.T) {
	f := setupServer(t)
	headers := f.bearer(t, "admin")

	rec := f.do(t, http.MethodPost, "/api/admin/users", map[string]any{
		"email": "Coach@Pacer.run",
		"name":  "Coach",
		"role":  "editor",
	}, headers)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var user audience.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "coach@pacer.run", user.Email)

	rec = f.do(t, http.MethodPost, "/api/admin/users", map[string]any{"email": "coach@pacer.run", "role": "member"}, headers)
	assert.Equal(t, http.StatusConflict, rec.Code)

	path := "/api/admin/users/" + user.ID.String()
	rec = f.do(t, http.MethodPatch, path, map[string]any{"role": "admin"}, headers)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "admin", user.Role)

	rec = f.do(t, http.MethodGet, "/api/admin/users", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	var list listResponse[*audience.User]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	rec = f.do(t, http.MethodDelete, path, nil, headers)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, path, nil, headers)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/admin/users/not-a-uuid", nil, headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedsAndRobots(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodGet, "/feed.xml", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, rec.Body.String(), "Trust the training &amp; rest.")

	rec = f.do(t, http.MethodGet, "/sitemap.xml", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://pacer.run/blog/taper-week")
	assert.Contains(t, rec.Body.String(), "https://pacer.run/legal/privacy")

	rec = f.do(t, http.MethodGet, "/robots.txt", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://pacer.run/sitemap.xml")
}

func TestStaticAssets(t *testing.T) {
	f := setupServer(t)
	rec := f.do(t, http.MethodGet, "/static/site.css", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
}
