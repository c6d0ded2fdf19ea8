package pacer_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-pacer"
	"github.com/goliatone/go-pacer/internal/waitlist"
)

func writePost(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func newModule(t *testing.T) (*pacer.Module, string) {
	t.Helper()
	dir := t.TempDir()
	writePost(t, dir, "first-ten-k.md", `---
title: Your First 10K
date: 2026-02-10
tags: [beginner]
---
Start slow and finish strong.
`)

	cfg := pacer.DefaultConfig()
	cfg.Blog.ContentDir = dir
	cfg.Logging.Provider = "none"

	module, err := pacer.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = module.Close() })
	return module, dir
}

func TestModuleLoadsPostsFromDisk(t *testing.T) {
	module, _ := newModule(t)

	post, err := module.Blog().Get(context.Background(), "first-ten-k")
	require.NoError(t, err)
	assert.Equal(t, "Your First 10K", post.Title)
	assert.Equal(t, 1, post.ReadingTime)
}

func TestModuleReloadPicksUpNewPosts(t *testing.T) {
	module, dir := newModule(t)
	ctx := context.Background()

	writePost(t, dir, "hill-repeats.md", `---
title: Hill Repeats
date: 2026-03-01
tags: [strength]
---
Climb, recover, repeat.
`)
	require.NoError(t, module.Reload(ctx, "test"))

	posts, err := module.Blog().All(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "hill-repeats", posts[0].Slug)
}

func TestModuleWaitlistFallsBackToMailto(t *testing.T) {
	module, _ := newModule(t)

	outcome, err := module.Waitlist().Submit(context.Background(), pacer.Submission{Email: "Runner@Example.com"})
	require.NoError(t, err)
	assert.True(t, outcome.Accepted)
	assert.Equal(t, waitlist.MethodMailto, outcome.Method)
	assert.True(t, strings.HasPrefix(outcome.MailtoURL, "mailto:hello@pacer.run"))
}

func TestModuleHandlerServesLanding(t *testing.T) {
	module, _ := newModule(t)

	handler, err := module.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), module.Site().Brand)
	assert.Contains(t, rec.Body.String(), "Your First 10K")
}
