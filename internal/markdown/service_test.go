package markdown

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-pacer/pkg/interfaces"
)

func TestServiceLoadRendersHTML(t *testing.T) {
	svc := newTestService(t, true)

	doc, err := svc.Load(context.Background(), "taper.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.FrontMatter.Title != "How to Taper" {
		t.Fatalf("unexpected title %q", doc.FrontMatter.Title)
	}
	if !strings.Contains(string(doc.BodyHTML), "<p>Cut volume, keep intensity.</p>") {
		t.Fatalf("expected rendered body, got %q", string(doc.BodyHTML))
	}
	if len(doc.Checksum) != 32 {
		t.Fatalf("expected sha256 checksum, got %d bytes", len(doc.Checksum))
	}
}

func TestServiceLoadDirectory(t *testing.T) {
	svc := newTestService(t, true)

	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}

	want := []string{"archive/first-marathon.md", "long-run.md", "taper.md"}
	if len(docs) != len(want) {
		t.Fatalf("expected %d documents, got %d", len(want), len(docs))
	}
	for i, doc := range docs {
		if doc.FilePath != want[i] {
			t.Fatalf("expected %s at %d, got %s", want[i], i, doc.FilePath)
		}
		if filepath.Ext(doc.FilePath) != ".md" {
			t.Fatalf("expected markdown file, got %s", doc.FilePath)
		}
		if len(doc.BodyHTML) == 0 {
			t.Fatalf("expected rendered HTML for %s", doc.FilePath)
		}
	}
}

func TestServiceLoadDirectory_NonRecursiveOverride(t *testing.T) {
	svc := newTestService(t, true)

	no := false
	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{
		Recursive: &no,
	})
	if err != nil {
		t.Fatalf("LoadDirectory override: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	for _, doc := range docs {
		if strings.HasPrefix(doc.FilePath, "archive/") {
			t.Fatalf("expected nested files to be skipped, got %s", doc.FilePath)
		}
	}
}

func TestServiceUsesProvidedFS(t *testing.T) {
	memfs := fstest.MapFS{
		"privacy.md": &fstest.MapFile{
			Data:    []byte("---\ntitle: Privacy\n---\nWe keep your email safe.\n"),
			ModTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	svc, err := NewService(Config{FS: memfs}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	doc, err := svc.Load(context.Background(), "privacy.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.FrontMatter.Title != "Privacy" {
		t.Fatalf("unexpected title %q", doc.FrontMatter.Title)
	}
	if doc.LastModified.Year() != 2025 {
		t.Fatalf("expected modtime from fs, got %v", doc.LastModified)
	}
}

func TestServiceRespectsCancelledContext(t *testing.T) {
	svc := newTestService(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.LoadDirectory(ctx, ".", interfaces.LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestServiceRejectsEscapingPath(t *testing.T) {
	svc := newTestService(t, true)

	if _, err := svc.Load(context.Background(), "../parser_test.go", interfaces.LoadOptions{}); err == nil {
		t.Fatal("expected error for path outside content root")
	}
}

func TestNewServiceMissingBasePath(t *testing.T) {
	if _, err := NewService(Config{BasePath: filepath.Join("testdata", "missing")}, nil); err == nil {
		t.Fatal("expected error for missing base path")
	}
}

func newTestService(tb testing.TB, recursive bool) *Service {
	tb.Helper()

	svc, err := NewService(Config{
		BasePath:  filepath.Join("testdata", "site"),
		Pattern:   "*.md",
		Recursive: recursive,
	}, nil)
	if err != nil {
		tb.Fatalf("NewService: %v", err)
	}
	return svc
}
