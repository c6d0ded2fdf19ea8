package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-pacer/pkg/interfaces"
)

// LoaderConfig configures how Markdown files are discovered.
type LoaderConfig struct {
	// BasePath is the on-disk root, used to relativise absolute paths.
	BasePath string
	// Pattern limits discovered files (defaults to "*.md").
	Pattern   string
	Recursive bool
}

// Loader turns paths inside an fs.FS into Markdown documents.
type Loader struct {
	fs        fs.FS
	basePath  string
	pattern   string
	recursive bool
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}

	base := ""
	if strings.TrimSpace(cfg.BasePath) != "" {
		base = filepath.Clean(cfg.BasePath)
	}

	return &Loader{
		fs:        filesystem,
		basePath:  base,
		pattern:   pattern,
		recursive: cfg.Recursive,
	}
}

// LoadFile reads and parses a single Markdown document.
func (l *Loader) LoadFile(ctx context.Context, name string, _ LoadParams) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.makeRelative(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}

	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	doc, err := BuildDocument(rel, data, info.ModTime())
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	return &DocumentResult{
		Document: doc,
		Source:   data,
	}, nil
}

// LoadDirectory discovers Markdown files under dir and returns them sorted by
// path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts LoadParams) ([]*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}

	var results []*DocumentResult

	walkErr := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			if current != root && !l.shouldRecurse(opts.Recursive) {
				return fs.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if !l.matchesPattern(current, opts.Pattern) {
			return nil
		}

		result, err := l.LoadFile(ctx, current, opts)
		if err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Document.FilePath < results[j].Document.FilePath
	})

	return results, nil
}

func (l *Loader) shouldRecurse(override *bool) bool {
	if override != nil {
		return *override
	}
	return l.recursive
}

func (l *Loader) matchesPattern(name string, override string) bool {
	pattern := override
	if strings.TrimSpace(pattern) == "" {
		pattern = l.pattern
	}
	pattern = filepath.ToSlash(pattern)
	pattern = strings.ReplaceAll(pattern, "**/", "")

	target := name
	if !strings.Contains(pattern, "/") {
		target = path.Base(name)
	}
	match, err := path.Match(pattern, target)
	return err == nil && match
}

// makeRelative converts name into an fs.FS path.
func (l *Loader) makeRelative(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return ".", nil
	}
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) {
		if l.basePath == "" {
			return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", name)
		}
		rel, err := filepath.Rel(l.basePath, clean)
		if err != nil {
			return "", fmt.Errorf("markdown loader: make relative %s: %w", name, err)
		}
		clean = rel
	}
	clean = filepath.ToSlash(clean)
	if !fs.ValidPath(clean) {
		return "", fmt.Errorf("markdown loader: path %s escapes the content root", name)
	}
	return clean, nil
}

// DocumentResult carries the parsed document along with the raw source.
type DocumentResult struct {
	Document *interfaces.Document
	Source   []byte
}

// LoadParams provide call-specific overrides for discovery.
type LoadParams struct {
	Pattern   string
	Recursive *bool
}
