package feeds

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// Static file names written by WriteStatic.
const (
	RSSFile     = "feed.xml"
	AtomFile    = "feed.atom.xml"
	SitemapFile = "sitemap.xml"
	RobotsFile  = "robots.txt"
)

// WriteStatic writes the bundle into dir, replacing each file atomically.
// Empty documents are skipped. It returns the paths written.
func WriteStatic(ctx context.Context, dir string, bundle Bundle) ([]string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("feeds: output directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("feeds: create %s: %w", dir, err)
	}

	files := []struct {
		name    string
		content string
	}{
		{RSSFile, bundle.RSS},
		{AtomFile, bundle.Atom},
		{SitemapFile, bundle.Sitemap},
		{RobotsFile, bundle.Robots},
	}

	written := make([]string, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if file.content == "" {
			continue
		}
		target := filepath.Join(dir, file.name)
		if err := atomic.WriteFile(target, strings.NewReader(file.content)); err != nil {
			return written, fmt.Errorf("feeds: write %s: %w", target, err)
		}
		written = append(written, target)
	}
	return written, nil
}
