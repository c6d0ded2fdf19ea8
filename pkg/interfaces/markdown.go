package interfaces

import (
	"context"
	"time"
)

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Parser instances are reusable so hosts can share one across requests.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// MarkdownService exposes file workflows for Markdown backed site content:
// loading documents from disk and rendering them into HTML.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
}

// Document represents a Markdown file with parsed metadata and content.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content.
	Checksum []byte
}

// FrontMatter models metadata extracted from Markdown files. Blog and legal
// documents share the same envelope; keys not modelled here land in Custom.
type FrontMatter struct {
	Title       string         `yaml:"title" json:"title"`
	Slug        string         `yaml:"slug" json:"slug"`
	Excerpt     string         `yaml:"excerpt" json:"excerpt"`
	Author      string         `yaml:"author" json:"author"`
	AuthorRole  string         `yaml:"author_role" json:"author_role"`
	Date        time.Time      `yaml:"date" json:"date"`
	Updated     time.Time      `yaml:"updated" json:"updated"`
	Tags        []string       `yaml:"tags" json:"tags"`
	Category    string         `yaml:"category" json:"category"`
	CoverImage  string         `yaml:"cover_image" json:"cover_image"`
	Featured    bool           `yaml:"featured" json:"featured"`
	Draft       bool           `yaml:"draft" json:"draft"`
	ReadingTime int            `yaml:"reading_time" json:"reading_time"`
	Custom      map[string]any `yaml:",inline" json:"custom"`
	Raw         map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}
