package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-pacer/pkg/interfaces"
)

// ParseFrontMatter splits source into its YAML metadata block and Markdown
// body. Sources without a frontmatter block yield an empty FrontMatter and
// the full source as body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return meta.toFrontMatter(), body, nil
}

// BuildDocument assembles a Document from a file path, its raw content and
// modification time. BodyHTML is left empty; callers render on demand.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  fm,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title       string         `yaml:"title"`
	Slug        string         `yaml:"slug"`
	Excerpt     string         `yaml:"excerpt"`
	Summary     string         `yaml:"summary"`
	Author      string         `yaml:"author"`
	AuthorRole  string         `yaml:"author_role"`
	Date        time.Time      `yaml:"date"`
	Updated     time.Time      `yaml:"updated"`
	Tags        []string       `yaml:"tags"`
	Category    string         `yaml:"category"`
	CoverImage  string         `yaml:"cover_image"`
	Featured    bool           `yaml:"featured"`
	Draft       bool           `yaml:"draft"`
	ReadingTime int            `yaml:"reading_time"`
	Custom      map[string]any `yaml:",inline"`
}

func (env frontMatterEnvelope) toFrontMatter() interfaces.FrontMatter {
	excerpt := env.Excerpt
	if excerpt == "" {
		excerpt = env.Summary
	}

	raw := make(map[string]any, len(env.Custom)+14)
	for key, value := range env.Custom {
		raw[key] = value
	}
	setString := func(key, value string) {
		if value != "" {
			raw[key] = value
		}
	}
	setString("title", env.Title)
	setString("slug", env.Slug)
	setString("excerpt", excerpt)
	setString("author", env.Author)
	setString("author_role", env.AuthorRole)
	setString("category", env.Category)
	setString("cover_image", env.CoverImage)
	if !env.Date.IsZero() {
		raw["date"] = env.Date
	}
	if !env.Updated.IsZero() {
		raw["updated"] = env.Updated
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if env.ReadingTime != 0 {
		raw["reading_time"] = env.ReadingTime
	}
	raw["featured"] = env.Featured
	raw["draft"] = env.Draft

	return interfaces.FrontMatter{
		Title:       env.Title,
		Slug:        env.Slug,
		Excerpt:     excerpt,
		Author:      env.Author,
		AuthorRole:  env.AuthorRole,
		Date:        env.Date,
		Updated:     env.Updated,
		Tags:        append([]string(nil), env.Tags...),
		Category:    env.Category,
		CoverImage:  env.CoverImage,
		Featured:    env.Featured,
		Draft:       env.Draft,
		ReadingTime: env.ReadingTime,
		Custom:      cloneMap(env.Custom),
		Raw:         raw,
	}
}

func cloneMap(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
