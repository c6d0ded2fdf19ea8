package blog

import (
	"time"

	"github.com/google/uuid"
)

// Post is a published blog article built from a Markdown file.
// ReadingTimeDerived reports whether ReadingTime was computed from the body.
type Post struct {
	ID                 uuid.UUID      `json:"id"`
	Slug               string         `json:"slug"`
	Title              string         `json:"title"`
	Excerpt            string         `json:"excerpt,omitempty"`
	Author             string         `json:"author,omitempty"`
	AuthorRole         string         `json:"author_role,omitempty"`
	PublishedAt        time.Time      `json:"published_at"`
	UpdatedAt          time.Time      `json:"updated_at,omitempty"`
	Tags               []string       `json:"tags"`
	Category           string         `json:"category,omitempty"`
	CoverImage         string         `json:"cover_image,omitempty"`
	Featured           bool           `json:"featured"`
	Draft              bool           `json:"draft,omitempty"`
	ReadingTime        int            `json:"reading_time"`
	ReadingTimeDerived bool           `json:"reading_time_derived"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	Body               string         `json:"-"`
	HTML               string         `json:"html,omitempty"`
	SourcePath         string         `json:"-"`
	Checksum           []byte         `json:"-"`

	searchText string
	tagKeys    map[string]struct{}
}

// HasTag reports whether the post carries tag, compared case-insensitively or
// by slug.
func (p *Post) HasTag(tag string) bool {
	if p == nil {
		return false
	}
	for _, key := range tagLookupKeys(tag) {
		if _, ok := p.tagKeys[key]; ok {
			return true
		}
	}
	return false
}

// TagCount summarises how many posts use a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// ListOptions filters and paginates List results.
type ListOptions struct {
	Page    int
	PerPage int
	Tag     string
	Query   string
}

// PostPage is a single page of List results.
type PostPage struct {
	Posts      []*Post `json:"posts"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
}

// ReloadResult summarises a content reload.
type ReloadResult struct {
	Loaded   int           `json:"loaded"`
	Drafts   int           `json:"drafts_skipped"`
	Duration time.Duration `json:"duration"`
}

// Config controls where posts come from and how queries behave.
type Config struct {
	ContentDir     string
	Pattern        string
	Recursive      bool
	WordsPerMinute int
	IncludeDrafts  bool
	RelatedLimit   int
	PageSize       int
}

const (
	DefaultWordsPerMinute = 200
	DefaultRelatedLimit   = 3
	DefaultPageSize       = 10
	MaxPageSize           = 50
)

func (c Config) withDefaults() Config {
	if c.Pattern == "" {
		c.Pattern = "*.md"
	}
	if c.WordsPerMinute <= 0 {
		c.WordsPerMinute = DefaultWordsPerMinute
	}
	if c.RelatedLimit <= 0 {
		c.RelatedLimit = DefaultRelatedLimit
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.PageSize > MaxPageSize {
		c.PageSize = MaxPageSize
	}
	return c
}
