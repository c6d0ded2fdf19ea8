package site

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/site.yaml defaults/legal/*.md defaults/static/*
var defaultsFS embed.FS

const defaultContentPath = "defaults/site.yaml"

// ErrBrandRequired is returned when a content file has no brand name.
var ErrBrandRequired = errors.New("site: brand is required")

// Content is the copy rendered on the landing page.
type Content struct {
	Brand        string        `yaml:"brand" json:"brand"`
	Tagline      string        `yaml:"tagline" json:"tagline"`
	ContactEmail string        `yaml:"contact_email" json:"contact_email"`
	Hero         Hero          `yaml:"hero" json:"hero"`
	Features     []Feature     `yaml:"features" json:"features"`
	Pricing      []Plan        `yaml:"pricing" json:"pricing"`
	Testimonials []Testimonial `yaml:"testimonials" json:"testimonials"`
	FAQ          []FAQItem     `yaml:"faq" json:"faq"`
	Footer       Footer        `yaml:"footer" json:"footer"`
}

type Hero struct {
	Eyebrow      string `yaml:"eyebrow" json:"eyebrow"`
	Headline     string `yaml:"headline" json:"headline"`
	Subheadline  string `yaml:"subheadline" json:"subheadline"`
	PrimaryCTA   Link   `yaml:"primary_cta" json:"primary_cta"`
	SecondaryCTA Link   `yaml:"secondary_cta" json:"secondary_cta"`
}

type Link struct {
	Label string `yaml:"label" json:"label"`
	Href  string `yaml:"href" json:"href"`
}

type Feature struct {
	Icon        string `yaml:"icon" json:"icon"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Plan is a pricing tier. Prices are in minor units (cents).
type Plan struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	PriceMonthly int64    `yaml:"price_monthly" json:"price_monthly"`
	PriceYearly  int64    `yaml:"price_yearly" json:"price_yearly"`
	Currency     string   `yaml:"currency" json:"currency"`
	Description  string   `yaml:"description" json:"description"`
	Features     []string `yaml:"features" json:"features"`
	Highlighted  bool     `yaml:"highlighted" json:"highlighted"`
	CTA          Link     `yaml:"cta" json:"cta"`
}

// MonthlyLabel formats the monthly price for display.
func (p Plan) MonthlyLabel() string { return FormatPrice(p.PriceMonthly, p.Currency) }

// YearlyLabel formats the yearly price for display.
func (p Plan) YearlyLabel() string { return FormatPrice(p.PriceYearly, p.Currency) }

type Testimonial struct {
	Quote  string `yaml:"quote" json:"quote"`
	Author string `yaml:"author" json:"author"`
	Role   string `yaml:"role" json:"role"`
}

type FAQItem struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

type Footer struct {
	Copyright string `yaml:"copyright" json:"copyright"`
	Links     []Link `yaml:"links" json:"links"`
}

// DefaultContent returns the embedded landing page copy.
func DefaultContent() (*Content, error) {
	return LoadContentFS(defaultsFS, defaultContentPath)
}

// LoadContent reads landing page copy from a YAML file on disk. An empty
// path returns the embedded defaults.
func LoadContent(path string) (*Content, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultContent()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("site: read content %s: %w", path, err)
	}
	return ParseContent(data, path)
}

// LoadContentFS reads landing page copy from fsys.
func LoadContentFS(fsys fs.FS, path string) (*Content, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("site: read content %s: %w", path, err)
	}
	return ParseContent(data, path)
}

// ParseContent decodes YAML content. Unknown keys are rejected so typos in
// the content file surface at startup.
func ParseContent(data []byte, source string) (*Content, error) {
	var content Content
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&content); err != nil {
		return nil, fmt.Errorf("site: parse content %s: %w", source, err)
	}
	if strings.TrimSpace(content.Brand) == "" {
		return nil, fmt.Errorf("site: parse content %s: %w", source, ErrBrandRequired)
	}
	for i := range content.Pricing {
		if content.Pricing[i].Currency == "" {
			content.Pricing[i].Currency = DefaultCurrency
		}
	}
	return &content, nil
}

// LegalFS returns the embedded legal documents rooted at their directory.
func LegalFS() fs.FS {
	sub, err := fs.Sub(defaultsFS, "defaults/legal")
	if err != nil {
		panic(err)
	}
	return sub
}

// StaticFS returns the embedded stylesheet directory.
func StaticFS() fs.FS {
	sub, err := fs.Sub(defaultsFS, "defaults/static")
	if err != nil {
		panic(err)
	}
	return sub
}
