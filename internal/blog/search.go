package blog

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases value and strips diacritics so "Café" matches "cafe".
func fold(value string) string {
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripper, value)
	if err != nil {
		stripped = value
	}
	return cases.Fold().String(stripped)
}

// searchTerms splits query into folded, non-empty terms.
func searchTerms(query string) []string {
	fields := strings.Fields(fold(query))
	terms := fields[:0]
	for _, field := range fields {
		if field = strings.TrimSpace(field); field != "" {
			terms = append(terms, field)
		}
	}
	return terms
}

func buildSearchText(post *Post) string {
	parts := []string{post.Title, post.Excerpt, post.Author, post.Category}
	parts = append(parts, post.Tags...)
	parts = append(parts, PlainText(post.Body))
	return fold(strings.Join(parts, " "))
}

func (p *Post) matchesTerms(terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(p.searchText, term) {
			return false
		}
	}
	return true
}

// TagSlug normalises a tag into its URL form.
func TagSlug(tag string) string {
	normalized, err := slug.Normalize(tag)
	if err != nil || normalized == "" {
		return strings.ToLower(strings.TrimSpace(tag))
	}
	return normalized
}

func tagLookupKeys(tag string) []string {
	folded := fold(strings.TrimSpace(tag))
	if folded == "" {
		return nil
	}
	keys := []string{folded}
	if tagSlug := TagSlug(tag); tagSlug != "" && tagSlug != folded {
		keys = append(keys, tagSlug)
	}
	return keys
}

func buildTagKeys(tags []string) map[string]struct{} {
	keys := make(map[string]struct{}, len(tags)*2)
	for _, tag := range tags {
		for _, key := range tagLookupKeys(tag) {
			keys[key] = struct{}{}
		}
	}
	return keys
}
