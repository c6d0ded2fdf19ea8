package feeds

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SitemapEntry is one <url> element. Location may be absolute or a path
// relative to the base URL.
type SitemapEntry struct {
	Location   string
	LastMod    time.Time
	ChangeFreq string
	Priority   string
}

// BuildSitemap renders a sitemap sorted by location with duplicates removed.
// Entries without LastMod use fallback.
func BuildSitemap(baseURL string, entries []SitemapEntry, fallback time.Time) string {
	base := baseURLWithFallback(baseURL)

	unique := make([]SitemapEntry, 0, len(entries))
	seen := map[string]struct{}{}
	for _, entry := range entries {
		location := absoluteLocation(base, entry.Location)
		if _, ok := seen[location]; ok {
			continue
		}
		seen[location] = struct{}{}
		entry.Location = location
		if entry.LastMod.IsZero() {
			entry.LastMod = fallback
		}
		unique = append(unique, entry)
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].Location < unique[j].Location
	})

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, entry := range unique {
		b.WriteString("  <url>\n")
		fmt.Fprintf(&b, "    <loc>%s</loc>\n", escapeXML(entry.Location))
		if !entry.LastMod.IsZero() {
			fmt.Fprintf(&b, "    <lastmod>%s</lastmod>\n", entry.LastMod.UTC().Format(time.RFC3339))
		}
		if entry.ChangeFreq != "" {
			fmt.Fprintf(&b, "    <changefreq>%s</changefreq>\n", escapeXML(entry.ChangeFreq))
		}
		if entry.Priority != "" {
			fmt.Fprintf(&b, "    <priority>%s</priority>\n", escapeXML(entry.Priority))
		}
		b.WriteString("  </url>\n")
	}
	b.WriteString("</urlset>\n")
	return b.String()
}

// BuildRobots renders a permissive robots.txt, optionally pointing at the
// sitemap.
func BuildRobots(baseURL string, includeSitemap bool) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	if includeSitemap {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", baseURLWithFallback(baseURL))
	}
	return b.String()
}

func absoluteLocation(base, location string) string {
	location = strings.TrimSpace(location)
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return location
	}
	if location == "" {
		location = "/"
	}
	if !strings.HasPrefix(location, "/") {
		location = "/" + location
	}
	return base + location
}
