package feeds

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"
)

// MaxItems caps the number of entries in a feed.
const MaxItems = 50

const fallbackBaseURL = "http://localhost"

// Site describes the feed channel.
type Site struct {
	Title       string
	Description string
	BaseURL     string
	Language    string
	// FeedURL and AtomURL are the self links; derived from BaseURL when empty.
	FeedURL string
	AtomURL string
}

// Item is one feed entry.
type Item struct {
	Title       string
	Summary     string
	Link        string
	GUID        string
	Author      string
	Categories  []string
	PublishedAt time.Time
	UpdatedAt   time.Time
}

// BuildRSS renders an RSS 2.0 document with at most MaxItems items, newest
// first.
func BuildRSS(site Site, items []Item, generatedAt time.Time) string {
	baseLink := baseURLWithFallback(site.BaseURL)
	selfLink := site.FeedURL
	if selfLink == "" {
		selfLink = baseLink + "/feed.xml"
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">` + "\n")
	b.WriteString("  <channel>\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", escapeXML(siteTitle(site)))
	fmt.Fprintf(&b, "    <link>%s</link>\n", escapeXML(baseLink))
	fmt.Fprintf(&b, "    <description>%s</description>\n", escapeXML(siteDescription(site)))
	if lang := strings.TrimSpace(site.Language); lang != "" {
		fmt.Fprintf(&b, "    <language>%s</language>\n", escapeXML(lang))
	}
	fmt.Fprintf(&b, "    <lastBuildDate>%s</lastBuildDate>\n", generatedAt.UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&b, `    <atom:link href="%s" rel="self" type="application/rss+xml" />`+"\n", escapeXMLAttr(selfLink))
	for _, item := range prepareItems(items) {
		pub := item.PublishedAt
		if pub.IsZero() {
			pub = generatedAt
		}
		b.WriteString("    <item>\n")
		fmt.Fprintf(&b, "      <title>%s</title>\n", escapeXML(item.Title))
		fmt.Fprintf(&b, "      <link>%s</link>\n", escapeXML(item.Link))
		fmt.Fprintf(&b, "      <guid isPermaLink=\"false\">%s</guid>\n", escapeXML(item.GUID))
		fmt.Fprintf(&b, "      <pubDate>%s</pubDate>\n", pub.UTC().Format(time.RFC1123Z))
		if item.Author != "" {
			fmt.Fprintf(&b, "      <dc:creator xmlns:dc=\"http://purl.org/dc/elements/1.1/\">%s</dc:creator>\n", escapeXML(item.Author))
		}
		for _, category := range item.Categories {
			fmt.Fprintf(&b, "      <category>%s</category>\n", escapeXML(category))
		}
		if item.Summary != "" {
			fmt.Fprintf(&b, "      <description>%s</description>\n", escapeXML(item.Summary))
		}
		b.WriteString("    </item>\n")
	}
	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return b.String()
}

// BuildAtom renders an Atom 1.0 document with the same item selection as
// BuildRSS.
func BuildAtom(site Site, items []Item, generatedAt time.Time) string {
	baseLink := baseURLWithFallback(site.BaseURL)
	feedID := site.AtomURL
	if feedID == "" {
		feedID = baseLink + "/feed.atom.xml"
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if lang := strings.TrimSpace(site.Language); lang != "" {
		fmt.Fprintf(&b, `<feed xmlns="http://www.w3.org/2005/Atom" xml:lang="%s">`+"\n", escapeXMLAttr(lang))
	} else {
		b.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">` + "\n")
	}
	fmt.Fprintf(&b, "  <id>%s</id>\n", escapeXML(feedID))
	fmt.Fprintf(&b, "  <title>%s</title>\n", escapeXML(siteTitle(site)))
	if desc := strings.TrimSpace(site.Description); desc != "" {
		fmt.Fprintf(&b, "  <subtitle>%s</subtitle>\n", escapeXML(desc))
	}
	fmt.Fprintf(&b, "  <updated>%s</updated>\n", generatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, `  <link rel="alternate" href="%s" />`+"\n", escapeXMLAttr(baseLink))
	fmt.Fprintf(&b, `  <link rel="self" href="%s" />`+"\n", escapeXMLAttr(feedID))
	for _, item := range prepareItems(items) {
		updated := firstNonZeroTime(item.UpdatedAt, item.PublishedAt, generatedAt)
		b.WriteString("  <entry>\n")
		fmt.Fprintf(&b, "    <id>%s</id>\n", escapeXML(item.GUID))
		fmt.Fprintf(&b, "    <title>%s</title>\n", escapeXML(item.Title))
		fmt.Fprintf(&b, `    <link href="%s" />`+"\n", escapeXMLAttr(item.Link))
		fmt.Fprintf(&b, "    <updated>%s</updated>\n", updated.UTC().Format(time.RFC3339))
		if !item.PublishedAt.IsZero() {
			fmt.Fprintf(&b, "    <published>%s</published>\n", item.PublishedAt.UTC().Format(time.RFC3339))
		}
		if item.Author != "" {
			fmt.Fprintf(&b, "    <author><name>%s</name></author>\n", escapeXML(item.Author))
		}
		for _, category := range item.Categories {
			fmt.Fprintf(&b, `    <category term="%s" />`+"\n", escapeXMLAttr(category))
		}
		if item.Summary != "" {
			fmt.Fprintf(&b, "    <summary>%s</summary>\n", escapeXML(item.Summary))
		}
		b.WriteString("  </entry>\n")
	}
	b.WriteString("</feed>\n")
	return b.String()
}

func prepareItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.GUID == "" {
			item.GUID = item.Link
		}
		if _, ok := seen[item.GUID]; ok {
			continue
		}
		seen[item.GUID] = struct{}{}
		item.Summary = normalizeWhitespace(item.Summary)
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		left := firstNonZeroTime(out[i].PublishedAt, out[i].UpdatedAt)
		right := firstNonZeroTime(out[j].PublishedAt, out[j].UpdatedAt)
		if left.Equal(right) {
			return out[i].GUID < out[j].GUID
		}
		return left.After(right)
	})
	if len(out) > MaxItems {
		out = out[:MaxItems]
	}
	return out
}

func siteTitle(site Site) string {
	if title := strings.TrimSpace(site.Title); title != "" {
		return title
	}
	if base := strings.TrimSpace(site.BaseURL); base != "" {
		return base
	}
	return "Blog"
}

func siteDescription(site Site) string {
	if desc := strings.TrimSpace(site.Description); desc != "" {
		return desc
	}
	return "Latest posts"
}

func baseURLWithFallback(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return fallbackBaseURL
	}
	return trimmed
}

func firstNonZeroTime(instants ...time.Time) time.Time {
	for _, ts := range instants {
		if !ts.IsZero() {
			return ts
		}
	}
	return time.Time{}
}

func normalizeWhitespace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

func escapeXML(value string) string {
	return html.EscapeString(value)
}

func escapeXMLAttr(value string) string {
	return html.EscapeString(value)
}
