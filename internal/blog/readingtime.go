package blog

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	imagePattern     = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkPattern      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	htmlTagPattern   = regexp.MustCompile(`<[^>]+>`)
	fencePattern     = regexp.MustCompile("(?m)^\\s*(```|~~~).*$")
	mdSymbolReplacer = strings.NewReplacer("#", " ", "*", " ", "_", " ", "`", " ", ">", " ", "|", " ", "~", " ")
)

// PlainText strips Markdown and inline HTML markup from body, leaving the
// words a reader would see.
func PlainText(body string) string {
	text := fencePattern.ReplaceAllString(body, " ")
	text = imagePattern.ReplaceAllString(text, "$1")
	text = linkPattern.ReplaceAllString(text, "$1")
	text = htmlTagPattern.ReplaceAllString(text, " ")
	text = mdSymbolReplacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// CountWords counts word tokens in body after markup is stripped. Tokens made
// only of punctuation are ignored.
func CountWords(body string) int {
	count := 0
	for _, field := range strings.Fields(PlainText(body)) {
		if strings.IndexFunc(field, isWordRune) >= 0 {
			count++
		}
	}
	return count
}

// ReadingTime returns the estimated minutes needed to read body at
// wordsPerMinute, rounded up and never below one.
func ReadingTime(body string, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	words := CountWords(body)
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
