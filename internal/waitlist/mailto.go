package waitlist

import (
	"net/url"
	"strings"
)

// BuildMailto returns a mailto URL with subject and body percent-encoded per
// RFC 3986, so spaces become %20 rather than '+'.
func BuildMailto(address, subject, body string) string {
	var b strings.Builder
	b.WriteString("mailto:")
	b.WriteString(url.PathEscape(strings.TrimSpace(address)))

	sep := "?"
	if subject != "" {
		b.WriteString(sep + "subject=" + escape(subject))
		sep = "&"
	}
	if body != "" {
		b.WriteString(sep + "body=" + escape(body))
	}
	return b.String()
}

func mailtoBody(sub Submission) string {
	lines := []string{
		"Please add me to the Pacer waitlist.",
		"",
		"Email: " + sub.Email,
	}
	if sub.Name != "" {
		lines = append(lines, "Name: "+sub.Name)
	}
	if sub.Goal != "" {
		lines = append(lines, "Goal: "+sub.Goal)
	}
	return strings.Join(lines, "\r\n")
}

func escape(value string) string {
	// QueryEscape encodes a literal '+' as %2B, so the remaining '+' are spaces.
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
