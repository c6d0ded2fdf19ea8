package blog

import "testing"

func TestFoldStripsDiacriticsAndCase(t *testing.T) {
	cases := map[string]string{
		"Café":       "cafe",
		"MARATÓN":    "maraton",
		"already ok": "already ok",
	}
	for input, want := range cases {
		if got := fold(input); got != want {
			t.Fatalf("fold(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSearchTermsSplitsOnWhitespace(t *testing.T) {
	terms := searchTerms("  Tempo\tRÚN  ")
	if len(terms) != 2 || terms[0] != "tempo" || terms[1] != "run" {
		t.Fatalf("unexpected terms %v", terms)
	}
	if len(searchTerms("   ")) != 0 {
		t.Fatal("expected no terms for blank query")
	}
}

func TestHasTagMatchesSlugForm(t *testing.T) {
	post := &Post{Tags: []string{"Race Day"}}
	post.tagKeys = buildTagKeys(post.Tags)

	for _, probe := range []string{"race day", "RACE DAY", "race-day"} {
		if !post.HasTag(probe) {
			t.Fatalf("expected HasTag(%q)", probe)
		}
	}
	if post.HasTag("racing") || post.HasTag("") {
		t.Fatal("unexpected tag match")
	}
}
