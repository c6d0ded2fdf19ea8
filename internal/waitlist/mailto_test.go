package waitlist

import "testing"

func TestBuildMailtoEncodesSpacesAsPercent20(t *testing.T) {
	got := BuildMailto("hello@pacer.run", "Join the waitlist", "a+b & c=d")
	want := "mailto:hello@pacer.run?subject=Join%20the%20waitlist&body=a%2Bb%20%26%20c%3Dd"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestBuildMailtoOmitsEmptyParts(t *testing.T) {
	if got := BuildMailto("hello@pacer.run", "", ""); got != "mailto:hello@pacer.run" {
		t.Fatalf("unexpected %q", got)
	}
	if got := BuildMailto("hello@pacer.run", "", "hi"); got != "mailto:hello@pacer.run?body=hi" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestMailtoBodyListsFields(t *testing.T) {
	body := mailtoBody(Submission{Email: "runner@example.com", Goal: "BQ"})
	want := "Please add me to the Pacer waitlist.\r\n\r\nEmail: runner@example.com\r\nGoal: BQ"
	if body != want {
		t.Fatalf("expected %q, got %q", want, body)
	}
}
