package validation

import "testing"

func TestValidEmail(t *testing.T) {
	valid := []string{"runner@example.com", "first.last+race@sub.example.org"}
	invalid := []string{"", "runner", "runner@", "runner@example", "a b@example.com", "Runner <runner@example.com>", "@example.com"}

	for _, email := range valid {
		if !ValidEmail(email) {
			t.Fatalf("expected %q to be valid", email)
		}
	}
	for _, email := range invalid {
		if ValidEmail(email) {
			t.Fatalf("expected %q to be invalid", email)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Runner@Example.COM "); got != "runner@example.com" {
		t.Fatalf("unexpected normalised email %q", got)
	}
}

func TestEmailRule(t *testing.T) {
	if err := EmailRule.Validate(""); err != nil {
		t.Fatalf("expected empty value to pass, got %v", err)
	}
	if err := EmailRule.Validate("nope"); err == nil {
		t.Fatal("expected invalid email to fail")
	}
}
