package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsStable(t *testing.T) {
	first := WaitlistUUID("Runner@Example.com ")
	second := WaitlistUUID("runner@example.com")
	if first != second {
		t.Fatalf("expected normalised emails to share an id, got %s and %s", first, second)
	}
	if first == uuid.Nil {
		t.Fatal("expected non-nil id")
	}
}

func TestUUIDSeparatesEntityTypes(t *testing.T) {
	if WaitlistUUID("a@b.co") == SubscriberUUID("a@b.co") {
		t.Fatal("expected waitlist and subscriber ids to differ")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if UUID("   ") != uuid.Nil {
		t.Fatal("expected nil uuid for empty key")
	}
}
