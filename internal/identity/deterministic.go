package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by entity type to avoid cross-entity collisions.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PostUUID identifies a blog post by slug.
func PostUUID(slug string) uuid.UUID {
	return UUID("pacer:post:" + strings.ToLower(strings.TrimSpace(slug)))
}

// WaitlistUUID identifies a waitlist entry by email so repeat signups collapse
// onto the same record.
func WaitlistUUID(email string) uuid.UUID {
	return UUID("pacer:waitlist:" + strings.ToLower(strings.TrimSpace(email)))
}

func SubscriberUUID(email string) uuid.UUID {
	return UUID("pacer:subscriber:" + strings.ToLower(strings.TrimSpace(email)))
}
