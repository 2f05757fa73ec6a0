package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by kind so ids of different kinds never collide.
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

// DocumentUUID is the record id of a stored corpus entry.
func DocumentUUID(slug string) uuid.UUID {
	return UUID("go-llms:document:" + strings.Trim(strings.TrimSpace(slug), "/"))
}

// ArtifactUUID is the id of a generated artifact, stable across builds for
// the same output path.
func ArtifactUUID(path string) uuid.UUID {
	return UUID("go-llms:artifact:" + strings.TrimSpace(path))
}
