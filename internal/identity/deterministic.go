package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-kind collisions (prefix by kind).
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

// ItemUUID derives the identifier of a catalog record that arrived without a
// usable id. The same kind, title key and language always map to the same UUID
// so reloads and cache round trips keep identities stable.
func ItemUUID(kind, titleKey, language string) uuid.UUID {
	titleKey = strings.TrimSpace(titleKey)
	if titleKey == "" {
		return uuid.Nil
	}
	return UUID("go-catalog:" + strings.ToLower(strings.TrimSpace(kind)) + ":" +
		strings.ToLower(strings.TrimSpace(language)) + ":" + titleKey)
}
