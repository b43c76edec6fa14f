package verification

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint returns a stable content hash of the request, used as the
// memoization cache key. Two structurally identical requests always produce
// the same fingerprint.
func (r *VerificationRequest) Fingerprint() string {
	// json.Marshal on a struct emits fields in declaration order, so the
	// encoding is deterministic for a given request value.
	raw, err := json.Marshal(r)
	if err != nil {
		// A VerificationRequest contains only marshalable types; this is
		// unreachable for well-typed requests.
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
