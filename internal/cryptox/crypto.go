// Package cryptox implements the passcode digest used by the access gate.
//
// The credential is never stored in cleartext: only a deterministic one-way
// SHA-256 digest of the UTF-8 passcode text is persisted, hex-encoded so the
// structured store can keep it as printable text. There is no salt and no
// key stretching; the threat model is a single local user on their own
// device.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Digest returns the hex-encoded SHA-256 digest of the passcode text.
func Digest(passcode string) string {
	hash := sha256.Sum256([]byte(passcode))
	return hex.EncodeToString(hash[:])
}

// VerifyDigest compares stored against the digest of candidate in constant
// time. Returns false when stored is empty (no credential exists).
func VerifyDigest(stored, candidate string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(Digest(candidate))) == 1
}
