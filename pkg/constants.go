package dupefind

import "strings"

// Fingerprint type constants
const (
	FingerprintTypeMD5    uint16 = 1 // MD5 (16 bytes)
	FingerprintTypeSHA1   uint16 = 2 // SHA-1 (20 bytes)
	FingerprintTypeSHA256 uint16 = 3 // SHA-256 (32 bytes)
)

// Fingerprint size constants
const (
	FingerprintSizeMD5    = 16 // MD5 digest size in bytes
	FingerprintSizeSHA1   = 20 // SHA-1 digest size in bytes
	FingerprintSizeSHA256 = 32 // SHA-256 digest size in bytes
)

// FastRejectBlockSize is the number of leading bytes hashed during the
// first-block reject pass. Two files whose first blocks differ cannot be
// duplicates, so a cheap 64-bit hash of this prefix splits a size bucket
// before any full-content fingerprinting happens.
const FastRejectBlockSize = 4 * 1024

// FingerprintTypeName returns the human-readable name for a fingerprint type
func FingerprintTypeName(fingerprintType uint16) string {
	switch fingerprintType {
	case FingerprintTypeMD5:
		return "md5"
	case FingerprintTypeSHA1:
		return "sha1"
	case FingerprintTypeSHA256:
		return "sha256"
	default:
		return "unknown"
	}
}

// FingerprintTypeFromName returns the fingerprint type constant from a name (case-insensitive)
func FingerprintTypeFromName(name string) (uint16, bool) {
	switch strings.ToLower(name) {
	case "md5":
		return FingerprintTypeMD5, true
	case "sha1":
		return FingerprintTypeSHA1, true
	case "sha256":
		return FingerprintTypeSHA256, true
	default:
		return 0, false
	}
}
