package auth

import "crypto/subtle"

// ComparePassword reports whether supplied equals stored byte for byte.
// Passwords are stored as plain text, so there is nothing to hash.
func ComparePassword(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
