package common

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// MakeRandHexString generates size random bytes and returns them hex encoded,
// so the result is twice as long as size.
//
// It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites the contents of b with zeros. Used to drop
// passwords read from a terminal as soon as they are sent.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ExtractBearerToken returns the credential from an "Authorization: Bearer x"
// value, or "" when the value has another shape.
func ExtractBearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < len(BearerPrefix) || !strings.EqualFold(header[:len(BearerPrefix)], BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(BearerPrefix):])
}

// MaskToken keeps only the first characters of a credential for logging.
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "***"
}
