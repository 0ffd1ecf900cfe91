package models

import "time"

// RefreshToken is the long-lived credential a client exchanges for a new
// access token.
type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}

// Expired reports whether the token is past its expiry at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.Expires.After(now)
}
