// Package models holds the records the CLI keeps locally.
package models

import "time"

// Session is the signed-in state of the CLI: who is signed in and the
// tokens the server issued.
type Session struct {
	Email        string
	Username     string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the access token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
