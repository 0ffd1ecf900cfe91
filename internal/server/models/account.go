// Package models holds the records persisted by the server.
package models

import "time"

// Account is an identity-provider record: the credentials a person signs in with.
type Account struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
