// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an identity record. RememberTokenHash and RememberTokenExpires are
// either both nil or both set.
type User struct {
	ID                   int64
	Username             string
	Name                 string
	Email                string
	PasswordHash         string
	RememberTokenHash    *string
	RememberTokenExpires *time.Time
	CreatedAt            time.Time
}

// Identity is the slice of a User kept in the session after authentication.
type Identity struct {
	ID    int64
	Name  string
	Email string
}
