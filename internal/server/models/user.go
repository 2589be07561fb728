// Package models holds the persisted entities of the identity server.
package models

import "time"

// User is an account identity. Email is unique and doubles as the token
// subject. HashedPassword only ever holds a digest.
type User struct {
	ID             int64
	Activate       bool
	FirstName      string
	LastName       *string
	Email          string
	HashedPassword string
	CreatedAt      time.Time
	LastUpdatedAt  time.Time
}
