// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Username and email are each globally unique - the users table enforces both
// with UNIQUE constraints, and the signup service surfaces violations as a
// Conflict. PasswordHash is a bcrypt digest; the plaintext password never
// touches the model, the store, or the logs.
//
// The json:"-" tag on PasswordHash keeps the digest out of every API
// response, including /api/me.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName"  db:"last_name"`
	Bio          string    `json:"bio"       db:"bio"`
	AvatarURL    string    `json:"avatarUrl" db:"avatar_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Session maps a client-held opaque token to a user. The token is a random
// UUID - it carries no information, all state lives in the sessions table.
// A request with no row (or an expired one) is anonymous.
type Session struct {
	Token     string    `db:"token"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}
