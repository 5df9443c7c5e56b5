package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is a domain entity representing a registered account.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the caller resolved from a verified bearer token.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

// IdentityOf returns the identity a token issued for u will carry.
func IdentityOf(u User) Identity {
	return Identity{UserID: u.ID, Email: u.Email, Name: u.Name}
}
