package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the domain entity for a user account.
// PasswordHash is only populated when a repo is asked for it explicitly.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
