package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is a domain entity representing a registered account.
// Places holds the ids of every place the user created; the place
// lifecycle use case is the only writer of that set.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	ImageRef     string
	Places       []uuid.UUID
	CreatedAt    time.Time
}
