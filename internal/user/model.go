package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the domain model for an account. Only ID and Email are ever
// serialized in API responses; the password hash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
