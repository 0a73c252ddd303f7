package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskloop/todo-api/internal/user"
)

// UserRepository defines the user persistence operations the auth service
// needs. Implemented by user.Repository.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SessionRepository defines the interface for the active-token registry.
// Implemented by RedisSessionRepository.
type SessionRepository interface {
	Store(ctx context.Context, userID uuid.UUID, purpose, token string) error
	Find(ctx context.Context, token string) (*Session, error)
	Revoke(ctx context.Context, userID uuid.UUID, token string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// TokenResolver resolves a bearer token into an authenticated user.
// Implemented by Service; the middleware depends on this interface only.
type TokenResolver interface {
	FindByToken(ctx context.Context, token string) (*user.User, error)
}
