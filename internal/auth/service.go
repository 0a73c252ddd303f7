package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/taskloop/todo-api/internal/logging"
	"github.com/taskloop/todo-api/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

// Service handles authentication business logic: registration, credential
// login, token resolution and session revocation.
type Service struct {
	userRepo UserRepository
	sessions SessionRepository
	codec    *Codec
	logger   *logging.Logger
}

func NewService(userRepo UserRepository, sessions SessionRepository, codec *Codec, logger *logging.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		sessions: sessions,
		codec:    codec,
		logger:   logger,
	}
}

// Register creates a new account and issues its first session token.
// The plaintext password is hashed exactly once, here; no other code path
// touches the digest.
func (s *Service) Register(ctx context.Context, email, password string) (*user.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, "", ErrEmailRequired
	}
	if len(email) > 254 {
		return nil, "", ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmailFormat
	}
	if password == "" {
		return nil, "", ErrPasswordRequired
	}
	if len(password) < 6 {
		return nil, "", ErrPasswordTooShort
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.userRepo.Create(ctx, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, "", user.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueSession(ctx, newUser.ID)
	if err != nil {
		return nil, "", err
	}

	return newUser, token, nil
}

// Login authenticates by credentials and issues a new session token.
// Unknown email and wrong password return the same error so callers
// cannot probe which emails exist.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(existingUser.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueSession(ctx, existingUser.ID)
	if err != nil {
		return nil, "", err
	}

	return existingUser, token, nil
}

// FindByToken resolves a bearer token into a user. It requires all of:
// a valid signature, an active (non-revoked) entry in the session
// registry whose stored identity and purpose match the decoded claims,
// and an existing user record. Every failure mode collapses into
// ErrSessionNotFound.
func (s *Service) FindByToken(ctx context.Context, token string) (*user.User, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	session, err := s.sessions.Find(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	// The registry entry must agree with the signed claims
	if session.UserID.String() != claims.UserID || session.Purpose != claims.Purpose {
		return nil, ErrSessionNotFound
	}

	existingUser, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return existingUser, nil
}

// Logout revokes exactly the presenting token. Idempotent.
func (s *Service) Logout(ctx context.Context, u *user.User, token string) error {
	if err := s.sessions.Revoke(ctx, u.ID, token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// DeleteAccount revokes every session and removes the user record.
// Owned todos are not cascaded.
func (s *Service) DeleteAccount(ctx context.Context, u *user.User) error {
	if err := s.sessions.RevokeAll(ctx, u.ID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	if err := s.userRepo.Delete(ctx, u.ID); err != nil {
		// Sessions are already gone at this point; the account row is
		// orphan-free but still present
		s.logger.Warn("user deletion failed after session revocation", "user_id", u.ID, "error", err)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("account deleted with all sessions revoked", "user_id", u.ID)

	return nil
}

// issueSession signs a token for the user and appends it to their active set
func (s *Service) issueSession(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := s.codec.Issue(userID, PurposeAuth)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.sessions.Store(ctx, userID, PurposeAuth, token); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}
