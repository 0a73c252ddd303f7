package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one active entry in a user's token set.
type Session struct {
	UserID    uuid.UUID
	Purpose   string
	CreatedAt time.Time
}

// RedisSessionRepository holds the per-user set of active session tokens.
// Tokens are stored hashed; entries carry no TTL because tokens have no
// expiry. Additions are per-token (SADD), so concurrent logins from
// multiple devices each leave an independently revocable entry.
type RedisSessionRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

// hashToken derives the storage key for a token. Raw tokens never touch Redis.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func getSessionKey(tokenHash string) string {
	return fmt.Sprintf("session:%s", tokenHash)
}

func getUserSessionsKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_sessions:%s", userID.String())
}

// Store appends a token to the user's active set
func (r *RedisSessionRepository) Store(ctx context.Context, userID uuid.UUID, purpose, token string) error {
	tokenHash := hashToken(token)
	sessionKey := getSessionKey(tokenHash)
	userSessionsKey := getUserSessionsKey(userID)

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, sessionKey, map[string]interface{}{
		"user_id":    userID.String(),
		"purpose":    purpose,
		"created_at": time.Now().Unix(),
	})
	pipe.SAdd(ctx, userSessionsKey, tokenHash)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// Find looks up the exact token in the registry. A token that was never
// issued, or was revoked, returns ErrSessionNotFound.
func (r *RedisSessionRepository) Find(ctx context.Context, token string) (*Session, error) {
	sessionKey := getSessionKey(hashToken(token))

	data, err := r.client.HGetAll(ctx, sessionKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrSessionNotFound
	}

	userID, err := uuid.Parse(data["user_id"])
	if err != nil {
		return nil, ErrSessionNotFound
	}

	var createdAtUnix int64
	fmt.Sscanf(data["created_at"], "%d", &createdAtUnix)

	return &Session{
		UserID:    userID,
		Purpose:   data["purpose"],
		CreatedAt: time.Unix(createdAtUnix, 0),
	}, nil
}

// Revoke removes exactly the matching token entry from the user's active
// set. Revoking a token that is already absent is a no-op.
func (r *RedisSessionRepository) Revoke(ctx context.Context, userID uuid.UUID, token string) error {
	tokenHash := hashToken(token)

	pipe := r.client.Pipeline()
	pipe.Del(ctx, getSessionKey(tokenHash))
	pipe.SRem(ctx, getUserSessionsKey(userID), tokenHash)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}

// RevokeAll clears the user's entire active token set (account deletion)
func (r *RedisSessionRepository) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	userSessionsKey := getUserSessionsKey(userID)

	tokenHashes, err := r.client.SMembers(ctx, userSessionsKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get user sessions: %w", err)
	}

	pipe := r.client.Pipeline()
	for _, tokenHash := range tokenHashes {
		pipe.Del(ctx, getSessionKey(tokenHash))
	}
	pipe.Del(ctx, userSessionsKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to revoke all sessions: %w", err)
	}

	return nil
}
