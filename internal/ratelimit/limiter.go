package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Fixed-window limits for credential endpoints.
const (
	maxRequestsPerWindow = 10
	window               = 15 * time.Minute
)

// Limiter is a Redis-backed fixed-window IP rate limiter used on the
// register and login endpoints.
type Limiter struct {
	client *redis.Client
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

func getIPKey(ip, purpose string) string {
	return fmt.Sprintf("ratelimit:%s:%s", purpose, ip)
}

// CheckIPRateLimitWithPurpose reports whether the IP has exhausted its
// window for the given purpose.
func (l *Limiter) CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error) {
	value, err := l.client.Get(ctx, getIPKey(ip, purpose)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	count, err := strconv.Atoi(value)
	if err != nil {
		return false, fmt.Errorf("failed to parse rate limit counter: %w", err)
	}

	return count >= maxRequestsPerWindow, nil
}

// RecordIPRequestWithPurpose counts one request against the IP's window.
// The window starts on the first request and is not sliding.
func (l *Limiter) RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error {
	key := getIPKey(ip, purpose)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			return fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return nil
}
