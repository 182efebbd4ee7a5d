package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

// Checker resolves a session token to the logged in user id.
type Checker interface {
	IsLogged(ctx context.Context, token string) (userID string, logged bool, err error)
}

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

func (c *LoginChecker) IsLogged(ctx context.Context, token string) (string, bool, error) {
	sessionKey := sessionKeyPrefix + token
	val, err := c.redisClient.Get(ctx, sessionKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	session, err := decodeLoginSession(val)
	if err != nil {
		return "", false, err
	}

	if time.Since(session.CreatedAt) > c.ttl {
		return "", false, nil
	}

	return session.UserID, true, nil
}

// LoginTestChecker maps tokens to user ids in memory.
type LoginTestChecker struct {
	LoggedSessions map[string]string
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		LoggedSessions: map[string]string{},
	}
}

func (c *LoginTestChecker) IsLogged(_ context.Context, token string) (string, bool, error) {
	userID, ok := c.LoggedSessions[token]
	return userID, ok, nil
}
