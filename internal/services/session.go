package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is 7 days.
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions.
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping.
	UserSessionKeyPrefix = "user_session:"
)

// SessionService holds the server-side half of the session state machine:
// a user is anonymous until Create, authenticated while their token
// validates, and anonymous again after Invalidate (logout) or expiry.
type SessionService struct {
	client *redis.Client
}

func NewSessionService(client *redis.Client) *SessionService {
	return &SessionService{client: client}
}

// Create creates a new session for a user and stores it in Redis. An
// existing session for the same user is invalidated first, so each login
// restarts the 7-day timer and only one token is live per user.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	s.InvalidateUserSessions(ctx, userID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	sessionToken := base64.URLEncoding.EncodeToString(tokenBytes)

	sessionKey := SessionKeyPrefix + sessionToken
	userSessionKey := UserSessionKeyPrefix + userID.String()

	if err := s.client.Set(ctx, sessionKey, userID.String(), SessionDuration).Err(); err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, userSessionKey, sessionToken, SessionDuration).Err(); err != nil {
		return "", err
	}

	return sessionToken, nil
}

// Validate checks a session token and returns the user ID it belongs to.
func (s *SessionService) Validate(ctx context.Context, sessionToken string) (uuid.UUID, bool, error) {
	if sessionToken == "" {
		return uuid.Nil, false, nil
	}

	userIDStr, err := s.client.Get(ctx, SessionKeyPrefix+sessionToken).Result()
	if err != nil {
		return uuid.Nil, false, nil
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false, err
	}

	return userID, true, nil
}

// Refresh extends the session expiration by 7 days from now.
func (s *SessionService) Refresh(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return fmt.Errorf("session token is empty")
	}

	sessionKey := SessionKeyPrefix + sessionToken
	userIDStr, err := s.client.Get(ctx, sessionKey).Result()
	if err != nil {
		return err
	}

	if err := s.client.Expire(ctx, sessionKey, SessionDuration).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, UserSessionKeyPrefix+userIDStr, SessionDuration).Err()
}

// Invalidate removes a session from Redis (logout). The persisted profile is
// untouched; only the session goes away.
func (s *SessionService) Invalidate(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	sessionKey := SessionKeyPrefix + sessionToken
	userIDStr, err := s.client.Get(ctx, sessionKey).Result()
	if err == nil && userIDStr != "" {
		s.client.Del(ctx, UserSessionKeyPrefix+userIDStr)
	}

	return s.client.Del(ctx, sessionKey).Err()
}

// InvalidateUserSessions invalidates all sessions for a user (useful when
// credentials change).
func (s *SessionService) InvalidateUserSessions(ctx context.Context, userID uuid.UUID) error {
	userSessionKey := UserSessionKeyPrefix + userID.String()

	sessionToken, err := s.client.Get(ctx, userSessionKey).Result()
	if err == nil && sessionToken != "" {
		s.client.Del(ctx, SessionKeyPrefix+sessionToken)
	}

	return s.client.Del(ctx, userSessionKey).Err()
}
