package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andreypavlenko/postingguard/internal/platform/clock"
	redisplatform "github.com/andreypavlenko/postingguard/internal/platform/redis"
	"github.com/andreypavlenko/postingguard/modules/runs/model"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "active_apply_session:"

// SessionStore implements ports.SessionStore atop Redis SETEX, keyed by
// user_id: one active session per user, TTL-expiring.
type SessionStore struct {
	client *redisplatform.Client
	ttl    time.Duration
	clock  clock.Clock
}

// NewSessionStore creates a new Redis-backed session store.
func NewSessionStore(client *redisplatform.Client, ttl time.Duration, clk clock.Clock) *SessionStore {
	return &SessionStore{client: client, ttl: ttl, clock: clk}
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

// SetActiveSession replaces any prior active session for the user, stamping
// expires_at = now + TTL.
func (s *SessionStore) SetActiveSession(ctx context.Context, session *model.ActiveApplySession) error {
	now := s.clock.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	session.ExpiresAt = now.Add(s.ttl)

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal active session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.UserID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("set active session: %w", err)
	}
	return nil
}

// GetActiveSession returns the user's active session, or nil if absent or
// expired.
func (s *SessionStore) GetActiveSession(ctx context.Context, userID string) (*model.ActiveApplySession, error) {
	raw, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active session: %w", err)
	}

	var session model.ActiveApplySession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal active session: %w", err)
	}
	if session.Expired(s.clock.Now()) {
		return nil, nil
	}
	return &session, nil
}

// ClearActiveSession removes the user's active session, if any.
func (s *SessionStore) ClearActiveSession(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear active session: %w", err)
	}
	return nil
}
