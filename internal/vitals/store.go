package vitals

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore persists kiosk sessions in Redis so a patient interaction
// survives process restarts. Sessions expire after the configured TTL.
type SessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewSessionStore creates a session store with the given TTL. A zero TTL
// means sessions never expire.
func NewSessionStore(redisClient *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{redis: redisClient, ttl: ttl}
}

func (s *SessionStore) key(patientID string) string {
	return fmt.Sprintf("kiosk:session:%s", patientID)
}

// Get retrieves a patient's session, returning a fresh empty session if
// none exists.
func (s *SessionStore) Get(ctx context.Context, patientID string) (*Session, error) {
	data, err := s.redis.Get(ctx, s.key(patientID)).Bytes()
	if err == redis.Nil {
		return NewSession(patientID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("vitals: get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("vitals: unmarshal session: %w", err)
	}
	if session.Measurements == nil {
		session.Measurements = make(map[string]Measurement)
	}
	return &session, nil
}

// Save writes the session back, refreshing its TTL.
func (s *SessionStore) Save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("vitals: marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(session.PatientID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("vitals: save session: %w", err)
	}
	return nil
}

// Clear removes a patient's session entirely.
func (s *SessionStore) Clear(ctx context.Context, patientID string) error {
	if err := s.redis.Del(ctx, s.key(patientID)).Err(); err != nil {
		return fmt.Errorf("vitals: clear session: %w", err)
	}
	return nil
}
