// Package sessions persists per-customer conversation state between
// webhook deliveries. Sessions are JSON blobs keyed by phone number and
// bounded by a TTL; an expired or missing session is a normal condition,
// not an error.
package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rajath2005/whatsapp-food-agent/internal/core/domain/entity"
	"github.com/Rajath2005/whatsapp-food-agent/internal/core/ports"
)

// DefaultTTL bounds how long an abandoned conversation keeps its cart.
const DefaultTTL = 30 * time.Minute

const keyPrefix = "wa:session:"

func sessionKey(phone string) string {
	return keyPrefix + phone
}

// RedisStore keeps sessions in Redis so state survives restarts and is
// shared across replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SessionStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: DefaultTTL}
}

// Ping reports whether the Redis backend is reachable. Callers use it at
// startup to decide between this store and the in-memory fallback.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, phone string) (*entity.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(phone)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sessions: get %s: %w", phone, err)
	}

	var session entity.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("sessions: decode %s: %w", phone, err)
	}
	return &session, nil
}

func (s *RedisStore) Save(ctx context.Context, session *entity.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("sessions: encode %s: %w", session.Phone, err)
	}
	if err := s.client.Set(ctx, sessionKey(session.Phone), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("sessions: save %s: %w", session.Phone, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, sessionKey(phone)).Err(); err != nil {
		return fmt.Errorf("sessions: delete %s: %w", phone, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
