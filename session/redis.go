package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/giygas/symptoms-api/interfaces"
	"github.com/redis/go-redis/v9"
)

// Compile-time check to ensure RedisStore implements SessionStore
var _ interfaces.SessionStore = (*RedisStore)(nil)

// RedisStore keeps each session as a JSON document under prefix+id.
// Every Save refreshes the key's TTL, so idle sessions expire on their own.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions configures the Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// NewRedisStore connects to Redis and checks the connection with a PING
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	return &RedisStore{client: client, prefix: opts.Prefix, ttl: opts.TTL}, nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// Load returns the stored state, or an empty state when the key does not exist
func (s *RedisStore) Load(ctx context.Context, id string) (interfaces.SessionState, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return interfaces.SessionState{}, nil
	}
	if err != nil {
		return interfaces.SessionState{}, fmt.Errorf("redis get: %w", err)
	}

	var state interfaces.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return interfaces.SessionState{}, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	return state, nil
}

// Save writes state and refreshes the TTL
func (s *RedisStore) Save(ctx context.Context, id string, state interfaces.SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(id), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes the session key
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying connection pool
func (s *RedisStore) Close() error {
	return s.client.Close()
}
