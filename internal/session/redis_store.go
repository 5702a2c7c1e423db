package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// RedisKeyPrefix namespaces session hashes per profile.
	RedisKeyPrefix = "skillshare:session:"

	// DefaultRedisTTL bounds how long an idle session survives in Redis.
	DefaultRedisTTL = 30 * 24 * time.Hour
)

// RedisStore keeps credentials in a Redis hash keyed by profile.
type RedisStore struct {
	client  *redis.Client
	profile string
	ttl     time.Duration
}

// NewRedisStore creates a store for one profile. ttl <= 0 uses DefaultRedisTTL.
func NewRedisStore(client *redis.Client, profile string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	if profile == "" {
		profile = "default"
	}
	return &RedisStore{client: client, profile: profile, ttl: ttl}
}

func (r *RedisStore) key() string {
	return RedisKeyPrefix + r.profile
}

func (r *RedisStore) Load(ctx context.Context) (Credentials, error) {
	values, err := r.client.HGetAll(ctx, r.key()).Result()
	if err != nil {
		return Credentials{}, fmt.Errorf("hgetall session: %w", err)
	}
	creds := Credentials{Token: values["token"], UserID: values["userId"]}
	if creds.Empty() {
		return Credentials{}, ErrNoSession
	}
	return creds, nil
}

// Save writes both fields and refreshes the TTL in one pipeline.
func (r *RedisStore) Save(ctx context.Context, creds Credentials) error {
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, r.key(), "token", creds.Token, "userId", creds.UserID)
	pipe.Expire(ctx, r.key(), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key()).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
