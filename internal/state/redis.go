package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgermate/ledgermate/internal/model"
)

const (
	onboardingPrefix = "onboarding:"
	pendingPrefix    = "pending:"
	lastQueryPrefix  = "lastquery:"
)

// RedisRepository stores conversation state as JSON documents in Redis.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(addr, password string) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
	}
}

// NewRedisRepositoryFromClient wraps an existing client; used in tests.
func NewRedisRepositoryFromClient(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) GetOnboarding(ctx context.Context, handle string) (*model.OnboardingState, error) {
	var s model.OnboardingState
	ok, err := r.get(ctx, onboardingPrefix+handle, &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (r *RedisRepository) SetOnboarding(ctx context.Context, handle string, s *model.OnboardingState) error {
	return r.set(ctx, onboardingPrefix+handle, s, 0)
}

func (r *RedisRepository) DeleteOnboarding(ctx context.Context, handle string) error {
	return r.client.Del(ctx, onboardingPrefix+handle).Err()
}

func (r *RedisRepository) GetPending(ctx context.Context, handle string) (*model.PendingState, error) {
	var s model.PendingState
	ok, err := r.get(ctx, pendingPrefix+handle, &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

// SetPending rejects writes that would not hold exactly one variant.
func (r *RedisRepository) SetPending(ctx context.Context, handle string, s *model.PendingState) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return r.set(ctx, pendingPrefix+handle, s, 0)
}

func (r *RedisRepository) DeletePending(ctx context.Context, handle string) error {
	return r.client.Del(ctx, pendingPrefix+handle).Err()
}

func (r *RedisRepository) GetLastQuery(ctx context.Context, handle string) (*model.LastQueryContext, error) {
	var s model.LastQueryContext
	ok, err := r.get(ctx, lastQueryPrefix+handle, &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (r *RedisRepository) SetLastQuery(ctx context.Context, handle string, s *model.LastQueryContext) error {
	return r.set(ctx, lastQueryPrefix+handle, s, model.LastQueryTTL)
}

func (r *RedisRepository) get(ctx context.Context, key string, out interface{}) (bool, error) {
	raw, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("state get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("state decode %s: %w", key, err)
	}
	return true, nil
}

func (r *RedisRepository) set(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("state encode %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("state set %s: %w", key, err)
	}
	return nil
}
