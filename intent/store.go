package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/authkit/domain"
)

// ErrRedisUnavailable wraps Redis transport failures surfaced by the stores.
var ErrRedisUnavailable = errors.New("intent redis unavailable")

// UserIDStore maps fresh random keys to pending user ids in Redis. Every
// Store call mints a new uuid key; keys are never reused. Get on a consumed,
// expired, or unknown key reports ok=false uniformly.
type UserIDStore struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

// NewUserIDStore returns a user-id intent store writing under the given key
// prefix with per-intent TTL ttl.
func NewUserIDStore(client *redis.Client, prefix string, ttl time.Duration) *UserIDStore {
	if prefix == "" {
		prefix = "ai"
	}
	return &UserIDStore{redis: client, prefix: prefix, ttl: ttl}
}

func (s *UserIDStore) key(k uuid.UUID) string {
	return s.prefix + ":uid:" + k.String()
}

// Store saves the user id under a fresh random key and returns the key.
func (s *UserIDStore) Store(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	key := uuid.New()
	if err := s.redis.Set(ctx, s.key(key), userID.String(), s.ttl).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return key, nil
}

// Get returns the user id stored under key, or ok=false when absent.
func (s *UserIDStore) Get(ctx context.Context, key uuid.UUID) (uuid.UUID, bool, error) {
	raw, err := s.redis.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("intent: corrupt user id payload: %w", err)
	}
	return userID, true, nil
}

// Delete removes the intent. Deleting an absent key is a no-op.
func (s *UserIDStore) Delete(ctx context.Context, key uuid.UUID) error {
	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// RegistrationStore holds entire pending registration payloads, JSON-encoded,
// under fresh random keys. Same single-use contract as UserIDStore.
type RegistrationStore struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRegistrationStore returns a registration intent store writing under the
// given key prefix with per-intent TTL ttl.
func NewRegistrationStore(client *redis.Client, prefix string, ttl time.Duration) *RegistrationStore {
	if prefix == "" {
		prefix = "ai"
	}
	return &RegistrationStore{redis: client, prefix: prefix, ttl: ttl}
}

func (s *RegistrationStore) key(k uuid.UUID) string {
	return s.prefix + ":reg:" + k.String()
}

// Store saves the pending registration under a fresh random key.
func (s *RegistrationStore) Store(ctx context.Context, intent domain.RegistrationIntent) (uuid.UUID, error) {
	payload, err := json.Marshal(intent)
	if err != nil {
		return uuid.Nil, err
	}

	key := uuid.New()
	if err := s.redis.Set(ctx, s.key(key), payload, s.ttl).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return key, nil
}

// Get returns the pending registration stored under key, or ok=false when
// absent.
func (s *RegistrationStore) Get(ctx context.Context, key uuid.UUID) (*domain.RegistrationIntent, bool, error) {
	raw, err := s.redis.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var intent domain.RegistrationIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, false, fmt.Errorf("intent: corrupt registration payload: %w", err)
	}
	return &intent, true, nil
}

// Delete removes the intent. Deleting an absent key is a no-op.
func (s *RegistrationStore) Delete(ctx context.Context, key uuid.UUID) error {
	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
