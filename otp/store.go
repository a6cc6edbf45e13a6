package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/authkit/domain"
)

// ErrRedisUnavailable wraps Redis transport failures surfaced by the store.
var ErrRedisUnavailable = errors.New("otp redis unavailable")

// consumeScript implements the single-use contract atomically: an absent key
// reports -1; a present key is deleted before the comparison result is
// returned, so of any number of racing verifiers exactly one observes the
// code, and even that one burns it.
const consumeScript = `
local stored = redis.call("GET", KEYS[1])
if not stored then
  return -1
end
redis.call("DEL", KEYS[1])
if stored == ARGV[1] then
  return 1
end
return 0
`

var consumeLua = redis.NewScript(consumeScript)

// Store keeps one-time codes in Redis keyed by (verification token, purpose)
// with a fixed TTL. Verification consumes: any attempt that finds a stored
// code deletes it, win or lose, which forces a fresh start after a failed
// probe instead of leaving a leaked code replayable.
type Store struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStore returns an OTP store writing under the given key prefix with
// per-code TTL ttl.
func NewStore(client *redis.Client, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "ao"
	}
	return &Store{redis: client, prefix: prefix, ttl: ttl}
}

func (s *Store) key(token uuid.UUID, purpose domain.OTPPurpose) string {
	return s.prefix + ":" + string(purpose) + ":" + token.String()
}

// Store saves code for the token and purpose, overwriting any prior code for
// the same pair.
func (s *Store) Store(ctx context.Context, token uuid.UUID, code string, purpose domain.OTPPurpose) error {
	if err := s.redis.Set(ctx, s.key(token, purpose), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Verify consumes the stored code for (token, purpose) and reports whether
// it matched. A missing or expired code reports false.
func (s *Store) Verify(ctx context.Context, token uuid.UUID, code string, purpose domain.OTPPurpose) (bool, error) {
	res, err := consumeLua.Run(ctx, s.redis, []string{s.key(token, purpose)}, code).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return res == 1, nil
}
