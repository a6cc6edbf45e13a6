package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/authkit/domain"
	"github.com/MrEthical07/authkit/jwt"
)

// ErrRedisUnavailable wraps every Redis transport failure surfaced by the
// store so callers can distinguish backend outages from verdicts.
var ErrRedisUnavailable = errors.New("session redis unavailable")

// revokeScript deletes one session record and its index membership in a
// single round trip. It reports whether the record existed, which is the
// revoke verdict. The index member is removed even when the record already
// expired so the index cannot accumulate dead ids.
const revokeScript = `
local existed = redis.call("EXISTS", KEYS[1])
redis.call("SREM", KEYS[2], ARGV[1])
if existed == 1 then
  redis.call("DEL", KEYS[1])
end
return existed
`

var revokeLua = redis.NewScript(revokeScript)

// Store is the built-in SessionService: JWT bearer tokens plus a Redis
// record per session. The Redis record carries the revocation state; the
// token carries the version pin. A session verifies only when the token
// parses, the pinned version matches exactly, and the record still exists.
//
// Version pinning is the primary invalidation mechanism: bumping a user's
// credentials version strands every previously issued token regardless of
// whether its record survived.
type Store struct {
	redis  *redis.Client
	tokens *jwt.Manager
	prefix string
	ttl    time.Duration
}

// NewStore returns a session store writing under the given key prefix with
// per-session TTL ttl.
func NewStore(client *redis.Client, tokens *jwt.Manager, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "as"
	}
	return &Store{redis: client, tokens: tokens, prefix: prefix, ttl: ttl}
}

func (s *Store) sessionKey(userID, sessionID string) string {
	return s.prefix + ":s:" + userID + ":" + sessionID
}

func (s *Store) indexKey(userID string) string {
	return s.prefix + ":u:" + userID
}

// Issue creates a fresh session for the user pinned to the supplied
// credentials version.
func (s *Store) Issue(ctx context.Context, userID uuid.UUID, credentialsVersion int) (*domain.Session, error) {
	sessionID := uuid.New()

	token, err := s.tokens.Sign(userID.String(), sessionID.String(), credentialsVersion)
	if err != nil {
		return nil, err
	}

	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, s.sessionKey(userID.String(), sessionID.String()), strconv.Itoa(credentialsVersion), s.ttl)
	pipe.SAdd(ctx, s.indexKey(userID.String()), sessionID.String())
	pipe.Expire(ctx, s.indexKey(userID.String()), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return &domain.Session{
		SessionID:          sessionID,
		UserID:             userID,
		Token:              token,
		CredentialsVersion: credentialsVersion,
	}, nil
}

// Verify reports whether token is a live session pinned to exactly
// credentialsVersion. Stale versions, revoked sessions, and malformed or
// tampered tokens all report false without error; only backend failures
// produce an error.
func (s *Store) Verify(ctx context.Context, token string, credentialsVersion int) (bool, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return false, nil
	}
	if claims.CredentialsVersion != credentialsVersion {
		return false, nil
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return false, nil
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return false, nil
	}

	n, err := s.redis.Exists(ctx, s.sessionKey(claims.Subject, claims.ID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n == 1, nil
}

// Revoke removes one session owned by userID. It reports false for both a
// missing session and one owned by someone else; callers cannot tell the
// difference.
func (s *Store) Revoke(ctx context.Context, userID, sessionID uuid.UUID) (bool, error) {
	existed, err := revokeLua.Run(ctx, s.redis,
		[]string{s.sessionKey(userID.String(), sessionID.String()), s.indexKey(userID.String())},
		sessionID.String(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return existed == 1, nil
}

// RevokeAll removes every tracked session for the user. Callers pair this
// with a credentials-version bump; the bump is what invalidates tokens whose
// records this store never saw or already dropped.
func (s *Store) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	ids, err := s.redis.SMembers(ctx, s.indexKey(userID.String())).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	pipe := s.redis.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, s.sessionKey(userID.String(), id))
	}
	pipe.Del(ctx, s.indexKey(userID.String()))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
