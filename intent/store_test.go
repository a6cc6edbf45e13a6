package intent

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/authkit/domain"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestUserIDStoreRoundTrip(t *testing.T) {
	_, client := newTestClient(t)
	store := NewUserIDStore(client, "ai", time.Minute)
	ctx := context.Background()
	userID := uuid.New()

	key, err := store.Store(ctx, userID)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, key)

	got, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestUserIDStoreFreshKeys(t *testing.T) {
	_, client := newTestClient(t)
	store := NewUserIDStore(client, "ai", time.Minute)
	ctx := context.Background()
	userID := uuid.New()

	a, err := store.Store(ctx, userID)
	require.NoError(t, err)
	b, err := store.Store(ctx, userID)
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "every Store call must mint a fresh key")
}

func TestUserIDStoreDeleteIdempotent(t *testing.T) {
	_, client := newTestClient(t)
	store := NewUserIDStore(client, "ai", time.Minute)
	ctx := context.Background()

	key, err := store.Store(ctx, uuid.New())
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key), "double delete must be a no-op")

	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserIDStoreUnknownKey(t *testing.T) {
	_, client := newTestClient(t)
	store := NewUserIDStore(client, "ai", time.Minute)

	_, ok, err := store.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok, "unknown and expired keys must be indistinguishable")
}

func TestUserIDStoreExpiry(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewUserIDStore(client, "ai", time.Minute)
	ctx := context.Background()

	key, err := store.Store(ctx, uuid.New())
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistrationStoreRoundTrip(t *testing.T) {
	_, client := newTestClient(t)
	store := NewRegistrationStore(client, "ai", time.Minute)
	ctx := context.Background()

	pending := domain.RegistrationIntent{
		Identifier:         "a@x.com",
		PasswordHash:       "$argon2id$...",
		CredentialsVersion: 0,
		Metadata:           domain.Metadata{"plan": "free"},
	}

	key, err := store.Store(ctx, pending)
	require.NoError(t, err)

	got, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pending.Identifier, got.Identifier)
	assert.Equal(t, pending.PasswordHash, got.PasswordHash)
	assert.Equal(t, pending.Metadata, got.Metadata)

	require.NoError(t, store.Delete(ctx, key))
	_, ok, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoresDoNotCollide(t *testing.T) {
	_, client := newTestClient(t)
	ids := NewUserIDStore(client, "ai", time.Minute)
	regs := NewRegistrationStore(client, "ai", time.Minute)
	ctx := context.Background()

	key, err := ids.Store(ctx, uuid.New())
	require.NoError(t, err)

	// Same key namespace prefix, different record type: the registration
	// store must not see the user-id intent.
	_, ok, err := regs.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
