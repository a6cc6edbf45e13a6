package otp

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

func discardSender() Sender {
	return SenderFunc(func(ctx context.Context, identifier, code string, purpose domain.OTPPurpose) error {
		return nil
	})
}

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewStore(client, "ao", 5*time.Minute)
}

func TestGenerateFormat(t *testing.T) {
	m, err := NewManager(6, discardSender())
	require.NoError(t, err)

	seen := map[string]bool{}
	for range 50 {
		code, err := m.Generate(context.Background())
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "non-digit in code %q", code)
		}
		seen[code] = true
	}
	// 50 draws from a million-value space colliding down to a handful
	// would indicate a broken generator.
	assert.Greater(t, len(seen), 40)
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager(2, discardSender())
	assert.Error(t, err)

	_, err = NewManager(6, nil)
	assert.Error(t, err)
}

func TestSendDelegates(t *testing.T) {
	var gotIdentifier, gotCode string
	var gotPurpose domain.OTPPurpose

	m, err := NewManager(6, SenderFunc(func(ctx context.Context, identifier, code string, purpose domain.OTPPurpose) error {
		gotIdentifier, gotCode, gotPurpose = identifier, code, purpose
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, m.Send(context.Background(), "a@x.com", "123456", domain.PurposeMFA))
	assert.Equal(t, "a@x.com", gotIdentifier)
	assert.Equal(t, "123456", gotCode)
	assert.Equal(t, domain.PurposeMFA, gotPurpose)
}

func TestVerifyConsumesOnMatch(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()
	token := uuid.New()

	require.NoError(t, store.Store(ctx, token, "123456", domain.PurposeMFA))

	ok, err := store.Verify(ctx, token, "123456", domain.PurposeMFA)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Verify(ctx, token, "123456", domain.PurposeMFA)
	require.NoError(t, err)
	assert.False(t, ok, "a consumed code must not verify twice")
}

func TestVerifyConsumesOnMismatch(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()
	token := uuid.New()

	require.NoError(t, store.Store(ctx, token, "123456", domain.PurposeMFA))

	ok, err := store.Verify(ctx, token, "000000", domain.PurposeMFA)
	require.NoError(t, err)
	assert.False(t, ok)

	// The failed probe burned the code: the right code no longer works.
	ok, err = store.Verify(ctx, token, "123456", domain.PurposeMFA)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyScopedByPurpose(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()
	token := uuid.New()

	require.NoError(t, store.Store(ctx, token, "123456", domain.PurposeRegistration))

	ok, err := store.Verify(ctx, token, "123456", domain.PurposeMFA)
	require.NoError(t, err)
	assert.False(t, ok, "a registration code must not verify as mfa")

	// Wrong-purpose probes must not burn the real code.
	ok, err = store.Verify(ctx, token, "123456", domain.PurposeRegistration)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreOverwrites(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()
	token := uuid.New()

	require.NoError(t, store.Store(ctx, token, "111111", domain.PurposeMFA))
	require.NoError(t, store.Store(ctx, token, "222222", domain.PurposeMFA))

	ok, err := store.Verify(ctx, token, "111111", domain.PurposeMFA)
	require.NoError(t, err)
	assert.False(t, ok, "an overwritten code must not verify")
}

func TestCodeExpires(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()
	token := uuid.New()

	require.NoError(t, store.Store(ctx, token, "123456", domain.PurposeMFA))
	mr.FastForward(6 * time.Minute)

	ok, err := store.Verify(ctx, token, "123456", domain.PurposeMFA)
	require.NoError(t, err)
	assert.False(t, ok)
}
