package authkit

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/authkit/memstore"
)

const testHS256Key = "0123456789abcdef0123456789abcdef"

type sentCode struct {
	identifier string
	code       string
	purpose    OTPPurpose
}

// codeRecorder captures codes instead of delivering them, standing in for the
// host's email/SMS transport.
type codeRecorder struct {
	mu    sync.Mutex
	sends []sentCode
}

func (r *codeRecorder) Send(ctx context.Context, identifier, code string, purpose OTPPurpose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends = append(r.sends, sentCode{identifier: identifier, code: code, purpose: purpose})
	return nil
}

func (r *codeRecorder) last(t *testing.T) sentCode {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sends) == 0 {
		t.Fatal("no OTP was sent")
	}
	return r.sends[len(r.sends)-1]
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.JWT.PrivateKey = Base64Bytes(testHS256Key)
	// Minimum legal Argon2 cost keeps the suite fast.
	cfg.Password = PasswordConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
	return cfg
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func newTestEngine(t *testing.T) (*Engine, *memstore.UserStore, *codeRecorder) {
	t.Helper()

	_, rdb := newTestRedis(t)
	users := memstore.NewUserStore()
	rec := &codeRecorder{}

	engine, err := New().
		WithConfig(testConfig()).
		WithRedis(rdb).
		WithUserRepository(users).
		WithOTPSender(rec).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, users, rec
}

func registerTestUser(t *testing.T, engine *Engine, identifier, password string) *User {
	t.Helper()

	user, err := engine.Register(context.Background(), identifier, password, nil)
	if err != nil {
		t.Fatalf("Register %q failed: %v", identifier, err)
	}
	return user
}
