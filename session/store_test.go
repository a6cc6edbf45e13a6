package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/authkit/jwt"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	tokens, err := jwt.NewManager(jwt.Config{
		SigningMethod: jwt.MethodHS256,
		PrivateKey:    []byte("0123456789abcdef0123456789abcdef"),
		TTL:           time.Hour,
	})
	if err != nil {
		t.Fatalf("jwt.NewManager failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewStore(client, tokens, "as", time.Hour)
}

func TestIssueAndVerify(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	sess, err := store.Issue(ctx, userID, 0)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if sess.UserID != userID || sess.CredentialsVersion != 0 {
		t.Fatalf("unexpected session: %+v", sess)
	}

	ok, err := store.Verify(ctx, sess.Token, 0)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Fatal("freshly issued session should verify")
	}
}

func TestVerifyRejectsStaleVersion(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Issue(ctx, uuid.New(), 0)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	ok, err := store.Verify(ctx, sess.Token, 1)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Fatal("session pinned to version 0 verified against version 1")
	}
}

func TestVerifyRejectsGarbageToken(t *testing.T) {
	_, store := newTestStore(t)

	ok, err := store.Verify(context.Background(), "not-a-jwt", 0)
	if err != nil {
		t.Fatalf("Verify returned error for malformed token: %v", err)
	}
	if ok {
		t.Fatal("malformed token verified")
	}
}

func TestRevokeSingleSession(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	keep, err := store.Issue(ctx, userID, 0)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	drop, err := store.Issue(ctx, userID, 0)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	revoked, err := store.Revoke(ctx, userID, drop.SessionID)
	if err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if !revoked {
		t.Fatal("Revoke reported false for an existing session")
	}

	if ok, _ := store.Verify(ctx, drop.Token, 0); ok {
		t.Fatal("revoked session still verifies")
	}
	if ok, _ := store.Verify(ctx, keep.Token, 0); !ok {
		t.Fatal("unrelated session was lost during revoke")
	}

	again, err := store.Revoke(ctx, userID, drop.SessionID)
	if err != nil {
		t.Fatalf("second Revoke failed: %v", err)
	}
	if again {
		t.Fatal("revoking twice reported true the second time")
	}
}

func TestRevokeIsScopedToOwner(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	victim, err := store.Issue(ctx, uuid.New(), 0)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	revoked, err := store.Revoke(ctx, uuid.New(), victim.SessionID)
	if err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if revoked {
		t.Fatal("revoking with the wrong owner succeeded")
	}
	if ok, _ := store.Verify(ctx, victim.Token, 0); !ok {
		t.Fatal("victim session was revoked by a non-owner")
	}
}

func TestRevokeAll(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	var tokens []string
	for range 3 {
		sess, err := store.Issue(ctx, userID, 2)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		tokens = append(tokens, sess.Token)
	}
	other, err := store.Issue(ctx, uuid.New(), 2)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if err := store.RevokeAll(ctx, userID); err != nil {
		t.Fatalf("RevokeAll failed: %v", err)
	}

	for i, token := range tokens {
		if ok, _ := store.Verify(ctx, token, 2); ok {
			t.Fatalf("session %d survived RevokeAll", i)
		}
	}
	if ok, _ := store.Verify(ctx, other.Token, 2); !ok {
		t.Fatal("RevokeAll leaked into another user's sessions")
	}
}

func TestSessionExpiry(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Issue(ctx, uuid.New(), 0)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	if ok, _ := store.Verify(ctx, sess.Token, 0); ok {
		t.Fatal("session verified after its record expired")
	}
}
