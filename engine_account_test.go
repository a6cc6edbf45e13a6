package authkit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestDeleteAccountIsIdempotent(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	user := registerTestUser(t, engine, "alice@example.com", "secret-pass-1")

	if err := engine.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if err := engine.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("second DeleteAccount failed: %v", err)
	}
	if err := engine.DeleteAccount(ctx, uuid.New()); err != nil {
		t.Fatalf("DeleteAccount of unknown user failed: %v", err)
	}
}

func TestDeleteAccountRevokesSessionsAndFreesIdentifier(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	user := registerTestUser(t, engine, "alice@example.com", "secret-pass-1")
	sess, err := engine.Login(ctx, "alice@example.com", "secret-pass-1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := engine.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	ok, err := engine.VerifySession(ctx, user.ID, sess.Token)
	if err != nil {
		t.Fatalf("VerifySession failed: %v", err)
	}
	if ok {
		t.Fatal("session survived account deletion")
	}
	if _, err := engine.Login(ctx, "alice@example.com", "secret-pass-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("deleted account login: expected ErrInvalidCredentials, got %v", err)
	}

	// The identifier is reusable; the new account is a distinct user.
	recreated := registerTestUser(t, engine, "alice@example.com", "fresh-pass-9")
	if recreated.ID == user.ID {
		t.Fatal("expected a fresh user id after identifier reuse")
	}
}

func TestDeleteAccountOTPFlow(t *testing.T) {
	engine, _, rec := newTestEngine(t)
	ctx := context.Background()

	user := registerTestUser(t, engine, "alice@example.com", "secret-pass-1")

	token, err := engine.StartDeleteAccountOTP(ctx, user.ID)
	if err != nil {
		t.Fatalf("StartDeleteAccountOTP failed: %v", err)
	}
	sent := rec.last(t)
	if sent.identifier != "alice@example.com" || sent.purpose != PurposeMFA {
		t.Fatalf("unexpected delivery: %+v", sent)
	}

	deletedID, err := engine.VerifyDeleteAccountOTP(ctx, token, sent.code)
	if err != nil {
		t.Fatalf("VerifyDeleteAccountOTP failed: %v", err)
	}
	if deletedID != user.ID {
		t.Fatalf("deleted id = %s, want %s", deletedID, user.ID)
	}

	if _, err := engine.Login(ctx, "alice@example.com", "secret-pass-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("deleted account login: expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := engine.VerifyDeleteAccountOTP(ctx, token, sent.code); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("replay: expected ErrInvalidOTP, got %v", err)
	}
}

func TestStartDeleteAccountOTPUnknownUser(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.StartDeleteAccountOTP(context.Background(), uuid.New())
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
