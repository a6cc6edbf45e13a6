package authkit

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Logout revokes a single session. Not-found and not-owned both surface as
// ErrSessionNotFound; the session service does not distinguish them.
func (e *Engine) Logout(ctx context.Context, userID, sessionID uuid.UUID) error {
	sessions, err := e.requireSessions()
	if err != nil {
		return err
	}

	revoked, err := sessions.Revoke(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if !revoked {
		return ErrSessionNotFound
	}

	e.emit(ctx, SecurityEvent{
		Flow:      FlowLogout,
		UserID:    userID.String(),
		SessionID: sessionID.String(),
		Success:   true,
	})
	return nil
}

// LogoutAll revokes every tracked session and bumps the credentials version.
// Both halves are required: the revoke kills tracked sessions immediately,
// the bump kills version-pinned sessions the service never tracked.
func (e *Engine) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	reader, err := e.requireUserReader()
	if err != nil {
		return err
	}
	writer, err := e.requireUserWriter()
	if err != nil {
		return err
	}
	sessions, err := e.requireSessions()
	if err != nil {
		return err
	}

	if _, err := reader.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := sessions.RevokeAll(ctx, userID); err != nil {
		return err
	}
	if err := writer.BumpCredentialsVersion(ctx, userID); err != nil {
		return err
	}

	e.emit(ctx, SecurityEvent{
		Flow:    FlowLogoutAll,
		UserID:  userID.String(),
		Success: true,
	})
	return nil
}

// StartLogoutAllOTP stores a logout intent for the user and sends a one-time
// code to their identifier. An unknown user is reported as
// ErrInvalidCredentials: callers reach this flow with a user id from an
// authenticated session, so a miss means the token outlived the account.
func (e *Engine) StartLogoutAllOTP(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	reader, err := e.requireUserReader()
	if err != nil {
		return uuid.Nil, err
	}
	intents, err := e.requireIntents()
	if err != nil {
		return uuid.Nil, err
	}
	codes, err := e.requireOTPStore()
	if err != nil {
		return uuid.Nil, err
	}
	manager, err := e.requireOTPManager()
	if err != nil {
		return uuid.Nil, err
	}

	user, err := reader.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return uuid.Nil, ErrInvalidCredentials
		}
		return uuid.Nil, err
	}

	token, err := intents.Store(ctx, user.ID)
	if err != nil {
		return uuid.Nil, err
	}
	code, err := manager.Generate(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if err := codes.Store(ctx, token, code, PurposeMFA); err != nil {
		return uuid.Nil, err
	}
	if err := manager.Send(ctx, user.Identifier, code, PurposeMFA); err != nil {
		return uuid.Nil, err
	}
	return token, nil
}

// VerifyLogoutAllOTP consumes the intent and code, then performs the paired
// revoke-all and version bump.
func (e *Engine) VerifyLogoutAllOTP(ctx context.Context, token uuid.UUID, code string) error {
	writer, err := e.requireUserWriter()
	if err != nil {
		return err
	}
	sessions, err := e.requireSessions()
	if err != nil {
		return err
	}
	intents, err := e.requireIntents()
	if err != nil {
		return err
	}
	codes, err := e.requireOTPStore()
	if err != nil {
		return err
	}

	userID, ok, err := intents.Get(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOTP
	}
	valid, err := codes.Verify(ctx, token, code, PurposeMFA)
	if err != nil {
		return err
	}
	if !valid {
		e.emit(ctx, SecurityEvent{Flow: FlowLogoutAll, UserID: userID.String(), Error: "otp mismatch"})
		return ErrInvalidOTP
	}
	if err := intents.Delete(ctx, token); err != nil {
		return err
	}

	if err := sessions.RevokeAll(ctx, userID); err != nil {
		return err
	}
	if err := writer.BumpCredentialsVersion(ctx, userID); err != nil {
		return err
	}

	e.emit(ctx, SecurityEvent{
		Flow:    FlowLogoutAll,
		UserID:  userID.String(),
		Success: true,
	})
	return nil
}
