package authkit

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// DeleteAccount revokes every session and soft-deletes the user. Deleting a
// user that does not exist succeeds: the operation is idempotent so hosts can
// retry it safely.
func (e *Engine) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
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
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	if err := sessions.RevokeAll(ctx, userID); err != nil {
		return err
	}
	if err := writer.Delete(ctx, userID); err != nil {
		return err
	}

	e.emit(ctx, SecurityEvent{
		Flow:    FlowDeleteAccount,
		UserID:  userID.String(),
		Success: true,
	})
	return nil
}

// StartDeleteAccountOTP stores a deletion intent and sends a one-time code to
// the account's identifier. A missing user is ErrInvalidCredentials, matching
// the other authenticated start flows.
func (e *Engine) StartDeleteAccountOTP(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
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

// VerifyDeleteAccountOTP consumes the intent and code, then revokes all
// sessions and deletes the user. It returns the deleted user's id.
func (e *Engine) VerifyDeleteAccountOTP(ctx context.Context, token uuid.UUID, code string) (uuid.UUID, error) {
	reader, err := e.requireUserReader()
	if err != nil {
		return uuid.Nil, err
	}
	writer, err := e.requireUserWriter()
	if err != nil {
		return uuid.Nil, err
	}
	sessions, err := e.requireSessions()
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

	userID, ok, err := intents.Get(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, ErrInvalidOTP
	}
	valid, err := codes.Verify(ctx, token, code, PurposeMFA)
	if err != nil {
		return uuid.Nil, err
	}
	if !valid {
		e.emit(ctx, SecurityEvent{Flow: FlowDeleteAccount, UserID: userID.String(), Error: "otp mismatch"})
		return uuid.Nil, ErrInvalidOTP
	}
	if err := intents.Delete(ctx, token); err != nil {
		return uuid.Nil, err
	}

	user, err := reader.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return uuid.Nil, ErrInvalidCredentials
		}
		return uuid.Nil, err
	}

	if err := sessions.RevokeAll(ctx, user.ID); err != nil {
		return uuid.Nil, err
	}
	if err := writer.Delete(ctx, user.ID); err != nil {
		return uuid.Nil, err
	}

	e.emit(ctx, SecurityEvent{
		Flow:    FlowDeleteAccount,
		UserID:  user.ID.String(),
		Success: true,
	})
	return user.ID, nil
}
