package authkit

import (
	"context"

	"github.com/google/uuid"
)

// ChangePassword rotates the password for an authenticated user. The flow
// always pairs revoke-all with a credentials-version bump before writing the
// new hash, so every pre-rotation session dies.
//
// The old/new equality check runs before any lookup: reusing the current
// password is rejected without touching the store.
func (e *Engine) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	reader, err := e.requireUserReader()
	if err != nil {
		return err
	}
	writer, err := e.requireUserWriter()
	if err != nil {
		return err
	}
	hasher, err := e.requireHasher()
	if err != nil {
		return err
	}
	sessions, err := e.requireSessions()
	if err != nil {
		return err
	}

	if oldPassword == newPassword {
		return ErrInvalidCredentials
	}

	user, err := reader.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := hasher.Verify(oldPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		e.emit(ctx, SecurityEvent{Flow: FlowChangePassword, UserID: userID.String(), Error: "old password mismatch"})
		return ErrInvalidCredentials
	}

	if err := sessions.RevokeAll(ctx, userID); err != nil {
		return err
	}
	if err := writer.BumpCredentialsVersion(ctx, userID); err != nil {
		return err
	}
	hash, err := hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := writer.SetPasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	e.emit(ctx, SecurityEvent{
		Flow:    FlowChangePassword,
		UserID:  userID.String(),
		Success: true,
	})
	return nil
}

// StartPasswordRecovery begins the forgot-password flow for an identifier.
// Unlike login, a missing user is reported as ErrUserNotFound: the caller is
// already claiming account ownership out of band, and hosts that want
// anti-enumeration at this boundary can mask the error themselves.
func (e *Engine) StartPasswordRecovery(ctx context.Context, identifier string) (uuid.UUID, error) {
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

	user, err := reader.FindByIdentifier(ctx, identifier)
	if err != nil {
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
	if err := codes.Store(ctx, token, code, PurposeForgetPassword); err != nil {
		return uuid.Nil, err
	}
	if err := manager.Send(ctx, identifier, code, PurposeForgetPassword); err != nil {
		return uuid.Nil, err
	}
	return token, nil
}

// VerifyPasswordRecovery consumes the recovery intent and code, revokes every
// session, bumps the credentials version, and writes the new hash. The order
// matters: sessions die before the new password becomes usable.
func (e *Engine) VerifyPasswordRecovery(ctx context.Context, token uuid.UUID, code, newPassword string) error {
	writer, err := e.requireUserWriter()
	if err != nil {
		return err
	}
	hasher, err := e.requireHasher()
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
	valid, err := codes.Verify(ctx, token, code, PurposeForgetPassword)
	if err != nil {
		return err
	}
	if !valid {
		e.emit(ctx, SecurityEvent{Flow: FlowPasswordRecovery, UserID: userID.String(), Error: "otp mismatch"})
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
	hash, err := hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := writer.SetPasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	e.emit(ctx, SecurityEvent{
		Flow:    FlowPasswordRecovery,
		UserID:  userID.String(),
		Success: true,
	})
	return nil
}
