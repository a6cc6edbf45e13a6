package authkit

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/MrEthical07/authkit/domain"
)

// authenticate resolves the identifier and checks the password. Unknown
// identifier and wrong password collapse into the same ErrInvalidCredentials
// so the login boundary never leaks which part failed.
func (e *Engine) authenticate(ctx context.Context, reader domain.UserReader, identifier, password string) (*domain.User, error) {
	user, err := reader.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	hasher, err := e.requireHasher()
	if err != nil {
		return nil, err
	}
	ok, err := hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates the identifier/password pair and issues a session
// pinned to the user's current credentials version.
func (e *Engine) Login(ctx context.Context, identifier, password string) (*Session, error) {
	reader, err := e.requireUserReader()
	if err != nil {
		return nil, err
	}
	writer, err := e.requireUserWriter()
	if err != nil {
		return nil, err
	}
	sessions, err := e.requireSessions()
	if err != nil {
		return nil, err
	}

	user, err := e.authenticate(ctx, reader, identifier, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			e.emit(ctx, SecurityEvent{Flow: FlowLogin, Identifier: identifier, Error: err.Error()})
		}
		return nil, err
	}

	sess, err := sessions.Issue(ctx, user.ID, user.CredentialsVersion)
	if err != nil {
		return nil, err
	}
	if err := writer.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}

	e.emit(ctx, SecurityEvent{
		Flow:      FlowLogin,
		UserID:    user.ID.String(),
		SessionID: sess.SessionID.String(),
		Success:   true,
	})
	return sess, nil
}

// StartLoginOTP authenticates the credentials, stores a login intent, and
// sends a one-time code. The returned token is the handle for VerifyLoginOTP.
func (e *Engine) StartLoginOTP(ctx context.Context, identifier, password string) (uuid.UUID, error) {
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

	user, err := e.authenticate(ctx, reader, identifier, password)
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
	if err := codes.Store(ctx, token, code, PurposeMFA); err != nil {
		return uuid.Nil, err
	}
	if err := manager.Send(ctx, identifier, code, PurposeMFA); err != nil {
		return uuid.Nil, err
	}
	return token, nil
}

// VerifyLoginOTP consumes the intent and code and completes the login. The
// code burns on any verify attempt that reaches it, so a failed guess forces
// a fresh StartLoginOTP.
func (e *Engine) VerifyLoginOTP(ctx context.Context, token uuid.UUID, code string) (*Session, error) {
	reader, err := e.requireUserReader()
	if err != nil {
		return nil, err
	}
	writer, err := e.requireUserWriter()
	if err != nil {
		return nil, err
	}
	sessions, err := e.requireSessions()
	if err != nil {
		return nil, err
	}
	intents, err := e.requireIntents()
	if err != nil {
		return nil, err
	}
	codes, err := e.requireOTPStore()
	if err != nil {
		return nil, err
	}

	userID, ok, err := intents.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidOTP
	}
	valid, err := codes.Verify(ctx, token, code, PurposeMFA)
	if err != nil {
		return nil, err
	}
	if !valid {
		e.emit(ctx, SecurityEvent{Flow: FlowLogin, UserID: userID.String(), Error: "otp mismatch"})
		return nil, ErrInvalidOTP
	}
	if err := intents.Delete(ctx, token); err != nil {
		return nil, err
	}

	user, err := reader.FindByID(ctx, userID)
	if err != nil {
		// The account vanished between start and verify.
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}

	sess, err := sessions.Issue(ctx, user.ID, user.CredentialsVersion)
	if err != nil {
		return nil, err
	}
	if err := writer.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}

	e.emit(ctx, SecurityEvent{
		Flow:      FlowLogin,
		UserID:    user.ID.String(),
		SessionID: sess.SessionID.String(),
		Success:   true,
	})
	return sess, nil
}

// VerifySession reports whether token is a live session for the user: not
// revoked, not expired, and pinned to the user's current credentials version.
// A missing user is false, not an error.
func (e *Engine) VerifySession(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	reader, err := e.requireUserReader()
	if err != nil {
		return false, err
	}
	sessions, err := e.requireSessions()
	if err != nil {
		return false, err
	}

	user, err := reader.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return sessions.Verify(ctx, token, user.CredentialsVersion)
}
