package authkit

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/MrEthical07/authkit/domain"
)

// Register creates a user directly, without OTP gating. The write facet is
// the authority on identifier uniqueness and returns ErrConflict when the
// identifier belongs to a live user.
func (e *Engine) Register(ctx context.Context, identifier, password string, metadata Metadata) (*User, error) {
	writer, err := e.requireUserWriter()
	if err != nil {
		return nil, err
	}
	hasher, err := e.requireHasher()
	if err != nil {
		return nil, err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	created, err := writer.Create(ctx, &domain.User{
		ID:                 uuid.New(),
		Identifier:         identifier,
		PasswordHash:       hash,
		CredentialsVersion: 0,
		Metadata:           metadata.Clone(),
	})
	if err != nil {
		return nil, err
	}

	e.emit(ctx, SecurityEvent{
		Flow:       FlowRegistration,
		UserID:     created.ID.String(),
		Identifier: identifier,
		Success:    true,
	})
	return created, nil
}

// StartRegistrationOTP hashes the password, parks the whole pending user as a
// registration intent, and sends a one-time code. No User row exists until
// VerifyRegistrationOTP consumes the intent.
//
// The identifier pre-check here is a fast path; two starts racing on the same
// identifier are arbitrated by Create at verify time.
func (e *Engine) StartRegistrationOTP(ctx context.Context, identifier, password string, metadata Metadata) (uuid.UUID, error) {
	reader, err := e.requireUserReader()
	if err != nil {
		return uuid.Nil, err
	}
	hasher, err := e.requireHasher()
	if err != nil {
		return uuid.Nil, err
	}
	regs, err := e.requireRegIntents()
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

	if _, err := reader.FindByIdentifier(ctx, identifier); err == nil {
		return uuid.Nil, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return uuid.Nil, err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return uuid.Nil, err
	}
	token, err := regs.Store(ctx, domain.RegistrationIntent{
		Identifier:         identifier,
		PasswordHash:       hash,
		CredentialsVersion: 0,
		Metadata:           metadata.Clone(),
	})
	if err != nil {
		return uuid.Nil, err
	}

	code, err := manager.Generate(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if err := codes.Store(ctx, token, code, PurposeRegistration); err != nil {
		return uuid.Nil, err
	}
	if err := manager.Send(ctx, identifier, code, PurposeRegistration); err != nil {
		return uuid.Nil, err
	}
	return token, nil
}

// VerifyRegistrationOTP consumes the registration intent and creates the
// user. Replaying the same token fails with ErrInvalidOTP because the intent
// is single use.
func (e *Engine) VerifyRegistrationOTP(ctx context.Context, token uuid.UUID, code string) (*User, error) {
	writer, err := e.requireUserWriter()
	if err != nil {
		return nil, err
	}
	regs, err := e.requireRegIntents()
	if err != nil {
		return nil, err
	}
	codes, err := e.requireOTPStore()
	if err != nil {
		return nil, err
	}

	pending, ok, err := regs.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidOTP
	}
	valid, err := codes.Verify(ctx, token, code, PurposeRegistration)
	if err != nil {
		return nil, err
	}
	if !valid {
		e.emit(ctx, SecurityEvent{Flow: FlowRegistration, Identifier: pending.Identifier, Error: "otp mismatch"})
		return nil, ErrInvalidOTP
	}
	if err := regs.Delete(ctx, token); err != nil {
		return nil, err
	}

	created, err := writer.Create(ctx, &domain.User{
		ID:                 uuid.New(),
		Identifier:         pending.Identifier,
		PasswordHash:       pending.PasswordHash,
		CredentialsVersion: pending.CredentialsVersion,
		Metadata:           pending.Metadata.Clone(),
	})
	if err != nil {
		return nil, err
	}

	e.emit(ctx, SecurityEvent{
		Flow:       FlowRegistration,
		UserID:     created.ID.String(),
		Identifier: created.Identifier,
		Success:    true,
	})
	return created, nil
}
