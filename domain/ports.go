package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserReader is the read-capable facet of the credential store.
//
// Implementations return ErrUserNotFound for absent or soft-deleted users;
// a nil User is never paired with a nil error.
type UserReader interface {
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// UserWriter is the write-capable facet of the credential store.
//
// Create is the authority for identifier uniqueness: any orchestrator
// pre-check is a fast path only, and concurrent registrations racing on the
// same identifier must be arbitrated here with ErrConflict. The remaining
// mutations return ErrUserNotFound when the target user is absent.
type UserWriter interface {
	Create(ctx context.Context, user *User) (*User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	BumpCredentialsVersion(ctx context.Context, id uuid.UUID) error
	SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

// UserRepository is the unified store: a single adapter satisfying both
// facets. Read-replica / write-primary topologies supply the facets
// separately instead.
type UserRepository interface {
	UserReader
	UserWriter
}

// PasswordHasher hashes and verifies passwords. The hash encoding is owned
// entirely by the implementation; the engine only round-trips it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// SessionService issues, verifies, and revokes sessions bound to a user and
// a credential version.
//
// Verify must be safe to call with a stale expected version: it returns
// false, not an error. Revoke reports false for both not-found and
// not-owned, deliberately indistinguishable. RevokeAll marks every tracked
// session revoked; orchestrators always pair it with a credential-version
// bump, which is what invalidates sessions the service never tracked.
type SessionService interface {
	Issue(ctx context.Context, userID uuid.UUID, credentialsVersion int) (*Session, error)
	Verify(ctx context.Context, token string, credentialsVersion int) (bool, error)
	Revoke(ctx context.Context, userID, sessionID uuid.UUID) (bool, error)
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// OTPManager generates and delivers one-time codes. Generate must draw from
// a cryptographically unpredictable source. Send is fire-and-forget; the
// delivery transport is entirely the host's concern.
type OTPManager interface {
	Generate(ctx context.Context) (string, error)
	Send(ctx context.Context, identifier, code string, purpose OTPPurpose) error
}

// OTPStore holds codes keyed by (verification token, purpose).
//
// Verify consumes: any attempt that finds a stored code deletes it before
// reporting the comparison, so a failed probe burns the code and forces a
// fresh start. Concurrent verifies race on the check-and-delete; exactly one
// observes the code. Store overwrites any prior code for the same key.
type OTPStore interface {
	Store(ctx context.Context, token uuid.UUID, code string, purpose OTPPurpose) error
	Verify(ctx context.Context, token uuid.UUID, code string, purpose OTPPurpose) (bool, error)
}

// UserIDIntentStore maps a fresh random token to a pending user id for the
// duration of a start/verify flow. Get reports absence via ok=false; a
// consumed, expired, or never-created token is indistinguishable. Delete is
// an idempotent no-op on unknown tokens.
type UserIDIntentStore interface {
	Store(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	Get(ctx context.Context, key uuid.UUID) (uuid.UUID, bool, error)
	Delete(ctx context.Context, key uuid.UUID) error
}

// RegistrationIntentStore is the same contract with a full pending
// registration payload as the value.
type RegistrationIntentStore interface {
	Store(ctx context.Context, intent RegistrationIntent) (uuid.UUID, error)
	Get(ctx context.Context, key uuid.UUID) (*RegistrationIntent, bool, error)
	Delete(ctx context.Context, key uuid.UUID) error
}
