package domain

import (
	"time"

	"github.com/google/uuid"
)

// Metadata is an open key/value bag of caller-supplied user attributes.
// It is always cloned at entity-construction boundaries so two users can
// never alias the same map.
type Metadata map[string]string

// Clone returns an independent copy of the map. A nil receiver clones to nil.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// User is the identity record owned by the credential store.
//
// CredentialsVersion starts at 0 and only ever increases. Every
// credential-invalidating event (password change, recovery, global logout)
// bumps it; sessions pinned to an older version fail verification.
type User struct {
	ID                 uuid.UUID
	Identifier         string
	PasswordHash       string
	CredentialsVersion int
	LastLogin          *time.Time
	Metadata           Metadata
}

// Session is one issued authenticated client context.
//
// A session is valid iff it has not been explicitly revoked AND its pinned
// CredentialsVersion equals the user's current version AND the token itself
// passes engine-specific integrity checks. The dual check is what lets
// revoke-one and revoke-all coexist without a full session registry.
type Session struct {
	SessionID          uuid.UUID
	UserID             uuid.UUID
	Token              string
	CredentialsVersion int
}

// RegistrationIntent is the entire pending user record held between the
// start and verify steps of OTP-gated registration. No User row exists until
// the intent is consumed.
type RegistrationIntent struct {
	Identifier         string   `json:"identifier"`
	PasswordHash       string   `json:"password_hash"`
	CredentialsVersion int      `json:"credentials_version"`
	Metadata           Metadata `json:"metadata,omitempty"`
}

// OTPPurpose scopes a one-time code to one flow family so a verification
// token can never be replayed across unrelated flows.
type OTPPurpose string

const (
	// PurposeRegistration scopes codes for OTP-gated registration.
	PurposeRegistration OTPPurpose = "registration"
	// PurposeForgetPassword scopes codes for password recovery.
	PurposeForgetPassword OTPPurpose = "forget_password"
	// PurposeMFA scopes codes for OTP-gated login, global logout, and
	// account deletion.
	PurposeMFA OTPPurpose = "mfa"
)
