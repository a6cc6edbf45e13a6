package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned across the port and engine boundary. Callers are
// expected to match with errors.Is and map to transport-specific responses
// outside this library.
var (
	// ErrInvalidCredentials covers unknown identifier, wrong password, and
	// every other "don't reveal which" authentication failure. The login
	// boundary never distinguishes the cases.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConflict is returned when an identifier is already used by a
	// non-deleted user.
	ErrConflict = errors.New("identifier already in use")

	// ErrInvalidOTP covers a missing intent token and a mismatched or
	// expired code. OTP-gated flows never distinguish the two.
	ErrInvalidOTP = errors.New("invalid or expired otp")

	// ErrNotFound is the base lookup failure for entities that should exist
	// post-precondition.
	ErrNotFound = errors.New("not found")

	// ErrFeatureNotConfigured is returned when an engine method requires a
	// port the host never supplied. It is raised at call time, never at
	// build time, so partially configured engines stay usable.
	ErrFeatureNotConfigured = errors.New("feature not configured")
)

// Specializations of ErrNotFound. errors.Is(err, ErrNotFound) holds for both.
var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)
)
