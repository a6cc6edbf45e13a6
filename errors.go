package authkit

import "github.com/MrEthical07/authkit/domain"

// Sentinel errors re-exported from the domain package. Match with errors.Is.
var (
	ErrInvalidCredentials   = domain.ErrInvalidCredentials
	ErrConflict             = domain.ErrConflict
	ErrInvalidOTP           = domain.ErrInvalidOTP
	ErrNotFound             = domain.ErrNotFound
	ErrUserNotFound         = domain.ErrUserNotFound
	ErrSessionNotFound      = domain.ErrSessionNotFound
	ErrFeatureNotConfigured = domain.ErrFeatureNotConfigured
)
