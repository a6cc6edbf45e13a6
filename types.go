package authkit

import "github.com/MrEthical07/authkit/domain"

// Aliases re-export the domain vocabulary so hosts can depend on the root
// package alone. The domain package stays the canonical home so adapter
// subpackages never import authkit itself.
type (
	User               = domain.User
	Session            = domain.Session
	Metadata           = domain.Metadata
	RegistrationIntent = domain.RegistrationIntent
	OTPPurpose         = domain.OTPPurpose

	UserReader              = domain.UserReader
	UserWriter              = domain.UserWriter
	UserRepository          = domain.UserRepository
	PasswordHasher          = domain.PasswordHasher
	SessionService          = domain.SessionService
	OTPManager              = domain.OTPManager
	OTPStore                = domain.OTPStore
	UserIDIntentStore       = domain.UserIDIntentStore
	RegistrationIntentStore = domain.RegistrationIntentStore
)

// OTP purposes, one per flow family.
const (
	PurposeRegistration   = domain.PurposeRegistration
	PurposeForgetPassword = domain.PurposeForgetPassword
	PurposeMFA            = domain.PurposeMFA
)
