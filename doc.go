// Package authkit is an embeddable authentication engine built around a
// credential-version state machine.
//
// The engine orchestrates login, registration, logout, password change and
// recovery, and account deletion over pluggable ports: a credential store
// (unified or CQRS-split), a session service, a password hasher, an OTP
// manager, and intent stores. Redis-backed adapters for sessions, OTP codes,
// and intents ship in subpackages, along with a PostgreSQL credential store
// and in-memory test-grade stores.
//
// Every credential-invalidating operation pairs session revocation with a
// credentials-version bump, so both tracked sessions and version-pinned
// tokens the service never saw die together. OTP-gated flows follow a strict
// start/verify shape with single-use intents and codes that burn on any
// verify attempt.
//
// Construct an engine with the Builder:
//
//	engine, err := authkit.New().
//		WithRedis(client).
//		WithUserRepository(repo).
//		WithOTPSender(sender).
//		Build()
//
// Ports left unset are not a build error; the flows that need them return
// ErrFeatureNotConfigured at call time.
package authkit
