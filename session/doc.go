// Package session implements the built-in session service: JWT bearer
// tokens whose revocation state lives in Redis and whose validity is pinned
// to the owning user's credentials version.
//
// The store keeps one record per session plus a per-user index set, so
// revoking one session and revoking all of a user's sessions are both single
// round trips. Global invalidation does not depend on the index being
// complete: the engine bumps the user's credentials version alongside
// RevokeAll, which strands any token the store never tracked.
package session
