// Package otp provides the built-in one-time-password pieces: a Manager
// that draws fixed-length numeric codes from crypto/rand and delegates
// delivery to a host-supplied Sender, and a Redis-backed Store with strict
// single-use verification semantics.
package otp
