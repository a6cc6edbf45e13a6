// Package intent implements the short-lived, single-use token stores that
// bridge the start and verify halves of OTP-gated flows. One store maps keys
// to pending user ids; the other holds entire pending registration payloads,
// since during registration no user row exists yet.
package intent
