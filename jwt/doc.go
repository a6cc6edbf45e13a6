// Package jwt encodes and verifies the bearer tokens issued by the session
// service. Tokens are standard JWTs carrying the user id (sub), the session
// id (jti), and the credentials version (cv) the session was pinned to.
//
// The package deliberately knows nothing about revocation or version
// comparison; it only guarantees signature and time validity. The session
// store layers the revocation and pinning checks on top.
package jwt
