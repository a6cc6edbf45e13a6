// Package password provides the built-in password hashers: argon2id (the
// default) and bcrypt (for hosts with existing bcrypt stores). Both satisfy
// the engine's hasher port; hosts with other requirements supply their own.
package password
