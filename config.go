package authkit

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Base64Bytes is a byte slice that parses from standard base64 in
// environment variables.
type Base64Bytes []byte

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Base64Bytes) UnmarshalText(text []byte) error {
	decoded, err := base64.StdEncoding.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("decode base64 value: %w", err)
	}
	*b = decoded
	return nil
}

// Config holds every tunable of the engine and its default adapters. Zero
// values are not usable directly; start from the defaults seeded by New (or
// ConfigFromEnv) and override what you need.
type Config struct {
	JWT      JWTConfig
	Session  SessionConfig
	Password PasswordConfig
	OTP      OTPConfig
	Intent   IntentConfig
	Events   EventsConfig
}

// JWTConfig configures the token manager behind the default session service.
type JWTConfig struct {
	SigningMethod string        `env:"AUTHKIT_JWT_SIGNING_METHOD"` // "hs256" or "ed25519"
	PrivateKey    Base64Bytes   `env:"AUTHKIT_JWT_PRIVATE_KEY"`
	PublicKey     Base64Bytes   `env:"AUTHKIT_JWT_PUBLIC_KEY"`
	Issuer        string        `env:"AUTHKIT_JWT_ISSUER"`
	TTL           time.Duration `env:"AUTHKIT_JWT_TTL"`
	Leeway        time.Duration `env:"AUTHKIT_JWT_LEEWAY"`
}

// SessionConfig configures the Redis-backed session store.
type SessionConfig struct {
	RedisPrefix string        `env:"AUTHKIT_SESSION_PREFIX"`
	TTL         time.Duration `env:"AUTHKIT_SESSION_TTL"`
}

// PasswordConfig holds Argon2id parameters for the default hasher.
type PasswordConfig struct {
	Memory      uint32 `env:"AUTHKIT_PASSWORD_MEMORY"` // KiB
	Time        uint32 `env:"AUTHKIT_PASSWORD_TIME"`
	Parallelism uint8  `env:"AUTHKIT_PASSWORD_PARALLELISM"`
	SaltLength  uint32 `env:"AUTHKIT_PASSWORD_SALT_LENGTH"`
	KeyLength   uint32 `env:"AUTHKIT_PASSWORD_KEY_LENGTH"`
}

// OTPConfig configures one-time code generation and the code store.
type OTPConfig struct {
	Digits      int           `env:"AUTHKIT_OTP_DIGITS"`
	RedisPrefix string        `env:"AUTHKIT_OTP_PREFIX"`
	TTL         time.Duration `env:"AUTHKIT_OTP_TTL"`
}

// IntentConfig configures the start/verify intent stores.
type IntentConfig struct {
	RedisPrefix string        `env:"AUTHKIT_INTENT_PREFIX"`
	TTL         time.Duration `env:"AUTHKIT_INTENT_TTL"`
}

// EventsConfig configures the async security event dispatcher.
type EventsConfig struct {
	Enabled    bool `env:"AUTHKIT_EVENTS_ENABLED"`
	BufferSize int  `env:"AUTHKIT_EVENTS_BUFFER_SIZE"`
	DropIfFull bool `env:"AUTHKIT_EVENTS_DROP_IF_FULL"`
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			SigningMethod: "hs256",
			Issuer:        "authkit",
			TTL:           24 * time.Hour,
			Leeway:        30 * time.Second,
		},
		Session: SessionConfig{
			RedisPrefix: "as",
			TTL:         24 * time.Hour,
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        2,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		OTP: OTPConfig{
			Digits:      6,
			RedisPrefix: "ao",
			TTL:         5 * time.Minute,
		},
		Intent: IntentConfig{
			RedisPrefix: "ai",
			TTL:         15 * time.Minute,
		},
		Events: EventsConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
	}
}

// ConfigFromEnv returns the default config overridden by AUTHKIT_* environment
// variables. Key material is expected in standard base64.
func ConfigFromEnv() (Config, error) {
	cfg := defaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.PrivateKey = cloneBytes(cfg.JWT.PrivateKey)
	out.JWT.PublicKey = cloneBytes(cfg.JWT.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate checks the tunables that do not depend on which ports the host
// supplies. Key-material requirements are enforced where the token manager is
// actually constructed.
func (c *Config) Validate() error {
	if c.JWT.SigningMethod != "hs256" && c.JWT.SigningMethod != "ed25519" {
		return errors.New("JWT SigningMethod must be hs256 or ed25519")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT TTL must be > 0")
	}
	if c.JWT.Leeway < 0 {
		return errors.New("JWT Leeway must be >= 0")
	}

	if c.Session.RedisPrefix == "" {
		return errors.New("Session RedisPrefix must not be empty")
	}
	if c.Session.TTL <= 0 {
		return errors.New("Session TTL must be > 0")
	}

	if c.Password.Memory < 8*1024 {
		return errors.New("Password Memory must be >= 8192 KiB")
	}
	if c.Password.Time < 1 {
		return errors.New("Password Time must be >= 1")
	}
	if c.Password.Parallelism < 1 {
		return errors.New("Password Parallelism must be >= 1")
	}
	if c.Password.SaltLength < 16 {
		return errors.New("Password SaltLength must be >= 16")
	}
	if c.Password.KeyLength < 16 {
		return errors.New("Password KeyLength must be >= 16")
	}

	if c.OTP.Digits < 4 || c.OTP.Digits > 10 {
		return errors.New("OTP Digits must be between 4 and 10")
	}
	if c.OTP.RedisPrefix == "" {
		return errors.New("OTP RedisPrefix must not be empty")
	}
	if c.OTP.TTL <= 0 {
		return errors.New("OTP TTL must be > 0")
	}

	if c.Intent.RedisPrefix == "" {
		return errors.New("Intent RedisPrefix must not be empty")
	}
	if c.Intent.TTL <= 0 {
		return errors.New("Intent TTL must be > 0")
	}

	if c.Events.Enabled && c.Events.BufferSize <= 0 {
		return errors.New("Events BufferSize must be > 0 when events are enabled")
	}

	return nil
}
