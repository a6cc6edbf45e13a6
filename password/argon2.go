package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2ID = "argon2id"

// Argon2Config tunes the argon2id key derivation. Memory is in KiB.
type Argon2Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Config is a moderate interactive-login profile.
func DefaultArgon2Config() Argon2Config {
	return Argon2Config{
		Memory:      64 * 1024,
		Time:        2,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2 hashes passwords into PHC-formatted argon2id strings and verifies
// them. Verification reads the parameters back out of the hash, so hashes
// produced under older configurations keep verifying after a tuning change.
type Argon2 struct {
	config Argon2Config
}

// NewArgon2 validates the configuration and returns a ready hasher.
func NewArgon2(cfg Argon2Config) (*Argon2, error) {
	switch {
	case cfg.Memory < 8*1024:
		return nil, errors.New("password: argon2 memory below 8 MiB")
	case cfg.Time < 1:
		return nil, errors.New("password: argon2 time cost below 1")
	case cfg.Parallelism < 1:
		return nil, errors.New("password: argon2 parallelism below 1")
	case cfg.SaltLength < 16:
		return nil, errors.New("password: argon2 salt below 16 bytes")
	case cfg.KeyLength < 16:
		return nil, errors.New("password: argon2 key below 16 bytes")
	}
	return &Argon2{config: cfg}, nil
}

// Hash derives a PHC-formatted argon2id hash with a fresh random salt.
func (a *Argon2) Hash(password string) (string, error) {
	salt := make([]byte, a.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(password), salt, a.config.Time, a.config.Memory, a.config.Parallelism, a.config.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2ID,
		argon2.Version,
		a.config.Memory,
		a.config.Time,
		a.config.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches the encoded hash. The comparison
// is constant time in the derived key.
func (a *Argon2) Verify(password, encodedHash string) (bool, error) {
	memory, time, parallelism, salt, key, err := parseArgon2Hash(encodedHash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(computed, key) == 1, nil
}

func parseArgon2Hash(encoded string) (memory, time uint32, parallelism uint8, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != argon2ID {
		return 0, 0, 0, nil, nil, errors.New("password: malformed argon2 hash")
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return 0, 0, 0, nil, nil, errors.New("password: unsupported argon2 version")
	}

	var p uint32
	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &p); err != nil || p == 0 || p > 255 {
		return 0, 0, 0, nil, nil, errors.New("password: malformed argon2 parameters")
	}
	parallelism = uint8(p)

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(salt) == 0 {
		return 0, 0, 0, nil, nil, errors.New("password: malformed argon2 salt")
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(key) == 0 {
		return 0, 0, 0, nil, nil, errors.New("password: malformed argon2 key")
	}

	return memory, time, parallelism, salt, key, nil
}
