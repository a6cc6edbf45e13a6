package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the token signature algorithm.
type SigningMethod string

const (
	// MethodHS256 signs with a shared secret.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with an Ed25519 key pair.
	MethodEd25519 SigningMethod = "ed25519"
)

// ErrInvalidToken is returned by Parse for any token that fails signature,
// structure, or time validation. Callers treat all parse failures uniformly.
var ErrInvalidToken = errors.New("invalid token")

// Config holds the signing material and claim policy for a Manager.
type Config struct {
	SigningMethod SigningMethod
	// PrivateKey is the HS256 secret, or the Ed25519 private key (seed or
	// full form) depending on SigningMethod.
	PrivateKey []byte
	// PublicKey enables verify-only Ed25519 deployments; ignored for HS256.
	PublicKey []byte
	Issuer    string
	TTL       time.Duration
	Leeway    time.Duration
}

// Claims carried by every session token. Subject is the user id, ID (jti)
// is the session id, and CredentialsVersion pins the token to the user's
// credential epoch at issuance.
type Claims struct {
	CredentialsVersion int `json:"cv"`
	jwt.RegisteredClaims
}

// Manager signs and parses session tokens. It is immutable after NewManager
// and safe for concurrent use.
type Manager struct {
	config     Config
	signKey    any
	verifyKey  any
	signMethod jwt.SigningMethod
}

// NewManager validates the configuration and prepares the key material.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("jwt: TTL must be positive")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("jwt: leeway out of range")
	}

	m := &Manager{config: cfg}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("jwt: hs256 requires a secret")
		}
		m.signMethod = jwt.SigningMethodHS256
		m.signKey = cfg.PrivateKey
		m.verifyKey = cfg.PrivateKey
	case MethodEd25519:
		m.signMethod = jwt.SigningMethodEdDSA
		if len(cfg.PrivateKey) > 0 {
			priv, err := parseEdPrivateKey(cfg.PrivateKey)
			if err != nil {
				return nil, err
			}
			m.signKey = priv
			m.verifyKey = priv.Public()
		}
		if len(cfg.PublicKey) > 0 {
			pub, err := parseEdPublicKey(cfg.PublicKey)
			if err != nil {
				return nil, err
			}
			m.verifyKey = pub
		}
		if m.verifyKey == nil {
			return nil, errors.New("jwt: ed25519 requires a private or public key")
		}
	default:
		return nil, fmt.Errorf("jwt: unsupported signing method %q", cfg.SigningMethod)
	}

	return m, nil
}

// Sign issues a token for the given user and session, pinned to the supplied
// credentials version.
func (m *Manager) Sign(userID, sessionID string, credentialsVersion int) (string, error) {
	if m.signKey == nil {
		return "", errors.New("jwt: manager has no signing key")
	}

	now := time.Now()
	claims := Claims{
		CredentialsVersion: credentialsVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        sessionID,
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
		},
	}

	return jwt.NewWithClaims(m.signMethod, claims).SignedString(m.signKey)
}

// Parse verifies the signature and registered claims and returns the decoded
// claims. Every failure mode collapses into ErrInvalidToken.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.signMethod.Alg()}),
		jwt.WithLeeway(m.config.Leeway),
		jwt.WithExpirationRequired(),
	}
	if m.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.config.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.verifyKey, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	switch len(key) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(key), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(key), nil
	default:
		return nil, errors.New("jwt: invalid ed25519 private key size")
	}
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) != ed25519.PublicKeySize {
		return nil, errors.New("jwt: invalid ed25519 public key size")
	}
	return ed25519.PublicKey(key), nil
}
