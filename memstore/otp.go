package memstore

import (
	"context"
	"crypto/subtle"
	"sync"

	"github.com/google/uuid"

	"github.com/MrEthical07/authkit/domain"
)

// OTPStore is an in-memory consuming OTP store. Codes never expire on their
// own; every verify attempt that finds a code burns it, matching the
// contract of the Redis-backed store.
type OTPStore struct {
	mu    sync.Mutex
	codes map[string]string
}

// NewOTPStore returns an empty in-memory OTP store.
func NewOTPStore() *OTPStore {
	return &OTPStore{codes: make(map[string]string)}
}

func otpKey(token uuid.UUID, purpose domain.OTPPurpose) string {
	return string(purpose) + ":" + token.String()
}

// Store saves code for (token, purpose), overwriting any prior code.
func (s *OTPStore) Store(ctx context.Context, token uuid.UUID, code string, purpose domain.OTPPurpose) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes[otpKey(token, purpose)] = code
	return nil
}

// Verify consumes the stored code and reports whether it matched.
func (s *OTPStore) Verify(ctx context.Context, token uuid.UUID, code string, purpose domain.OTPPurpose) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := otpKey(token, purpose)
	stored, ok := s.codes[key]
	if !ok {
		return false, nil
	}
	delete(s.codes, key)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1, nil
}

// Peek returns the stored code without consuming it. Test helper: real
// deployments receive codes through the OTP manager's sender.
func (s *OTPStore) Peek(token uuid.UUID, purpose domain.OTPPurpose) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.codes[otpKey(token, purpose)]
	return code, ok
}
