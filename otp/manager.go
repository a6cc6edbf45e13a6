package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/MrEthical07/authkit/domain"
)

// Sender delivers a generated code to a user. Implementations own the
// transport entirely (email, SMS, push); the engine treats delivery as
// fire-and-forget.
type Sender interface {
	Send(ctx context.Context, identifier, code string, purpose domain.OTPPurpose) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, identifier, code string, purpose domain.OTPPurpose) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, identifier, code string, purpose domain.OTPPurpose) error {
	return f(ctx, identifier, code, purpose)
}

// Manager generates fixed-length numeric codes from crypto/rand and hands
// them to a Sender for delivery.
type Manager struct {
	length int
	sender Sender
}

// NewManager returns a manager producing codes of the given digit length.
func NewManager(length int, sender Sender) (*Manager, error) {
	if length < 4 || length > 10 {
		return nil, errors.New("otp: code length out of range")
	}
	if sender == nil {
		return nil, errors.New("otp: sender is required")
	}
	return &Manager{length: length, sender: sender}, nil
}

// Generate draws a code of m's configured length. Every digit comes from
// crypto/rand; leading zeros are preserved.
func (m *Manager) Generate(ctx context.Context) (string, error) {
	digits := make([]byte, m.length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// Send delivers the code via the configured sender.
func (m *Manager) Send(ctx context.Context, identifier, code string, purpose domain.OTPPurpose) error {
	return m.sender.Send(ctx, identifier, code, purpose)
}
