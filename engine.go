package authkit

import (
	"context"
	"fmt"
	"time"

	"github.com/MrEthical07/authkit/domain"
)

// Engine orchestrates every authentication flow over the configured ports.
// It owns no storage and no transport: lookups, hashing, token issuance, and
// code delivery all happen behind the port interfaces.
//
// Missing ports are not detected at build time. Each flow checks the ports it
// needs and returns ErrFeatureNotConfigured, so an engine wired for plain
// login works fine without an OTP manager.
type Engine struct {
	config Config

	userReader domain.UserReader
	userWriter domain.UserWriter
	sessions   domain.SessionService
	hasher     domain.PasswordHasher
	otpManager domain.OTPManager
	otpStore   domain.OTPStore
	intents    domain.UserIDIntentStore
	regIntents domain.RegistrationIntentStore

	events *eventDispatcher
}

func (e *Engine) requireUserReader() (domain.UserReader, error) {
	if e.userReader == nil {
		return nil, fmt.Errorf("%w: user reader", ErrFeatureNotConfigured)
	}
	return e.userReader, nil
}

func (e *Engine) requireUserWriter() (domain.UserWriter, error) {
	if e.userWriter == nil {
		return nil, fmt.Errorf("%w: user writer", ErrFeatureNotConfigured)
	}
	return e.userWriter, nil
}

func (e *Engine) requireSessions() (domain.SessionService, error) {
	if e.sessions == nil {
		return nil, fmt.Errorf("%w: session service", ErrFeatureNotConfigured)
	}
	return e.sessions, nil
}

func (e *Engine) requireHasher() (domain.PasswordHasher, error) {
	if e.hasher == nil {
		return nil, fmt.Errorf("%w: password hasher", ErrFeatureNotConfigured)
	}
	return e.hasher, nil
}

func (e *Engine) requireOTPManager() (domain.OTPManager, error) {
	if e.otpManager == nil {
		return nil, fmt.Errorf("%w: otp manager", ErrFeatureNotConfigured)
	}
	return e.otpManager, nil
}

func (e *Engine) requireOTPStore() (domain.OTPStore, error) {
	if e.otpStore == nil {
		return nil, fmt.Errorf("%w: otp store", ErrFeatureNotConfigured)
	}
	return e.otpStore, nil
}

func (e *Engine) requireIntents() (domain.UserIDIntentStore, error) {
	if e.intents == nil {
		return nil, fmt.Errorf("%w: intent store", ErrFeatureNotConfigured)
	}
	return e.intents, nil
}

func (e *Engine) requireRegIntents() (domain.RegistrationIntentStore, error) {
	if e.regIntents == nil {
		return nil, fmt.Errorf("%w: registration intent store", ErrFeatureNotConfigured)
	}
	return e.regIntents, nil
}

func (e *Engine) emit(ctx context.Context, event SecurityEvent) {
	if e.events == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	e.events.Emit(ctx, event)
}

// DroppedEvents reports how many security events were discarded because the
// dispatcher buffer was full. Always zero when events are disabled or the
// dispatcher blocks instead of dropping.
func (e *Engine) DroppedEvents() uint64 {
	return e.events.Dropped()
}

// Close drains and stops the event dispatcher. The engine holds no other
// background state; port connections belong to the host.
func (e *Engine) Close() {
	e.events.Close()
}
