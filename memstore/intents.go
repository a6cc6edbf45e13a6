package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/MrEthical07/authkit/domain"
)

// UserIDIntentStore is an in-memory user-id intent store. Entries never
// expire; it is intended for tests and single-process demos.
type UserIDIntentStore struct {
	mu      sync.Mutex
	intents map[uuid.UUID]uuid.UUID
}

// NewUserIDIntentStore returns an empty in-memory intent store.
func NewUserIDIntentStore() *UserIDIntentStore {
	return &UserIDIntentStore{intents: make(map[uuid.UUID]uuid.UUID)}
}

// Store saves the user id under a fresh random key.
func (s *UserIDIntentStore) Store(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := uuid.New()
	s.intents[key] = userID
	return key, nil
}

// Get returns the user id stored under key, or ok=false when absent.
func (s *UserIDIntentStore) Get(ctx context.Context, key uuid.UUID) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.intents[key]
	return userID, ok, nil
}

// Delete removes the intent; absent keys are a no-op.
func (s *UserIDIntentStore) Delete(ctx context.Context, key uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.intents, key)
	return nil
}

// RegistrationIntentStore is an in-memory registration intent store with the
// same non-expiring, test-grade semantics.
type RegistrationIntentStore struct {
	mu      sync.Mutex
	intents map[uuid.UUID]domain.RegistrationIntent
}

// NewRegistrationIntentStore returns an empty in-memory registration store.
func NewRegistrationIntentStore() *RegistrationIntentStore {
	return &RegistrationIntentStore{intents: make(map[uuid.UUID]domain.RegistrationIntent)}
}

// Store saves the pending registration under a fresh random key.
func (s *RegistrationIntentStore) Store(ctx context.Context, intent domain.RegistrationIntent) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := uuid.New()
	intent.Metadata = intent.Metadata.Clone()
	s.intents[key] = intent
	return key, nil
}

// Get returns the pending registration stored under key, or ok=false.
func (s *RegistrationIntentStore) Get(ctx context.Context, key uuid.UUID) (*domain.RegistrationIntent, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, ok := s.intents[key]
	if !ok {
		return nil, false, nil
	}
	intent.Metadata = intent.Metadata.Clone()
	return &intent, true, nil
}

// Delete removes the intent; absent keys are a no-op.
func (s *RegistrationIntentStore) Delete(ctx context.Context, key uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.intents, key)
	return nil
}
