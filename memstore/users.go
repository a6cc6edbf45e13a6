package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/authkit/domain"
)

type userRecord struct {
	user    domain.User
	deleted bool
}

// UserStore is a mutex-guarded in-memory credential store satisfying the
// unified repository port (reader and writer at once). Deletion is soft:
// a deleted user's identifier immediately becomes available again, and the
// deleted row never resurfaces through the reader.
type UserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*userRecord
}

// NewUserStore returns an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]*userRecord)}
}

func cloneUser(u domain.User) *domain.User {
	out := u
	out.Metadata = u.Metadata.Clone()
	if u.LastLogin != nil {
		ts := *u.LastLogin
		out.LastLogin = &ts
	}
	return &out
}

// FindByIdentifier returns the non-deleted user with the given identifier.
func (s *UserStore) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.users {
		if !rec.deleted && rec.user.Identifier == identifier {
			return cloneUser(rec.user), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// FindByID returns the non-deleted user with the given id.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[id]
	if !ok || rec.deleted {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(rec.user), nil
}

// Create persists the user. Uniqueness is enforced among non-deleted users
// only; this check under the store lock is the authority for concurrent
// registrations racing on one identifier.
func (s *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.users {
		if !rec.deleted && rec.user.Identifier == user.Identifier {
			return nil, domain.ErrConflict
		}
	}

	stored := *cloneUser(*user)
	s.users[stored.ID] = &userRecord{user: stored}
	return cloneUser(stored), nil
}

// TouchLastLogin stamps the user's last login with the current time.
func (s *UserStore) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok || rec.deleted {
		return domain.ErrUserNotFound
	}
	now := time.Now()
	rec.user.LastLogin = &now
	return nil
}

// Delete soft-deletes the user, freeing the identifier for reuse.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	rec.deleted = true
	return nil
}

// BumpCredentialsVersion increments the user's credential epoch.
func (s *UserStore) BumpCredentialsVersion(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok || rec.deleted {
		return domain.ErrUserNotFound
	}
	rec.user.CredentialsVersion++
	return nil
}

// SetPasswordHash replaces the user's password hash.
func (s *UserStore) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok || rec.deleted {
		return domain.ErrUserNotFound
	}
	rec.user.PasswordHash = hash
	return nil
}
