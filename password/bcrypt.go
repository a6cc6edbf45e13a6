package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt is an alternative hasher for hosts migrating from bcrypt-based
// stores. Cost follows the bcrypt package bounds.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher with the given cost; zero selects the
// library default.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("password: bcrypt cost out of range")
	}
	return &Bcrypt{cost: cost}, nil
}

// Hash derives a bcrypt hash with a fresh salt.
func (b *Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches the encoded hash. A mismatch is
// (false, nil); only malformed hashes produce an error.
func (b *Bcrypt) Verify(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
