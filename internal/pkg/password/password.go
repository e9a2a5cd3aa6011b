package password

import (
	"sync"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	MinLength = 8
	MaxLength = 20
)

// Hasher hashes and verifies passwords with bcrypt at a fixed cost
type Hasher struct {
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewHasher creates a hasher; out-of-range costs fall back to DefaultCost
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Cost returns the work factor used for new hashes
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash hashes a password using bcrypt
func (h *Hasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a hash.
// bcrypt compares the derived keys in constant time.
func (h *Hasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// VerifyDummy burns the same amount of work as Verify against a throwaway hash.
// Used when there is no stored hash so the caller's latency does not depend on it.
func (h *Hasher) VerifyDummy(password string) {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("coursehub-dummy-secret"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
}

// ValidatePassword checks if password meets requirements:
// 8-20 characters with at least one upper-case letter, one lower-case letter and one digit
func ValidatePassword(password string) bool {
	n := len([]rune(password))
	if n < MinLength || n > MaxLength {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}
