package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher hashes and verifies staff passwords at a configured bcrypt
// cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher builds a hasher; a cost outside bcrypt's valid range
// falls back to the library default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of a plaintext password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare verifies a password against its stored hash.
func (h *PasswordHasher) Compare(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
