// Package password provides the credential hashing contract: a salted,
// slow one-way hash for storage and constant-time verification against it.
package password

import "golang.org/x/crypto/bcrypt"

// Hasher hashes and verifies plaintext passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Costs outside the
// valid range fall back to bcrypt.DefaultCost.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{cost: cost}
}

// Hash produces a storable hash of pw. The salt is random, so two calls with
// the same input yield different hashes.
func (h Hasher) Hash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether pw matches the stored hash. A malformed hash is
// treated as a mismatch, never an error.
func (h Hasher) Verify(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
