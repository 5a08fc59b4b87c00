package password

import "golang.org/x/crypto/bcrypt"

// Hasher derives and checks one-way password digests. Digests are opaque;
// callers must never log or persist the plaintext.
type Hasher interface {
	Hash(plaintext string) ([]byte, error)
	Compare(digest []byte, plaintext string) bool
}

// Bcrypt is the production Hasher, using a fixed cost factor.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher at the library default cost.
func NewBcrypt() Bcrypt {
	return Bcrypt{cost: bcrypt.DefaultCost}
}

func (b Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
}

func (b Bcrypt) Compare(digest []byte, plaintext string) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(plaintext)) == nil
}
