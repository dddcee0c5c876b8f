// Package cryptox provides the one-way password digests stored in the
// credential record.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/dmitrijs2005/authgate/internal/common"
)

// Hasher turns a plaintext secret into a fixed-length digest. Implementations
// must be deterministic: the same secret always yields the same digest, since
// sign-in compares digests instead of reversing them.
type Hasher interface {
	Digest(secret string) string
}

const (
	HasherSHA256   = "sha256"
	HasherArgon2id = "argon2id"
)

// SHA256Hasher produces lower-case hex SHA-256 digests (64 characters).
type SHA256Hasher struct{}

func (SHA256Hasher) Digest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Argon2Hasher derives a 32-byte Argon2id key with an application-wide salt.
// The salt is fixed so that digests stay comparable across runs.
type Argon2Hasher struct {
	salt []byte
}

func NewArgon2Hasher(salt []byte) *Argon2Hasher {
	return &Argon2Hasher{salt: append([]byte(nil), salt...)}
}

func (h *Argon2Hasher) Digest(secret string) string {
	return hex.EncodeToString(DeriveKey([]byte(secret), h.salt))
}

// DeriveKey runs Argon2id with the cost parameters used for stored digests.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// NewHasher returns the hasher registered under name. An empty name selects
// SHA-256.
func NewHasher(name string, salt string) (Hasher, error) {
	switch name {
	case "", HasherSHA256:
		return SHA256Hasher{}, nil
	case HasherArgon2id:
		if salt == "" {
			return nil, fmt.Errorf("%w: %s requires a salt", common.ErrUnknownHasher, name)
		}
		return NewArgon2Hasher([]byte(salt)), nil
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownHasher, name)
	}
}

// Equal compares two digests in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
