package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"sealbox/internal/domain"
)

const (
	kdfAlgorithm = "argon2id"
	saltSize     = 16
)

// DefaultKDFParams returns the current Argon2id cost parameters with a
// fresh random salt. The parameters are persisted with the wrapped blob,
// so tuning them here never breaks existing accounts.
func DefaultKDFParams() (domain.KDFParams, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return domain.KDFParams{}, err
	}
	return domain.KDFParams{
		Algorithm: kdfAlgorithm,
		Time:      2,
		MemoryKB:  64 * 1024,
		Threads:   1,
		Salt:      salt,
	}, nil
}

// DeriveKey stretches a password into a 32-byte wrapping key. Deterministic
// for identical inputs and deliberately expensive to brute-force.
func DeriveKey(password string, p domain.KDFParams) ([]byte, error) {
	if p.Algorithm != kdfAlgorithm {
		return nil, fmt.Errorf("derive key: unsupported kdf %q: %w", p.Algorithm, domain.ErrBadKeyMaterial)
	}
	if len(p.Salt) != saltSize || p.Time == 0 || p.MemoryKB == 0 || p.Threads == 0 {
		return nil, fmt.Errorf("derive key: invalid kdf parameters: %w", domain.ErrBadKeyMaterial)
	}
	return argon2.IDKey([]byte(password), p.Salt, p.Time, p.MemoryKB, p.Threads, chacha20poly1305.KeySize), nil
}
