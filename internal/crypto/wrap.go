package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"sealbox/internal/domain"
)

// Wrap encrypts a raw private key under a password-derived symmetric key.
// The returned blob is nonce||ciphertext and is safe to persist server-side.
func Wrap(priv domain.PrivateKey, symmetricKey []byte) ([]byte, error) {
	if priv.IsZero() {
		return nil, fmt.Errorf("wrap: %w", domain.ErrBadKeyMaterial)
	}
	aead, err := chacha20poly1305.NewX(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("wrap: %w", domain.ErrBadKeyMaterial)
	}
	blob := make([]byte, chacha20poly1305.NonceSizeX, chacha20poly1305.NonceSizeX+len(priv)+aead.Overhead())
	if _, err := rand.Read(blob); err != nil {
		return nil, err
	}
	return aead.Seal(blob, blob, priv.Slice(), nil), nil
}

// Unwrap recovers a raw private key from a Wrap blob. A failed
// authentication check means the password was wrong (or the blob was
// altered) and yields domain.ErrInvalidPassword, never a plausible-looking
// wrong key.
func Unwrap(blob, symmetricKey []byte) (domain.PrivateKey, error) {
	aead, err := chacha20poly1305.NewX(symmetricKey)
	if err != nil {
		return domain.PrivateKey{}, fmt.Errorf("unwrap: %w", domain.ErrBadKeyMaterial)
	}
	if len(blob) < chacha20poly1305.NonceSizeX {
		return domain.PrivateKey{}, domain.ErrInvalidPassword
	}
	nonce, cipher := blob[:chacha20poly1305.NonceSizeX], blob[chacha20poly1305.NonceSizeX:]
	raw, err := aead.Open(nil, nonce, cipher, nil)
	if err != nil {
		return domain.PrivateKey{}, domain.ErrInvalidPassword
	}
	if len(raw) != 32 {
		return domain.PrivateKey{}, domain.ErrInvalidPassword
	}
	return domain.MustPrivateKey(raw), nil
}
