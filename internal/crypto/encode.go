package crypto

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"

	"sealbox/internal/domain"
)

// Fingerprint returns a short base58 digest of a public key for display.
func Fingerprint(pub domain.PublicKey) string {
	sum := sha256.Sum256(pub.Slice())
	return base58.Encode(sum[:10])
}

// ArmorKey encodes a public key as base58 for transport in text contexts.
func ArmorKey(pub domain.PublicKey) string {
	return base58.Encode(pub.Slice())
}

// DearmorKey decodes a base58 public key produced by ArmorKey.
func DearmorKey(s string) (domain.PublicKey, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return domain.PublicKey{}, err
	}
	if len(b) != 32 {
		return domain.PublicKey{}, domain.ErrBadKeyMaterial
	}
	return domain.MustPublicKey(b), nil
}
