package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"

	"sealbox/internal/domain"
)

// NonceSize is the box nonce length in bytes.
const NonceSize = 24

// GenerateKeypair returns a fresh Curve25519 keypair for authenticated
// public-key encryption. Pure generation; the caller persists the outputs.
func GenerateKeypair() (domain.PublicKey, domain.PrivateKey, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return domain.PublicKey{}, domain.PrivateKey{}, err
	}
	return domain.PublicKey(*pub), domain.PrivateKey(*priv), nil
}

// Seal authenticated-encrypts plaintext from the sender to the recipient.
// Only the holder of the recipient's private key can open the result, and
// opening verifies it came from the sender's keypair.
func Seal(plaintext []byte, senderPriv domain.PrivateKey, recipientPub domain.PublicKey) (nonce [NonceSize]byte, cipher []byte, err error) {
	if senderPriv.IsZero() || recipientPub.IsZero() {
		return nonce, nil, fmt.Errorf("seal: %w", domain.ErrBadKeyMaterial)
	}
	if _, err = rand.Read(nonce[:]); err != nil {
		return nonce, nil, err
	}
	priv := [32]byte(senderPriv)
	pub := [32]byte(recipientPub)
	cipher = box.Seal(nil, plaintext, &nonce, &pub, &priv)
	return nonce, cipher, nil
}

// Open is the inverse of Seal. A failed authentication tag yields
// domain.ErrDecryptFailed; callers treat it as a recoverable, per-item
// failure.
func Open(nonce [NonceSize]byte, cipher []byte, recipientPriv domain.PrivateKey, senderPub domain.PublicKey) ([]byte, error) {
	if recipientPriv.IsZero() || senderPub.IsZero() {
		return nil, fmt.Errorf("open: %w", domain.ErrBadKeyMaterial)
	}
	priv := [32]byte(recipientPriv)
	pub := [32]byte(senderPub)
	plain, ok := box.Open(nil, cipher, &nonce, &pub, &priv)
	if !ok {
		return nil, domain.ErrDecryptFailed
	}
	return plain, nil
}

// SealAnonymous encrypts plaintext so only the recipient can read it,
// without tying the blob to a sender keypair. A transient keypair is folded
// into the ciphertext. Used for group-key envelopes.
func SealAnonymous(plaintext []byte, recipientPub domain.PublicKey) ([]byte, error) {
	if recipientPub.IsZero() {
		return nil, fmt.Errorf("seal anonymous: %w", domain.ErrBadKeyMaterial)
	}
	pub := [32]byte(recipientPub)
	return box.SealAnonymous(nil, plaintext, &pub, rand.Reader)
}

// OpenAnonymous decrypts a SealAnonymous blob with the recipient keypair.
func OpenAnonymous(cipher []byte, recipientPub domain.PublicKey, recipientPriv domain.PrivateKey) ([]byte, error) {
	if recipientPriv.IsZero() || recipientPub.IsZero() {
		return nil, fmt.Errorf("open anonymous: %w", domain.ErrBadKeyMaterial)
	}
	priv := [32]byte(recipientPriv)
	pub := [32]byte(recipientPub)
	plain, ok := box.OpenAnonymous(nil, cipher, &pub, &priv)
	if !ok {
		return nil, domain.ErrDecryptFailed
	}
	return plain, nil
}

// DerivePublicKey recomputes the public half of a Curve25519 keypair.
// Needed when a private key is restored from a recovery phrase.
func DerivePublicKey(priv domain.PrivateKey) (domain.PublicKey, error) {
	if priv.IsZero() {
		return domain.PublicKey{}, fmt.Errorf("derive public key: %w", domain.ErrBadKeyMaterial)
	}
	p := [32]byte(priv)
	pb, err := curve25519.X25519(p[:], curve25519.Basepoint)
	if err != nil {
		return domain.PublicKey{}, fmt.Errorf("derive public key: %w", err)
	}
	return domain.MustPublicKey(pb), nil
}
