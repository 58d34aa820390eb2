package domain

import "fmt"

// PublicKey is a Curve25519 public key used as a box encryption target.
type PublicKey [32]byte

// Slice returns the key as a []byte.
func (p PublicKey) Slice() []byte { return p[:] }

// IsZero reports whether the key is all zeroes (never a valid key).
func (p PublicKey) IsZero() bool { return p == PublicKey{} }

// PrivateKey is a Curve25519 private key. Raw private keys live only in
// volatile memory; at rest they exist solely in password-wrapped form.
type PrivateKey [32]byte

// Slice returns the key as a []byte.
func (k PrivateKey) Slice() []byte { return k[:] }

// IsZero reports whether the key is all zeroes (never a valid key).
func (k PrivateKey) IsZero() bool { return k == PrivateKey{} }

func MustPublicKey(b []byte) PublicKey {
	if len(b) != 32 {
		panic(fmt.Errorf("public key: want 32 bytes, got %d", len(b)))
	}
	var out PublicKey
	copy(out[:], b)
	return out
}

func MustPrivateKey(b []byte) PrivateKey {
	if len(b) != 32 {
		panic(fmt.Errorf("private key: want 32 bytes, got %d", len(b)))
	}
	var out PrivateKey
	copy(out[:], b)
	return out
}
