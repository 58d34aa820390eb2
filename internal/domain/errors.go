package domain

import "errors"

// Error taxonomy shared by the crypto primitives and every service above
// them. Callers classify with errors.Is.
var (
	// ErrInvalidPassword means a password-derived key failed to unwrap a
	// private key. User-facing and retryable; deliberately distinct from
	// ErrDecryptFailed so the UI can say "mot de passe incorrect".
	ErrInvalidPassword = errors.New("invalid password")

	// ErrDecryptFailed means a ciphertext did not authenticate: corrupted
	// bytes, mismatched keys, or a tampered envelope. Recoverable per item;
	// never aborts a batch.
	ErrDecryptFailed = errors.New("decryption failed")

	// ErrKeyUnavailable means a decrypt was attempted before the required
	// private key was unlocked or recovered. Rendered as a "locked" state,
	// not a failure.
	ErrKeyUnavailable = errors.New("key unavailable")

	// ErrBadKeyMaterial means malformed key material reached a primitive.
	// This is a programming or integration error and fails the operation
	// loudly.
	ErrBadKeyMaterial = errors.New("bad key material")

	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("record not found")
)
