// Package crypto wraps the primitives the messaging core is built on:
// NaCl box (Curve25519 + XSalsa20-Poly1305) for authenticated public-key
// encryption, Argon2id for password stretching, and XChaCha20-Poly1305 for
// wrapping private keys at rest.
//
// Failure classes map onto the shared taxonomy in internal/domain:
// malformed keys are domain.ErrBadKeyMaterial, failed authentication on a
// box is domain.ErrDecryptFailed, and failed authentication on a password
// wrap is domain.ErrInvalidPassword.
package crypto
