// Package identity owns the long-term account keypair: registration wraps
// the private key under a password-derived key, unlock re-derives and
// unwraps it into the session cache, and the recovery phrase flow re-wraps
// the same keypair under a new password.
package identity
