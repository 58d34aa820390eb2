// Package session provides the per-session cache of unlocked private keys.
// It is the only place a raw private key is allowed to live, and only in
// memory for the lifetime of the session.
package session
