// Package store is the file-backed storage adapter. It persists only the
// opaque records defined in internal/domain: ciphertext envelopes and
// wrapped key blobs. Nothing in this package can read plaintext or a raw
// private key.
package store
