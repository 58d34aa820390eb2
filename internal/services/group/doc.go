// Package group owns the per-scope keypair and its distribution: every
// authorized member holds an envelope of the group private key sealed to
// their identity public key. The server only ever stores sealed blobs.
//
// Membership revocation does not rotate the group key: a removed member who
// already recovered the key keeps read access to history. This mirrors the
// product's security model and is a documented limitation, not an accident.
package group
