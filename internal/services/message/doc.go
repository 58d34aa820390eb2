// Package message is the codec between plaintext bodies/attachments and
// the ciphertext envelopes the store persists. Decrypt failures degrade to
// display sentinels per item; a locked group and a corrupted envelope are
// distinct states and must stay distinguishable to the end user.
package message
