package domain

import "time"

// KDFParams records how a password was stretched into a wrapping key.
// The parameters are persisted next to the wrapped blob so unlocking
// keeps working after defaults change.
type KDFParams struct {
	Algorithm string `json:"algorithm"`
	Time      uint32 `json:"time"`
	MemoryKB  uint32 `json:"memory_kb"`
	Threads   uint8  `json:"threads"`
	Salt      []byte `json:"salt"`
}

// UserRecord is the directory entry for one account. The public key is
// plaintext-safe; the private key appears only wrapped under the
// password-derived key described by KDF.
type UserRecord struct {
	UserID            string    `json:"user_id"`
	PublicKey         PublicKey `json:"public_key"`
	WrappedPrivateKey []byte    `json:"wrapped_private_key"`
	KDF               KDFParams `json:"kdf"`
	CreatedAt         time.Time `json:"created_at"`
}

// GroupRecord identifies one messaging scope. Exactly one active keypair
// per scope; the private half is never persisted in the clear.
type GroupRecord struct {
	GroupID   string    `json:"group_id"`
	PublicKey PublicKey `json:"public_key"`
	CreatorID string    `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberEnvelope carries the group private key sealed so only the member's
// identity private key can recover it. One per (group, member) pair.
type MemberEnvelope struct {
	GroupID        string    `json:"group_id"`
	MemberID       string    `json:"member_id"`
	SealedGroupKey []byte    `json:"sealed_group_key"`
	CreatedAt      time.Time `json:"created_at"`
}

// AttachmentRecord is one independently encrypted file payload stored
// alongside its message.
type AttachmentRecord struct {
	Filename string `json:"filename"`
	Kind     Kind   `json:"kind"`
	Nonce    []byte `json:"nonce"`
	Cipher   []byte `json:"cipher"`
}

// MessageRecord is the persisted ciphertext envelope for one message.
// Content is immutable except through an explicit sender edit, which
// re-encrypts a new body under the same id.
type MessageRecord struct {
	MessageID   string             `json:"message_id"`
	GroupID     string             `json:"group_id"`
	SenderID    string             `json:"sender_id"`
	Nonce       []byte             `json:"nonce"`
	Cipher      []byte             `json:"cipher"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Edited      bool               `json:"edited"`
	Attachments []AttachmentRecord `json:"attachments,omitempty"`
}

// Attachment is the decrypted view of one attachment. Unreadable marks a
// payload whose ciphertext failed to authenticate; siblings are unaffected.
type Attachment struct {
	Filename   string
	Kind       Kind
	Data       []byte
	Unreadable bool
}

// Message is the decrypted view returned to callers. When the group key is
// not available, or the body fails to decrypt, Body holds a display
// sentinel instead of plaintext and the corresponding flag is set.
type Message struct {
	MessageID   string
	GroupID     string
	SenderID    string
	Body        string
	Locked      bool
	Unreadable  bool
	Edited      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Attachments []Attachment
}
