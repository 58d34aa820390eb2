package domain

import "context"

// DirectoryStore persists account records: public keys in the clear,
// private keys only in wrapped form.
type DirectoryStore interface {
	SaveUser(ctx context.Context, rec UserRecord) error
	GetUser(ctx context.Context, userID string) (UserRecord, error)
}

// GroupStore persists group records and per-member key envelopes. It only
// ever sees opaque sealed blobs.
type GroupStore interface {
	SaveGroup(ctx context.Context, rec GroupRecord) error
	GetGroup(ctx context.Context, groupID string) (GroupRecord, error)
	SaveEnvelope(ctx context.Context, env MemberEnvelope) error
	GetEnvelope(ctx context.Context, groupID, memberID string) (MemberEnvelope, error)
	ListEnvelopes(ctx context.Context, groupID string) ([]MemberEnvelope, error)
}

// MessageStore persists ciphertext envelopes. It must never be asked to
// inspect or index plaintext. Listing is ordered by creation time with an
// opaque cursor, since groups accumulate unbounded history.
type MessageStore interface {
	PutMessage(ctx context.Context, rec MessageRecord) error
	GetMessage(ctx context.Context, messageID string) (MessageRecord, error)
	UpdateMessage(ctx context.Context, rec MessageRecord) error
	DeleteMessage(ctx context.Context, messageID string) error
	ListByGroup(ctx context.Context, groupID, cursor string, limit int) ([]MessageRecord, string, error)
}
