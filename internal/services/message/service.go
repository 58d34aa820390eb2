package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sealbox/internal/crypto"
	"sealbox/internal/domain"
	"sealbox/internal/platform/metrics"
	"sealbox/internal/session"
)

// Display sentinels substituted for plaintext when decryption is not
// possible. Locked means "present but inaccessible until unlock", failed
// means the ciphertext did not authenticate. They are deliberately
// different strings.
const (
	SentinelLocked        = "[Chiffré]"
	SentinelDecryptFailed = "[Erreur de déchiffrement]"
)

// EditWindow bounds how long after creation the original sender may
// re-encrypt a new body under the same message id.
const EditWindow = 5 * time.Minute

var (
	// ErrNotSender rejects edit/delete by anyone but the original sender.
	ErrNotSender = errors.New("only the original sender may do this")

	// ErrEditWindowElapsed rejects edits after EditWindow has passed.
	ErrEditWindowElapsed = errors.New("edit window has elapsed")
)

// Draft is one outgoing attachment before encryption.
type Draft struct {
	Filename string
	Kind     domain.Kind
	Data     []byte
}

// Service encrypts outgoing messages to a group key and decrypts history
// for display.
type Service struct {
	dir    domain.DirectoryStore
	groups domain.GroupStore
	msgs   domain.MessageStore
	log    *slog.Logger
	now    func() time.Time
}

// New returns a message service over the given stores.
func New(dir domain.DirectoryStore, groups domain.GroupStore, msgs domain.MessageStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{dir: dir, groups: groups, msgs: msgs, log: log, now: time.Now}
}

// Send seals body and each attachment independently from the sender's
// identity key to the group public key and persists the envelope. An empty
// body is valid: an attachment-only message still produces an envelope.
func (s *Service) Send(ctx context.Context, sess *session.Cache, groupID, body string, attachments []Draft) (domain.MessageRecord, error) {
	senderPriv, err := sess.IdentityKey()
	if err != nil {
		return domain.MessageRecord{}, err
	}
	grp, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return domain.MessageRecord{}, err
	}

	nonce, cipher, err := crypto.Seal([]byte(body), senderPriv, grp.PublicKey)
	if err != nil {
		return domain.MessageRecord{}, err
	}

	recs := make([]domain.AttachmentRecord, 0, len(attachments))
	for _, att := range attachments {
		an, ac, err := crypto.Seal(att.Data, senderPriv, grp.PublicKey)
		if err != nil {
			return domain.MessageRecord{}, fmt.Errorf("seal attachment %q: %w", att.Filename, err)
		}
		recs = append(recs, domain.AttachmentRecord{
			Filename: att.Filename,
			Kind:     att.Kind,
			Nonce:    an[:],
			Cipher:   ac,
		})
	}

	now := s.now().UTC()
	rec := domain.MessageRecord{
		MessageID:   uuid.NewString(),
		GroupID:     groupID,
		SenderID:    sess.UserID(),
		Nonce:       nonce[:],
		Cipher:      cipher,
		CreatedAt:   now,
		UpdatedAt:   now,
		Attachments: recs,
	}
	if err := s.msgs.PutMessage(ctx, rec); err != nil {
		return domain.MessageRecord{}, err
	}
	metrics.MessagesSealed.Inc()
	return rec, nil
}

// Read lists one page of a group's history and decrypts what it can.
// Failures never abort the batch: each message degrades independently to a
// sentinel, and a corrupted attachment leaves its siblings and the body
// intact.
func (s *Service) Read(ctx context.Context, sess *session.Cache, groupID, cursor string, limit int) ([]domain.Message, string, error) {
	recs, next, err := s.msgs.ListByGroup(ctx, groupID, cursor, limit)
	if err != nil {
		return nil, "", err
	}

	groupPriv, keyErr := sess.GroupKey(groupID)
	locked := keyErr != nil

	senders := make(map[string]domain.PublicKey)
	out := make([]domain.Message, 0, len(recs))
	for _, rec := range recs {
		msg := domain.Message{
			MessageID: rec.MessageID,
			GroupID:   rec.GroupID,
			SenderID:  rec.SenderID,
			Edited:    rec.Edited,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		}
		if locked {
			msg.Locked = true
			msg.Body = SentinelLocked
			for _, att := range rec.Attachments {
				msg.Attachments = append(msg.Attachments, domain.Attachment{
					Filename:   att.Filename,
					Kind:       att.Kind,
					Unreadable: true,
				})
			}
			out = append(out, msg)
			continue
		}

		senderPub, ok := senders[rec.SenderID]
		if !ok {
			sender, err := s.dir.GetUser(ctx, rec.SenderID)
			if err != nil {
				// Sender gone from the directory: the signature half of the
				// box cannot be checked, so the item renders as unreadable.
				s.log.Warn("sender not in directory", "message_id", rec.MessageID, "sender_id", rec.SenderID)
				msg.Unreadable = true
				msg.Body = SentinelDecryptFailed
				out = append(out, msg)
				continue
			}
			senderPub = sender.PublicKey
			senders[rec.SenderID] = senderPub
		}

		msg.Body, msg.Unreadable = s.openBody(rec, groupPriv, senderPub)
		msg.Attachments = s.openAttachments(rec, groupPriv, senderPub)
		out = append(out, msg)
	}
	return out, next, nil
}

func (s *Service) openBody(rec domain.MessageRecord, groupPriv domain.PrivateKey, senderPub domain.PublicKey) (string, bool) {
	var nonce [crypto.NonceSize]byte
	if len(rec.Nonce) != crypto.NonceSize {
		metrics.DecryptFailures.WithLabelValues("message").Inc()
		return SentinelDecryptFailed, true
	}
	copy(nonce[:], rec.Nonce)
	plain, err := crypto.Open(nonce, rec.Cipher, groupPriv, senderPub)
	if err != nil {
		metrics.DecryptFailures.WithLabelValues("message").Inc()
		s.log.Warn("message failed to decrypt", "message_id", rec.MessageID)
		return SentinelDecryptFailed, true
	}
	return string(plain), false
}

func (s *Service) openAttachments(rec domain.MessageRecord, groupPriv domain.PrivateKey, senderPub domain.PublicKey) []domain.Attachment {
	if len(rec.Attachments) == 0 {
		return nil
	}
	out := make([]domain.Attachment, 0, len(rec.Attachments))
	for _, att := range rec.Attachments {
		decoded := domain.Attachment{Filename: att.Filename, Kind: att.Kind}
		var nonce [crypto.NonceSize]byte
		if len(att.Nonce) == crypto.NonceSize {
			copy(nonce[:], att.Nonce)
			if data, err := crypto.Open(nonce, att.Cipher, groupPriv, senderPub); err == nil {
				decoded.Data = data
				out = append(out, decoded)
				continue
			}
		}
		metrics.DecryptFailures.WithLabelValues("attachment").Inc()
		s.log.Warn("attachment failed to decrypt", "message_id", rec.MessageID, "filename", att.Filename)
		decoded.Unreadable = true
		out = append(out, decoded)
	}
	return out
}

// Edit re-encrypts a new body under the same message id. Only the original
// sender may edit, and only within EditWindow of creation. Attachments are
// untouched.
func (s *Service) Edit(ctx context.Context, sess *session.Cache, messageID, newBody string) error {
	senderPriv, err := sess.IdentityKey()
	if err != nil {
		return err
	}
	rec, err := s.msgs.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if rec.SenderID != sess.UserID() {
		return ErrNotSender
	}
	if s.now().Sub(rec.CreatedAt) > EditWindow {
		return ErrEditWindowElapsed
	}
	grp, err := s.groups.GetGroup(ctx, rec.GroupID)
	if err != nil {
		return err
	}
	nonce, cipher, err := crypto.Seal([]byte(newBody), senderPriv, grp.PublicKey)
	if err != nil {
		return err
	}
	rec.Nonce = nonce[:]
	rec.Cipher = cipher
	rec.Edited = true
	rec.UpdatedAt = s.now().UTC()
	return s.msgs.UpdateMessage(ctx, rec)
}

// Delete hard-deletes a message. Sender only; no time bound.
func (s *Service) Delete(ctx context.Context, sess *session.Cache, messageID string) error {
	rec, err := s.msgs.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if rec.SenderID != sess.UserID() {
		return ErrNotSender
	}
	return s.msgs.DeleteMessage(ctx, messageID)
}
