package group

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
	"sealbox/internal/util/memzero"
)

// Service creates groups and moves the group private key between members
// as sealed envelopes.
type Service struct {
	dir    domain.DirectoryStore
	groups domain.GroupStore
	log    *slog.Logger
	now    func() time.Time
}

// New returns a group service over the given stores.
func New(dir domain.DirectoryStore, groups domain.GroupStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{dir: dir, groups: groups, log: log, now: time.Now}
}

// Create generates a fresh group keypair, persists the public record, seals
// the creator's own envelope, and caches the raw group key in the creator's
// session. The creator can read and grant immediately.
func (s *Service) Create(ctx context.Context, sess *session.Cache) (domain.GroupRecord, error) {
	creatorID := sess.UserID()
	creator, err := s.dir.GetUser(ctx, creatorID)
	if err != nil {
		return domain.GroupRecord{}, err
	}

	pub, priv, err := crypto.GenerateKeypair()
	if err != nil {
		return domain.GroupRecord{}, err
	}
	defer memzero.Zero(priv[:])

	rec := domain.GroupRecord{
		GroupID:   uuid.NewString(),
		PublicKey: pub,
		CreatorID: creatorID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.groups.SaveGroup(ctx, rec); err != nil {
		return domain.GroupRecord{}, err
	}

	// The creator's envelope is materialized directly: the raw key is in
	// hand here and nowhere else.
	sealed, err := crypto.SealAnonymous(priv.Slice(), creator.PublicKey)
	if err != nil {
		return domain.GroupRecord{}, err
	}
	env := domain.MemberEnvelope{
		GroupID:        rec.GroupID,
		MemberID:       creatorID,
		SealedGroupKey: sealed,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.groups.SaveEnvelope(ctx, env); err != nil {
		return domain.GroupRecord{}, err
	}
	if err := sess.PutGroupKey(rec.GroupID, priv); err != nil {
		return domain.GroupRecord{}, err
	}
	s.log.Info("group created", "group_id", rec.GroupID)
	return rec, nil
}

// Grant seals the group private key to a new member's identity public key.
// The granter's session must already hold the group key. Called once per
// member added to the group.
func (s *Service) Grant(ctx context.Context, sess *session.Cache, groupID, memberID string) (domain.MemberEnvelope, error) {
	groupPriv, err := sess.GroupKey(groupID)
	if err != nil {
		return domain.MemberEnvelope{}, fmt.Errorf("grant requires the group key unlocked: %w", err)
	}
	member, err := s.dir.GetUser(ctx, memberID)
	if err != nil {
		return domain.MemberEnvelope{}, err
	}
	sealed, err := crypto.SealAnonymous(groupPriv.Slice(), member.PublicKey)
	if err != nil {
		return domain.MemberEnvelope{}, err
	}
	env := domain.MemberEnvelope{
		GroupID:        groupID,
		MemberID:       memberID,
		SealedGroupKey: sealed,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.groups.SaveEnvelope(ctx, env); err != nil {
		return domain.MemberEnvelope{}, err
	}
	s.log.Info("group access granted", "group_id", groupID, "member_id", memberID)
	return env, nil
}

// Recover opens the session owner's envelope with their unlocked identity
// key and caches the group private key in the session. Without an envelope
// (or before unlock) the group stays in a visible locked state.
func (s *Service) Recover(ctx context.Context, sess *session.Cache, groupID string) error {
	identityPriv, err := sess.IdentityKey()
	if err != nil {
		return err
	}
	me, err := s.dir.GetUser(ctx, sess.UserID())
	if err != nil {
		return err
	}
	env, err := s.groups.GetEnvelope(ctx, groupID, sess.UserID())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no envelope for %q in group %q: %w", sess.UserID(), groupID, domain.ErrKeyUnavailable)
		}
		return err
	}
	raw, err := crypto.OpenAnonymous(env.SealedGroupKey, me.PublicKey, identityPriv)
	if err != nil {
		metrics.DecryptFailures.WithLabelValues("envelope").Inc()
		s.log.Warn("group envelope failed to open", "group_id", groupID, "member_id", sess.UserID())
		return err
	}
	defer memzero.Zero(raw)
	if len(raw) != 32 {
		return domain.ErrDecryptFailed
	}
	return sess.PutGroupKey(groupID, domain.MustPrivateKey(raw))
}
