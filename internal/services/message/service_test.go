package message

import (
	"context"
	"errors"
	"testing"
	"time"

	"sealbox/internal/crypto"
	"sealbox/internal/domain"
	groupsvc "sealbox/internal/services/group"
	"sealbox/internal/session"
	"sealbox/internal/store"
)

type fixture struct {
	svc    *Service
	groups *groupsvc.Service
	dir    *store.Directory
	msgs   *store.Messages
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	home := t.TempDir()
	dir := store.NewDirectory(home)
	groups := store.NewGroups(home)
	msgs := store.NewMessages(home)
	return &fixture{
		svc:    New(dir, groups, msgs, nil),
		groups: groupsvc.New(dir, groups, nil),
		dir:    dir,
		msgs:   msgs,
	}
}

func (f *fixture) member(t *testing.T, userID string) *session.Cache {
	t.Helper()
	pub, priv, err := crypto.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	err = f.dir.SaveUser(context.Background(), domain.UserRecord{UserID: userID, PublicKey: pub})
	if err != nil {
		t.Fatalf("SaveUser(%s): %v", userID, err)
	}
	sess := session.New(userID)
	if err := sess.SetIdentityKey(priv); err != nil {
		t.Fatalf("SetIdentityKey: %v", err)
	}
	t.Cleanup(sess.Close)
	return sess
}

func TestSendRead_Bonjour(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.member(t, "alice")
	bob := f.member(t, "bob")

	grp, err := f.groups.Create(ctx, alice)
	if err != nil {
		t.Fatalf("Create group: %v", err)
	}
	if _, err := f.groups.Grant(ctx, alice, grp.GroupID, "bob"); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	if _, err := f.svc.Send(ctx, alice, grp.GroupID, "Bonjour", nil); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if err := f.groups.Recover(ctx, bob, grp.GroupID); err != nil {
		t.Fatalf("Recover: %v", err)
	}
	msgs, _, err := f.svc.Read(ctx, bob, grp.GroupID, "", 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("want 1 message, got %d", len(msgs))
	}
	m := msgs[0]
	if m.Body != "Bonjour" || m.Locked || m.Unreadable {
		t.Fatalf("unexpected message: %+v", m)
	}
	if m.SenderID != "alice" {
		t.Fatalf("want sender alice, got %q", m.SenderID)
	}
}

func TestRead_LockedSentinel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.member(t, "alice")
	bob := f.member(t, "bob")

	grp, err := f.groups.Create(ctx, alice)
	if err != nil {
		t.Fatalf("Create group: %v", err)
	}
	if _, err := f.svc.Send(ctx, alice, grp.GroupID, "réservé", nil); err != nil {
		t.Fatalf("Send: %v", err)
	}

	// Bob never recovered the group key: everything renders locked, and
	// distinctly from a decrypt failure.
	msgs, _, err := f.svc.Read(ctx, bob, grp.GroupID, "", 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("want 1 message, got %d", len(msgs))
	}
	m := msgs[0]
	if !m.Locked || m.Body != SentinelLocked {
		t.Fatalf("want locked sentinel, got %+v", m)
	}
	if m.Body == SentinelDecryptFailed {
		t.Fatal("locked and decrypt-failure sentinels must differ")
	}
}

func TestRead_CorruptedMessageSentinel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.member(t, "alice")
	grp, err := f.groups.Create(ctx, alice)
	if err != nil {
		t.Fatalf("Create group: %v", err)
	}
	rec, err := f.svc.Send(ctx, alice, grp.GroupID, "à corrompre", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	ok, err := f.svc.Send(ctx, alice, grp.GroupID, "intact", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	rec.Cipher[0] ^= 0x01
	if err := f.msgs.UpdateMessage(ctx, rec); err != nil {
		t.Fatalf("UpdateMessage: %v", err)
	}

	msgs, _, err := f.svc.Read(ctx, alice, grp.GroupID, "", 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("want 2 messages, got %d", len(msgs))
	}
	byID := map[string]domain.Message{}
	for _, m := range msgs {
		byID[m.MessageID] = m
	}
	if got := byID[rec.MessageID]; !got.Unreadable || got.Body != SentinelDecryptFailed {
		t.Fatalf("corrupted message: want decrypt-failure sentinel, got %+v", got)
	}
	if got := byID[ok.MessageID]; got.Unreadable || got.Body != "intact" {
		t.Fatalf("sibling message must decrypt, got %+v", got)
	}
}

func TestSend_AttachmentOnlyMessage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.member(t, "alice")
	grp, err := f.groups.Create(ctx, alice)
	if err != nil {
		t.Fatalf("Create group: %v", err)
	}

	drafts := []Draft{{Filename: "rapport.pdf", Kind: domain.KindPDF, Data: []byte("%PDF-1.4")}}
	if _, err := f.svc.Send(ctx, alice, grp.GroupID, "", drafts); err != nil {
		t.Fatalf("Send: %v", err)
	}

	msgs, _, err := f.svc.Read(ctx, alice, grp.GroupID, "", 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	m := msgs[0]
	if m.Body != "" || m.Unreadable || m.Locked {
		t.Fatalf("empty body must round-trip: %+v", m)
	}
	if len(m.Attachments) != 1 || string(m.Attachments[0].Data) != "%PDF-1.4" {
		t.Fatalf("attachment mismatch: %+v", m.Attachments)
	}
	if m.Attachments[0].Kind != domain.KindPDF {
		t.Fatalf("want pdf kind, got %v", m.Attachments[0].Kind)
	}
}

func TestRead_CorruptedAttachmentIndependence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.member(t, "alice")
	grp, err := f.groups.Create(ctx, alice)
	if err != nil {
		t.Fatalf("Create group: %v", err)
	}

	drafts := []Draft{
		{Filename: "un.png", Kind: domain.KindImage, Data: []byte("one")},
		{Filename: "deux.png", Kind: domain.KindImage, Data: []byte("two")},
		{Filename: "trois.png", Kind: domain.KindImage, Data: []byte("three")},
	}
	rec, err := f.svc.Send(ctx, alice, grp.GroupID, "corps", drafts)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	rec.Attachments[1].Cipher[0] ^= 0x01
	if err := f.msgs.UpdateMessage(ctx, rec); err != nil {
		t.Fatalf("UpdateMessage: %v", err)
	}

	msgs, _, err := f.svc.Read(ctx, alice, grp.GroupID, "", 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	m := msgs[0]
	if m.Body != "corps" {
		t.Fatalf("body must survive attachment corruption, got %q", m.Body)
	}
	if len(m.Attachments) != 3 {
		t.Fatalf("want 3 attachments, got %d", len(m.Attachments))
	}
	if string(m.Attachments[0].Data) != "one" || m.Attachments[0].Unreadable {
		t.Fatalf("first attachment must decrypt: %+v", m.Attachments[0])
	}
	if !m.Attachments[1].Unreadable || m.Attachments[1].Data != nil {
		t.Fatalf("corrupted attachment must be marked unreadable: %+v", m.Attachments[1])
	}
	if string(m.Attachments[2].Data) != "three" || m.Attachments[2].Unreadable {
		t.Fatalf("third attachment must decrypt: %+v", m.Attachments[2])
	}
}

func TestEdit_WithinWindow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.member(t, "alice")
	grp, err := f.groups.Create(ctx, alice)
	if err != nil {
		t.Fatalf("Create group: %v", err)
	}
	rec, err := f.svc.Send(ctx, alice, grp.GroupID, "brouillon", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	// Four minutes later: still inside the window.
	f.svc.now = func() time.Time { return rec.CreatedAt.Add(4 * time.Minute) }
	if err := f.svc.Edit(ctx, alice, rec.MessageID, "version finale"); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	msgs, _, err := f.svc.Read(ctx, alice, grp.GroupID, "", 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	m := msgs[0]
	if m.Body != "version finale" || !m.Edited {
		t.Fatalf("edit not applied: %+v", m)
	}
	if !m.UpdatedAt.After(m.CreatedAt) {
		t.Fatal("UpdatedAt must advance on edit")
	}
}

func TestEdit_WindowElapsed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.member(t, "alice")
	grp, err := f.groups.Create(ctx, alice)
	if err != nil {
		t.Fatalf("Create group: %v", err)
	}
	rec, err := f.svc.Send(ctx, alice, grp.GroupID, "trop tard", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	// Six minutes later the same sender is refused.
	f.svc.now = func() time.Time { return rec.CreatedAt.Add(6 * time.Minute) }
	if err := f.svc.Edit(ctx, alice, rec.MessageID, "modifié"); !errors.Is(err, ErrEditWindowElapsed) {
		t.Fatalf("want ErrEditWindowElapsed, got %v", err)
	}
}

func TestEditDelete_SenderOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.member(t, "alice")
	bob := f.member(t, "bob")

	grp, err := f.groups.Create(ctx, alice)
	if err != nil {
		t.Fatalf("Create group: %v", err)
	}
	if _, err := f.groups.Grant(ctx, alice, grp.GroupID, "bob"); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	if err := f.groups.Recover(ctx, bob, grp.GroupID); err != nil {
		t.Fatalf("Recover: %v", err)
	}
	rec, err := f.svc.Send(ctx, alice, grp.GroupID, "de alice", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if err := f.svc.Edit(ctx, bob, rec.MessageID, "pirate"); !errors.Is(err, ErrNotSender) {
		t.Fatalf("want ErrNotSender on edit, got %v", err)
	}
	if err := f.svc.Delete(ctx, bob, rec.MessageID); !errors.Is(err, ErrNotSender) {
		t.Fatalf("want ErrNotSender on delete, got %v", err)
	}
	if err := f.svc.Delete(ctx, alice, rec.MessageID); err != nil {
		t.Fatalf("Delete by sender: %v", err)
	}
	if _, err := f.msgs.GetMessage(ctx, rec.MessageID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}
