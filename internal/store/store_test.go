package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"sealbox/internal/domain"
	"sealbox/internal/store"
)

func TestDirectory_SaveGet(t *testing.T) {
	ctx := context.Background()
	dir := store.NewDirectory(t.TempDir())

	rec := domain.UserRecord{
		UserID:            "alice",
		PublicKey:         domain.PublicKey{1},
		WrappedPrivateKey: []byte{1, 2, 3},
		KDF: domain.KDFParams{
			Algorithm: "argon2id", Time: 2, MemoryKB: 64, Threads: 1, Salt: []byte{9},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := dir.SaveUser(ctx, rec); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	got, err := dir.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	if _, err := dir.GetUser(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGroups_EnvelopeLifecycle(t *testing.T) {
	ctx := context.Background()
	groups := store.NewGroups(t.TempDir())

	grp := domain.GroupRecord{GroupID: "g1", PublicKey: domain.PublicKey{2}, CreatorID: "alice"}
	if err := groups.SaveGroup(ctx, grp); err != nil {
		t.Fatalf("SaveGroup: %v", err)
	}
	for _, member := range []string{"bob", "alice", "carol"} {
		env := domain.MemberEnvelope{GroupID: "g1", MemberID: member, SealedGroupKey: []byte(member)}
		if err := groups.SaveEnvelope(ctx, env); err != nil {
			t.Fatalf("SaveEnvelope(%s): %v", member, err)
		}
	}

	env, err := groups.GetEnvelope(ctx, "g1", "bob")
	if err != nil {
		t.Fatalf("GetEnvelope: %v", err)
	}
	if string(env.SealedGroupKey) != "bob" {
		t.Fatalf("wrong envelope payload: %q", env.SealedGroupKey)
	}

	all, err := groups.ListEnvelopes(ctx, "g1")
	if err != nil {
		t.Fatalf("ListEnvelopes: %v", err)
	}
	want := []string{"alice", "bob", "carol"}
	if len(all) != len(want) {
		t.Fatalf("want %d envelopes, got %d", len(want), len(all))
	}
	for i, m := range want {
		if all[i].MemberID != m {
			t.Fatalf("envelope %d: want member %q, got %q", i, m, all[i].MemberID)
		}
	}

	if _, err := groups.GetEnvelope(ctx, "g1", "mallory"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMessages_CRUD(t *testing.T) {
	ctx := context.Background()
	msgs := store.NewMessages(t.TempDir())

	rec := domain.MessageRecord{
		MessageID: "m1",
		GroupID:   "g1",
		SenderID:  "alice",
		Nonce:     []byte{1},
		Cipher:    []byte{2},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := msgs.PutMessage(ctx, rec); err != nil {
		t.Fatalf("PutMessage: %v", err)
	}

	got, err := msgs.GetMessage(ctx, "m1")
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	rec.Cipher = []byte{3}
	rec.Edited = true
	if err := msgs.UpdateMessage(ctx, rec); err != nil {
		t.Fatalf("UpdateMessage: %v", err)
	}
	got, _ = msgs.GetMessage(ctx, "m1")
	if !got.Edited || got.Cipher[0] != 3 {
		t.Fatal("update not persisted")
	}

	if err := msgs.DeleteMessage(ctx, "m1"); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}
	if _, err := msgs.GetMessage(ctx, "m1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestMessages_ListByGroup_Pagination(t *testing.T) {
	ctx := context.Background()
	msgs := store.NewMessages(t.TempDir())

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ids := []string{"m1", "m2", "m3", "m4", "m5"}
	for i, id := range ids {
		rec := domain.MessageRecord{
			MessageID: id,
			GroupID:   "g1",
			SenderID:  "alice",
			Nonce:     []byte{byte(i)},
			Cipher:    []byte{byte(i)},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := msgs.PutMessage(ctx, rec); err != nil {
			t.Fatalf("PutMessage(%s): %v", id, err)
		}
	}

	var got []string
	cursor := ""
	for {
		page, next, err := msgs.ListByGroup(ctx, "g1", cursor, 2)
		if err != nil {
			t.Fatalf("ListByGroup: %v", err)
		}
		for _, rec := range page {
			got = append(got, rec.MessageID)
		}
		if next == "" {
			break
		}
		cursor = next
	}
	if diff := cmp.Diff(ids, got); diff != "" {
		t.Fatalf("pagination walk mismatch (-want +got):\n%s", diff)
	}
}

func TestMessages_ListByGroup_BadCursor(t *testing.T) {
	ctx := context.Background()
	msgs := store.NewMessages(t.TempDir())
	if _, _, err := msgs.ListByGroup(ctx, "g1", "0", 10); err == nil {
		t.Fatal("want error for malformed cursor")
	}
}
