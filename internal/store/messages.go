package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mr-tron/base58"

	"sealbox/internal/domain"
)

const defaultPageSize = 50

// Messages persists ciphertext envelopes, one JSON file per group, plus an
// id index so message-level operations do not need the group id.
type Messages struct {
	dir string
	mu  sync.Mutex
}

// NewMessages returns a Messages store rooted at dir.
func NewMessages(dir string) *Messages { return &Messages{dir: dir} }

func (s *Messages) groupPath(groupID string) string {
	return filepath.Join(s.dir, "messages", groupID+".json")
}

func (s *Messages) indexPath() string {
	return filepath.Join(s.dir, "messages", "index.json") // map[messageID]groupID
}

// PutMessage stores a new envelope.
func (s *Messages) PutMessage(_ context.Context, rec domain.MessageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make(map[string]domain.MessageRecord)
	if err := loadJSON(s.groupPath(rec.GroupID), &msgs); err != nil {
		return err
	}
	msgs[rec.MessageID] = rec
	if err := storeJSON(s.groupPath(rec.GroupID), msgs); err != nil {
		return err
	}

	index := make(map[string]string)
	if err := loadJSON(s.indexPath(), &index); err != nil {
		return err
	}
	index[rec.MessageID] = rec.GroupID
	return storeJSON(s.indexPath(), index)
}

// GetMessage returns the envelope for messageID, or domain.ErrNotFound.
func (s *Messages) GetMessage(_ context.Context, messageID string) (domain.MessageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(messageID)
}

func (s *Messages) getLocked(messageID string) (domain.MessageRecord, error) {
	index := make(map[string]string)
	if err := loadJSON(s.indexPath(), &index); err != nil {
		return domain.MessageRecord{}, err
	}
	groupID, ok := index[messageID]
	if !ok {
		return domain.MessageRecord{}, fmt.Errorf("message %q: %w", messageID, domain.ErrNotFound)
	}
	msgs := make(map[string]domain.MessageRecord)
	if err := loadJSON(s.groupPath(groupID), &msgs); err != nil {
		return domain.MessageRecord{}, err
	}
	rec, ok := msgs[messageID]
	if !ok {
		return domain.MessageRecord{}, fmt.Errorf("message %q: %w", messageID, domain.ErrNotFound)
	}
	return rec, nil
}

// UpdateMessage replaces an existing envelope.
func (s *Messages) UpdateMessage(_ context.Context, rec domain.MessageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make(map[string]domain.MessageRecord)
	if err := loadJSON(s.groupPath(rec.GroupID), &msgs); err != nil {
		return err
	}
	if _, ok := msgs[rec.MessageID]; !ok {
		return fmt.Errorf("message %q: %w", rec.MessageID, domain.ErrNotFound)
	}
	msgs[rec.MessageID] = rec
	return storeJSON(s.groupPath(rec.GroupID), msgs)
}

// DeleteMessage removes an envelope for good.
func (s *Messages) DeleteMessage(_ context.Context, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.getLocked(messageID)
	if err != nil {
		return err
	}
	msgs := make(map[string]domain.MessageRecord)
	if err := loadJSON(s.groupPath(rec.GroupID), &msgs); err != nil {
		return err
	}
	delete(msgs, messageID)
	if err := storeJSON(s.groupPath(rec.GroupID), msgs); err != nil {
		return err
	}
	index := make(map[string]string)
	if err := loadJSON(s.indexPath(), &index); err != nil {
		return err
	}
	delete(index, messageID)
	return storeJSON(s.indexPath(), index)
}

// ListByGroup returns up to limit envelopes ordered by creation time (id as
// tiebreak), starting after cursor. The returned cursor is empty when the
// history is exhausted.
func (s *Messages) ListByGroup(_ context.Context, groupID, cursor string, limit int) ([]domain.MessageRecord, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = defaultPageSize
	}
	msgs := make(map[string]domain.MessageRecord)
	if err := loadJSON(s.groupPath(groupID), &msgs); err != nil {
		return nil, "", err
	}
	ordered := make([]domain.MessageRecord, 0, len(msgs))
	for _, rec := range msgs {
		ordered = append(ordered, rec)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].MessageID < ordered[j].MessageID
	})

	start := 0
	if cursor != "" {
		at, id, err := DecodeCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		for start < len(ordered) {
			rec := ordered[start]
			if rec.CreatedAt.After(at) || (rec.CreatedAt.Equal(at) && rec.MessageID > id) {
				break
			}
			start++
		}
	}

	end := start + limit
	if end > len(ordered) {
		end = len(ordered)
	}
	page := ordered[start:end]
	next := ""
	if end < len(ordered) && len(page) > 0 {
		last := page[len(page)-1]
		next = EncodeCursor(last.CreatedAt, last.MessageID)
	}
	return page, next, nil
}

// EncodeCursor builds the opaque pagination cursor for a record position.
func EncodeCursor(at time.Time, messageID string) string {
	raw := strconv.FormatInt(at.UnixNano(), 10) + ":" + messageID
	return base58.Encode([]byte(raw))
}

// DecodeCursor is the inverse of EncodeCursor.
func DecodeCursor(cursor string) (time.Time, string, error) {
	raw, err := base58.Decode(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid cursor: %w", err)
	}
	at, id, ok := strings.Cut(string(raw), ":")
	if !ok {
		return time.Time{}, "", fmt.Errorf("invalid cursor %q", cursor)
	}
	nano, err := strconv.ParseInt(at, 10, 64)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid cursor %q", cursor)
	}
	return time.Unix(0, nano), id, nil
}

// Compile-time assertion that Messages implements domain.MessageStore.
var _ domain.MessageStore = (*Messages)(nil)
