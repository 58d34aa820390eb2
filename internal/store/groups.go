package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"sealbox/internal/domain"
)

const (
	groupsFile    = "groups.json"
	envelopesFile = "envelopes.json" // map[groupID]map[memberID]MemberEnvelope
)

// Groups persists group records and sealed member envelopes.
type Groups struct {
	dir string
	mu  sync.Mutex
}

// NewGroups returns a Groups store rooted at dir.
func NewGroups(dir string) *Groups { return &Groups{dir: dir} }

// SaveGroup inserts or replaces a group record.
func (s *Groups) SaveGroup(_ context.Context, rec domain.GroupRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make(map[string]domain.GroupRecord)
	path := filepath.Join(s.dir, groupsFile)
	if err := loadJSON(path, &groups); err != nil {
		return err
	}
	groups[rec.GroupID] = rec
	return storeJSON(path, groups)
}

// GetGroup returns the record for groupID, or domain.ErrNotFound.
func (s *Groups) GetGroup(_ context.Context, groupID string) (domain.GroupRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make(map[string]domain.GroupRecord)
	if err := loadJSON(filepath.Join(s.dir, groupsFile), &groups); err != nil {
		return domain.GroupRecord{}, err
	}
	rec, ok := groups[groupID]
	if !ok {
		return domain.GroupRecord{}, fmt.Errorf("group %q: %w", groupID, domain.ErrNotFound)
	}
	return rec, nil
}

// SaveEnvelope inserts or replaces the envelope for (group, member).
func (s *Groups) SaveEnvelope(_ context.Context, env domain.MemberEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make(map[string]map[string]domain.MemberEnvelope)
	path := filepath.Join(s.dir, envelopesFile)
	if err := loadJSON(path, &all); err != nil {
		return err
	}
	byMember, ok := all[env.GroupID]
	if !ok {
		byMember = make(map[string]domain.MemberEnvelope)
		all[env.GroupID] = byMember
	}
	byMember[env.MemberID] = env
	return storeJSON(path, all)
}

// GetEnvelope returns the envelope for (group, member), or domain.ErrNotFound.
func (s *Groups) GetEnvelope(_ context.Context, groupID, memberID string) (domain.MemberEnvelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make(map[string]map[string]domain.MemberEnvelope)
	if err := loadJSON(filepath.Join(s.dir, envelopesFile), &all); err != nil {
		return domain.MemberEnvelope{}, err
	}
	env, ok := all[groupID][memberID]
	if !ok {
		return domain.MemberEnvelope{}, fmt.Errorf("envelope %q/%q: %w", groupID, memberID, domain.ErrNotFound)
	}
	return env, nil
}

// ListEnvelopes returns all member envelopes of a group, ordered by member id.
func (s *Groups) ListEnvelopes(_ context.Context, groupID string) ([]domain.MemberEnvelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make(map[string]map[string]domain.MemberEnvelope)
	if err := loadJSON(filepath.Join(s.dir, envelopesFile), &all); err != nil {
		return nil, err
	}
	out := make([]domain.MemberEnvelope, 0, len(all[groupID]))
	for _, env := range all[groupID] {
		out = append(out, env)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}

// Compile-time assertion that Groups implements domain.GroupStore.
var _ domain.GroupStore = (*Groups)(nil)
