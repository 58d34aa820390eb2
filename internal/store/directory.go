package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"sealbox/internal/domain"
)

const usersFile = "users.json"

// Directory persists account records under a root directory.
type Directory struct {
	dir string
	mu  sync.Mutex
}

// NewDirectory returns a Directory rooted at dir.
func NewDirectory(dir string) *Directory { return &Directory{dir: dir} }

// SaveUser inserts or replaces the record for rec.UserID.
func (s *Directory) SaveUser(_ context.Context, rec domain.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make(map[string]domain.UserRecord)
	path := filepath.Join(s.dir, usersFile)
	if err := loadJSON(path, &users); err != nil {
		return err
	}
	users[rec.UserID] = rec
	return storeJSON(path, users)
}

// GetUser returns the record for userID, or domain.ErrNotFound.
func (s *Directory) GetUser(_ context.Context, userID string) (domain.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make(map[string]domain.UserRecord)
	if err := loadJSON(filepath.Join(s.dir, usersFile), &users); err != nil {
		return domain.UserRecord{}, err
	}
	rec, ok := users[userID]
	if !ok {
		return domain.UserRecord{}, fmt.Errorf("user %q: %w", userID, domain.ErrNotFound)
	}
	return rec, nil
}

// Compile-time assertion that Directory implements domain.DirectoryStore.
var _ domain.DirectoryStore = (*Directory)(nil)
