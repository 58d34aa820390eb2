package session

import (
	"fmt"
	"sync"

	"sealbox/internal/domain"
	"sealbox/internal/util/memzero"
)

// Cache holds the unlocked private keys for one user session: the identity
// key placed there by a successful password unlock, and any group keys
// recovered from member envelopes afterwards.
//
// A cache is exclusively owned by its session. It is never persisted, never
// shared across sessions, and Close wipes every key it holds. All reads on
// a locked or closed cache report domain.ErrKeyUnavailable so callers can
// degrade to a visible "locked" state instead of blocking or crashing.
type Cache struct {
	userID string

	mu       sync.Mutex
	identity domain.PrivateKey
	unlocked bool
	groups   map[string]domain.PrivateKey
	closed   bool
}

// New returns a locked cache owned by userID.
func New(userID string) *Cache {
	return &Cache{
		userID: userID,
		groups: make(map[string]domain.PrivateKey),
	}
}

// UserID returns the owning user.
func (c *Cache) UserID() string { return c.userID }

// SetIdentityKey stores the unlocked identity private key. Called only by
// the identity manager after a successful unwrap.
func (c *Cache) SetIdentityKey(k domain.PrivateKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("session closed: %w", domain.ErrKeyUnavailable)
	}
	c.identity = k
	c.unlocked = true
	return nil
}

// IdentityKey returns the unlocked identity private key.
func (c *Cache) IdentityKey() (domain.PrivateKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.unlocked {
		return domain.PrivateKey{}, domain.ErrKeyUnavailable
	}
	return c.identity, nil
}

// Unlocked reports whether a successful password unlock has happened.
func (c *Cache) Unlocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unlocked && !c.closed
}

// PutGroupKey caches a recovered group private key for the session.
func (c *Cache) PutGroupKey(groupID string, k domain.PrivateKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("session closed: %w", domain.ErrKeyUnavailable)
	}
	c.groups[groupID] = k
	return nil
}

// GroupKey returns the cached group private key for groupID.
func (c *Cache) GroupKey(groupID string) (domain.PrivateKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.PrivateKey{}, domain.ErrKeyUnavailable
	}
	k, ok := c.groups[groupID]
	if !ok {
		return domain.PrivateKey{}, domain.ErrKeyUnavailable
	}
	return k, nil
}

// Lock wipes all cached keys but keeps the session usable for a later
// unlock. Matches an explicit user lock or idle timeout.
func (c *Cache) Lock() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wipeLocked()
}

// Close wipes all cached keys and makes the cache permanently unusable.
// Called on logout and session teardown.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wipeLocked()
	c.closed = true
}

func (c *Cache) wipeLocked() {
	memzero.Zero(c.identity[:])
	c.unlocked = false
	for gid := range c.groups {
		k := c.groups[gid]
		memzero.Zero(k[:])
		c.groups[gid] = domain.PrivateKey{}
		delete(c.groups, gid)
	}
}
