package jwtx

import (
	"crypto/rsa"
	"sync"
	"time"
)

// KeyCache holds verification keys fetched from the provider, each stamped
// with when it was fetched. Entries older than maxAge are treated as absent
// so the next lookup refetches. It's thread-safe; concurrent refetches for
// the same kid may race, which is fine, last write wins and both writes
// carry the same key material.
type KeyCache struct {
	mu     sync.RWMutex
	maxAge time.Duration
	now    func() time.Time
	keys   map[string]cachedKey
}

type cachedKey struct {
	key       *rsa.PublicKey
	fetchedAt time.Time
}

// DefaultKeyMaxAge matches the provider's recommended JWKS cache lifetime.
const DefaultKeyMaxAge = time.Hour

// NewKeyCache returns an empty cache. A non-positive maxAge falls back to
// DefaultKeyMaxAge.
func NewKeyCache(maxAge time.Duration) *KeyCache {
	if maxAge <= 0 {
		maxAge = DefaultKeyMaxAge
	}
	return &KeyCache{
		maxAge: maxAge,
		now:    time.Now,
		keys:   make(map[string]cachedKey),
	}
}

// SetClock swaps the cache's time source. Tests use this to expire entries
// without sleeping.
func (c *KeyCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Get returns the key for kid if it's present and still fresh.
func (c *KeyCache) Get(kid string) (*rsa.PublicKey, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.keys[kid]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetchedAt) > c.maxAge {
		return nil, false
	}
	return entry.key, true
}

// Put stores a key under kid with a fresh fetch timestamp.
func (c *KeyCache) Put(kid string, key *rsa.PublicKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[kid] = cachedKey{key: key, fetchedAt: c.now()}
}

// Len reports how many entries are held, fresh or not.
func (c *KeyCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keys)
}
