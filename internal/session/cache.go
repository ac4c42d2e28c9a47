package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedStore keeps recently used sessions in memory in front of a
// Store. Writes go through to the database first.
type CachedStore struct {
	store *Store
	cache *cache.Cache
}

// NewCachedStore wraps store with a cache whose entries expire after ttl.
func NewCachedStore(store *Store, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &CachedStore{
		store: store,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Load returns the cached session or reads it from the store.
func (c *CachedStore) Load(ctx context.Context, userID string) (Session, error) {
	if x, found := c.cache.Get(userID); found {
		return x.(Session), nil
	}
	sess, err := c.store.Load(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	c.cache.Set(userID, sess, cache.DefaultExpiration)
	return sess, nil
}

// RecordTurn writes the turn and refreshes the cached session. A failed
// write evicts the entry so the next read goes to the database.
func (c *CachedStore) RecordTurn(ctx context.Context, turn Turn) error {
	if err := c.store.RecordTurn(ctx, turn); err != nil {
		c.cache.Delete(turn.UserID)
		return err
	}
	sess, err := c.store.Get(ctx, turn.UserID)
	if err != nil {
		c.cache.Delete(turn.UserID)
		return nil
	}
	c.cache.Set(turn.UserID, sess, cache.DefaultExpiration)
	return nil
}
