package repository

import (
	"context"

	"github.com/yourorg/exercisetracker/internal/cache"
	"github.com/yourorg/exercisetracker/internal/models"
)

// UserFinder looks up users by name.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// CachedUsers memoizes successful username lookups. Users never change after
// registration, so a hit can be served without going back to the store.
// Misses and errors are not cached.
type CachedUsers struct {
	next  UserFinder
	cache *cache.Cache[models.User]
}

func NewCachedUsers(next UserFinder, c *cache.Cache[models.User]) *CachedUsers {
	return &CachedUsers{next: next, cache: c}
}

func (c *CachedUsers) FindByUsername(ctx context.Context, username string) (models.User, error) {
	if u, ok := c.cache.Get(username); ok {
		return u, nil
	}
	u, err := c.next.FindByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	c.cache.Set(username, u)
	return u, nil
}

// Stats exposes the underlying cache counters for the health endpoint.
func (c *CachedUsers) Stats() cache.Stats {
	return c.cache.GetStats()
}
