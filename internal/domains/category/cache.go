package category

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"guidelight-backend/pkg/cache"
)

const cacheKey = "categories:all"

// Cache is the explicitly constructed category list cache. It holds the full
// list (active and inactive) under one key; every category write calls
// Invalidate. A cache outage degrades to reading the repository directly.
type Cache struct {
	repo  Repository
	store cache.Cache
	ttl   time.Duration
}

var _ Lookup = (*Cache)(nil)

func NewCache(repo Repository, store cache.Cache, ttl time.Duration) *Cache {
	return &Cache{repo: repo, store: store, ttl: ttl}
}

// All returns every category, from cache when possible
func (c *Cache) All(ctx context.Context) ([]Category, error) {
	var list []Category
	found, err := c.store.Get(ctx, cacheKey, &list)
	if err != nil {
		log.Warn().Err(err).Msg("category cache read failed")
	}
	if found {
		return list, nil
	}

	list, err = c.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, cacheKey, list, c.ttl); err != nil {
		log.Warn().Err(err).Msg("category cache write failed")
	}
	return list, nil
}

// Invalidate drops the cached list; the next read reloads it
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.store.Delete(ctx, cacheKey)
}

func (c *Cache) ByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	list, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, ErrCategoryNotFound
}

func (c *Cache) ByName(ctx context.Context, name string) (*Category, error) {
	list, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if SameName(list[i].Name, name) {
			return &list[i], nil
		}
	}
	return nil, ErrCategoryNotFound
}
