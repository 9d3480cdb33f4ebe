package revisions

import (
	"context"

	"github.com/dmitrijs2005/revisions/internal/logging"
	"github.com/dmitrijs2005/revisions/internal/server/cache"
	"github.com/dmitrijs2005/revisions/internal/server/models"
)

// CachedRepository caches FindByItemID results per item and drops the entry
// whenever a revision of that item is written or removed. Cache failures are
// logged and the call falls through to the wrapped repository.
type CachedRepository struct {
	next   Repository
	cache  *cache.Cache
	logger logging.Logger
}

// NewCachedRepository wraps next with the given cache.
func NewCachedRepository(next Repository, c *cache.Cache, l logging.Logger) *CachedRepository {
	return &CachedRepository{next: next, cache: c, logger: l.With("module", "revision_cache")}
}

// CacheKey is the Redis key holding the cached listing of an item.
func CacheKey(itemUUID string) string {
	return "revisions:item:" + itemUUID
}

func (r *CachedRepository) FindByItemID(ctx context.Context, itemUUID string) ([]*models.Revision, error) {
	key := CacheKey(itemUUID)

	var cached []*models.Revision
	hit, err := r.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		r.logger.Warn(ctx, "revision cache read failed", "key", key, "error", err)
	}
	if hit {
		return cached, nil
	}

	revs, err := r.next.FindByItemID(ctx, itemUUID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetJSON(ctx, key, revs); err != nil {
		r.logger.Warn(ctx, "revision cache write failed", "key", key, "error", err)
	}
	return revs, nil
}

func (r *CachedRepository) FindOneByID(ctx context.Context, itemUUID, revisionUUID string) (*models.Revision, error) {
	return r.next.FindOneByID(ctx, itemUUID, revisionUUID)
}

func (r *CachedRepository) Save(ctx context.Context, rev *models.Revision) error {
	if err := r.next.Save(ctx, rev); err != nil {
		return err
	}
	r.invalidate(ctx, rev.ItemUUID)
	return nil
}

func (r *CachedRepository) RemoveByUUID(ctx context.Context, itemUUID, revisionUUID string) error {
	if err := r.next.RemoveByUUID(ctx, itemUUID, revisionUUID); err != nil {
		return err
	}
	r.invalidate(ctx, itemUUID)
	return nil
}

func (r *CachedRepository) invalidate(ctx context.Context, itemUUID string) {
	key := CacheKey(itemUUID)
	if err := r.cache.Delete(ctx, key); err != nil {
		r.logger.Warn(ctx, "revision cache invalidation failed", "key", key, "error", err)
	}
}
