package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	basecache "github.com/riskibarqy/afl-stats/internal/platform/cache"
)

const latestDatasetKey = "fact:latest"

// FactRepository serves Latest from the store until the next Save.
type FactRepository struct {
	next  fact.Repository
	cache *basecache.Store[cachedDataset]
}

type cachedDataset struct {
	value  *fact.Dataset
	exists bool
}

func NewFactRepository(next fact.Repository, ttl time.Duration) *FactRepository {
	return &FactRepository{next: next, cache: basecache.NewStore[cachedDataset](ttl, 1)}
}

func (r *FactRepository) Save(ctx context.Context, ds *fact.Dataset) error {
	if err := r.next.Save(ctx, ds); err != nil {
		return err
	}
	r.cache.Delete(ctx, latestDatasetKey)
	return nil
}

func (r *FactRepository) Latest(ctx context.Context) (*fact.Dataset, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, latestDatasetKey, func(ctx context.Context) (cachedDataset, error) {
		ds, exists, err := r.next.Latest(ctx)
		if err != nil {
			return cachedDataset{}, err
		}
		return cachedDataset{value: ds, exists: exists}, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.value, v.exists, nil
}
