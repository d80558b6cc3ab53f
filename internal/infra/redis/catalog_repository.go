package redis

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/randomchill-vibes/findthestate/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches catalogs from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// CatalogRepository caches catalogs in Redis and falls back to a loader on cache miss.
// Regions are stored as: HSET catalog:{catalogID}:regions {code} {name}
// The title is stored as: SET  catalog:{catalogID}:title {title}
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	if catalog, ok := r.fromCache(ctx, catalogID); ok {
		return catalog, nil
	}

	result, err, _ := r.sf.Do(catalogID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if catalog, ok := r.fromCache(ctx, catalogID); ok {
			return catalog, nil
		}

		catalog, err := r.loader.LoadCatalog(ctx, catalogID)
		if err != nil {
			return domain.Catalog{}, err
		}

		regionsKey := r.regionsKey(catalogID)
		titleKey := r.titleKey(catalogID)
		ttl := r.ttlWithJitter()
		pipe := r.client.TxPipeline()
		pipe.Del(ctx, regionsKey)
		for code, name := range catalog.Regions {
			pipe.HSet(ctx, regionsKey, code, name)
		}
		pipe.Set(ctx, titleKey, catalog.Title, ttl)
		if ttl > 0 {
			pipe.Expire(ctx, regionsKey, ttl)
		}
		// best-effort; a failed write only costs another load
		_, _ = pipe.Exec(ctx)

		return catalog, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

func (r *CatalogRepository) fromCache(ctx context.Context, catalogID string) (domain.Catalog, bool) {
	regions, err := r.client.HGetAll(ctx, r.regionsKey(catalogID)).Result()
	if err != nil || len(regions) == 0 {
		return domain.Catalog{}, false
	}
	title, _ := r.client.Get(ctx, r.titleKey(catalogID)).Result()
	return domain.Catalog{ID: catalogID, Title: title, Regions: regions}, true
}

func (r *CatalogRepository) regionsKey(catalogID string) string {
	return "catalog:" + catalogID + ":regions"
}

func (r *CatalogRepository) titleKey(catalogID string) string {
	return "catalog:" + catalogID + ":title"
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
