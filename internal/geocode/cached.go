package geocode

import (
	"context"

	"rvd/internal/models"
	"rvd/internal/providers"
	"rvd/internal/structures"
)

// Addresses for a coordinate cell do not move; a day of caching mostly spares
// the upstream service from dedup-key re-submissions of the same incident.
const cacheTTLSeconds = 24 * 60 * 60

type CachedResolver struct {
	inner Resolver
	cache providers.CacheProviderInterface
}

func (r *CachedResolver) Resolve(ctx context.Context, lat, lon float64) (string, error) {
	key := "geo:" + models.DedupKey(lat, lon)
	if val, ok := r.cache.Get(key); ok {
		return string(val), nil
	}

	addr, err := r.inner.Resolve(ctx, lat, lon)
	if err != nil {
		// Failures are not cached; the next submission retries the lookup.
		return "", err
	}

	r.cache.SetWithTTL(key, []byte(addr), cacheTTLSeconds)
	return addr, nil
}

func NewResolver(conf *structures.Config, cache providers.CacheProviderInterface, logger providers.Logger) Resolver {
	return &CachedResolver{
		inner: NewNominatimClient(conf, logger),
		cache: cache,
	}
}
