package services

import (
	"context"
	"strings"
	"time"

	"github.com/jobvault/aggregator/internal/clients/jobspy"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

// CachedProvider wraps a search provider with a short-lived in-memory cache
// so identical queries repeated within the TTL do not hit the platforms
// again.
type CachedProvider struct {
	provider SearchProvider
	cache    *gocache.Cache
}

func NewCachedProvider(provider SearchProvider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    gocache.New(ttl, 2*ttl),
	}
}

func (p *CachedProvider) Search(ctx context.Context, request jobspy.SearchRequest) ([]jobspy.RawJob, error) {

	key := cacheKey(request)
	if cached, found := p.cache.Get(key); found {
		return cached.([]jobspy.RawJob), nil
	}

	results, err := p.provider.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	if err = p.cache.Add(key, results, gocache.DefaultExpiration); err != nil {
		log.Errorf("failed to add search results to cache: %v", err)
	}

	return results, nil
}

func cacheKey(request jobspy.SearchRequest) string {
	return strings.Join([]string{
		request.Site,
		request.SearchTerm,
		request.GoogleSearchTerm,
		request.Location,
		request.CountryIndeed,
	}, "\x1f")
}
