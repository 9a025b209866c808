// Package cache holds per-source crawl results in memory so repeated
// searches within the TTL window skip the network entirely.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/metrics"
)

// PageCache stores the full posting list for a source under the source
// name. Entries expire after the configured TTL; Put always replaces the
// previous list wholesale.
type PageCache struct {
	c *gocache.Cache
}

func New(ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PageCache{c: gocache.New(ttl, 2*ttl)}
}

// Get returns the cached postings for source, if present and fresh.
func (pc *PageCache) Get(source string) ([]domain.JobPosting, bool) {
	v, ok := pc.c.Get(source)
	if !ok {
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("hit").Inc()
	return v.([]domain.JobPosting), true
}

// Put replaces the cached postings for source.
func (pc *PageCache) Put(source string, jobs []domain.JobPosting) {
	pc.c.SetDefault(source, jobs)
}

// Flush drops every cached source.
func (pc *PageCache) Flush() {
	pc.c.Flush()
}
