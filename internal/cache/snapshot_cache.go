// Package cache provides in-memory caching for performance snapshots.
package cache

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/racedash/internal/metrics"
	"github.com/yourusername/racedash/internal/models"
)

// SnapshotKey identifies one cached performance summary.
type SnapshotKey struct {
	Model string
	Date  string
}

// String returns the string representation of the key
func (k SnapshotKey) String() string {
	return fmt.Sprintf("%s:%s", k.Model, k.Date)
}

// SnapshotCache holds the most recent ModelPerformance per (model,
// date) so UI reads between refreshes never trigger recomputation.
type SnapshotCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewSnapshotCache creates a new snapshot cache with the given TTL.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves a cached snapshot.
func (sc *SnapshotCache) Get(key SnapshotKey) *models.ModelPerformance {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if result, found := sc.cache.Get(key.String()); found {
		if perf, ok := result.(*models.ModelPerformance); ok {
			sc.hitCount++
			sc.updateMetrics()
			return perf
		}
	}

	sc.missCount++
	sc.updateMetrics()
	return nil
}

// Set stores a snapshot.
func (sc *SnapshotCache) Set(key SnapshotKey, perf *models.ModelPerformance) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.cache.Set(key.String(), perf, sc.ttl)
}

// Clear flushes the entire cache.
func (sc *SnapshotCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.cache.Flush()
	sc.hitCount = 0
	sc.missCount = 0
}

// Stats returns cache statistics.
func (sc *SnapshotCache) Stats() (hits, misses uint64, ratio float64) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.stats()
}

func (sc *SnapshotCache) stats() (hits, misses uint64, ratio float64) {
	hits = sc.hitCount
	misses = sc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache.
func (sc *SnapshotCache) ItemCount() int {
	return sc.cache.ItemCount()
}

func (sc *SnapshotCache) updateMetrics() {
	_, _, ratio := sc.stats()
	metrics.SnapshotCacheHitRatio.Set(ratio)
}
