package schunk

import (
	"strconv"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// chunkCache is a decompressed-chunk cache fronting a Container's
// DecompressChunk, grounded on the QueryCache wrapper over
// github.com/dgraph-io/ristretto (internal/database/spatial_optimizer.go
// in the arx-os-arxos pack repo): a ristretto.Cache plus its own mutex
// and hit/miss counters, keyed by a string rather than a query+args hash.
type chunkCache struct {
	cache  *ristretto.Cache
	mu     sync.Mutex
	hits   int64
	misses int64
}

// newChunkCache builds a cache bounded to approximately maxBytes of
// cached payload; a zero or negative maxBytes disables caching (nil is
// returned).
func newChunkCache(maxBytes int64) (*chunkCache, error) {
	if maxBytes <= 0 {
		return nil, nil
	}
	numCounters := maxBytes / 10
	if numCounters < 100 {
		numCounters = 100
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: numCounters,
		MaxCost:     maxBytes,
		BufferItems: 64,
		OnEvict:     func(item *ristretto.Item) {},
	})
	if err != nil {
		return nil, err
	}
	return &chunkCache{cache: c}, nil
}

func chunkCacheKey(idx int) string {
	return strconv.Itoa(idx)
}

func (cc *chunkCache) get(idx int) ([]byte, bool) {
	if cc == nil {
		return nil, false
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	v, found := cc.cache.Get(chunkCacheKey(idx))
	if !found {
		cc.misses++
		return nil, false
	}
	cc.hits++
	data, ok := v.([]byte)
	if !ok {
		return nil, false
	}
	return data, true
}

func (cc *chunkCache) set(idx int, decoded []byte) {
	if cc == nil {
		return
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache.SetWithTTL(chunkCacheKey(idx), decoded, int64(len(decoded)), 0)
}

// invalidate drops a cached entry, used by UpdateChunk and Truncate so a
// stale decompressed copy never outlives its compressed source.
func (cc *chunkCache) invalidate(idx int) {
	if cc == nil {
		return
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache.Del(chunkCacheKey(idx))
}
