package cache

import (
	"log"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache keys are tracked per concern so all caches of one kind can be
// cleared together (every linked-accounts entry on logout, the directory
// entry when the bank list is republished).
var (
	Cache              *ristretto.Cache
	DirectoryCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
	LinkedAccountCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

// Directory Cache Functions
func SetDirectoryCache(cacheKey string, value interface{}, ttl time.Duration) {
	DirectoryCacheKeys.Lock()
	DirectoryCacheKeys.m[cacheKey] = struct{}{}
	DirectoryCacheKeys.Unlock()
	Cache.SetWithTTL(cacheKey, value, 1, ttl)
}

func DelDirectoryCache(cacheKey string) {
	DirectoryCacheKeys.Lock()
	delete(DirectoryCacheKeys.m, cacheKey)
	DirectoryCacheKeys.Unlock()
	Cache.Del(cacheKey)
}

func ClearAllDirectoryCaches() {
	DirectoryCacheKeys.Lock()
	for key := range DirectoryCacheKeys.m {
		Cache.Del(key)
	}
	DirectoryCacheKeys.m = make(map[string]struct{})
	DirectoryCacheKeys.Unlock()
}

// Linked Account Cache Functions
func SetLinkedAccountCache(cacheKey string, value interface{}, ttl time.Duration) {
	LinkedAccountCacheKeys.Lock()
	LinkedAccountCacheKeys.m[cacheKey] = struct{}{}
	LinkedAccountCacheKeys.Unlock()
	Cache.SetWithTTL(cacheKey, value, 1, ttl)
}

func DelLinkedAccountCache(cacheKey string) {
	LinkedAccountCacheKeys.Lock()
	delete(LinkedAccountCacheKeys.m, cacheKey)
	LinkedAccountCacheKeys.Unlock()
	Cache.Del(cacheKey)
}

func ClearAllLinkedAccountCaches() {
	LinkedAccountCacheKeys.Lock()
	for key := range LinkedAccountCacheKeys.m {
		Cache.Del(key)
	}
	LinkedAccountCacheKeys.m = make(map[string]struct{})
	LinkedAccountCacheKeys.Unlock()
}
