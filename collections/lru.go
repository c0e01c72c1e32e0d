package collections

import lru "github.com/hashicorp/golang-lru/v2"

// LruCache wraps the dependency so the rest of the code does not import it
// directly. It is safe for concurrent use.
type LruCache[K comparable, V any] struct {
	underlyingCache *lru.Cache[K, V]
}

func NewLruCache[K comparable, V any](maxSize int) (*LruCache[K, V], error) {
	underlyingCache, err := lru.New[K, V](maxSize)
	if err != nil {
		return nil, err
	}
	return &LruCache[K, V]{underlyingCache}, nil
}

// Put adds or refreshes key and reports whether the oldest entry was evicted
// to make room.
func (lruCache *LruCache[K, V]) Put(key K, value V) (_evicted bool) {
	return lruCache.underlyingCache.Add(key, value)
}

func (lruCache *LruCache[K, V]) Get(key K) (V, bool) {
	return lruCache.underlyingCache.Get(key)
}

func (lruCache *LruCache[K, V]) Exists(key K) bool {
	return lruCache.underlyingCache.Contains(key)
}

func (lruCache *LruCache[K, V]) Len() int {
	return lruCache.underlyingCache.Len()
}

func (lruCache *LruCache[K, V]) Purge() {
	lruCache.underlyingCache.Purge()
}
