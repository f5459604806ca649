package common

import "time"

// CacheInterface abstracts the cache backing the status snapshot and the
// scheduler's run lock, so deployments without Redis fall back to the
// in-process cache transparently.
type CacheInterface interface {
	// Set stores a value under key for the given duration
	Set(key string, value interface{}, duration time.Duration)

	// Get returns the value and true when key is present and unexpired
	Get(key string) (interface{}, bool)

	// Delete drops key from the cache
	Delete(key string)

	// GetOrSet returns the cached value, running loader and caching its
	// result on a miss
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Close releases any underlying connections
	Close() error
}
