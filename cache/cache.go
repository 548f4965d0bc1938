package cache

import "time"

// Cache is the key-value store behind the email cooldowns.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)

	// Set stores a value with cost, returning false if it was dropped.
	Set(key K, value V, cost int64) bool

	// SetWithTTL stores a value that expires after ttl.
	SetWithTTL(key K, value V, cost int64, ttl time.Duration) bool
}
