package interfaces

import "time"

// Cache is a byte-oriented key/value store with per-entry TTL. Entries past
// their TTL behave as absent.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte, ttl time.Duration) error
	Clear() error
	Close() error
}
