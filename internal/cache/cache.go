// Package cache holds small in-process caches used in front of slow row stores.
package cache

// Cache is a keyed store of recently loaded values.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Len() int
	Stats() Stats
}

// Stats counts cache outcomes since creation.
type Stats struct {
	Hits      int
	Misses    int
	Evictions int
}

var _ Cache[int] = (*LRU[int])(nil)
