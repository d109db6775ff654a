package docfill

import (
	"container/list"
	"sync"
	"time"
)

// CacheConfig contains configuration options for the template cache
type CacheConfig struct {
	// MaxSize is the maximum number of templates to cache. 0 disables caching.
	MaxSize int
	// TTL is the time-to-live for cached templates. 0 means no expiration.
	TTL time.Duration
}

// DocumentCache keeps opened templates keyed by path, evicting the least
// recently used entry when full
type DocumentCache struct {
	mu     sync.Mutex
	cache  map[string]*cacheEntry
	lru    *list.List
	config CacheConfig
	now    func() time.Time
}

type cacheEntry struct {
	key     string
	doc     *Document
	expiry  time.Time
	element *list.Element
}

// NewDocumentCache creates a cache sized from the global configuration
func NewDocumentCache() *DocumentCache {
	config := GetGlobalConfig()
	return NewDocumentCacheWithConfig(CacheConfig{
		MaxSize: config.CacheMaxSize,
		TTL:     config.CacheTTL,
	})
}

// NewDocumentCacheWithConfig creates a new cache with the given configuration
func NewDocumentCacheWithConfig(config CacheConfig) *DocumentCache {
	return &DocumentCache{
		cache:  make(map[string]*cacheEntry),
		lru:    list.New(),
		config: config,
		now:    time.Now,
	}
}

// Get retrieves a template from the cache. Expired and closed templates are
// dropped.
func (dc *DocumentCache) Get(key string) (*Document, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	entry, exists := dc.cache[key]
	if !exists {
		return nil, false
	}

	if (dc.config.TTL > 0 && dc.now().After(entry.expiry)) || entry.doc.isClosed() {
		dc.removeLocked(entry)
		return nil, false
	}

	dc.lru.MoveToFront(entry.element)
	return entry.doc, true
}

// Set adds a template to the cache. Evicted templates are not closed; callers
// may still hold them.
func (dc *DocumentCache) Set(key string, doc *Document) {
	if dc.config.MaxSize == 0 {
		return
	}

	dc.mu.Lock()
	defer dc.mu.Unlock()

	expiry := time.Time{}
	if dc.config.TTL > 0 {
		expiry = dc.now().Add(dc.config.TTL)
	}

	if existing, exists := dc.cache[key]; exists {
		existing.doc = doc
		existing.expiry = expiry
		dc.lru.MoveToFront(existing.element)
		return
	}

	if dc.lru.Len() >= dc.config.MaxSize {
		if oldest := dc.lru.Back(); oldest != nil {
			dc.removeLocked(oldest.Value.(*cacheEntry))
		}
	}

	entry := &cacheEntry{
		key:    key,
		doc:    doc,
		expiry: expiry,
	}
	entry.element = dc.lru.PushFront(entry)
	dc.cache[key] = entry
}

// Remove removes a template from the cache
func (dc *DocumentCache) Remove(key string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if entry, exists := dc.cache[key]; exists {
		dc.removeLocked(entry)
	}
}

func (dc *DocumentCache) removeLocked(entry *cacheEntry) {
	delete(dc.cache, entry.key)
	dc.lru.Remove(entry.element)
}

// Clear removes all templates from the cache
func (dc *DocumentCache) Clear() {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	dc.cache = make(map[string]*cacheEntry)
	dc.lru = list.New()
}

// Size returns the current number of cached templates
func (dc *DocumentCache) Size() int {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return len(dc.cache)
}
