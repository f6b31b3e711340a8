package metadata_cache

import (
	"sync"
	"time"

	"github.com/AngelinaFiera614/wrenchmark-sub010/models"
)

const DefaultTTL = 5 * time.Minute

// ── Filter metadata cache ────────────────────────────────────────────────────
// Categories, manufacturers and catalog ranges change rarely; every filter
// session created inside the TTL shares one load.

type entry struct {
	metadata  *models.FilterMetadata
	fetchedAt time.Time
}

type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	entry *entry
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl, now: time.Now}
}

func (c *Cache) Get() (*models.FilterMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry != nil && c.now().Sub(c.entry.fetchedAt) < c.ttl {
		return c.entry.metadata, true
	}
	return nil, false
}

func (c *Cache) Set(metadata *models.FilterMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = &entry{metadata: metadata, fetchedAt: c.now()}
}

// ── Invalidate (call when categories or manufacturers change) ────────────────

func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
}
