package dnscache

import (
	"sync"
	"time"

	"adscope/internal/models"
)

// DefaultTTL is how long a resolution result stays fresh. Ten minutes is
// long enough to dampen repeat lookups inside one batch and short enough
// that a migrated storefront is picked up on the next run.
const DefaultTTL = 600 * time.Second

// Entry wraps a lookup result with the moment it was stored. Entries are
// owned by the cache and handed out only as copies.
type Entry struct {
	Result   models.DomainLookupResult
	CachedAt time.Time
}

// Stats is a point-in-time snapshot computed by scanning all entries.
type Stats struct {
	TotalEntries   int `json:"total_entries"`
	ActiveEntries  int `json:"active_entries"`
	ExpiredEntries int `json:"expired_entries"`
}

// Cache is a TTL-bounded map of DNS resolution results keyed by
// normalized domain. A single mutex guards every check-then-act
// sequence; there is no background eviction — stale entries are removed
// the moment a Get finds them expired.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]Entry

	now func() time.Time // swapped in tests
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Get returns a copy of the cached result for domain if it is still
// within the TTL window. An expired entry is evicted on the spot.
func (c *Cache) Get(domain string) (models.DomainLookupResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.entries[domain]
	if !found {
		return models.DomainLookupResult{}, false
	}
	if c.now().Sub(e.CachedAt) >= c.ttl {
		delete(c.entries, domain)
		return models.DomainLookupResult{}, false
	}

	out := e.Result
	if e.Result.NSRecords != nil {
		out.NSRecords = append([]string(nil), e.Result.NSRecords...)
	}
	return out, true
}

// Put stores or overwrites the result for domain with a fresh timestamp.
func (c *Cache) Put(domain string, result models.DomainLookupResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if result.NSRecords != nil {
		result.NSRecords = append([]string(nil), result.NSRecords...)
	}
	c.entries[domain] = Entry{Result: result, CachedAt: c.now()}
}

// Stats scans every entry and classifies it against the TTL. Expired
// entries are counted, not evicted: eviction stays lazy in Get.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	s := Stats{TotalEntries: len(c.entries)}
	for _, e := range c.entries {
		if now.Sub(e.CachedAt) >= c.ttl {
			s.ExpiredEntries++
		} else {
			s.ActiveEntries++
		}
	}
	return s
}
