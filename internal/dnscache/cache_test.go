package dnscache

import (
	"testing"
	"time"

	"adscope/internal/models"
)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestGetPutRoundTrip(t *testing.T) {
	c := New(DefaultTTL)

	res := models.DomainLookupResult{
		Domain:     "shop.example",
		Platform:   models.PlatformHome,
		IsHome:     true,
		ResolvedIP: "203.0.113.10",
		Confidence: models.ConfidenceHigh,
		NSRecords:  []string{"ns1.example.net"},
	}
	c.Put("shop.example", res)

	got, ok := c.Get("shop.example")
	if !ok {
		t.Fatal("expected cache hit after Put")
	}
	if got.Platform != models.PlatformHome || got.ResolvedIP != "203.0.113.10" {
		t.Errorf("cached result mangled: %+v", got)
	}

	// The caller must not be able to reach back into the cache's copy.
	got.NSRecords[0] = "tampered"
	again, _ := c.Get("shop.example")
	if again.NSRecords[0] != "ns1.example.net" {
		t.Error("mutation through returned copy leaked into the cache")
	}
}

func TestMissReturnsFalse(t *testing.T) {
	c := New(DefaultTTL)
	if _, ok := c.Get("never-stored.example"); ok {
		t.Error("expected miss for unknown domain")
	}
}

func TestTTLExpiryEvictsLazily(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New(600 * time.Second)
	c.now = fixedClock(&now)

	c.Put("stale.example", models.DomainLookupResult{Domain: "stale.example"})

	// Just inside the window: still a hit.
	now = now.Add(599 * time.Second)
	if _, ok := c.Get("stale.example"); !ok {
		t.Fatal("entry expired before the TTL elapsed")
	}

	// At the boundary the entry is stale and must be evicted.
	now = now.Add(1 * time.Second)
	if _, ok := c.Get("stale.example"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if got := c.Stats().TotalEntries; got != 0 {
		t.Errorf("expired entry not evicted on failed check: %d entries remain", got)
	}
}

func TestPutOverwritesWithFreshTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New(600 * time.Second)
	c.now = fixedClock(&now)

	c.Put("shop.example", models.DomainLookupResult{Platform: models.PlatformUnknown})

	now = now.Add(500 * time.Second)
	c.Put("shop.example", models.DomainLookupResult{Platform: "shopify"})

	// 550s after the first Put, 50s after the second: still fresh.
	now = now.Add(50 * time.Second)
	got, ok := c.Get("shop.example")
	if !ok {
		t.Fatal("overwrite did not refresh the timestamp")
	}
	if got.Platform != "shopify" {
		t.Errorf("expected overwritten value, got %q", got.Platform)
	}
}

func TestStatsCountsActiveAndExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New(600 * time.Second)
	c.now = fixedClock(&now)

	c.Put("old.example", models.DomainLookupResult{})
	now = now.Add(700 * time.Second)
	c.Put("fresh.example", models.DomainLookupResult{})

	s := c.Stats()
	if s.TotalEntries != 2 || s.ActiveEntries != 1 || s.ExpiredEntries != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestZeroTTLFallsBackToDefault(t *testing.T) {
	c := New(0)
	if c.ttl != DefaultTTL {
		t.Errorf("expected default TTL, got %v", c.ttl)
	}
}
