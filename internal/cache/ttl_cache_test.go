package cache

import (
	"testing"
	"time"
)

func TestTTLCacheSetGet(t *testing.T) {
	cache := NewTTLCache[string, int](4, time.Minute)
	cache.Set("a", 1)

	value, ok := cache.Get("a")
	if !ok || value != 1 {
		t.Fatalf("expected (1, true), got (%d, %v)", value, ok)
	}
}

func TestTTLCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewTTLCache[string, int](2, time.Minute)
	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Get("a")
	cache.Set("c", 3)

	if _, ok := cache.Get("b"); ok {
		t.Fatalf("expected key 'b' to be evicted")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Fatalf("expected recently used key 'a' to remain")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Fatalf("expected key 'c' to remain")
	}
}

func TestTTLCacheExpires(t *testing.T) {
	now := time.Now()
	cache := NewTTLCache[string, int](4, 10*time.Second)
	cache.now = func() time.Time { return now }
	cache.Set("a", 1)

	now = now.Add(11 * time.Second)
	if _, ok := cache.Get("a"); ok {
		t.Fatalf("expected key 'a' to expire")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected expired entry to be dropped, len=%d", cache.Len())
	}
}

func TestTTLCacheSetRefreshesDeadline(t *testing.T) {
	now := time.Now()
	cache := NewTTLCache[string, int](4, 10*time.Second)
	cache.now = func() time.Time { return now }
	cache.Set("a", 1)

	now = now.Add(8 * time.Second)
	cache.Set("a", 2)

	now = now.Add(8 * time.Second)
	value, ok := cache.Get("a")
	if !ok || value != 2 {
		t.Fatalf("expected refreshed entry, got (%d, %v)", value, ok)
	}
}

func TestTTLCacheDelete(t *testing.T) {
	cache := NewTTLCache[string, int](4, time.Minute)
	cache.Set("a", 1)
	cache.Delete("a")
	cache.Delete("missing")

	if _, ok := cache.Get("a"); ok {
		t.Fatalf("expected key 'a' to be deleted")
	}
}
