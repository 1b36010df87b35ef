package schedule

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

// The cache owns a sweep goroutine; every test must end with it stopped.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCache_BasicOperations(t *testing.T) {
	cache := NewCache(CacheConfig{
		TTL:             5 * time.Minute,
		MaxEntries:      100,
		CleanupInterval: time.Minute,
	})
	defer cache.Close()

	// Cache miss first
	result, found := cache.Get("key1")
	if found {
		t.Error("Expected cache miss, got hit")
	}
	if result != nil {
		t.Error("Expected nil result on cache miss")
	}

	cache.Set("key1", true)

	result, found = cache.Get("key1")
	if !found {
		t.Error("Expected cache hit, got miss")
	}
	if result != true {
		t.Errorf("Expected true, got %v", result)
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	cache := NewCache(CacheConfig{
		TTL:             100 * time.Millisecond, // Very short TTL for testing
		MaxEntries:      100,
		CleanupInterval: 50 * time.Millisecond,
	})
	defer cache.Close()

	cache.Set("key1", true)

	if _, found := cache.Get("key1"); !found {
		t.Error("Expected cache hit immediately after set")
	}

	time.Sleep(150 * time.Millisecond)

	if _, found := cache.Get("key1"); found {
		t.Error("Expected cache miss after TTL expiration")
	}
}

func TestCache_MaxEntriesEviction(t *testing.T) {
	cache := NewCache(CacheConfig{
		TTL:             5 * time.Minute,
		MaxEntries:      3, // Small limit for testing
		CleanupInterval: time.Minute,
	})
	defer cache.Close()

	for i := 0; i < 3; i++ {
		cache.Set(fmt.Sprintf("key%d", i), i)
		time.Sleep(time.Millisecond) // distinct access times for LRU ordering
	}

	if stats := cache.Stats(); stats.TotalEntries != 3 {
		t.Errorf("Expected 3 entries, got %d", stats.TotalEntries)
	}

	// One more entry triggers eviction of the least recently used.
	cache.Set("key3", 3)

	if stats := cache.Stats(); stats.TotalEntries != 3 {
		t.Errorf("Expected 3 entries after eviction, got %d", stats.TotalEntries)
	}
	if _, found := cache.Get("key3"); !found {
		t.Error("Expected newest entry to be present after eviction")
	}
	if _, found := cache.Get("key0"); found {
		t.Error("Expected oldest entry to be evicted")
	}
}

func TestCache_Stats(t *testing.T) {
	cache := NewCache(DefaultCacheConfig)
	defer cache.Close()

	if stats := cache.Stats(); stats.TotalEntries != 0 {
		t.Errorf("Expected 0 initial entries, got %d", stats.TotalEntries)
	}

	for i := 0; i < 5; i++ {
		cache.Set(fmt.Sprintf("key%d", i), true)
	}

	stats := cache.Stats()
	if stats.TotalEntries != 5 {
		t.Errorf("Expected 5 entries, got %d", stats.TotalEntries)
	}
	if stats.ActiveEntries != 5 {
		t.Errorf("Expected 5 active entries, got %d", stats.ActiveEntries)
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := NewCache(CacheConfig{
		TTL:             5 * time.Minute,
		MaxEntries:      100,
		CleanupInterval: time.Minute,
	})
	defer cache.Close()

	const numGoroutines = 10
	const operationsPerGoroutine = 100

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				key := fmt.Sprintf("key%d", id*operationsPerGoroutine+j)
				if j%2 == 0 {
					cache.Set(key, j)
				} else {
					cache.Get(key)
				}
			}
		}(i)
	}
	wg.Wait()

	// Cache must still work after the stampede.
	cache.Set("final", true)
	if result, found := cache.Get("final"); !found || result != true {
		t.Error("Cache should still be functional after concurrent access")
	}
}
