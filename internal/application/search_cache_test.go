package application

import (
	"testing"
	"time"
)

func TestSearchCacheStoresAndReturnsCopies(t *testing.T) {
	cache := newSearchCache(time.Minute)
	filter := SitterFilter{Query: "marie", MaxDistance: 10, MaxPrice: 50, PetType: "any"}

	original := []Sitter{{ID: "1", Name: "Marie Dubois", PetTypes: []string{"Chiens"}}}
	cache.Store(filter, original)

	// Mutating the original slice should not affect the cached copy.
	original[0].Name = "mutated"
	original[0].PetTypes[0] = "mutated"

	cached, ok := cache.Get(filter)
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if cached[0].Name != "Marie Dubois" || cached[0].PetTypes[0] != "Chiens" {
		t.Fatalf("expected cached sitter to remain unchanged, got %+v", cached[0])
	}

	cached[0].Name = "changed"
	cachedAgain, ok := cache.Get(filter)
	if !ok {
		t.Fatalf("expected cache hit on second read")
	}
	if cachedAgain[0].Name != "Marie Dubois" {
		t.Fatalf("expected cache to return independent copy, got %s", cachedAgain[0].Name)
	}
}

func TestSearchCacheKeysOnEveryFilterField(t *testing.T) {
	cache := newSearchCache(time.Minute)
	base := SitterFilter{MaxDistance: 10, MaxPrice: 50, PetType: "any"}
	cache.Store(base, []Sitter{{ID: "1"}})

	for _, other := range []SitterFilter{
		{Query: "x", MaxDistance: 10, MaxPrice: 50, PetType: "any"},
		{MaxDistance: 5, MaxPrice: 50, PetType: "any"},
		{MaxDistance: 10, MaxPrice: 20, PetType: "any"},
		{MaxDistance: 10, MaxPrice: 50, PetType: "Chats"},
	} {
		if _, ok := cache.Get(other); ok {
			t.Fatalf("expected miss for %+v", other)
		}
	}
	if _, ok := cache.Get(base); !ok {
		t.Fatalf("expected hit for base filter")
	}
}

func TestSearchCacheExpiresEntries(t *testing.T) {
	cache := newSearchCache(20 * time.Millisecond)
	filter := SitterFilter{MaxDistance: 10, MaxPrice: 50, PetType: "any"}

	cache.Store(filter, []Sitter{{ID: "1"}})
	if _, ok := cache.Get(filter); !ok {
		t.Fatalf("expected cache hit before expiry")
	}

	time.Sleep(60 * time.Millisecond)
	if _, ok := cache.Get(filter); ok {
		t.Fatalf("expected cache entry to expire")
	}
}

func TestSearchCacheInvalidate(t *testing.T) {
	cache := newSearchCache(time.Minute)
	cache.Store(SitterFilter{PetType: "any"}, []Sitter{{ID: "1"}})
	cache.Invalidate()
	if cache.Len() != 0 {
		t.Fatalf("expected cache to be empty after invalidation")
	}

	var nilCache *searchCache
	nilCache.Store(SitterFilter{}, nil)
	nilCache.Invalidate()
	if _, ok := nilCache.Get(SitterFilter{}); ok {
		t.Fatalf("expected nil cache to miss")
	}
}
