package application

import (
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const defaultSearchCacheTTL = 30 * time.Second

// searchCache keeps recent sitter search results per filter while the sitters
// slice is unchanged.
type searchCache struct {
	cache *gocache.Cache
}

func newSearchCache(ttl time.Duration) *searchCache {
	if ttl <= 0 {
		ttl = defaultSearchCacheTTL
	}
	return &searchCache{cache: gocache.New(ttl, 2*ttl)}
}

func (c *searchCache) Get(filter SitterFilter) ([]Sitter, bool) {
	if c == nil {
		return nil, false
	}
	value, found := c.cache.Get(searchKey(filter))
	if !found {
		return nil, false
	}
	sitters, ok := value.([]Sitter)
	if !ok {
		return nil, false
	}
	return cloneSitters(sitters), true
}

func (c *searchCache) Store(filter SitterFilter, sitters []Sitter) {
	if c == nil {
		return
	}
	c.cache.SetDefault(searchKey(filter), cloneSitters(sitters))
}

func (c *searchCache) Invalidate() {
	if c == nil {
		return
	}
	c.cache.Flush()
}

func (c *searchCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.ItemCount()
}

// searchKey expects a normalized filter.
func searchKey(filter SitterFilter) string {
	return fmt.Sprintf("%s|%g|%g|%s", strings.ToLower(filter.Query), filter.MaxDistance, filter.MaxPrice, filter.PetType)
}
