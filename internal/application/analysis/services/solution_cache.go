package services

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// SolutionCache memoizes block reports by fingerprint
type SolutionCache struct {
	cache *gocache.Cache
}

// NewSolutionCache creates a cache whose entries expire after ttl.
// A non-positive ttl keeps entries until Flush.
func NewSolutionCache(ttl time.Duration) *SolutionCache {
	expiration := ttl
	cleanup := 2 * ttl
	if ttl <= 0 {
		expiration = gocache.NoExpiration
		cleanup = 0
	}
	return &SolutionCache{cache: gocache.New(expiration, cleanup)}
}

func cacheKey(fingerprint uint64) string {
	return strconv.FormatUint(fingerprint, 16)
}

// Get returns the cached report for fingerprint
func (c *SolutionCache) Get(fingerprint uint64) (*BlockReport, bool) {
	v, ok := c.cache.Get(cacheKey(fingerprint))
	if !ok {
		return nil, false
	}
	report, ok := v.(*BlockReport)
	return report, ok
}

// Set stores a report under its fingerprint
func (c *SolutionCache) Set(fingerprint uint64, report *BlockReport) {
	c.cache.SetDefault(cacheKey(fingerprint), report)
}

// Len returns the number of live entries
func (c *SolutionCache) Len() int {
	return c.cache.ItemCount()
}

// Flush drops every entry
func (c *SolutionCache) Flush() {
	c.cache.Flush()
}
