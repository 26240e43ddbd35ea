package cache

import (
	"net/http"
	"time"
)

// CacheEntry is a cached upstream response.
type CacheEntry struct {
	// Data is the response body.
	Data []byte `json:"data"`

	// ETag for conditional requests (If-None-Match).
	ETag string `json:"etag,omitempty"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`

	// LastModified mirrors the upstream Last-Modified header.
	LastModified time.Time `json:"last_modified,omitempty"`

	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers,omitempty"`
	CachedAt   time.Time   `json:"cached_at"`
}

// NewEntry builds an entry for data produced locally (scraped pages,
// aggregated results) that should live for ttl.
func NewEntry(data []byte, ttl time.Duration) *CacheEntry {
	now := time.Now()
	return &CacheEntry{
		Data:       data,
		Expires:    now.Add(ttl),
		StatusCode: http.StatusOK,
		Headers:    http.Header{"Content-Type": []string{"application/json"}},
		CachedAt:   now,
	}
}

// IsExpired returns true if the cache entry has expired.
func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration, or 0 if already expired.
func (e *CacheEntry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
