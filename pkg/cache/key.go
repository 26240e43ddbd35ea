package cache

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
)

// KeyPrefix is the first segment of every Redis key written by the cache.
const KeyPrefix = "kaios"

// MaxKeyLength is the longest key stored verbatim. Longer keys are replaced
// by a digest so arbitrary search text cannot blow up Redis key sizes.
const MaxKeyLength = 200

// CacheKey identifies a cached upstream response.
type CacheKey struct {
	// Namespace separates upstreams ("rawg", "play").
	Namespace string

	// Endpoint is the upstream path (e.g. "/games").
	Endpoint string

	// PathParams are templated path parameters (e.g. {"id": "3498"}).
	PathParams map[string]string

	// QueryParams are the request query parameters. Credentials must be
	// stripped by the caller.
	QueryParams url.Values
}

// String generates a deterministic cache key string.
// Format: kaios:namespace:endpoint:param1=val1:query1=val1
//
// Example:
//
//	kaios:rawg:games:page=2:page_size=20:search=zelda
func (k CacheKey) String() string {
	raw := k.canonical()
	if len(raw) <= MaxKeyLength {
		return raw
	}

	sum := blake3.Sum256([]byte(raw))
	parts := []string{KeyPrefix}
	if k.Namespace != "" {
		parts = append(parts, k.Namespace)
	}
	parts = append(parts, "h", hex.EncodeToString(sum[:16]))
	return strings.Join(parts, ":")
}

func (k CacheKey) canonical() string {
	parts := []string{KeyPrefix}

	if k.Namespace != "" {
		parts = append(parts, k.Namespace)
	}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	if len(k.PathParams) > 0 {
		pathKeys := make([]string, 0, len(k.PathParams))
		for key := range k.PathParams {
			pathKeys = append(pathKeys, key)
		}
		sort.Strings(pathKeys)
		for _, key := range pathKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.PathParams[key]))
		}
	}

	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)
		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, strings.ToLower(k.QueryParams.Get(key))))
		}
	}

	return strings.Join(parts, ":")
}
