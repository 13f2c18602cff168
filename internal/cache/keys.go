package cache

import (
	"net/url"
	"strings"
)

// Key derives the cache key for a provider request. Parameters are encoded in
// sorted order so equal requests map to the same key; credential parameters
// must be removed by the caller beforehand.
func Key(provider, endpoint string, params url.Values) string {
	var b strings.Builder
	b.WriteString(provider)
	b.WriteByte('_')
	b.WriteString(endpoint)
	b.WriteByte('_')
	b.WriteString(params.Encode())
	return b.String()
}
