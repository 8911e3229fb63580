// Package dedup identifies news items across runs: a stable fingerprint per item and a
// persisted set of fingerprints already seen.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"

	"portfolio-news-alerts/internal/types"
)

// Fingerprint returns the lowercase hex SHA-256 of
// symbol|headline|iso_timestamp|url. Persisted seen-sets depend on this exact byte
// layout, so it must not change.
func Fingerprint(item types.NewsItem) string {
	raw := item.Symbol + "|" + item.Headline + "|" + item.ISOTimestamp() + "|" + item.URL
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Fresh returns the items whose fingerprint is not in seen, adding each kept
// fingerprint to seen. Duplicates inside items are kept once.
func Fresh(items []types.NewsItem, seen SeenSet) []types.NewsItem {
	var out []types.NewsItem
	for _, it := range items {
		id := Fingerprint(it)
		if seen.Has(id) {
			continue
		}
		seen.Add(id)
		out = append(out, it)
	}
	return out
}
