// Package dedupe collapses duplicate catalog items while preserving order.
// Upstream searches often return the same product with different casing or
// stray whitespace, and result order carries relevance ranking.
package dedupe

import (
	"strings"

	contractx "github.com/alessalabs/medassist/agent/contract"
)

// Products drops later occurrences of a normalized product name, keeping
// the first occurrence verbatim. Pure, total, and idempotent.
func Products(items []contractx.Product) []contractx.Product {
	if len(items) == 0 {
		return []contractx.Product{}
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]contractx.Product, 0, len(items))
	for _, item := range items {
		key := normalizeName(item.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

// ProductsLimit deduplicates and caps the result at limit entries.
// A limit <= 0 means unlimited.
func ProductsLimit(items []contractx.Product, limit int) []contractx.Product {
	out := Products(items)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
