// Package skuname resolves Microsoft licensing SKU part numbers into
// human-readable product names. Database-managed overrides take precedence
// over the built-in mapping table; unknown SKUs fall back to a prettified
// form of the part number itself.
package skuname

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// UnknownLicense is returned for empty SKU part numbers.
const UnknownLicense = "Unknown License"

// DefaultCacheTTL is how long database mappings are cached before a
// refresh is attempted.
const DefaultCacheTTL = 5 * time.Minute

// MappingReader loads the active database SKU overrides, keyed by the
// upper-cased SKU part number.
type MappingReader interface {
	ActiveMappings() (map[string]string, error)
}

// Resolver translates SKU part numbers into product display names.
// It is safe for concurrent use.
type Resolver struct {
	reader MappingReader
	ttl    time.Duration
	now    func() time.Time

	mu        sync.RWMutex
	cache     map[string]string
	refreshed time.Time
}

// NewResolver returns a Resolver backed by the given override reader.
// A nil reader disables database lookups and only the built-in table is
// consulted.
func NewResolver(reader MappingReader) *Resolver {
	return &Resolver{
		reader: reader,
		ttl:    DefaultCacheTTL,
		now:    time.Now,
	}
}

// Resolve returns the product display name for a SKU part number.
//
// Lookup order: active database overrides, the built-in table (exact, then
// case-insensitive, then with underscores and hyphens ignored), and finally
// a title-cased rendering of the part number itself. Resolve never fails;
// an unreachable database only disables the override layer.
func (r *Resolver) Resolve(skuPartNumber string) string {
	skuPartNumber = strings.TrimSpace(skuPartNumber)
	if skuPartNumber == "" {
		return UnknownLicense
	}

	upperSku := strings.ToUpper(skuPartNumber)

	if name, ok := r.overrides()[upperSku]; ok {
		return name
	}

	if name, ok := staticMapping[skuPartNumber]; ok {
		return name
	}

	if name, ok := staticMapping[upperSku]; ok {
		return name
	}

	if name, ok := normalizedIndex[normalizeSku(upperSku)]; ok {
		return name
	}

	return humanizeSku(skuPartNumber)
}

// Invalidate drops the cached database overrides so the next Resolve call
// reloads them. Called after mappings are edited through the API.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = nil
	r.refreshed = time.Time{}
}

// overrides returns the cached database mappings, refreshing them when the
// cache is older than the TTL.
func (r *Resolver) overrides() map[string]string {
	if r.reader == nil {
		return nil
	}

	now := r.now()

	r.mu.RLock()
	cache := r.cache
	fresh := cache != nil && now.Sub(r.refreshed) <= r.ttl
	r.mu.RUnlock()

	if fresh {
		return cache
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// another goroutine may have refreshed while we waited for the lock
	if r.cache != nil && now.Sub(r.refreshed) <= r.ttl {
		return r.cache
	}

	mappings, err := r.reader.ActiveMappings()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load SKU mappings from the database; using built-in table")

		mappings = map[string]string{}
	}

	r.cache = mappings
	r.refreshed = now

	return r.cache
}

// humanizeSku turns a raw part number like "UNKNOWN_SKU_123" into
// "Unknown Sku 123".
func humanizeSku(skuPartNumber string) string {
	replacer := strings.NewReplacer("_", " ", "-", " ")

	words := strings.Fields(replacer.Replace(skuPartNumber))
	if len(words) == 0 {
		return UnknownLicense
	}

	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
