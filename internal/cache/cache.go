// Package cache provides a time-expiring in-memory key/value store and the
// deterministic key derivation used for every cached data kind.
package cache

import (
	"encoding/base64"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is the fixed expiry applied to every entry. There is no
// per-entry override and no invalidation besides expiry or process restart.
const DefaultTTL = 10 * time.Minute

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Store is a TTL key/value store safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration

	// now is swappable for deterministic expiry tests
	now func() time.Time
}

// New creates a Store with the default TTL.
func New() *Store {
	return NewWithTTL(DefaultTTL)
}

// NewWithTTL creates a Store with a custom TTL.
func NewWithTTL(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the value for key, or false if absent or expired. Expired
// entries are removed lazily on access.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		if cur, still := s.entries[key]; still && s.now().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set installs or overwrites a value under key with the default TTL.
func (s *Store) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{
		value:     value,
		expiresAt: s.now().Add(s.ttl),
	}
}

// Has reports whether key holds an unexpired value.
func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Len returns the number of entries currently stored, counting entries that
// have expired but not yet been evicted.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Key derivation. Truncated base64 means two distinct inputs can share a
// key; that approximation is accepted, not worked around.

// TokenKey derives the cache key for a venue lookup by symbol.
func TokenKey(symbol string) string {
	return "token:" + strings.ToLower(symbol)
}

// AddressKey derives the cache key for a venue lookup by contract address.
func AddressKey(address string) string {
	return "address:" + strings.ToLower(address)
}

// GeckoKey derives the cache key for an aggregator lookup by symbol.
func GeckoKey(symbol string) string {
	return "gecko:" + strings.ToLower(symbol)
}

// AnalysisKey derives the cache key for a classification result, scoped to
// one chat.
func AnalysisKey(chatID int64, input string) string {
	return "analysis:" + strconv.FormatInt(chatID, 10) + ":" + truncatedBase64(input, 32)
}

// TopTokensKey derives the cache key for a top-tokens listing.
func TopTokensKey(input string) string {
	return "top:" + truncatedBase64(input, 24)
}

func truncatedBase64(input string, n int) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(input))
	if len(encoded) > n {
		return encoded[:n]
	}
	return encoded
}
