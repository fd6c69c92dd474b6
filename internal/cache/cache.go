// Package cache stores serialized comparison reports so repeated requests for
// the same amount and denominations skip the dynamic-programming run.
package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
)

// Cache is a string key/value store. Get reports a miss with ok false and a nil
// error; a non-nil error means the backend could not be reached.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// ReportKey builds the cache key for a comparison of amount over denominations.
// Denominations are keyed in the order given, since greedy output depends on it.
func ReportKey(amount int, denominations []int) string {
	var sb strings.Builder
	sb.WriteString("coinchange:report:")
	sb.WriteString(strconv.Itoa(amount))
	sb.WriteByte(':')
	for i, denomination := range denominations {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(denomination))
	}
	return sb.String()
}

// MemoryCache keeps entries in a map guarded by a RWMutex.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]string),
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return val, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}
