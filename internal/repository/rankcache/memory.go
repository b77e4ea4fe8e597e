package rankcache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kailas-cloud/helpdesk/internal/domain/kb"
)

// janitorFactor sets how many TTLs pass between sweeps of expired entries.
const janitorFactor = 10

// Memory is an in-process ranking cache.
// Expiry is checked on read; a slow janitor drops entries nobody reads again.
type Memory struct {
	items *gocache.Cache
}

// NewMemory creates an in-process cache with the given entry TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{items: gocache.New(ttl, janitorFactor*ttl)}
}

// Get returns cached results for key.
func (m *Memory) Get(_ context.Context, key string) ([]kb.Scored, bool) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false
	}
	results, ok := v.([]kb.Scored)
	return results, ok
}

// Set stores results under key with the default TTL.
func (m *Memory) Set(_ context.Context, key string, results []kb.Scored) {
	m.items.SetDefault(key, results)
}

// Len returns the number of stored entries, including expired ones not yet read.
func (m *Memory) Len() int {
	return m.items.ItemCount()
}
