package rankcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdesk/internal/db"
	"github.com/kailas-cloud/helpdesk/internal/domain/kb"
)

const keyPrefix = "helpdesk:rank:"

// store is the consumer interface for the shared cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Shared keeps ranking results in Redis/Valkey so replicas share them.
// Failures are logged and treated as misses.
type Shared struct {
	store  store
	ttl    time.Duration
	logger *zap.Logger
}

// NewShared creates a Redis-backed cache.
func NewShared(s store, ttl time.Duration, logger *zap.Logger) *Shared {
	return &Shared{store: s, ttl: ttl, logger: logger}
}

// Get returns cached results for key.
func (c *Shared) Get(ctx context.Context, key string) ([]kb.Scored, bool) {
	sk := c.storeKey(key)
	data, err := c.store.Get(ctx, sk)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read ranking cache", zap.Error(err))
		}
		return nil, false
	}

	var items []scoredDTO
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn("Dropping undecodable ranking cache entry", zap.Error(err))
		if err := c.store.Del(ctx, sk); err != nil {
			c.logger.Warn("Failed to delete ranking cache entry", zap.Error(err))
		}
		return nil, false
	}
	return fromDTO(items), true
}

// Set stores results under key.
func (c *Shared) Set(ctx context.Context, key string, results []kb.Scored) {
	data, err := json.Marshal(toDTO(results))
	if err != nil {
		c.logger.Warn("Failed to encode ranking cache entry", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, c.storeKey(key), data, c.ttl); err != nil {
		c.logger.Warn("Failed to write ranking cache", zap.Error(err))
	}
}

// storeKey hashes the logical key; normalized questions can be long and contain spaces.
func (c *Shared) storeKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return keyPrefix + hex.EncodeToString(h[:])
}
