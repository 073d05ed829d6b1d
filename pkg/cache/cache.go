// Package cache stores rendered predictions in Redis keyed by upload digest,
// so repeated uploads of the same scan skip inference.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/instill-ai/medical-backend/pkg/datamodel"
)

// Entry is a cached rendered prediction.
type Entry struct {
	PNG         []byte          `json:"png"`
	Probability *float64        `json:"probability,omitempty"`
	BBox        *datamodel.BBox `json:"bbox,omitempty"`
}

// ResultCache is a Redis-backed prediction cache. A nil *ResultCache is valid
// and caches nothing.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache wraps client. Entries expire after ttl.
func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// Key builds the cache key for a route, model and upload digest.
func Key(route, model, digest string) string {
	return fmt.Sprintf("predict:%s:%s:%s", route, model, digest)
}

// Get returns the entry under key. A miss is (nil, nil).
func (c *ResultCache) Get(ctx context.Context, key string) (*Entry, error) {
	if c == nil {
		return nil, nil
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Set stores e under key.
func (c *ResultCache) Set(ctx context.Context, key string, e *Entry) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, c.ttl).Err()
}
