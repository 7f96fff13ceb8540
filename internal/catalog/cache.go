package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/open-dcat/open-dcat/internal/pii"
)

// Cache is a read-through layer over the Store for discovered artifacts.
// Cache failures degrade to store reads; a broken cache never fails a
// request, it only slows it down.
type Cache struct {
	store  *Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache wires the cache over a store. Pass a nil client to bypass caching
// entirely; every read then goes straight to the store.
func NewCache(store *Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{store: store, client: client, ttl: ttl, logger: logger}
}

func schemaKey(datasourceID string) string   { return "opendcat:schema:" + datasourceID }
func profilesKey(datasourceID string) string { return "opendcat:profiles:" + datasourceID }
func findingsKey(datasourceID string) string { return "opendcat:findings:" + datasourceID }

// GetSchema reads the schema through the cache.
func (c *Cache) GetSchema(ctx context.Context, datasourceID string) (*SchemaMetadata, error) {
	var schema SchemaMetadata
	if c.lookup(ctx, schemaKey(datasourceID), &schema) {
		return &schema, nil
	}
	fresh, err := c.store.GetSchema(ctx, datasourceID)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, schemaKey(datasourceID), fresh)
	return fresh, nil
}

// GetProfiles reads the column profiles through the cache.
func (c *Cache) GetProfiles(ctx context.Context, datasourceID string) ([]ColumnProfile, error) {
	var profiles []ColumnProfile
	if c.lookup(ctx, profilesKey(datasourceID), &profiles) {
		return profiles, nil
	}
	fresh, err := c.store.GetProfiles(ctx, datasourceID)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, profilesKey(datasourceID), fresh)
	return fresh, nil
}

// GetPIIFindings reads the PII findings through the cache.
func (c *Cache) GetPIIFindings(ctx context.Context, datasourceID string) ([]pii.Finding, error) {
	var findings []pii.Finding
	if c.lookup(ctx, findingsKey(datasourceID), &findings) {
		return findings, nil
	}
	fresh, err := c.store.GetPIIFindings(ctx, datasourceID)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, findingsKey(datasourceID), fresh)
	return fresh, nil
}

// Invalidate drops every cached artifact for a data source. Called after
// discovery or profiling writes and before a data source is deleted.
func (c *Cache) Invalidate(ctx context.Context, datasourceID string) {
	if c.client == nil {
		return
	}
	keys := []string{schemaKey(datasourceID), profilesKey(datasourceID), findingsKey(datasourceID)}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", "datasource_id", datasourceID, "error", err)
	}
}

func (c *Cache) lookup(ctx context.Context, key string, dst any) bool {
	if c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Cache) fill(ctx context.Context, key string, v any) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
