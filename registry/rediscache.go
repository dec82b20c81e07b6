package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecschema-go/ecschema/schema"
)

// CachedSource is a read-through redis cache over a DocumentSource. Schema
// documents are immutable once published, so cached entries never need
// invalidation; the TTL only bounds memory held for schemas that fall out
// of use.
//
// Only exact-key requests are cached: under the other match policies the
// winning version can change as schemas are published, and a stale answer
// would violate the newest-acceptable-version contract.
type CachedSource struct {
	inner  DocumentSource
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// CacheConfig configures a CachedSource.
type CacheConfig struct {
	// Prefix namespaces cache keys; defaults to "ecschema:".
	Prefix string
	// TTL bounds entry lifetime; zero means no expiry.
	TTL time.Duration
}

// NewCachedSource wraps inner with a redis read-through cache.
func NewCachedSource(inner DocumentSource, client *redis.Client, config CacheConfig) *CachedSource {
	if config.Prefix == "" {
		config.Prefix = "ecschema:"
	}
	return &CachedSource{
		inner:  inner,
		client: client,
		prefix: config.Prefix,
		ttl:    config.TTL,
	}
}

// Document returns the schema JSON for key, consulting the cache first for
// exact-key requests and filling it on a miss.
func (c *CachedSource) Document(ctx context.Context, key schema.SchemaKey, policy schema.MatchPolicy) ([]byte, error) {
	if policy != schema.MatchExact {
		return c.inner.Document(ctx, key, policy)
	}

	cacheKey := c.cacheKey(key)
	doc, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("schema cache get %s: %w", key, err)
	}

	doc, err = c.inner.Document(ctx, key, policy)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, cacheKey, doc, c.ttl).Err(); err != nil {
		return nil, fmt.Errorf("schema cache set %s: %w", key, err)
	}
	return doc, nil
}

func (c *CachedSource) cacheKey(key schema.SchemaKey) string {
	return c.prefix + key.String()
}
