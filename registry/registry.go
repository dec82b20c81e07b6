// Package registry provides the schema context: a versioned, named store of
// resolved schemas shared by every deserialization, plus persistent and
// cached document sources for loading schema JSON on demand.
package registry

import (
	"context"
	"sort"
	"strings"
	"sync"

	ecerrors "github.com/ecschema-go/ecschema/errors"
	"github.com/ecschema-go/ecschema/schema"
)

// Context maps schema keys to resolved schemas. It is append-only during a
// session: schemas are added once and never replaced. Add and lookup are
// individually atomic, so independent schemas may be deserialized
// concurrently against one Context.
type Context struct {
	mu sync.RWMutex

	// lower-cased name -> versions, newest first
	schemas map[string][]*schema.Schema
}

// NewContext creates an empty schema context.
func NewContext() *Context {
	return &Context{schemas: make(map[string][]*schema.Schema)}
}

// AddSchema registers a schema under its key. A key already present fails
// with ErrAlreadyRegistered.
func (c *Context) AddSchema(ctx context.Context, s *schema.Schema) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	lower := strings.ToLower(s.Key.Name)
	versions := c.schemas[lower]
	for _, existing := range versions {
		if existing.Key.Version.Compare(s.Key.Version) == 0 {
			return ecerrors.NewAlreadyRegistered(s.FullName())
		}
	}
	versions = append(versions, s)
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Key.Version.Compare(versions[j].Key.Version) > 0
	})
	c.schemas[lower] = versions
	return nil
}

// Schema returns the registered schema matching key under the given policy.
// For MatchLatest and MatchLatestWriteCompatible the newest acceptable
// version wins. A miss fails with ErrSchemaNotFound.
func (c *Context) Schema(ctx context.Context, key schema.SchemaKey, policy schema.MatchPolicy) (*schema.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, candidate := range c.schemas[strings.ToLower(key.Name)] {
		if candidate.Key.Matches(key, policy) {
			return candidate, nil
		}
	}
	return nil, ecerrors.NewSchemaNotFound(key.String())
}

// SchemaItem resolves an item key to its item, matching the schema exactly.
// A missing schema fails with ErrSchemaNotFound, a missing item with
// ErrItemNotFound.
func (c *Context) SchemaItem(ctx context.Context, key schema.ItemKey) (schema.Item, error) {
	s, err := c.Schema(ctx, key.Schema, schema.MatchExact)
	if err != nil {
		return nil, err
	}
	item, ok := s.Item(key.Name)
	if !ok {
		return nil, ecerrors.NewItemNotFound(key.String())
	}
	return item, nil
}

// RemoveSchema evicts the schema registered under exactly key. The registry
// is append-only to ordinary callers; this exists solely so the
// deserialization engine can roll back the registration of a schema whose
// read failed partway.
func (c *Context) RemoveSchema(ctx context.Context, key schema.SchemaKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	lower := strings.ToLower(key.Name)
	versions := c.schemas[lower]
	for i, candidate := range versions {
		if candidate.Key.Version.Compare(key.Version) == 0 {
			c.schemas[lower] = append(versions[:i:i], versions[i+1:]...)
			return nil
		}
	}
	return ecerrors.NewSchemaNotFound(key.String())
}

// SchemaCount returns the number of registered schemas across all versions.
func (c *Context) SchemaCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, versions := range c.schemas {
		n += len(versions)
	}
	return n
}
