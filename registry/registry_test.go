package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecerrors "github.com/ecschema-go/ecschema/errors"
	"github.com/ecschema-go/ecschema/schema"
)

func newSchema(name string, major, write, minor int) *schema.Schema {
	return schema.New(schema.SchemaKey{
		Name:    name,
		Version: schema.Version{Major: major, Write: write, Minor: minor},
	}, "")
}

func TestContextAddAndGet(t *testing.T) {
	ctx := context.Background()
	c := NewContext()

	s := newSchema("BisCore", 1, 0, 5)
	require.NoError(t, c.AddSchema(ctx, s))

	got, err := c.Schema(ctx, s.Key, schema.MatchExact)
	require.NoError(t, err)
	assert.Same(t, s, got)

	got, err = c.Schema(ctx, schema.SchemaKey{Name: "biscore", Version: s.Key.Version}, schema.MatchExact)
	require.NoError(t, err)
	assert.Same(t, s, got, "name lookup is case-insensitive")
}

func TestContextAddSchema_AlreadyRegistered(t *testing.T) {
	ctx := context.Background()
	c := NewContext()

	require.NoError(t, c.AddSchema(ctx, newSchema("BisCore", 1, 0, 5)))
	err := c.AddSchema(ctx, newSchema("biscore", 1, 0, 5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ecerrors.Sentinel(ecerrors.ErrAlreadyRegistered)))

	// A different version of the same name is a new registration.
	require.NoError(t, c.AddSchema(ctx, newSchema("BisCore", 1, 0, 6)))
	assert.Equal(t, 2, c.SchemaCount())
}

func TestContextSchema_MatchPolicies(t *testing.T) {
	ctx := context.Background()
	c := NewContext()
	require.NoError(t, c.AddSchema(ctx, newSchema("BisCore", 1, 0, 3)))
	require.NoError(t, c.AddSchema(ctx, newSchema("BisCore", 1, 0, 9)))
	require.NoError(t, c.AddSchema(ctx, newSchema("BisCore", 1, 1, 0)))

	got, err := c.Schema(ctx, schema.SchemaKey{Name: "BisCore", Version: schema.Version{Major: 1, Write: 0, Minor: 5}}, schema.MatchLatestWriteCompatible)
	require.NoError(t, err)
	assert.Equal(t, schema.Version{Major: 1, Write: 0, Minor: 9}, got.Key.Version,
		"newest write-compatible version wins")

	got, err = c.Schema(ctx, schema.SchemaKey{Name: "BisCore", Version: schema.Version{}}, schema.MatchLatest)
	require.NoError(t, err)
	assert.Equal(t, schema.Version{Major: 1, Write: 1, Minor: 0}, got.Key.Version)

	_, err = c.Schema(ctx, schema.SchemaKey{Name: "BisCore", Version: schema.Version{Major: 1, Write: 0, Minor: 10}}, schema.MatchLatestWriteCompatible)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ecerrors.Sentinel(ecerrors.ErrSchemaNotFound)))
}

func TestContextSchemaItem(t *testing.T) {
	ctx := context.Background()
	c := NewContext()

	s := newSchema("BisCore", 1, 0, 0)
	element := schema.NewEntityClass("Element")
	require.NoError(t, s.AddItem(element))
	require.NoError(t, c.AddSchema(ctx, s))

	item, err := c.SchemaItem(ctx, schema.ItemKey{Schema: s.Key, Name: "element"})
	require.NoError(t, err)
	assert.Same(t, schema.Item(element), item)

	_, err = c.SchemaItem(ctx, schema.ItemKey{Schema: s.Key, Name: "Missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ecerrors.Sentinel(ecerrors.ErrItemNotFound)))
}

func TestContextRemoveSchema(t *testing.T) {
	ctx := context.Background()
	c := NewContext()
	s := newSchema("Partial", 1, 0, 0)
	require.NoError(t, c.AddSchema(ctx, s))

	require.NoError(t, c.RemoveSchema(ctx, s.Key))
	_, err := c.Schema(ctx, s.Key, schema.MatchExact)
	assert.True(t, errors.Is(err, ecerrors.Sentinel(ecerrors.ErrSchemaNotFound)))

	assert.Error(t, c.RemoveSchema(ctx, s.Key), "double removal misses")
}

func TestContextConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewContext()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s := newSchema(fmt.Sprintf("Schema%02d", i), 1, 0, 0)
			assert.NoError(t, c.AddSchema(ctx, s))
		}(i)
		go func(i int) {
			defer wg.Done()
			key := schema.SchemaKey{Name: fmt.Sprintf("Schema%02d", i), Version: schema.Version{Major: 1, Write: 0, Minor: 0}}
			// Racing the writer; a miss is fine, a panic or torn read is not.
			_, _ = c.Schema(ctx, key, schema.MatchExact)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 16, c.SchemaCount())
}

func TestContextHonorsCancellation(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewContext()
	require.Error(t, c.AddSchema(cancelled, newSchema("Any", 1, 0, 0)))
	_, err := c.Schema(cancelled, schema.SchemaKey{Name: "Any"}, schema.MatchLatest)
	require.Error(t, err)
}
