package deserializer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecerrors "github.com/ecschema-go/ecschema/errors"
	"github.com/ecschema-go/ecschema/registry"
	"github.com/ecschema-go/ecschema/schema"
)

// mapSource serves schema documents from memory, keyed by name.
type mapSource struct {
	docs  map[string][]byte
	calls []string
}

func (s *mapSource) Document(_ context.Context, key schema.SchemaKey, _ schema.MatchPolicy) ([]byte, error) {
	s.calls = append(s.calls, key.Name)
	doc, ok := s.docs[strings.ToLower(key.Name)]
	if !ok {
		return nil, ecerrors.NewSchemaNotFound(key.String())
	}
	return doc, nil
}

const unitsDoc = `{
	"name": "Units",
	"version": "1.0.2",
	"alias": "u",
	"items": {
		"FlowRate": {"schemaItemType": "KindOfQuantity", "persistenceUnit": "CUB_M_PER_SEC", "relativeError": 0.001}
	}
}`

const coreDoc = `{
	"name": "Core",
	"version": "1.0.0",
	"alias": "core",
	"references": [{"name": "Units", "version": "1.0.0"}],
	"items": {
		"Element": {
			"schemaItemType": "EntityClass",
			"properties": [
				{"name": "Flow", "propertyType": "PrimitiveProperty", "typeName": "double", "kindOfQuantity": "Units.FlowRate"}
			]
		}
	}
}`

const appDoc = `{
	"name": "App",
	"version": "1.0.0",
	"alias": "app",
	"references": [{"name": "Core", "version": "1.0.0"}],
	"items": {
		"Widget": {"schemaItemType": "EntityClass", "baseClass": "Core.Element"}
	}
}`

// Loading every dependency up front and loading them on demand through a
// DocumentSource must produce identical graphs.
func TestUpfrontAndOnDemandLoadsAreEquivalent(t *testing.T) {
	ctx := context.Background()

	// Up front: dependencies first, in topological order.
	upfront := registry.NewContext()
	upfrontReader := NewReader(upfront)
	for _, doc := range []string{unitsDoc, coreDoc} {
		_, err := upfrontReader.ReadSchema(ctx, []byte(doc))
		require.NoError(t, err)
	}
	fromUpfront, err := upfrontReader.ReadSchema(ctx, []byte(appDoc))
	require.NoError(t, err)

	// On demand: only the root document is handed over; the rest is pulled
	// through the source as reference resolution reaches it.
	source := &mapSource{docs: map[string][]byte{
		"units": []byte(unitsDoc),
		"core":  []byte(coreDoc),
	}}
	locating := NewLocatingContext(registry.NewContext(), source, nil)
	fromOnDemand, err := NewReader(locating).ReadSchema(ctx, []byte(appDoc))
	require.NoError(t, err)

	assert.Equal(t, signature(fromUpfront), signature(fromOnDemand))
	assert.Equal(t, []string{"Core", "Units"}, source.calls,
		"each dependency is fetched exactly once, depth-first")

	// Both graphs resolve all the way down to the transitive dependency.
	widget, _ := fromOnDemand.Item("Widget")
	base, err := widget.(*schema.EntityClass).BaseClass.Resolve()
	require.NoError(t, err)
	flow, ok := schema.FindProperty(base.(*schema.EntityClass), "Flow", false)
	require.True(t, ok)
	koq, err := schema.ResolveAs[*schema.KindOfQuantity](flow.Common().KindOfQuantity)
	require.NoError(t, err)
	assert.Equal(t, "CUB_M_PER_SEC", koq.PersistenceUnit)
}

// A second lookup of an on-demand schema is served from memory.
func TestLocatingContextCachesLoadedSchemas(t *testing.T) {
	ctx := context.Background()
	source := &mapSource{docs: map[string][]byte{"units": []byte(unitsDoc)}}
	locating := NewLocatingContext(registry.NewContext(), source, nil)

	key := schema.SchemaKey{Name: "Units", Version: schema.Version{Major: 1, Write: 0, Minor: 0}}
	first, err := locating.Schema(ctx, key, schema.MatchLatestWriteCompatible)
	require.NoError(t, err)

	second, err := locating.Schema(ctx, key, schema.MatchLatestWriteCompatible)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Len(t, source.calls, 1)
}

// Item lookup against a schema that is not yet in memory pulls the schema
// through the source, the same as a schema lookup would.
func TestLocatingContextSchemaItemLoadsOnDemand(t *testing.T) {
	ctx := context.Background()
	source := &mapSource{docs: map[string][]byte{"units": []byte(unitsDoc)}}
	locating := NewLocatingContext(registry.NewContext(), source, nil)

	key := schema.ItemKey{
		Schema: schema.SchemaKey{Name: "Units", Version: schema.Version{Major: 1, Write: 0, Minor: 2}},
		Name:   "FlowRate",
	}
	item, err := locating.SchemaItem(ctx, key)
	require.NoError(t, err)
	koq, ok := item.(*schema.KindOfQuantity)
	require.True(t, ok)
	assert.Equal(t, "CUB_M_PER_SEC", koq.PersistenceUnit)
	assert.Equal(t, []string{"Units"}, source.calls)

	_, err = locating.SchemaItem(ctx, schema.ItemKey{Schema: key.Schema, Name: "Missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ecerrors.Sentinel(ecerrors.ErrItemNotFound)))
	assert.Len(t, source.calls, 1, "the loaded schema is served from memory")
}
