package deserializer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecerrors "github.com/ecschema-go/ecschema/errors"
	"github.com/ecschema-go/ecschema/registry"
	"github.com/ecschema-go/ecschema/schema"
)

func readOne(t *testing.T, doc string) *schema.Schema {
	t.Helper()
	s, err := NewReader(registry.NewContext()).ReadSchema(context.Background(), []byte(doc))
	require.NoError(t, err)
	return s
}

func readErr(t *testing.T, doc string, code ecerrors.ErrorCode) {
	t.Helper()
	_, err := NewReader(registry.NewContext()).ReadSchema(context.Background(), []byte(doc))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ecerrors.Sentinel(code)), "want %s, got %v", code, err)
}

func TestReadSchema_Basic(t *testing.T) {
	s := readOne(t, `{
		"name": "TestSchema",
		"version": "1.0.0",
		"alias": "ts",
		"description": "Exercise schema",
		"items": {
			"Season": {
				"schemaItemType": "Enumeration",
				"type": "int",
				"isStrict": true,
				"enumerators": [
					{"name": "Spring", "value": 1},
					{"name": "Fall", "value": 2, "label": "Autumn"}
				]
			},
			"Widget": {
				"schemaItemType": "EntityClass",
				"modifier": "Sealed",
				"properties": [
					{"name": "Code", "propertyType": "PrimitiveProperty", "typeName": "string", "maxLength": 32},
					{"name": "Season", "propertyType": "PrimitiveProperty", "typeName": "TestSchema.Season"},
					{"name": "Tags", "propertyType": "PrimitiveArrayProperty", "typeName": "string", "minOccurs": 1}
				]
			}
		}
	}`)

	assert.True(t, s.Frozen())
	assert.Equal(t, "TestSchema", s.Key.Name)
	assert.Equal(t, "ts", s.Alias)
	assert.Equal(t, schema.Version{Major: 1, Write: 0, Minor: 0}, s.Key.Version)
	assert.Equal(t, 2, s.ItemCount())

	item, ok := s.Item("widget")
	require.True(t, ok)
	widget, ok := item.(*schema.EntityClass)
	require.True(t, ok)
	assert.Equal(t, schema.ModifierSealed, widget.Modifier)

	code, ok := schema.FindProperty(widget, "Code", false)
	require.True(t, ok)
	prim, ok := code.(*schema.PrimitiveProperty)
	require.True(t, ok)
	assert.Equal(t, schema.PrimitiveString, prim.PrimitiveType)
	require.NotNil(t, prim.MaxLength)
	assert.Equal(t, 32, *prim.MaxLength)

	season, ok := schema.FindProperty(widget, "Season", false)
	require.True(t, ok)
	enumProp := season.(*schema.PrimitiveProperty)
	require.NotNil(t, enumProp.Enumeration)
	enum, err := schema.ResolveAs[*schema.Enumeration](enumProp.Enumeration)
	require.NoError(t, err)
	assert.Equal(t, schema.PrimitiveInteger, enum.BackingType)
	assert.True(t, enum.IsStrict)
	require.Len(t, enum.Enumerators, 2)
	assert.Equal(t, "Autumn", enum.Enumerators[1].Label)

	tags, ok := schema.FindProperty(widget, "Tags", false)
	require.True(t, ok)
	arr := tags.(*schema.PrimitiveArrayProperty)
	assert.Equal(t, 1, arr.Bounds.MinOccurs)
	assert.Equal(t, -1, arr.Bounds.MaxOccurs, "absent maxOccurs means unbounded")
}

func TestReadSchema_RequiredHeaderFields(t *testing.T) {
	readErr(t, `{"version": "1.0.0"}`, ecerrors.ErrInvalidSchemaJSON)
	readErr(t, `{"name": "TestSchema"}`, ecerrors.ErrInvalidSchemaJSON)
	readErr(t, `{"name": "TestSchema", "version": "1.0"}`, ecerrors.ErrMalformedVersion)
}

func TestReadSchema_ItemsMustBeObject(t *testing.T) {
	readErr(t, `{"name": "TestSchema", "version": "1.0.0", "items": []}`, ecerrors.ErrInvalidItemsShape)
}

func TestReadSchema_UnknownItemKindDropped(t *testing.T) {
	s := readOne(t, `{
		"name": "TestSchema",
		"version": "1.0.0",
		"items": {
			"Widget": {"schemaItemType": "EntityClass"},
			"Meters": {"schemaItemType": "FormatDefinition", "precision": 4}
		}
	}`)

	assert.Equal(t, 1, s.ItemCount(), "unknown schemaItemType entries are skipped, not fatal")
	_, ok := s.Item("Meters")
	assert.False(t, ok)
}

// Item names are unique within a schema ignoring case; two entries whose
// names collide case-insensitively must fail the read, never merge.
func TestReadSchema_DuplicateItemNamesCaseInsensitive(t *testing.T) {
	readErr(t, `{
		"name": "TestSchema",
		"version": "1.0.0",
		"items": {
			"Widget": {"schemaItemType": "EntityClass"},
			"widget": {"schemaItemType": "StructClass"}
		}
	}`, ecerrors.ErrInvalidSchemaJSON)
}

func TestReadSchema_UnknownPropertyTypeFails(t *testing.T) {
	readErr(t, `{
		"name": "TestSchema",
		"version": "1.0.0",
		"items": {
			"Widget": {
				"schemaItemType": "EntityClass",
				"properties": [{"name": "Odd", "propertyType": "HologramProperty"}]
			}
		}
	}`, ecerrors.ErrInvalidPropertyType)
}

// A mixin and the entity it applies to reference each other. Each side must
// be constructed exactly once, and the visitor must see fully populated
// items bottom-up: the mixin, pulled in while the entity was loading, is
// announced before the entity that pulled it in.
func TestReadSchema_MixinEntityCycle(t *testing.T) {
	var order []string
	visitor := &Visitor{
		OnEmptySchema: func(*schema.Schema) { order = append(order, "empty") },
		OnItem:        func(item schema.Item) { order = append(order, item.ItemName()) },
		OnFullSchema:  func(*schema.Schema) { order = append(order, "full") },
	}

	c := registry.NewContext()
	s, err := NewReader(c).ReadSchemaWithVisitor(context.Background(), []byte(`{
		"name": "TestSchema",
		"version": "1.0.0",
		"items": {
			"Element": {
				"schemaItemType": "EntityClass",
				"mixins": ["IsPlanar"]
			},
			"IsPlanar": {
				"schemaItemType": "Mixin",
				"appliesTo": "TestSchema.Element"
			}
		}
	}`), visitor)
	require.NoError(t, err)

	assert.Equal(t, []string{"empty", "IsPlanar", "Element", "full"}, order)

	element, _ := s.Item("Element")
	mixin, _ := s.Item("IsPlanar")
	planar := mixin.(*schema.Mixin)

	target, err := planar.AppliesTo.Resolve()
	require.NoError(t, err)
	assert.Same(t, schema.Item(element), target, "the cycle closes on the one shared instance")

	attached, err := element.(*schema.EntityClass).Mixins[0].Resolve()
	require.NoError(t, err)
	assert.Same(t, schema.Item(mixin), attached)
}

func TestReadSchema_CrossSchemaBaseClass(t *testing.T) {
	ctx := context.Background()
	c := registry.NewContext()

	bis := schema.New(schema.SchemaKey{Name: "BisCore", Version: schema.Version{Major: 1, Write: 0, Minor: 9}}, "bis")
	remote := schema.NewEntityClass("Element")
	require.NoError(t, bis.AddItem(remote))
	require.NoError(t, c.AddSchema(ctx, bis))

	s, err := NewReader(c).ReadSchema(ctx, []byte(`{
		"name": "TestSchema",
		"version": "1.0.0",
		"references": [{"name": "BisCore", "version": "1.0.5"}],
		"items": {
			"Widget": {"schemaItemType": "EntityClass", "baseClass": "BisCore.Element"}
		}
	}`))
	require.NoError(t, err)

	widget, _ := s.Item("Widget")
	base, resolveErr := widget.(*schema.EntityClass).BaseClass.Resolve()
	require.NoError(t, resolveErr)
	assert.Same(t, schema.Item(remote), base,
		"references accept any write-compatible registered version")
}

func TestReadSchema_ReferenceNotRegistered(t *testing.T) {
	readErr(t, `{
		"name": "TestSchema",
		"version": "1.0.0",
		"references": [{"name": "Absent", "version": "1.0.0"}]
	}`, ecerrors.ErrUnresolvedSchemaReference)
}

// A schema registered with the context but absent from this document's
// references list is out of reach for qualified names.
func TestReadSchema_UnlistedSchemaIsUnreachable(t *testing.T) {
	ctx := context.Background()
	c := registry.NewContext()

	bis := schema.New(schema.SchemaKey{Name: "BisCore", Version: schema.Version{Major: 1, Write: 0, Minor: 0}}, "bis")
	require.NoError(t, bis.AddItem(schema.NewEntityClass("Element")))
	require.NoError(t, c.AddSchema(ctx, bis))

	_, err := NewReader(c).ReadSchema(ctx, []byte(`{
		"name": "TestSchema",
		"version": "1.0.0",
		"items": {
			"Widget": {"schemaItemType": "EntityClass", "baseClass": "BisCore.Element"}
		}
	}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ecerrors.Sentinel(ecerrors.ErrUnresolvedSchemaReference)))
}

func TestReadSchema_DuplicateProperty(t *testing.T) {
	readErr(t, `{
		"name": "TestSchema",
		"version": "1.0.0",
		"items": {
			"Widget": {
				"schemaItemType": "EntityClass",
				"properties": [
					{"name": "Foo", "propertyType": "PrimitiveProperty", "typeName": "string"},
					{"name": "foo", "propertyType": "PrimitiveProperty", "typeName": "int"}
				]
			}
		}
	}`, ecerrors.ErrDuplicateProperty)
}

func TestReadSchema_NavigationOnStructClass(t *testing.T) {
	readErr(t, `{
		"name": "TestSchema",
		"version": "1.0.0",
		"items": {
			"Bag": {
				"schemaItemType": "StructClass",
				"properties": [
					{"name": "Owner", "propertyType": "NavigationProperty", "relationshipName": "Owns", "direction": "Backward"}
				]
			}
		}
	}`, ecerrors.ErrInvalidNavigationProperty)
}

func TestReadSchema_Relationship(t *testing.T) {
	s := readOne(t, `{
		"name": "TestSchema",
		"version": "1.0.0",
		"items": {
			"ElementOwnsChildren": {
				"schemaItemType": "RelationshipClass",
				"strength": "Embedding",
				"strengthDirection": "Forward",
				"source": {
					"multiplicity": "(0..1)",
					"roleLabel": "owns",
					"polymorphic": true,
					"constraintClasses": ["Element"]
				},
				"target": {
					"multiplicity": "(0..*)",
					"roleLabel": "is owned by",
					"constraintClasses": ["Element"]
				}
			},
			"Element": {
				"schemaItemType": "EntityClass",
				"properties": [
					{"name": "Parent", "propertyType": "NavigationProperty", "relationshipName": "ElementOwnsChildren", "direction": "Backward"}
				]
			}
		}
	}`)

	item, _ := s.Item("ElementOwnsChildren")
	rel := item.(*schema.RelationshipClass)
	assert.Equal(t, schema.StrengthEmbedding, rel.Strength)
	assert.Equal(t, schema.DirectionForward, rel.StrengthDirection)

	assert.Equal(t, schema.Multiplicity{Lower: 0, Upper: 1}, rel.Source.Multiplicity)
	assert.Equal(t, schema.Multiplicity{Lower: 0, Upper: -1}, rel.Target.Multiplicity)
	assert.True(t, rel.Source.Polymorphic)

	// With a single constraint class the abstract constraint defaults to it.
	element, _ := s.Item("Element")
	abstract, err := rel.Source.AbstractConstraint.Resolve()
	require.NoError(t, err)
	assert.Same(t, schema.Item(element), abstract)

	nav, ok := schema.FindProperty(element.(*schema.EntityClass), "Parent", false)
	require.True(t, ok)
	linked, err := nav.(*schema.NavigationProperty).Relationship.Resolve()
	require.NoError(t, err)
	assert.Same(t, item, linked)
}

func TestReadSchema_MixedConstraintKinds(t *testing.T) {
	readErr(t, `{
		"name": "TestSchema",
		"version": "1.0.0",
		"items": {
			"Broken": {
				"schemaItemType": "RelationshipClass",
				"source": {"constraintClasses": ["Element", "Bag"]},
				"target": {"constraintClasses": ["Element"]}
			},
			"Element": {"schemaItemType": "EntityClass"},
			"Bag": {"schemaItemType": "StructClass"}
		}
	}`, ecerrors.ErrMixedConstraintKind)
}

func TestReadSchema_MissingConstraint(t *testing.T) {
	readErr(t, `{
		"name": "TestSchema",
		"version": "1.0.0",
		"items": {
			"Halved": {
				"schemaItemType": "RelationshipClass",
				"source": {"constraintClasses": ["Element"]}
			},
			"Element": {"schemaItemType": "EntityClass"}
		}
	}`, ecerrors.ErrMissingConstraint)
}

// A failed read must leave no trace: the shell registered at the start of
// the read is evicted before the error surfaces.
func TestReadSchema_RollbackOnFailure(t *testing.T) {
	ctx := context.Background()
	c := registry.NewContext()

	_, err := NewReader(c).ReadSchema(ctx, []byte(`{
		"name": "Doomed",
		"version": "1.0.0",
		"items": {
			"Widget": {
				"schemaItemType": "EntityClass",
				"properties": [{"name": "NoType", "propertyType": "PrimitiveProperty"}]
			}
		}
	}`))
	require.Error(t, err)

	key := schema.SchemaKey{Name: "Doomed", Version: schema.Version{Major: 1, Write: 0, Minor: 0}}
	_, err = c.Schema(ctx, key, schema.MatchExact)
	assert.True(t, errors.Is(err, ecerrors.Sentinel(ecerrors.ErrSchemaNotFound)))
	assert.Equal(t, 0, c.SchemaCount())
}

// Registering the same document twice is rejected by the context, not
// silently merged.
func TestReadSchema_SecondReadOfSameKeyFails(t *testing.T) {
	ctx := context.Background()
	c := registry.NewContext()
	r := NewReader(c)

	doc := []byte(`{"name": "TestSchema", "version": "1.0.0"}`)
	_, err := r.ReadSchema(ctx, doc)
	require.NoError(t, err)

	_, err = r.ReadSchema(ctx, doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ecerrors.Sentinel(ecerrors.ErrAlreadyRegistered)))
}
