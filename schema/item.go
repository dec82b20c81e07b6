package schema

import "encoding/json"

// ItemType identifies the concrete kind of a schema item. The values match
// the schemaItemType tags used on the JSON wire.
type ItemType string

const (
	ItemTypeEntityClass          ItemType = "EntityClass"
	ItemTypeMixin                ItemType = "Mixin"
	ItemTypeStructClass          ItemType = "StructClass"
	ItemTypeCustomAttributeClass ItemType = "CustomAttributeClass"
	ItemTypeRelationshipClass    ItemType = "RelationshipClass"
	ItemTypeEnumeration          ItemType = "Enumeration"
	ItemTypeKindOfQuantity       ItemType = "KindOfQuantity"
	ItemTypePropertyCategory     ItemType = "PropertyCategory"
)

// KnownItemType reports whether t is one of the item kinds this engine
// understands. Unknown kinds are tolerated on input and dropped.
func KnownItemType(t ItemType) bool {
	switch t {
	case ItemTypeEntityClass, ItemTypeMixin, ItemTypeStructClass,
		ItemTypeCustomAttributeClass, ItemTypeRelationshipClass,
		ItemTypeEnumeration, ItemTypeKindOfQuantity, ItemTypePropertyCategory:
		return true
	}
	return false
}

// Item is the common surface of every named member of a schema. The set of
// implementations is closed: all items embed ItemBase, and the unexported
// attach method keeps outside packages from introducing new kinds.
type Item interface {
	ItemName() string
	Kind() ItemType
	Schema() *Schema
	Key() ItemKey
	FullName() string

	attach(s *Schema)
}

// ItemBase carries the fields shared by every schema item. Items are
// populated during deserialization and read-only afterwards.
type ItemBase struct {
	Name        string
	Description string
	Label       string
	Type        ItemType

	// CustomAttributes holds raw attribute payloads attached to the item.
	// Their business semantics are opaque to the engine.
	CustomAttributes []CustomAttribute

	schema *Schema // owning schema back-reference, non-owning
}

// ItemName returns the item's unqualified name.
func (b *ItemBase) ItemName() string { return b.Name }

// Kind returns the item's concrete kind.
func (b *ItemBase) Kind() ItemType { return b.Type }

// Schema returns the owning schema.
func (b *ItemBase) Schema() *Schema { return b.schema }

// Key returns the item's identity key.
func (b *ItemBase) Key() ItemKey {
	key := ItemKey{Name: b.Name}
	if b.schema != nil {
		key.Schema = b.schema.Key
	}
	return key
}

// FullName returns the item's "Schema.Item" qualified name.
func (b *ItemBase) FullName() string {
	if b.schema == nil {
		return b.Name
	}
	return b.schema.Key.Name + "." + b.Name
}

func (b *ItemBase) attach(s *Schema) { b.schema = s }

// CustomAttribute is one applied custom attribute: the qualified name of its
// class, a deferred reference to that class, and the raw instance payload.
type CustomAttribute struct {
	ClassName  string          `json:"className"`
	Class      *ItemRef        `json:"-"`
	Properties json.RawMessage `json:"-"`
}
