package schema

import (
	"fmt"
	"iter"
	"strings"

	ecerrors "github.com/ecschema-go/ecschema/errors"
)

// Schema is a named, versioned container of schema items plus a list of
// referenced schemas. Items are keyed case-insensitively and enumerate in
// insertion order. Referenced schemas are attached by shared reference; a
// schema never owns another schema's lifetime, the registry does.
//
// A schema is mutable only while unfrozen, and only the deserialization
// engine mutates it. Once a read completes the engine freezes the schema,
// making it read-only to every other caller.
type Schema struct {
	Key         SchemaKey
	Alias       string
	Description string
	Label       string

	CustomAttributes []CustomAttribute

	items      map[string]Item // lower-cased name -> item
	order      []string        // canonical names in insertion order
	references []*Schema
	frozen     bool
}

// New creates an empty, unfrozen schema.
func New(key SchemaKey, alias string) *Schema {
	return &Schema{
		Key:   key,
		Alias: alias,
		items: make(map[string]Item),
	}
}

// FullName returns the schema's "Name.major.write.minor" identity.
func (s *Schema) FullName() string { return s.Key.String() }

// Frozen reports whether the schema has been published read-only.
func (s *Schema) Frozen() bool { return s.frozen }

// Freeze makes the schema read-only. Called by the deserialization engine
// once construction completes; irreversible.
func (s *Schema) Freeze() { s.frozen = true }

// AddItem registers an item with the schema and sets the item's owning
// back-reference. Item names are unique within a schema, ignoring case.
func (s *Schema) AddItem(item Item) error {
	if s.frozen {
		return fmt.Errorf("schema %s is frozen", s.FullName())
	}
	lower := strings.ToLower(item.ItemName())
	if _, exists := s.items[lower]; exists {
		return ecerrors.NewInvalidSchemaJSON(
			"items."+item.ItemName(),
			fmt.Sprintf("duplicate item name %q in schema %s", item.ItemName(), s.Key.Name),
		)
	}
	item.attach(s)
	s.items[lower] = item
	s.order = append(s.order, item.ItemName())
	return nil
}

// Item returns the named item, compared case-insensitively.
func (s *Schema) Item(name string) (Item, bool) {
	item, ok := s.items[strings.ToLower(name)]
	return item, ok
}

// Items yields the schema's items in insertion order.
func (s *Schema) Items() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for _, name := range s.order {
			if !yield(s.items[strings.ToLower(name)]) {
				return
			}
		}
	}
}

// ItemCount returns the number of items in the schema.
func (s *Schema) ItemCount() int { return len(s.order) }

// AddReference attaches an already-resolved schema to the reference list.
func (s *Schema) AddReference(ref *Schema) error {
	if s.frozen {
		return fmt.Errorf("schema %s is frozen", s.FullName())
	}
	s.references = append(s.references, ref)
	return nil
}

// References returns the referenced schemas in declaration order.
func (s *Schema) References() []*Schema { return s.references }

// Reference returns the referenced schema matching the given name or alias,
// compared case-insensitively.
func (s *Schema) Reference(nameOrAlias string) (*Schema, bool) {
	for _, ref := range s.references {
		if strings.EqualFold(ref.Key.Name, nameOrAlias) || strings.EqualFold(ref.Alias, nameOrAlias) {
			return ref, true
		}
	}
	return nil, false
}

// LookupItem resolves a possibly qualified item name against this schema:
// an unqualified name or one qualified by this schema's own name or alias
// resolves locally; a name qualified by a referenced schema resolves there.
func (s *Schema) LookupItem(fullName string) (Item, bool) {
	schemaName, itemName, err := ParseFullName(fullName)
	if err != nil {
		return s.Item(fullName)
	}
	if strings.EqualFold(schemaName, s.Key.Name) || strings.EqualFold(schemaName, s.Alias) {
		return s.Item(itemName)
	}
	ref, ok := s.Reference(schemaName)
	if !ok {
		return nil, false
	}
	return ref.Item(itemName)
}
