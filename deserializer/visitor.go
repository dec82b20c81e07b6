package deserializer

import "github.com/ecschema-go/ecschema/schema"

// Visitor receives notifications while a schema is read. Any callback may be
// nil, which is a no-op, not an error.
//
// OnItem fires exactly once per constructed item, and never before the item
// is fully populated: when construction recurses through a reference cycle,
// the nested item's notification is deferred until the item that pulled it
// in has itself finished loading, so notifications arrive bottom-up relative
// to the reference graph.
type Visitor struct {
	// OnEmptySchema fires after the schema's own scalars are populated and
	// it has been registered with the context, before any item is loaded.
	OnEmptySchema func(*schema.Schema)

	// OnItem fires once per item, in construction order.
	OnItem func(schema.Item)

	// OnFullSchema fires once after every item and custom attribute of the
	// schema has been loaded.
	OnFullSchema func(*schema.Schema)
}

func (v *Visitor) emptySchema(s *schema.Schema) {
	if v != nil && v.OnEmptySchema != nil {
		v.OnEmptySchema(s)
	}
}

func (v *Visitor) item(item schema.Item) {
	if v != nil && v.OnItem != nil {
		v.OnItem(item)
	}
}

func (v *Visitor) fullSchema(s *schema.Schema) {
	if v != nil && v.OnFullSchema != nil {
		v.OnFullSchema(s)
	}
}
