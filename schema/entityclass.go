package schema

// EntityClass is a concrete or abstract domain class. Besides its optional
// base class it composes an ordered list of mixins; mixin order is declaration
// order and determines inheritance precedence after the base class.
type EntityClass struct {
	ClassBase

	Mixins []*ItemRef // deferred references to Mixin items, declaration order
}

// NewEntityClass creates an empty entity class shell.
func NewEntityClass(name string) *EntityClass {
	c := &EntityClass{}
	c.Name = name
	c.Type = ItemTypeEntityClass
	c.Modifier = ModifierNone
	return c
}

func (c *EntityClass) ancestorRefs() []*ItemRef {
	refs := make([]*ItemRef, 0, len(c.Mixins)+1)
	if c.BaseClass != nil {
		refs = append(refs, c.BaseClass)
	}
	return append(refs, c.Mixins...)
}

// Mixin contributes properties to entity classes without being their primary
// base class. AppliesTo names the entity class (or ancestor of classes) the
// mixin may be composed onto; the entity class holds the inverse edge in its
// Mixins list, which is what makes the pair mutually referential.
type Mixin struct {
	ClassBase

	AppliesTo *ItemRef // deferred reference to an EntityClass
}

// NewMixin creates an empty mixin shell.
func NewMixin(name string) *Mixin {
	m := &Mixin{}
	m.Name = name
	m.Type = ItemTypeMixin
	m.Modifier = ModifierAbstract
	return m
}

// StructClass defines a composite value type usable as a property type.
type StructClass struct {
	ClassBase
}

// NewStructClass creates an empty struct class shell.
func NewStructClass(name string) *StructClass {
	c := &StructClass{}
	c.Name = name
	c.Type = ItemTypeStructClass
	c.Modifier = ModifierNone
	return c
}

// CustomAttributeClass defines the shape of custom attribute instances.
type CustomAttributeClass struct {
	ClassBase

	// AppliesToContainers names the kinds of container the attribute may be
	// applied to, as given on the wire (e.g. "Schema", "AnyClass"). Opaque
	// to the engine.
	AppliesToContainers string
}

// NewCustomAttributeClass creates an empty custom attribute class shell.
func NewCustomAttributeClass(name string) *CustomAttributeClass {
	c := &CustomAttributeClass{}
	c.Name = name
	c.Type = ItemTypeCustomAttributeClass
	c.Modifier = ModifierNone
	return c
}
