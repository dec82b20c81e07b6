package schema

import (
	"strings"

	ecerrors "github.com/ecschema-go/ecschema/errors"
)

// Modifier constrains how a class participates in inheritance.
type Modifier string

const (
	ModifierNone     Modifier = "None"
	ModifierAbstract Modifier = "Abstract"
	ModifierSealed   Modifier = "Sealed"
)

// Class is the common surface of class-like schema items: entity classes,
// mixins, struct classes, custom attribute classes, and relationship classes.
//
// The unexported ancestorRefs method closes the implementation set and feeds
// the precedence traversal: it returns the class's direct ancestor edges in
// precedence order (base class first, then declared mixins where applicable).
type Class interface {
	Item

	ClassModifier() Modifier
	Base() *ItemRef
	PropertyList() []Property

	ancestorRefs() []*ItemRef
}

// ClassBase carries the fields shared by every class-like item: an optional
// deferred base-class reference, an ordered property list, and a modifier.
type ClassBase struct {
	ItemBase

	Modifier  Modifier
	BaseClass *ItemRef // nil when the class has no base

	properties []Property // declaration order, semantically significant
}

// ClassModifier returns the class's modifier.
func (c *ClassBase) ClassModifier() Modifier { return c.Modifier }

// Base returns the deferred base-class reference, or nil.
func (c *ClassBase) Base() *ItemRef { return c.BaseClass }

// PropertyList returns the class's own properties in declaration order.
// Inherited properties are not included; see Property.
func (c *ClassBase) PropertyList() []Property { return c.properties }

// AddProperty appends a property to the class, preserving declaration order.
// A name already present on this class, compared case-insensitively, fails
// with ErrDuplicateProperty. Uniqueness is local: shadowing an inherited
// property name is permitted.
func (c *ClassBase) AddProperty(p Property) error {
	for _, existing := range c.properties {
		if strings.EqualFold(existing.PropertyName(), p.PropertyName()) {
			return ecerrors.NewDuplicateProperty(c.Name, p.PropertyName())
		}
	}
	p.setOwner(classOwner(c))
	c.properties = append(c.properties, p)
	return nil
}

// OwnProperty returns the class's own property with the given name,
// compared case-insensitively.
func (c *ClassBase) OwnProperty(name string) (Property, bool) {
	for _, p := range c.properties {
		if strings.EqualFold(p.PropertyName(), name) {
			return p, true
		}
	}
	return nil, false
}

func (c *ClassBase) ancestorRefs() []*ItemRef {
	if c.BaseClass == nil {
		return nil
	}
	return []*ItemRef{c.BaseClass}
}

// classOwner maps a ClassBase back to the concrete class that embeds it, so
// properties can carry a typed owner reference. The owning schema's item map
// holds the concrete value; an unregistered class falls back to the base.
func classOwner(c *ClassBase) Class {
	if c.schema != nil {
		if item, ok := c.schema.Item(c.Name); ok {
			if cls, ok := item.(Class); ok {
				return cls
			}
		}
	}
	return c
}
