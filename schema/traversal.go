package schema

import (
	"iter"
	"strings"
)

// AllBaseClasses yields every ancestor of c in deterministic precedence
// order: the immediate base class first, depth-first through its own
// ancestry, then each declared mixin in declaration order, depth-first
// likewise. Every ancestor appears exactly once, at its first occurrence;
// later occurrences reached through a different path are suppressed, not
// reordered. The sequence is lazy, finite, and restartable.
//
// This is the precedence consumers rely on for most-derived-wins property
// resolution, so its order is a compatibility contract.
func AllBaseClasses(c Class) iter.Seq[Class] {
	return func(yield func(Class) bool) {
		seen := map[string]bool{}
		var walk func(cur Class) bool
		walk = func(cur Class) bool {
			for _, ref := range cur.ancestorRefs() {
				item, err := ref.Resolve()
				if err != nil {
					// Refs are resolvable by the time a consumer walks the
					// graph; a failure here means the schema never finished
					// deserializing, and the ancestor is unknowable.
					continue
				}
				base, ok := item.(Class)
				if !ok {
					continue
				}
				key := strings.ToLower(base.FullName())
				if seen[key] {
					continue
				}
				seen[key] = true
				if !yield(base) {
					return false
				}
				if !walk(base) {
					return false
				}
			}
			return true
		}
		walk(c)
	}
}

// FindProperty resolves a property name against a class. With
// includeInherited set, ancestors are searched in AllBaseClasses precedence
// order after the class's own properties, so the most derived declaration
// wins when a name is shadowed.
func FindProperty(c Class, name string, includeInherited bool) (Property, bool) {
	if p, ok := ownPropertyOf(c, name); ok {
		return p, true
	}
	if !includeInherited {
		return nil, false
	}
	for base := range AllBaseClasses(c) {
		if p, ok := ownPropertyOf(base, name); ok {
			return p, true
		}
	}
	return nil, false
}

func ownPropertyOf(c Class, name string) (Property, bool) {
	for _, p := range c.PropertyList() {
		if strings.EqualFold(p.PropertyName(), name) {
			return p, true
		}
	}
	return nil, false
}
