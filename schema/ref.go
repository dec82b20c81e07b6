package schema

import (
	"fmt"

	ecerrors "github.com/ecschema-go/ecschema/errors"
)

// ItemRef is a deferred, non-owning reference to a schema item: the target's
// identity key plus a zero-argument resolver. A ref may legitimately be
// created before its target has been populated (that is how reference cycles
// are representable at all), but must not be dereferenced before the target
// has been loaded.
type ItemRef struct {
	TargetKey ItemKey

	resolve  func() (Item, error)
	resolved Item
}

// NewItemRef creates a deferred reference from a key and resolver.
func NewItemRef(key ItemKey, resolve func() (Item, error)) *ItemRef {
	return &ItemRef{TargetKey: key, resolve: resolve}
}

// DirectRef creates an already-resolved reference to an existing item.
func DirectRef(item Item) *ItemRef {
	return &ItemRef{TargetKey: item.Key(), resolved: item}
}

// Resolve returns the referenced item, invoking the resolver on first use
// and memoizing the result.
func (r *ItemRef) Resolve() (Item, error) {
	if r.resolved != nil {
		return r.resolved, nil
	}
	if r.resolve == nil {
		return nil, ecerrors.NewUnresolvedItem(r.TargetKey.Schema.Name, r.TargetKey.String())
	}
	item, err := r.resolve()
	if err != nil {
		return nil, err
	}
	r.resolved = item
	return item, nil
}

// FullName returns the qualified name of the reference target.
func (r *ItemRef) FullName() string { return r.TargetKey.String() }

// ResolveAs resolves a reference and asserts the target's concrete type.
func ResolveAs[T Item](r *ItemRef) (T, error) {
	var zero T
	item, err := r.Resolve()
	if err != nil {
		return zero, err
	}
	typed, ok := item.(T)
	if !ok {
		return zero, ecerrors.NewWrongItemKind(
			r.TargetKey.String(), fmt.Sprintf("%T", zero), string(item.Kind()))
	}
	return typed, nil
}
