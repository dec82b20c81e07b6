package errors

import "fmt"

// NewUnresolvedSchemaReference creates a REF200 error
func NewUnresolvedSchemaReference(schema, reference string) *SchemaError {
	return newError(
		ErrUnresolvedSchemaReference,
		CategoryReference,
		fmt.Sprintf("referenced schema %q is not registered in the context", reference),
	).WithSchema(schema).
		WithSuggestion("register the referenced schema before reading schemas that depend on it")
}

// NewUnresolvedItem creates a REF201 error
func NewUnresolvedItem(schema, itemName string) *SchemaError {
	return newError(
		ErrUnresolvedItem,
		CategoryReference,
		fmt.Sprintf("item %q cannot be resolved", itemName),
	).WithSchema(schema)
}

// NewWrongItemKind creates a REF202 error
func NewWrongItemKind(itemName, expected, actual string) *SchemaError {
	return newError(
		ErrWrongItemKind,
		CategoryReference,
		fmt.Sprintf("item %q is a %s, expected a %s", itemName, actual, expected),
	).WithPath(itemName)
}
