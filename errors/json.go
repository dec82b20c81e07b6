package errors

import "fmt"

// NewInvalidSchemaJSON creates a JSN001 error naming the offending path
func NewInvalidSchemaJSON(path, detail string) *SchemaError {
	return newError(
		ErrInvalidSchemaJSON,
		CategoryJSON,
		fmt.Sprintf("invalid schema JSON: %s", detail),
	).WithPath(path)
}

// NewMissingField creates a JSN001 error for an absent required field
func NewMissingField(path string) *SchemaError {
	return newError(
		ErrInvalidSchemaJSON,
		CategoryJSON,
		fmt.Sprintf("required field %q is missing", path),
	).WithPath(path)
}

// NewWrongFieldType creates a JSN001 error for a field of the wrong JSON type
func NewWrongFieldType(path, expected string) *SchemaError {
	return newError(
		ErrInvalidSchemaJSON,
		CategoryJSON,
		fmt.Sprintf("field %q must be %s", path, expected),
	).WithPath(path)
}

// NewInvalidItemsShape creates a JSN002 error
func NewInvalidItemsShape() *SchemaError {
	return newError(
		ErrInvalidItemsShape,
		CategoryJSON,
		"items must be a JSON object keyed by item name, not an array",
	).WithPath("items").
		WithSuggestion(`use {"items": {"MyClass": {...}}} rather than {"items": [...]}`)
}
