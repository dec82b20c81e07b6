package errors

import "fmt"

// NewMalformedVersion creates an IDN100 error
func NewMalformedVersion(version string) *SchemaError {
	return newError(
		ErrMalformedVersion,
		CategoryIdentifier,
		fmt.Sprintf("malformed version %q", version),
	).WithSuggestion("versions are three dot-separated non-negative integers, e.g. 1.0.5")
}

// NewMalformedItemName creates an IDN101 error
func NewMalformedItemName(name string) *SchemaError {
	return newError(
		ErrMalformedItemName,
		CategoryIdentifier,
		fmt.Sprintf("malformed item name %q: expected Schema.Item", name),
	)
}
