package errors

import "fmt"

// NewAlreadyRegistered creates a REG500 error
func NewAlreadyRegistered(schema string) *SchemaError {
	return newError(
		ErrAlreadyRegistered,
		CategoryRegistry,
		fmt.Sprintf("schema %q is already registered", schema),
	).WithSchema(schema)
}

// NewSchemaNotFound creates a REG501 error
func NewSchemaNotFound(schema string) *SchemaError {
	return newError(
		ErrSchemaNotFound,
		CategoryRegistry,
		fmt.Sprintf("schema %q is not registered", schema),
	).WithSchema(schema)
}

// NewItemNotFound creates a REG502 error
func NewItemNotFound(itemName string) *SchemaError {
	return newError(
		ErrItemNotFound,
		CategoryRegistry,
		fmt.Sprintf("schema item %q is not registered", itemName),
	).WithPath(itemName)
}
