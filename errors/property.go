package errors

import "fmt"

// NewDuplicateProperty creates a PRP300 error
func NewDuplicateProperty(className, propertyName string) *SchemaError {
	return newError(
		ErrDuplicateProperty,
		CategoryProperty,
		fmt.Sprintf("class %q already has a property named %q", className, propertyName),
	).WithPath(propertyName).
		WithSuggestion("property names are unique within a class, ignoring case")
}

// NewInvalidNavigationProperty creates a PRP301 error
func NewInvalidNavigationProperty(className, propertyName string) *SchemaError {
	return newError(
		ErrInvalidNavigationProperty,
		CategoryProperty,
		fmt.Sprintf("navigation property %q is not allowed on class %q", propertyName, className),
	).WithPath(propertyName).
		WithSuggestion("navigation properties may only appear on entity classes, mixins, and relationship classes")
}

// NewInvalidPropertyType creates a PRP302 error
func NewInvalidPropertyType(propertyName, typeTag string) *SchemaError {
	return newError(
		ErrInvalidPropertyType,
		CategoryProperty,
		fmt.Sprintf("property %q has unrecognized type %q", propertyName, typeTag),
	).WithPath(propertyName)
}
