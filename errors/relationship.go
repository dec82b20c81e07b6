package errors

import "fmt"

// NewMixedConstraintKind creates a REL400 error
func NewMixedConstraintKind(relationshipName, end string) *SchemaError {
	return newError(
		ErrMixedConstraintKind,
		CategoryRelationship,
		fmt.Sprintf("%s constraint of %q mixes constraint classes of different kinds", end, relationshipName),
	).WithPath(relationshipName).
		WithSuggestion("all constraint classes of one endpoint must be entity classes, mixins, or relationship classes, never a mixture")
}

// NewMissingConstraint creates a REL401 error
func NewMissingConstraint(relationshipName, end string) *SchemaError {
	return newError(
		ErrMissingConstraint,
		CategoryRelationship,
		fmt.Sprintf("relationship %q is missing its %s constraint", relationshipName, end),
	).WithPath(relationshipName)
}
