package errors

// JSON input error codes (JSN001-099)
const (
	// ErrInvalidSchemaJSON indicates a malformed or missing required field in schema JSON
	ErrInvalidSchemaJSON ErrorCode = "JSN001"
	// ErrInvalidItemsShape indicates the items entry is not a JSON object
	ErrInvalidItemsShape ErrorCode = "JSN002"
)

// Identifier error codes (IDN100-199)
const (
	// ErrMalformedVersion indicates a version string that is not major.write.minor
	ErrMalformedVersion ErrorCode = "IDN100"
	// ErrMalformedItemName indicates a full item name missing its Schema.Item separator
	ErrMalformedItemName ErrorCode = "IDN101"
)

// Reference error codes (REF200-299)
const (
	// ErrUnresolvedSchemaReference indicates a references entry naming an unknown schema
	ErrUnresolvedSchemaReference ErrorCode = "REF200"
	// ErrUnresolvedItem indicates a cross-reference to an item that cannot be found
	ErrUnresolvedItem ErrorCode = "REF201"
	// ErrWrongItemKind indicates a reference resolving to an item of an unexpected kind
	ErrWrongItemKind ErrorCode = "REF202"
)

// Property error codes (PRP300-399)
const (
	// ErrDuplicateProperty indicates two case-insensitively equal property names on one class
	ErrDuplicateProperty ErrorCode = "PRP300"
	// ErrInvalidNavigationProperty indicates a navigation property on a class kind that cannot carry one
	ErrInvalidNavigationProperty ErrorCode = "PRP301"
	// ErrInvalidPropertyType indicates an unknown or missing property type tag
	ErrInvalidPropertyType ErrorCode = "PRP302"
)

// Relationship error codes (REL400-499)
const (
	// ErrMixedConstraintKind indicates constraint classes of differing concrete kinds
	ErrMixedConstraintKind ErrorCode = "REL400"
	// ErrMissingConstraint indicates a relationship missing its source or target constraint
	ErrMissingConstraint ErrorCode = "REL401"
)

// Registry error codes (REG500-599)
const (
	// ErrAlreadyRegistered indicates a schema key added to the registry twice
	ErrAlreadyRegistered ErrorCode = "REG500"
	// ErrSchemaNotFound indicates a registry lookup for an unknown schema key
	ErrSchemaNotFound ErrorCode = "REG501"
	// ErrItemNotFound indicates a registry lookup for an unknown item key
	ErrItemNotFound ErrorCode = "REG502"
)
