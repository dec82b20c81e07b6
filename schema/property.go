package schema

// PropertyKind identifies a property variant. The values match the type
// tags used on the JSON wire.
type PropertyKind string

const (
	PropertyKindPrimitive      PropertyKind = "PrimitiveProperty"
	PropertyKindStruct         PropertyKind = "StructProperty"
	PropertyKindPrimitiveArray PropertyKind = "PrimitiveArrayProperty"
	PropertyKindStructArray    PropertyKind = "StructArrayProperty"
	PropertyKindNavigation     PropertyKind = "NavigationProperty"
)

// PrimitiveType is one of the built-in value types a primitive property
// may carry.
type PrimitiveType string

const (
	PrimitiveBinary   PrimitiveType = "binary"
	PrimitiveBoolean  PrimitiveType = "boolean"
	PrimitiveDateTime PrimitiveType = "dateTime"
	PrimitiveDouble   PrimitiveType = "double"
	PrimitiveInteger  PrimitiveType = "int"
	PrimitiveLong     PrimitiveType = "long"
	PrimitivePoint2d  PrimitiveType = "point2d"
	PrimitivePoint3d  PrimitiveType = "point3d"
	PrimitiveString   PrimitiveType = "string"
)

// ParsePrimitiveType maps a typeName to a built-in primitive type. A false
// result means the name must instead resolve to a struct class or
// enumeration via a cross-item reference.
func ParsePrimitiveType(name string) (PrimitiveType, bool) {
	switch PrimitiveType(name) {
	case PrimitiveBinary, PrimitiveBoolean, PrimitiveDateTime, PrimitiveDouble,
		PrimitiveInteger, PrimitiveLong, PrimitivePoint2d, PrimitivePoint3d,
		PrimitiveString:
		return PrimitiveType(name), true
	}
	return "", false
}

// Property is the common surface of the five property variants. The set of
// implementations is closed by the unexported setOwner method.
type Property interface {
	PropertyName() string
	PropertyKind() PropertyKind
	OwnerClass() Class
	Common() *PropertyBase

	setOwner(c Class)
}

// PropertyBase carries the fields shared by every property variant.
type PropertyBase struct {
	Name        string
	Description string
	Label       string
	IsReadOnly  bool
	Priority    int

	// Category and KindOfQuantity are optional deferred references to a
	// PropertyCategory and KindOfQuantity item respectively.
	Category       *ItemRef
	KindOfQuantity *ItemRef

	CustomAttributes []CustomAttribute

	owner Class // owning class back-reference, non-owning
}

// PropertyName returns the property's name.
func (p *PropertyBase) PropertyName() string { return p.Name }

// OwnerClass returns the class the property is declared on.
func (p *PropertyBase) OwnerClass() Class { return p.owner }

// Common returns the variant-independent fields.
func (p *PropertyBase) Common() *PropertyBase { return p }

func (p *PropertyBase) setOwner(c Class) { p.owner = c }

// ArrayBounds holds occurrence limits for array properties. MaxOccurs of -1
// means unbounded.
type ArrayBounds struct {
	MinOccurs int
	MaxOccurs int
}

// PrimitiveProperty is a scalar-valued property. Exactly one of
// PrimitiveType and Enumeration is set: a typeName that does not parse as a
// built-in primitive resolves to an Enumeration instead.
type PrimitiveProperty struct {
	PropertyBase

	PrimitiveType    PrimitiveType
	Enumeration      *ItemRef
	ExtendedTypeName string
	MinLength        *int
	MaxLength        *int
	MinValue         *float64
	MaxValue         *float64
}

func (p *PrimitiveProperty) PropertyKind() PropertyKind { return PropertyKindPrimitive }

// StructProperty is a property carrying one struct-class value.
type StructProperty struct {
	PropertyBase

	Struct *ItemRef // deferred reference to a StructClass
}

func (p *StructProperty) PropertyKind() PropertyKind { return PropertyKindStruct }

// PrimitiveArrayProperty is an ordered collection of primitive values.
type PrimitiveArrayProperty struct {
	PrimitiveProperty

	Bounds ArrayBounds
}

func (p *PrimitiveArrayProperty) PropertyKind() PropertyKind { return PropertyKindPrimitiveArray }

// StructArrayProperty is an ordered collection of struct-class values.
type StructArrayProperty struct {
	StructProperty

	Bounds ArrayBounds
}

func (p *StructArrayProperty) PropertyKind() PropertyKind { return PropertyKindStructArray }

// NavigationProperty exposes the related instance(s) reachable through a
// relationship class, oriented by Direction. Only entity classes, mixins,
// and relationship classes may declare one.
type NavigationProperty struct {
	PropertyBase

	Relationship *ItemRef // deferred reference to a RelationshipClass
	Direction    Direction
}

func (p *NavigationProperty) PropertyKind() PropertyKind { return PropertyKindNavigation }
