package schema

import "encoding/json"

// Enumerator is one named value of an enumeration. Value holds the raw JSON
// scalar (string or integer, matching the enumeration's backing type).
type Enumerator struct {
	Name        string          `json:"name"`
	Value       json.RawMessage `json:"value"`
	Label       string          `json:"label,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Enumeration is a closed or open set of named scalar values.
type Enumeration struct {
	ItemBase

	BackingType PrimitiveType // PrimitiveInteger or PrimitiveString
	IsStrict    bool
	Enumerators []Enumerator // declaration order
}

// NewEnumeration creates an empty enumeration shell.
func NewEnumeration(name string) *Enumeration {
	e := &Enumeration{}
	e.Name = name
	e.Type = ItemTypeEnumeration
	return e
}

// KindOfQuantity attaches measurement semantics to properties: the unit
// values persist in, the acceptable relative error, and the formats used
// for presentation. Units and formats are carried as opaque qualified names.
type KindOfQuantity struct {
	ItemBase

	PersistenceUnit     string
	RelativeError       float64
	PresentationFormats []string
}

// NewKindOfQuantity creates an empty kind-of-quantity shell.
func NewKindOfQuantity(name string) *KindOfQuantity {
	k := &KindOfQuantity{}
	k.Name = name
	k.Type = ItemTypeKindOfQuantity
	return k
}

// PropertyCategory groups properties for display purposes.
type PropertyCategory struct {
	ItemBase

	Priority int
}

// NewPropertyCategory creates an empty property category shell.
func NewPropertyCategory(name string) *PropertyCategory {
	c := &PropertyCategory{}
	c.Name = name
	c.Type = ItemTypePropertyCategory
	return c
}
