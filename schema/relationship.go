package schema

import (
	"fmt"
	"strconv"
	"strings"

	ecerrors "github.com/ecschema-go/ecschema/errors"
)

// Strength describes the lifetime semantics of a relationship.
type Strength string

const (
	StrengthReferencing Strength = "Referencing"
	StrengthHolding     Strength = "Holding"
	StrengthEmbedding   Strength = "Embedding"
)

// Direction orients a relationship traversal or navigation property.
type Direction string

const (
	DirectionForward  Direction = "Forward"
	DirectionBackward Direction = "Backward"
)

// RelationshipEnd distinguishes the two constraint endpoints.
type RelationshipEnd string

const (
	RelationshipEndSource RelationshipEnd = "Source"
	RelationshipEndTarget RelationshipEnd = "Target"
)

// Multiplicity is an endpoint cardinality. Upper of -1 means unbounded.
type Multiplicity struct {
	Lower int
	Upper int
}

// DefaultMultiplicity is zero-or-one, the endpoint default.
var DefaultMultiplicity = Multiplicity{Lower: 0, Upper: 1}

// ParseMultiplicity parses the "(lower..upper)" wire form, where upper may
// be "*" for unbounded.
func ParseMultiplicity(s string) (Multiplicity, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	parts := strings.Split(trimmed, "..")
	if len(parts) != 2 {
		return Multiplicity{}, ecerrors.NewInvalidSchemaJSON("multiplicity", fmt.Sprintf("cannot parse %q", s))
	}
	lower, err := strconv.Atoi(parts[0])
	if err != nil || lower < 0 {
		return Multiplicity{}, ecerrors.NewInvalidSchemaJSON("multiplicity", fmt.Sprintf("cannot parse %q", s))
	}
	upper := -1
	if parts[1] != "*" {
		upper, err = strconv.Atoi(parts[1])
		if err != nil || upper < lower {
			return Multiplicity{}, ecerrors.NewInvalidSchemaJSON("multiplicity", fmt.Sprintf("cannot parse %q", s))
		}
	}
	return Multiplicity{Lower: lower, Upper: upper}, nil
}

// String returns the "(lower..upper)" wire form.
func (m Multiplicity) String() string {
	if m.Upper < 0 {
		return fmt.Sprintf("(%d..*)", m.Lower)
	}
	return fmt.Sprintf("(%d..%d)", m.Lower, m.Upper)
}

// RelationshipConstraint is one endpoint of a relationship class: which
// classes may appear at this end, how many, and under what role.
type RelationshipConstraint struct {
	End                RelationshipEnd
	Multiplicity       Multiplicity
	Polymorphic        bool
	RoleLabel          string
	AbstractConstraint *ItemRef   // nil unless explicit or defaulted
	ConstraintClasses  []*ItemRef // ordered as declared
	CustomAttributes   []CustomAttribute

	relationship *RelationshipClass // owning relationship, non-owning
}

// Relationship returns the relationship class owning this constraint.
func (c *RelationshipConstraint) Relationship() *RelationshipClass { return c.relationship }

// Validate checks that every constraint class shares one concrete item kind.
// Mixing entity classes, mixins, and relationship classes at one endpoint
// fails with ErrMixedConstraintKind. It also applies the abstract-constraint
// default: the sole constraint class, when exactly one exists and none was
// set explicitly.
func (c *RelationshipConstraint) Validate() error {
	var kind ItemType
	for _, ref := range c.ConstraintClasses {
		item, err := ref.Resolve()
		if err != nil {
			return err
		}
		if kind == "" {
			kind = item.Kind()
			continue
		}
		if item.Kind() != kind {
			name := ""
			if c.relationship != nil {
				name = c.relationship.Name
			}
			return ecerrors.NewMixedConstraintKind(name, strings.ToLower(string(c.End)))
		}
	}
	if c.AbstractConstraint == nil && len(c.ConstraintClasses) == 1 {
		c.AbstractConstraint = c.ConstraintClasses[0]
	}
	return nil
}

// RelationshipClass relates instances of its source constraint classes to
// instances of its target constraint classes.
type RelationshipClass struct {
	ClassBase

	Strength          Strength
	StrengthDirection Direction
	Source            *RelationshipConstraint
	Target            *RelationshipConstraint
}

// NewRelationshipClass creates an empty relationship class shell with
// defaulted constraints at both ends.
func NewRelationshipClass(name string) *RelationshipClass {
	r := &RelationshipClass{}
	r.Name = name
	r.Type = ItemTypeRelationshipClass
	r.Modifier = ModifierNone
	r.Strength = StrengthReferencing
	r.StrengthDirection = DirectionForward
	r.Source = &RelationshipConstraint{End: RelationshipEndSource, Multiplicity: DefaultMultiplicity, relationship: r}
	r.Target = &RelationshipConstraint{End: RelationshipEndTarget, Multiplicity: DefaultMultiplicity, relationship: r}
	return r
}
