package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecerrors "github.com/ecschema-go/ecschema/errors"
)

func newTestSchema(t *testing.T) *Schema {
	t.Helper()
	return New(SchemaKey{Name: "TestSchema", Version: Version{1, 0, 0}}, "ts")
}

func addItem(t *testing.T, s *Schema, item Item) {
	t.Helper()
	require.NoError(t, s.AddItem(item))
}

// Builds the diamond-like hierarchy:
//
//	A (entity)
//	B, C, D, E, F mixins applying to A; E has base C, F has base D
//	G (entity) base A, mixin B
//	H (entity) base G, mixins E, F
func buildDiamond(t *testing.T) (*Schema, *EntityClass) {
	t.Helper()
	s := newTestSchema(t)

	a := NewEntityClass("A")
	addItem(t, s, a)

	mixins := map[string]*Mixin{}
	for _, name := range []string{"B", "C", "D", "E", "F"} {
		m := NewMixin(name)
		addItem(t, s, m)
		m.AppliesTo = DirectRef(a)
		mixins[name] = m
	}
	mixins["E"].BaseClass = DirectRef(mixins["C"])
	mixins["F"].BaseClass = DirectRef(mixins["D"])

	g := NewEntityClass("G")
	addItem(t, s, g)
	g.BaseClass = DirectRef(a)
	g.Mixins = []*ItemRef{DirectRef(mixins["B"])}

	h := NewEntityClass("H")
	addItem(t, s, h)
	h.BaseClass = DirectRef(g)
	h.Mixins = []*ItemRef{DirectRef(mixins["E"]), DirectRef(mixins["F"])}

	return s, h
}

func TestAllBaseClasses_PrecedenceOrder(t *testing.T) {
	_, h := buildDiamond(t)

	var got []string
	for base := range AllBaseClasses(h) {
		got = append(got, base.ItemName())
	}
	// Base first, depth-first, then declared mixins in order; first
	// occurrence wins, so A (reachable again through the mixins'
	// appliesTo side) appears exactly once.
	assert.Equal(t, []string{"G", "A", "B", "E", "C", "F", "D"}, got)
}

func TestAllBaseClasses_Restartable(t *testing.T) {
	_, h := buildDiamond(t)

	seq := AllBaseClasses(h)
	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	assert.Equal(t, first, second)
	assert.Equal(t, 7, first)
}

func TestAllBaseClasses_EarlyStop(t *testing.T) {
	_, h := buildDiamond(t)

	var got []string
	for base := range AllBaseClasses(h) {
		got = append(got, base.ItemName())
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"G", "A"}, got)
}

func TestAddProperty_DuplicateCaseInsensitive(t *testing.T) {
	s := newTestSchema(t)
	c := NewEntityClass("Widget")
	addItem(t, s, c)

	first := &PrimitiveProperty{}
	first.Name = "Foo"
	first.PrimitiveType = PrimitiveString
	require.NoError(t, c.AddProperty(first))

	second := &PrimitiveProperty{}
	second.Name = "foo"
	second.PrimitiveType = PrimitiveInteger
	err := c.AddProperty(second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ecerrors.Sentinel(ecerrors.ErrDuplicateProperty)))
}

func TestAddProperty_ShadowingInheritedIsAllowed(t *testing.T) {
	s := newTestSchema(t)
	base := NewEntityClass("Base")
	addItem(t, s, base)
	derived := NewEntityClass("Derived")
	addItem(t, s, derived)
	derived.BaseClass = DirectRef(base)

	inherited := &PrimitiveProperty{}
	inherited.Name = "Code"
	inherited.PrimitiveType = PrimitiveString
	require.NoError(t, base.AddProperty(inherited))

	shadow := &PrimitiveProperty{}
	shadow.Name = "code"
	shadow.PrimitiveType = PrimitiveInteger
	require.NoError(t, derived.AddProperty(shadow),
		"uniqueness is checked against the owning class only")
}

func TestFindProperty_MostDerivedWins(t *testing.T) {
	s := newTestSchema(t)
	base := NewEntityClass("Base")
	addItem(t, s, base)
	derived := NewEntityClass("Derived")
	addItem(t, s, derived)
	derived.BaseClass = DirectRef(base)

	baseProp := &PrimitiveProperty{}
	baseProp.Name = "Value"
	baseProp.PrimitiveType = PrimitiveString
	require.NoError(t, base.AddProperty(baseProp))

	baseOnly := &PrimitiveProperty{}
	baseOnly.Name = "Origin"
	baseOnly.PrimitiveType = PrimitiveString
	require.NoError(t, base.AddProperty(baseOnly))

	override := &PrimitiveProperty{}
	override.Name = "Value"
	override.PrimitiveType = PrimitiveInteger
	require.NoError(t, derived.AddProperty(override))

	found, ok := FindProperty(derived, "value", true)
	require.True(t, ok)
	assert.Same(t, Property(override), found)

	found, ok = FindProperty(derived, "Origin", true)
	require.True(t, ok)
	assert.Same(t, Property(baseOnly), found)

	_, ok = FindProperty(derived, "Origin", false)
	assert.False(t, ok, "inherited lookup is opt-in")
}

func TestPropertyOwnerBackReference(t *testing.T) {
	s := newTestSchema(t)
	c := NewEntityClass("Widget")
	addItem(t, s, c)

	p := &PrimitiveProperty{}
	p.Name = "Size"
	p.PrimitiveType = PrimitiveDouble
	require.NoError(t, c.AddProperty(p))

	owner := p.OwnerClass()
	require.NotNil(t, owner)
	assert.Equal(t, "Widget", owner.ItemName())
}
