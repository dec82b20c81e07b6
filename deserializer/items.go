package deserializer

import (
	"encoding/json"
	"strings"

	ecerrors "github.com/ecschema-go/ecschema/errors"
	"github.com/ecschema-go/ecschema/schema"
)

// loadItem constructs, registers, and populates one item of the schema
// being read. The empty shell is registered before population, so that a
// reference cycle re-entering this item resolves to the shell instead of
// recursing into construction again; presence in the schema's item map is
// exactly the populate-once check.
//
// With deferVisit set the caller takes over the item's visitor
// notification, delivering it after the caller's own construction
// completes; otherwise the item is announced here, after its deferred
// children.
func (st *readState) loadItem(name string, deferVisit bool) (schema.Item, error) {
	lower := strings.ToLower(name)
	raw, ok := st.itemDocs[lower]
	if !ok {
		return nil, ecerrors.NewUnresolvedItem(st.schema.Key.Name, name)
	}
	declared := st.itemNames[lower]

	var probe kindProbe
	if err := decodeInto(raw, "items."+declared, &probe); err != nil {
		return nil, err
	}
	item := newItemShell(schema.ItemType(probe.SchemaItemType), declared)
	if err := st.schema.AddItem(item); err != nil {
		return nil, err
	}

	st.pushFrame()
	err := st.populateItem(item, raw, "items."+declared)
	frame := st.popFrame()
	if err != nil {
		return nil, err
	}
	for _, child := range frame {
		st.notify(child)
	}
	if deferVisit {
		st.deferToCaller(item)
	} else {
		st.notify(item)
	}
	return item, nil
}

func newItemShell(kind schema.ItemType, name string) schema.Item {
	switch kind {
	case schema.ItemTypeEntityClass:
		return schema.NewEntityClass(name)
	case schema.ItemTypeMixin:
		return schema.NewMixin(name)
	case schema.ItemTypeStructClass:
		return schema.NewStructClass(name)
	case schema.ItemTypeCustomAttributeClass:
		return schema.NewCustomAttributeClass(name)
	case schema.ItemTypeRelationshipClass:
		return schema.NewRelationshipClass(name)
	case schema.ItemTypeEnumeration:
		return schema.NewEnumeration(name)
	case schema.ItemTypeKindOfQuantity:
		return schema.NewKindOfQuantity(name)
	default:
		return schema.NewPropertyCategory(name)
	}
}

func (st *readState) populateItem(item schema.Item, raw json.RawMessage, path string) error {
	switch it := item.(type) {
	case *schema.EntityClass:
		return st.loadEntityClass(it, raw, path)
	case *schema.Mixin:
		return st.loadMixin(it, raw, path)
	case *schema.StructClass:
		return st.loadStructClass(it, raw, path)
	case *schema.CustomAttributeClass:
		return st.loadCustomAttributeClass(it, raw, path)
	case *schema.RelationshipClass:
		return st.loadRelationshipClass(it, raw, path)
	case *schema.Enumeration:
		return st.loadEnumeration(it, raw, path)
	case *schema.KindOfQuantity:
		return st.loadKindOfQuantity(it, raw, path)
	case *schema.PropertyCategory:
		return st.loadPropertyCategory(it, raw, path)
	default:
		return ecerrors.NewInvalidSchemaJSON(path, "unsupported item kind")
	}
}

// resolveItem resolves a possibly qualified item name to a deferred
// reference, constructing the target first when it belongs to the schema
// being read and has not been populated yet. Construction order is
// therefore reference-driven, not declaration-driven. An already-populated
// local target terminates a cycle: the existing shell is referenced with no
// further work.
func (st *readState) resolveItem(fullName string, path string, deferVisit bool) (*schema.ItemRef, error) {
	schemaName, itemName, err := schema.ParseFullName(fullName)
	if err != nil {
		// Unqualified names are local to the schema being read.
		schemaName, itemName = st.schema.Key.Name, fullName
	}

	if strings.EqualFold(schemaName, st.schema.Key.Name) ||
		strings.EqualFold(schemaName, st.schema.Alias) {
		if _, populated := st.schema.Item(itemName); !populated {
			if _, err := st.loadItem(itemName, deferVisit); err != nil {
				return nil, err
			}
		}
		return st.localRef(itemName), nil
	}

	ref, ok := st.schema.Reference(schemaName)
	if !ok {
		// A qualified name may only reach schemas listed in references,
		// even if the target schema is separately registered.
		return nil, ecerrors.NewUnresolvedSchemaReference(st.schema.Key.Name, schemaName).WithPath(path)
	}
	item, ok := ref.Item(itemName)
	if !ok {
		return nil, ecerrors.NewUnresolvedItem(st.schema.Key.Name, fullName).WithPath(path)
	}
	return schema.DirectRef(item), nil
}

// localRef builds a deferred reference into the schema being read. The
// resolver looks the item up at dereference time, so the ref stays valid
// while its target is still a shell under construction.
func (st *readState) localRef(itemName string) *schema.ItemRef {
	target := st.schema
	key := schema.ItemKey{Schema: target.Key, Name: itemName}
	return schema.NewItemRef(key, func() (schema.Item, error) {
		item, ok := target.Item(itemName)
		if !ok {
			return nil, ecerrors.NewUnresolvedItem(target.Key.Name, itemName)
		}
		return item, nil
	})
}

// resolveItemAs resolves a reference and checks the target's kind.
func (st *readState) resolveItemAs(fullName, path string, deferVisit bool, want schema.ItemType) (*schema.ItemRef, error) {
	ref, err := st.resolveItem(fullName, path, deferVisit)
	if err != nil {
		return nil, err
	}
	item, err := ref.Resolve()
	if err != nil {
		return nil, err
	}
	if item.Kind() != want {
		return nil, ecerrors.NewWrongItemKind(fullName, string(want), string(item.Kind())).WithPath(path)
	}
	return ref, nil
}

// loadClassCommon populates the parts shared by every class kind, in the
// required order: the base class is resolved (with its notification
// deferred) before anything else on this class, so inheritance logic can
// rely on ancestors existing at least as shells; then scalars; then the
// kind-specific references supplied by resolveExtra (mixins, appliesTo,
// relationship constraints), which must land before properties load because
// a mixin can contribute properties that this class's own property
// validation considers; properties last, in declaration order.
func (st *readState) loadClassCommon(cls schema.Class, base *schema.ClassBase, doc *classDoc, path string, resolveExtra func() error) error {
	if doc.BaseClass != "" {
		ref, err := st.resolveItem(doc.BaseClass, path+".baseClass", true)
		if err != nil {
			return err
		}
		base.BaseClass = ref
	}

	base.Description = doc.Description
	base.Label = doc.Label
	switch doc.Modifier {
	case "":
		// shell default stands
	case string(schema.ModifierNone), string(schema.ModifierAbstract), string(schema.ModifierSealed):
		base.Modifier = schema.Modifier(doc.Modifier)
	default:
		return ecerrors.NewInvalidSchemaJSON(path+".modifier", "must be None, Abstract, or Sealed")
	}

	if resolveExtra != nil {
		if err := resolveExtra(); err != nil {
			return err
		}
	}

	for i, rawProp := range doc.Properties {
		if err := st.loadProperty(cls, base, rawProp, propertyPath(path, i)); err != nil {
			return err
		}
	}

	attrs, err := st.loadCustomAttributes(doc.CustomAttributes, path+".customAttributes")
	if err != nil {
		return err
	}
	base.ItemBase.CustomAttributes = attrs
	return nil
}

func (st *readState) loadEntityClass(c *schema.EntityClass, raw json.RawMessage, path string) error {
	var doc classDoc
	if err := decodeInto(raw, path, &doc); err != nil {
		return err
	}
	return st.loadClassCommon(c, &c.ClassBase, &doc, path, func() error {
		for _, mixinName := range doc.Mixins {
			ref, err := st.resolveItemAs(mixinName, path+".mixins", true, schema.ItemTypeMixin)
			if err != nil {
				return err
			}
			c.Mixins = append(c.Mixins, ref)
		}
		return nil
	})
}

func (st *readState) loadMixin(m *schema.Mixin, raw json.RawMessage, path string) error {
	var doc classDoc
	if err := decodeInto(raw, path, &doc); err != nil {
		return err
	}
	return st.loadClassCommon(m, &m.ClassBase, &doc, path, func() error {
		if doc.AppliesTo == "" {
			return ecerrors.NewMissingField(path + ".appliesTo")
		}
		ref, err := st.resolveItemAs(doc.AppliesTo, path+".appliesTo", true, schema.ItemTypeEntityClass)
		if err != nil {
			return err
		}
		m.AppliesTo = ref
		return nil
	})
}

func (st *readState) loadStructClass(c *schema.StructClass, raw json.RawMessage, path string) error {
	var doc classDoc
	if err := decodeInto(raw, path, &doc); err != nil {
		return err
	}
	return st.loadClassCommon(c, &c.ClassBase, &doc, path, nil)
}

func (st *readState) loadCustomAttributeClass(c *schema.CustomAttributeClass, raw json.RawMessage, path string) error {
	var doc struct {
		classDoc
		AppliesTo string `json:"appliesTo"`
	}
	if err := decodeInto(raw, path, &doc); err != nil {
		return err
	}
	c.AppliesToContainers = doc.AppliesTo
	return st.loadClassCommon(c, &c.ClassBase, &doc.classDoc, path, nil)
}

func (st *readState) loadRelationshipClass(c *schema.RelationshipClass, raw json.RawMessage, path string) error {
	var doc classDoc
	if err := decodeInto(raw, path, &doc); err != nil {
		return err
	}
	if doc.Strength != "" {
		switch s := schema.Strength(doc.Strength); s {
		case schema.StrengthReferencing, schema.StrengthHolding, schema.StrengthEmbedding:
			c.Strength = s
		default:
			return ecerrors.NewInvalidSchemaJSON(path+".strength", "must be Referencing, Holding, or Embedding")
		}
	}
	if doc.StrengthDirection != "" {
		dir, err := parseDirection(doc.StrengthDirection, path+".strengthDirection")
		if err != nil {
			return err
		}
		c.StrengthDirection = dir
	}
	if doc.Source == nil {
		return ecerrors.NewMissingConstraint(c.Name, "source")
	}
	if doc.Target == nil {
		return ecerrors.NewMissingConstraint(c.Name, "target")
	}
	return st.loadClassCommon(c, &c.ClassBase, &doc, path, func() error {
		if err := st.loadConstraint(c.Source, doc.Source, path+".source"); err != nil {
			return err
		}
		return st.loadConstraint(c.Target, doc.Target, path+".target")
	})
}

func (st *readState) loadConstraint(constraint *schema.RelationshipConstraint, doc *constraintDoc, path string) error {
	if doc.Multiplicity != "" {
		m, err := schema.ParseMultiplicity(doc.Multiplicity)
		if err != nil {
			return err
		}
		constraint.Multiplicity = m
	}
	if doc.Polymorphic != nil {
		constraint.Polymorphic = *doc.Polymorphic
	}
	constraint.RoleLabel = doc.RoleLabel

	if doc.AbstractConstraint != "" {
		ref, err := st.resolveItem(doc.AbstractConstraint, path+".abstractConstraint", true)
		if err != nil {
			return err
		}
		constraint.AbstractConstraint = ref
	}
	for _, name := range doc.ConstraintClasses {
		ref, err := st.resolveItem(name, path+".constraintClasses", true)
		if err != nil {
			return err
		}
		constraint.ConstraintClasses = append(constraint.ConstraintClasses, ref)
	}

	attrs, err := st.loadCustomAttributes(doc.CustomAttributes, path+".customAttributes")
	if err != nil {
		return err
	}
	constraint.CustomAttributes = attrs

	return constraint.Validate()
}

func (st *readState) loadEnumeration(e *schema.Enumeration, raw json.RawMessage, path string) error {
	var doc enumerationDoc
	if err := decodeInto(raw, path, &doc); err != nil {
		return err
	}
	switch schema.PrimitiveType(doc.Type) {
	case schema.PrimitiveInteger, schema.PrimitiveString:
		e.BackingType = schema.PrimitiveType(doc.Type)
	default:
		return ecerrors.NewInvalidSchemaJSON(path+".type", "enumeration backing type must be int or string")
	}
	if doc.IsStrict != nil {
		e.IsStrict = *doc.IsStrict
	}
	e.Description = doc.Description
	e.Label = doc.Label
	for _, enumerator := range doc.Enumerators {
		if enumerator.Name == "" {
			return ecerrors.NewMissingField(path + ".enumerators.name")
		}
		e.Enumerators = append(e.Enumerators, schema.Enumerator{
			Name:        enumerator.Name,
			Value:       enumerator.Value,
			Label:       enumerator.Label,
			Description: enumerator.Description,
		})
	}
	attrs, err := st.loadCustomAttributes(doc.CustomAttributes, path+".customAttributes")
	if err != nil {
		return err
	}
	e.CustomAttributes = attrs
	return nil
}

func (st *readState) loadKindOfQuantity(k *schema.KindOfQuantity, raw json.RawMessage, path string) error {
	var doc kindOfQuantityDoc
	if err := decodeInto(raw, path, &doc); err != nil {
		return err
	}
	if doc.PersistenceUnit == "" {
		return ecerrors.NewMissingField(path + ".persistenceUnit")
	}
	k.Description = doc.Description
	k.Label = doc.Label
	k.PersistenceUnit = doc.PersistenceUnit
	k.RelativeError = doc.RelativeError
	k.PresentationFormats = doc.PresentationUnits
	attrs, err := st.loadCustomAttributes(doc.CustomAttributes, path+".customAttributes")
	if err != nil {
		return err
	}
	k.CustomAttributes = attrs
	return nil
}

func (st *readState) loadPropertyCategory(c *schema.PropertyCategory, raw json.RawMessage, path string) error {
	var doc propertyCategoryDoc
	if err := decodeInto(raw, path, &doc); err != nil {
		return err
	}
	c.Description = doc.Description
	c.Label = doc.Label
	c.Priority = doc.Priority
	attrs, err := st.loadCustomAttributes(doc.CustomAttributes, path+".customAttributes")
	if err != nil {
		return err
	}
	c.CustomAttributes = attrs
	return nil
}

// loadCustomAttributes resolves the class reference of each attached custom
// attribute and keeps the raw payload; attribute semantics are not the
// engine's business.
func (st *readState) loadCustomAttributes(raws []json.RawMessage, path string) ([]schema.CustomAttribute, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	attrs := make([]schema.CustomAttribute, 0, len(raws))
	for _, raw := range raws {
		var doc customAttributeDoc
		if err := decodeInto(raw, path, &doc); err != nil {
			return nil, err
		}
		if doc.ClassName == "" {
			return nil, ecerrors.NewMissingField(path + ".className")
		}
		ref, err := st.resolveItem(doc.ClassName, path, true)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, schema.CustomAttribute{
			ClassName:  doc.ClassName,
			Class:      ref,
			Properties: raw,
		})
	}
	return attrs, nil
}

func parseDirection(s, path string) (schema.Direction, error) {
	switch d := schema.Direction(s); d {
	case schema.DirectionForward, schema.DirectionBackward:
		return d, nil
	default:
		return "", ecerrors.NewInvalidSchemaJSON(path, "must be Forward or Backward")
	}
}
