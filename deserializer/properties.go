package deserializer

import (
	"encoding/json"
	"fmt"

	ecerrors "github.com/ecschema-go/ecschema/errors"
	"github.com/ecschema-go/ecschema/schema"
)

// loadProperty materializes one property of cls from its JSON, dispatching
// on the required propertyType tag. Unlike schemaItemType, an unknown
// property type is a hard failure: the permissive-unknown rule applies to
// item kinds only.
func (st *readState) loadProperty(cls schema.Class, base *schema.ClassBase, raw json.RawMessage, path string) error {
	var doc propertyDoc
	if err := decodeInto(raw, path, &doc); err != nil {
		return err
	}
	if doc.Name == "" {
		return ecerrors.NewMissingField(path + ".name")
	}
	if doc.PropertyType == "" {
		return ecerrors.NewMissingField(path + ".propertyType")
	}

	var (
		prop schema.Property
		err  error
	)
	switch schema.PropertyKind(doc.PropertyType) {
	case schema.PropertyKindPrimitive:
		p := &schema.PrimitiveProperty{}
		err = st.loadPrimitiveFields(p, &doc, path)
		prop = p
	case schema.PropertyKindPrimitiveArray:
		p := &schema.PrimitiveArrayProperty{}
		if err = st.loadPrimitiveFields(&p.PrimitiveProperty, &doc, path); err == nil {
			p.Bounds = arrayBounds(&doc)
		}
		prop = p
	case schema.PropertyKindStruct:
		p := &schema.StructProperty{}
		err = st.loadStructFields(p, &doc, path)
		prop = p
	case schema.PropertyKindStructArray:
		p := &schema.StructArrayProperty{}
		if err = st.loadStructFields(&p.StructProperty, &doc, path); err == nil {
			p.Bounds = arrayBounds(&doc)
		}
		prop = p
	case schema.PropertyKindNavigation:
		p := &schema.NavigationProperty{}
		err = st.loadNavigationFields(p, cls, &doc, path)
		prop = p
	default:
		return ecerrors.NewInvalidPropertyType(doc.Name, doc.PropertyType)
	}
	if err != nil {
		return err
	}

	if err := st.loadCommonPropertyFields(prop.Common(), &doc, path); err != nil {
		return err
	}
	return base.AddProperty(prop)
}

// loadCommonPropertyFields fills the variant-independent fields and, last of
// all, resolves the optional category and kindOfQuantity references.
func (st *readState) loadCommonPropertyFields(base *schema.PropertyBase, doc *propertyDoc, path string) error {
	base.Name = doc.Name
	base.Description = doc.Description
	base.Label = doc.Label
	base.IsReadOnly = doc.IsReadOnly
	base.Priority = doc.Priority

	if doc.Category != "" {
		ref, err := st.resolveItemAs(doc.Category, path+".category", true, schema.ItemTypePropertyCategory)
		if err != nil {
			return err
		}
		base.Category = ref
	}
	if doc.KindOfQuantity != "" {
		ref, err := st.resolveItemAs(doc.KindOfQuantity, path+".kindOfQuantity", true, schema.ItemTypeKindOfQuantity)
		if err != nil {
			return err
		}
		base.KindOfQuantity = ref
	}

	attrs, err := st.loadCustomAttributes(doc.CustomAttributes, path+".customAttributes")
	if err != nil {
		return err
	}
	base.CustomAttributes = attrs
	return nil
}

// loadPrimitiveFields resolves typeName either to a built-in primitive type
// or, failing that, to an Enumeration reached through the usual item
// resolution.
func (st *readState) loadPrimitiveFields(p *schema.PrimitiveProperty, doc *propertyDoc, path string) error {
	if doc.TypeName == "" {
		return ecerrors.NewMissingField(path + ".typeName")
	}
	if primitive, ok := schema.ParsePrimitiveType(doc.TypeName); ok {
		p.PrimitiveType = primitive
	} else {
		ref, err := st.resolveItemAs(doc.TypeName, path+".typeName", true, schema.ItemTypeEnumeration)
		if err != nil {
			return err
		}
		p.Enumeration = ref
	}
	p.ExtendedTypeName = doc.ExtendedTypeName
	p.MinLength = doc.MinLength
	p.MaxLength = doc.MaxLength
	p.MinValue = doc.MinValue
	p.MaxValue = doc.MaxValue
	return nil
}

// loadStructFields resolves typeName to a StructClass.
func (st *readState) loadStructFields(p *schema.StructProperty, doc *propertyDoc, path string) error {
	if doc.TypeName == "" {
		return ecerrors.NewMissingField(path + ".typeName")
	}
	ref, err := st.resolveItemAs(doc.TypeName, path+".typeName", true, schema.ItemTypeStructClass)
	if err != nil {
		return err
	}
	p.Struct = ref
	return nil
}

// loadNavigationFields resolves the relationship reference and direction.
// Only entity classes, mixins, and relationship classes may declare
// navigation properties.
func (st *readState) loadNavigationFields(p *schema.NavigationProperty, cls schema.Class, doc *propertyDoc, path string) error {
	switch cls.(type) {
	case *schema.EntityClass, *schema.Mixin, *schema.RelationshipClass:
	default:
		return ecerrors.NewInvalidNavigationProperty(cls.ItemName(), doc.Name)
	}
	if doc.RelationshipName == "" {
		return ecerrors.NewMissingField(path + ".relationshipName")
	}
	ref, err := st.resolveItemAs(doc.RelationshipName, path+".relationshipName", true, schema.ItemTypeRelationshipClass)
	if err != nil {
		return err
	}
	p.Relationship = ref

	if doc.Direction == "" {
		return ecerrors.NewMissingField(path + ".direction")
	}
	direction, err := parseDirection(doc.Direction, path+".direction")
	if err != nil {
		return err
	}
	p.Direction = direction
	return nil
}

func arrayBounds(doc *propertyDoc) schema.ArrayBounds {
	bounds := schema.ArrayBounds{MinOccurs: doc.MinOccurs, MaxOccurs: -1}
	if doc.MaxOccurs != nil {
		bounds.MaxOccurs = *doc.MaxOccurs
	}
	return bounds
}

func propertyPath(classPath string, index int) string {
	return fmt.Sprintf("%s.properties[%d]", classPath, index)
}
