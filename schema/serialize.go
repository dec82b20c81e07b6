package schema

import "encoding/json"

// ToJSON serializes the schema back to its wire form. The result parses
// into a graph isomorphic to this one; item ordering inside the JSON object
// is not significant on the wire, so none is promised here.
func (s *Schema) ToJSON() ([]byte, error) {
	doc := map[string]any{
		"name":    s.Key.Name,
		"version": s.Key.Version.String(),
	}
	if s.Alias != "" {
		doc["alias"] = s.Alias
	}
	if s.Description != "" {
		doc["description"] = s.Description
	}
	if s.Label != "" {
		doc["label"] = s.Label
	}
	if len(s.references) > 0 {
		refs := make([]map[string]any, 0, len(s.references))
		for _, ref := range s.references {
			refs = append(refs, map[string]any{
				"name":    ref.Key.Name,
				"version": ref.Key.Version.String(),
			})
		}
		doc["references"] = refs
	}
	if len(s.order) > 0 {
		items := make(map[string]any, len(s.order))
		for item := range s.Items() {
			items[item.ItemName()] = itemJSON(item)
		}
		doc["items"] = items
	}
	if cas := attributesJSON(s.CustomAttributes); cas != nil {
		doc["customAttributes"] = cas
	}
	return json.MarshalIndent(doc, "", "  ")
}

func itemJSON(item Item) map[string]any {
	doc := map[string]any{"schemaItemType": string(item.Kind())}
	switch it := item.(type) {
	case *EntityClass:
		classJSON(doc, &it.ClassBase)
		if len(it.Mixins) > 0 {
			mixins := make([]string, 0, len(it.Mixins))
			for _, m := range it.Mixins {
				mixins = append(mixins, m.FullName())
			}
			doc["mixins"] = mixins
		}
	case *Mixin:
		classJSON(doc, &it.ClassBase)
		if it.AppliesTo != nil {
			doc["appliesTo"] = it.AppliesTo.FullName()
		}
	case *StructClass:
		classJSON(doc, &it.ClassBase)
	case *CustomAttributeClass:
		classJSON(doc, &it.ClassBase)
		if it.AppliesToContainers != "" {
			doc["appliesTo"] = it.AppliesToContainers
		}
	case *RelationshipClass:
		classJSON(doc, &it.ClassBase)
		doc["strength"] = string(it.Strength)
		doc["strengthDirection"] = string(it.StrengthDirection)
		doc["source"] = constraintJSON(it.Source)
		doc["target"] = constraintJSON(it.Target)
	case *Enumeration:
		itemBaseJSON(doc, &it.ItemBase)
		doc["type"] = string(it.BackingType)
		doc["isStrict"] = it.IsStrict
		enumerators := make([]map[string]any, 0, len(it.Enumerators))
		for _, e := range it.Enumerators {
			entry := map[string]any{"name": e.Name, "value": e.Value}
			if e.Label != "" {
				entry["label"] = e.Label
			}
			if e.Description != "" {
				entry["description"] = e.Description
			}
			enumerators = append(enumerators, entry)
		}
		doc["enumerators"] = enumerators
	case *KindOfQuantity:
		itemBaseJSON(doc, &it.ItemBase)
		doc["persistenceUnit"] = it.PersistenceUnit
		doc["relativeError"] = it.RelativeError
		if len(it.PresentationFormats) > 0 {
			doc["presentationUnits"] = it.PresentationFormats
		}
	case *PropertyCategory:
		itemBaseJSON(doc, &it.ItemBase)
		doc["priority"] = it.Priority
	}
	return doc
}

func itemBaseJSON(doc map[string]any, b *ItemBase) {
	if b.Description != "" {
		doc["description"] = b.Description
	}
	if b.Label != "" {
		doc["label"] = b.Label
	}
	if cas := attributesJSON(b.CustomAttributes); cas != nil {
		doc["customAttributes"] = cas
	}
}

func classJSON(doc map[string]any, c *ClassBase) {
	itemBaseJSON(doc, &c.ItemBase)
	if c.Modifier != "" && c.Modifier != ModifierNone {
		doc["modifier"] = string(c.Modifier)
	}
	if c.BaseClass != nil {
		doc["baseClass"] = c.BaseClass.FullName()
	}
	if len(c.properties) > 0 {
		props := make([]map[string]any, 0, len(c.properties))
		for _, p := range c.properties {
			props = append(props, propertyJSON(p))
		}
		doc["properties"] = props
	}
}

func constraintJSON(c *RelationshipConstraint) map[string]any {
	doc := map[string]any{
		"multiplicity": c.Multiplicity.String(),
		"polymorphic":  c.Polymorphic,
	}
	if c.RoleLabel != "" {
		doc["roleLabel"] = c.RoleLabel
	}
	if c.AbstractConstraint != nil {
		doc["abstractConstraint"] = c.AbstractConstraint.FullName()
	}
	classes := make([]string, 0, len(c.ConstraintClasses))
	for _, ref := range c.ConstraintClasses {
		classes = append(classes, ref.FullName())
	}
	doc["constraintClasses"] = classes
	if cas := attributesJSON(c.CustomAttributes); cas != nil {
		doc["customAttributes"] = cas
	}
	return doc
}

func propertyJSON(p Property) map[string]any {
	base := p.Common()
	doc := map[string]any{
		"name":         base.Name,
		"propertyType": string(p.PropertyKind()),
	}
	if base.Description != "" {
		doc["description"] = base.Description
	}
	if base.Label != "" {
		doc["label"] = base.Label
	}
	if base.IsReadOnly {
		doc["isReadOnly"] = true
	}
	if base.Priority != 0 {
		doc["priority"] = base.Priority
	}
	if base.Category != nil {
		doc["category"] = base.Category.FullName()
	}
	if base.KindOfQuantity != nil {
		doc["kindOfQuantity"] = base.KindOfQuantity.FullName()
	}
	if cas := attributesJSON(base.CustomAttributes); cas != nil {
		doc["customAttributes"] = cas
	}
	switch prop := p.(type) {
	case *PrimitiveProperty:
		primitiveJSON(doc, prop)
	case *StructProperty:
		doc["typeName"] = prop.Struct.FullName()
	case *PrimitiveArrayProperty:
		primitiveJSON(doc, &prop.PrimitiveProperty)
		boundsJSON(doc, prop.Bounds)
	case *StructArrayProperty:
		doc["typeName"] = prop.Struct.FullName()
		boundsJSON(doc, prop.Bounds)
	case *NavigationProperty:
		doc["relationshipName"] = prop.Relationship.FullName()
		doc["direction"] = string(prop.Direction)
	}
	return doc
}

func primitiveJSON(doc map[string]any, p *PrimitiveProperty) {
	if p.Enumeration != nil {
		doc["typeName"] = p.Enumeration.FullName()
	} else {
		doc["typeName"] = string(p.PrimitiveType)
	}
	if p.ExtendedTypeName != "" {
		doc["extendedTypeName"] = p.ExtendedTypeName
	}
	if p.MinLength != nil {
		doc["minLength"] = *p.MinLength
	}
	if p.MaxLength != nil {
		doc["maxLength"] = *p.MaxLength
	}
	if p.MinValue != nil {
		doc["minValue"] = *p.MinValue
	}
	if p.MaxValue != nil {
		doc["maxValue"] = *p.MaxValue
	}
}

func boundsJSON(doc map[string]any, b ArrayBounds) {
	doc["minOccurs"] = b.MinOccurs
	if b.MaxOccurs >= 0 {
		doc["maxOccurs"] = b.MaxOccurs
	}
}

func attributesJSON(cas []CustomAttribute) []json.RawMessage {
	if len(cas) == 0 {
		return nil
	}
	out := make([]json.RawMessage, 0, len(cas))
	for _, ca := range cas {
		out = append(out, ca.Properties)
	}
	return out
}
