package deserializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	ecerrors "github.com/ecschema-go/ecschema/errors"
)

// Wire shapes. Every document is decoded into one of these before any model
// object is touched, so malformed JSON fails before the schema graph grows.

type schemaDoc struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Alias            string            `json:"alias"`
	Description      string            `json:"description"`
	Label            string            `json:"label"`
	References       []referenceDoc    `json:"references"`
	Items            json.RawMessage   `json:"items"`
	CustomAttributes []json.RawMessage `json:"customAttributes"`
}

type referenceDoc struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// kindProbe extracts only the item kind tag, so unknown kinds can be dropped
// before the full per-kind shape is decoded.
type kindProbe struct {
	SchemaItemType string `json:"schemaItemType"`
}

type classDoc struct {
	Description      string            `json:"description"`
	Label            string            `json:"label"`
	Modifier         string            `json:"modifier"`
	BaseClass        string            `json:"baseClass"`
	Mixins           []string          `json:"mixins"`
	AppliesTo        string            `json:"appliesTo"`
	Properties       []json.RawMessage `json:"properties"`
	CustomAttributes []json.RawMessage `json:"customAttributes"`

	Strength          string         `json:"strength"`
	StrengthDirection string         `json:"strengthDirection"`
	Source            *constraintDoc `json:"source"`
	Target            *constraintDoc `json:"target"`
}

type constraintDoc struct {
	Multiplicity       string            `json:"multiplicity"`
	Polymorphic        *bool             `json:"polymorphic"`
	RoleLabel          string            `json:"roleLabel"`
	AbstractConstraint string            `json:"abstractConstraint"`
	ConstraintClasses  []string          `json:"constraintClasses"`
	CustomAttributes   []json.RawMessage `json:"customAttributes"`
}

type enumerationDoc struct {
	Description      string            `json:"description"`
	Label            string            `json:"label"`
	Type             string            `json:"type"`
	IsStrict         *bool             `json:"isStrict"`
	Enumerators      []enumeratorDoc   `json:"enumerators"`
	CustomAttributes []json.RawMessage `json:"customAttributes"`
}

type enumeratorDoc struct {
	Name        string          `json:"name"`
	Value       json.RawMessage `json:"value"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
}

type kindOfQuantityDoc struct {
	Description       string            `json:"description"`
	Label             string            `json:"label"`
	PersistenceUnit   string            `json:"persistenceUnit"`
	RelativeError     float64           `json:"relativeError"`
	PresentationUnits []string          `json:"presentationUnits"`
	CustomAttributes  []json.RawMessage `json:"customAttributes"`
}

type propertyCategoryDoc struct {
	Description      string            `json:"description"`
	Label            string            `json:"label"`
	Priority         int               `json:"priority"`
	CustomAttributes []json.RawMessage `json:"customAttributes"`
}

type propertyDoc struct {
	Name             string            `json:"name"`
	PropertyType     string            `json:"propertyType"`
	TypeName         string            `json:"typeName"`
	Description      string            `json:"description"`
	Label            string            `json:"label"`
	IsReadOnly       bool              `json:"isReadOnly"`
	Priority         int               `json:"priority"`
	Category         string            `json:"category"`
	KindOfQuantity   string            `json:"kindOfQuantity"`
	ExtendedTypeName string            `json:"extendedTypeName"`
	MinLength        *int              `json:"minLength"`
	MaxLength        *int              `json:"maxLength"`
	MinValue         *float64          `json:"minValue"`
	MaxValue         *float64          `json:"maxValue"`
	MinOccurs        int               `json:"minOccurs"`
	MaxOccurs        *int              `json:"maxOccurs"`
	RelationshipName string            `json:"relationshipName"`
	Direction        string            `json:"direction"`
	CustomAttributes []json.RawMessage `json:"customAttributes"`
}

type customAttributeDoc struct {
	ClassName string `json:"className"`
}

// decodeItemsMap decodes the items member as an ordered map of item name to
// raw item body. JSON objects carry declaration order that encoding/json
// maps discard, and the top-level construction loop must follow declaration
// order for visitor determinism, so the keys are read off the token stream.
// An items member that is not a JSON object fails with ErrInvalidItemsShape.
func decodeItemsMap(raw json.RawMessage) (order []string, docs map[string]json.RawMessage, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil, nil
	}
	if trimmed[0] != '{' {
		return nil, nil, ecerrors.NewInvalidItemsShape()
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, nil, ecerrors.NewInvalidSchemaJSON("items", err.Error())
	}
	docs = make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, ecerrors.NewInvalidSchemaJSON("items", err.Error())
		}
		name, ok := tok.(string)
		if !ok {
			return nil, nil, ecerrors.NewInvalidSchemaJSON("items", fmt.Sprintf("unexpected token %v", tok))
		}
		var body json.RawMessage
		if err := dec.Decode(&body); err != nil {
			return nil, nil, ecerrors.NewInvalidSchemaJSON("items."+name, err.Error())
		}
		order = append(order, name)
		docs[name] = body
	}
	if _, err := dec.Token(); err != nil && err != io.EOF { // closing brace
		return nil, nil, ecerrors.NewInvalidSchemaJSON("items", err.Error())
	}
	return order, docs, nil
}

func decodeInto(raw json.RawMessage, path string, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return ecerrors.NewInvalidSchemaJSON(path, err.Error())
	}
	return nil
}
