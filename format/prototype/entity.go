package prototype

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/signadot/apidiff/format"
	"github.com/signadot/apidiff/libdiff"
	"github.com/signadot/apidiff/policy"
)

// field names shared by the field enumerations of this package.
const (
	fieldName             = "name"
	fieldOrder            = "order"
	fieldDescription      = "description"
	fieldLists            = "lists"
	fieldExamples         = "examples"
	fieldImages           = "images"
	fieldVisibility       = "visibility"
	fieldParent           = "parent"
	fieldAbstract         = "abstract"
	fieldTypename         = "typename"
	fieldInstanceLimit    = "instance_limit"
	fieldDeprecated       = "deprecated"
	fieldProperties       = "properties"
	fieldCustomProperties = "custom_properties"
	fieldInline           = "inline"
	fieldType             = "type"
	fieldAltName          = "alt_name"
	fieldOverride         = "override"
	fieldOptional         = "optional"
	fieldDefault          = "default"
	fieldKeyType          = "key_type"
	fieldValueType        = "value_type"
	fieldComplexType      = "complex_type"
	fieldKey              = "key"
	fieldValue            = "value"
	fieldValues           = "values"
	fieldOptions          = "options"
	fieldFullFormat       = "full_format"
)

// Common holds the documentation every entity carries.
type Common struct {
	Description string         `json:"description"`
	Lists       []string       `json:"lists,omitempty"`
	Examples    []string       `json:"examples,omitempty"`
	Images      []format.Image `json:"images,omitempty"`
}

type CommonField string

type CommonDiff = libdiff.Change[CommonField]

func (c Common) Diff(to Common, p policy.Policy) []CommonDiff {
	var res []CommonDiff
	res = libdiff.Scalar(res, p, policy.Description, fieldDescription, c.Description, to.Description)
	res = libdiff.Slice(res, p, policy.FullDetail, fieldLists, c.Lists, to.Lists)
	res = libdiff.Slice(res, p, policy.Example, fieldExamples, c.Examples, to.Examples)
	return libdiff.Slice(res, p, policy.FullDetail, fieldImages, c.Images, to.Images)
}

// Named is the base of entities held in keyed collections.
type Named struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
	Common
}

func (n Named) Key() string { return n.Name }

type NamedField string

type NamedDiff = libdiff.Change[NamedField]

func (n Named) Diff(to Named, p policy.Policy) []NamedDiff {
	var res []NamedDiff
	res = libdiff.Scalar(res, p, policy.Core, fieldName, n.Name, to.Name)
	res = libdiff.Scalar(res, p, policy.FullDetail, fieldOrder, n.Order, to.Order)
	return append(res, libdiff.Retag[NamedField](n.Common.Diff(to.Common, p))...)
}

// InstanceLimit is decoded from either a number or a string.
type InstanceLimit string

func (l *InstanceLimit) UnmarshalJSON(d []byte) error {
	d = bytes.TrimSpace(d)
	switch {
	case bytes.Equal(d, []byte("null")):
		*l = ""
	case len(d) != 0 && d[0] == '"':
		var s string
		if err := json.Unmarshal(d, &s); err != nil {
			return err
		}
		*l = InstanceLimit(s)
	default:
		u, err := strconv.ParseUint(string(d), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid instance_limit %s", d)
		}
		*l = InstanceLimit(strconv.FormatUint(u, 10))
	}
	return nil
}

type Prototype struct {
	Named
	Visibility       []string              `json:"visibility,omitempty"`
	Parent           string                `json:"parent,omitempty"`
	Abstract         bool                  `json:"abstract"`
	Typename         string                `json:"typename,omitempty"`
	InstanceLimit    InstanceLimit         `json:"instance_limit,omitempty"`
	Deprecated       bool                  `json:"deprecated"`
	Properties       libdiff.Map[Property] `json:"properties"`
	CustomProperties *CustomProperties     `json:"custom_properties,omitempty"`
}

type PrototypeField string

type PrototypeDiff = libdiff.Change[PrototypeField]

func (pt Prototype) Diff(to Prototype, p policy.Policy) []PrototypeDiff {
	res := libdiff.Retag[PrototypeField](pt.Named.Diff(to.Named, p))
	res = libdiff.Slice(res, p, policy.Core, fieldVisibility, pt.Visibility, to.Visibility)
	res = libdiff.Scalar(res, p, policy.Core, fieldParent, pt.Parent, to.Parent)
	res = libdiff.Scalar(res, p, policy.Core, fieldAbstract, pt.Abstract, to.Abstract)
	res = libdiff.Scalar(res, p, policy.Core, fieldTypename, pt.Typename, to.Typename)
	res = libdiff.Scalar(res, p, policy.Core, fieldInstanceLimit, pt.InstanceLimit, to.InstanceLimit)
	res = libdiff.Scalar(res, p, policy.Core, fieldDeprecated, pt.Deprecated, to.Deprecated)
	if d := libdiff.DiffMap(pt.Properties, to.Properties, p, Property.Diff); d.Len() != 0 {
		res = append(res, libdiff.Set[PrototypeField](fieldProperties, d))
	}
	if d := diffCustomProperties(pt.CustomProperties, to.CustomProperties, p); len(d) != 0 {
		res = append(res, libdiff.Set[PrototypeField](fieldCustomProperties, d))
	}
	return res
}

// TypeConcept is a named type of the prototype API.
type TypeConcept struct {
	Named
	Parent     string                `json:"parent,omitempty"`
	Abstract   bool                  `json:"abstract"`
	Inline     bool                  `json:"inline"`
	Type       Type                  `json:"type"`
	Properties libdiff.Map[Property] `json:"properties,omitempty"`
}

type TypeConceptField string

type TypeConceptDiff = libdiff.Change[TypeConceptField]

func (tc TypeConcept) Diff(to TypeConcept, p policy.Policy) []TypeConceptDiff {
	res := libdiff.Retag[TypeConceptField](tc.Named.Diff(to.Named, p))
	res = libdiff.Scalar(res, p, policy.Core, fieldParent, tc.Parent, to.Parent)
	res = libdiff.Scalar(res, p, policy.Core, fieldAbstract, tc.Abstract, to.Abstract)
	res = libdiff.Scalar(res, p, policy.Core, fieldInline, tc.Inline, to.Inline)
	res = typeField(res, fieldType, tc.Type, to.Type, p)
	if d := libdiff.DiffMap(tc.Properties, to.Properties, p, Property.Diff); d.Len() != 0 {
		res = append(res, libdiff.Set[TypeConceptField](fieldProperties, d))
	}
	return res
}

type Property struct {
	Named
	AltName  string           `json:"alt_name,omitempty"`
	Override bool             `json:"override"`
	Type     Type             `json:"type"`
	Optional bool             `json:"optional"`
	Default  *PropertyDefault `json:"default,omitempty"`
}

type PropertyField string

type PropertyDiff = libdiff.Change[PropertyField]

func (pr Property) Diff(to Property, p policy.Policy) []PropertyDiff {
	res := libdiff.Retag[PropertyField](pr.Named.Diff(to.Named, p))
	res = libdiff.Scalar(res, p, policy.Core, fieldAltName, pr.AltName, to.AltName)
	res = libdiff.Scalar(res, p, policy.Core, fieldOverride, pr.Override, to.Override)
	res = typeField(res, fieldType, pr.Type, to.Type, p)
	res = libdiff.Scalar(res, p, policy.Core, fieldOptional, pr.Optional, to.Optional)
	if !pr.Default.Equal(to.Default) {
		res = append(res, libdiff.Set[PropertyField](fieldDefault, to.Default))
	}
	return res
}

// PropertyDefault is the default of a property: either a string or a
// literal.  PropertyDefault is comparable.
type PropertyDefault struct {
	IsLiteral bool
	Text      string
	Literal   format.Literal
}

// Equal reports whether d and o are both absent or hold the same default.
func (d *PropertyDefault) Equal(o *PropertyDefault) bool {
	if d == nil || o == nil {
		return d == o
	}
	return *d == *o
}

func (d PropertyDefault) MarshalJSON() ([]byte, error) {
	if d.IsLiteral {
		return json.Marshal(d.Literal)
	}
	return json.Marshal(d.Text)
}

func (d *PropertyDefault) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) != 0 && data[0] == '"' {
		*d = PropertyDefault{}
		return json.Unmarshal(data, &d.Text)
	}
	var lit format.Literal
	if err := json.Unmarshal(data, &lit); err != nil {
		return err
	}
	*d = PropertyDefault{IsLiteral: true, Literal: lit}
	return nil
}

type CustomProperties struct {
	Common
	KeyType   Type `json:"key_type"`
	ValueType Type `json:"value_type"`
}

type CustomPropertiesField string

type CustomPropertiesDiff = libdiff.Change[CustomPropertiesField]

func (cp CustomProperties) Diff(to CustomProperties, p policy.Policy) []CustomPropertiesDiff {
	res := libdiff.Retag[CustomPropertiesField](cp.Common.Diff(to.Common, p))
	res = typeField(res, fieldKeyType, cp.KeyType, to.KeyType, p)
	return typeField(res, fieldValueType, cp.ValueType, to.ValueType, p)
}

func diffCustomProperties(from, to *CustomProperties, p policy.Policy) []CustomPropertiesDiff {
	var f, t CustomProperties
	if from != nil {
		f = *from
	}
	if to != nil {
		t = *to
	}
	return f.Diff(t, p)
}
