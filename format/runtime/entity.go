package runtime

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/signadot/apidiff/format"
	"github.com/signadot/apidiff/libdiff"
	"github.com/signadot/apidiff/policy"
)

const (
	fieldName                        = "name"
	fieldOrder                       = "order"
	fieldDescription                 = "description"
	fieldNotes                       = "notes"
	fieldExamples                    = "examples"
	fieldAbstract                    = "abstract"
	fieldBaseClasses                 = "base_classes"
	fieldMethods                     = "methods"
	fieldAttributes                  = "attributes"
	fieldOperators                   = "operators"
	fieldMethod                      = "method"
	fieldAttribute                   = "attribute"
	fieldData                        = "data"
	fieldValues                      = "values"
	fieldSubkeys                     = "subkeys"
	fieldType                        = "type"
	fieldTimeframe                   = "timeframe"
	fieldOptional                    = "optional"
	fieldRaises                      = "raises"
	fieldSubclasses                  = "subclasses"
	fieldParameters                  = "parameters"
	fieldVariantParameterGroups      = "variant_parameter_groups"
	fieldVariantParameterDescription = "variant_parameter_description"
	fieldVariadicType                = "variadic_type"
	fieldVariadicDescription         = "variadic_description"
	fieldTakesTable                  = "takes_table"
	fieldTableIsOptional             = "table_is_optional"
	fieldReturnValues                = "return_values"
	fieldRead                        = "read"
	fieldWrite                       = "write"
	fieldComplexType                 = "complex_type"
	fieldKey                         = "key"
	fieldValue                       = "value"
	fieldOptions                     = "options"
	fieldFullFormat                  = "full_format"
)

// Common is the base of every named runtime entity.
type Common struct {
	Name        string `json:"name"`
	Order       int    `json:"order"`
	Description string `json:"description,omitempty"`
}

func (c Common) Key() string { return c.Name }

type CommonField string

type CommonDiff = libdiff.Change[CommonField]

func (c Common) Diff(to Common, p policy.Policy) []CommonDiff {
	var res []CommonDiff
	res = libdiff.Scalar(res, p, policy.Core, fieldName, c.Name, to.Name)
	res = libdiff.Scalar(res, p, policy.Description, fieldDescription, c.Description, to.Description)
	return libdiff.Scalar(res, p, policy.FullDetail, fieldOrder, c.Order, to.Order)
}

// BuiltinType and BasicMember carry nothing beyond [Common].
type (
	BuiltinType = Common
	BasicMember = Common
)

// Extended adds notes and examples to [Common].
type Extended struct {
	Common
	Notes    []string `json:"notes,omitempty"`
	Examples []string `json:"examples,omitempty"`
}

type ExtendedField string

type ExtendedDiff = libdiff.Change[ExtendedField]

func (e Extended) Diff(to Extended, p policy.Policy) []ExtendedDiff {
	res := libdiff.Retag[ExtendedField](e.Common.Diff(to.Common, p))
	res = libdiff.Slice(res, p, policy.Description, fieldNotes, e.Notes, to.Notes)
	return libdiff.Slice(res, p, policy.Example, fieldExamples, e.Examples, to.Examples)
}

type Class struct {
	Extended
	Methods     libdiff.Map[Method]    `json:"methods"`
	Attributes  libdiff.Map[Attribute] `json:"attributes"`
	Operators   libdiff.Map[Operator]  `json:"operators,omitempty"`
	Abstract    bool                   `json:"abstract"`
	BaseClasses []string               `json:"base_classes,omitempty"`
}

type ClassField string

type ClassDiff = libdiff.Change[ClassField]

func (c Class) Diff(to Class, p policy.Policy) []ClassDiff {
	res := libdiff.Retag[ClassField](c.Extended.Diff(to.Extended, p))
	res = libdiff.Scalar(res, p, policy.Core, fieldAbstract, c.Abstract, to.Abstract)
	res = libdiff.Slice(res, p, policy.Core, fieldBaseClasses, c.BaseClasses, to.BaseClasses)
	res = mapField(res, fieldMethods, c.Methods, to.Methods, p, Method.Diff)
	res = mapField(res, fieldAttributes, c.Attributes, to.Attributes, p, Attribute.Diff)
	return mapField(res, fieldOperators, c.Operators, to.Operators, p, Operator.Diff)
}

// Operator is an operator of a class, documented either as a method or as an
// attribute.  The zero Operator is neither.
type Operator struct {
	Method    *Method
	Attribute *Attribute
}

func (o Operator) Key() string {
	switch {
	case o.Method != nil:
		return o.Method.Name
	case o.Attribute != nil:
		return o.Attribute.Name
	}
	return ""
}

func (o Operator) MarshalJSON() ([]byte, error) {
	switch {
	case o.Method != nil:
		return json.Marshal(o.Method)
	case o.Attribute != nil:
		return json.Marshal(o.Attribute)
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes a method when d has parameters and an attribute
// otherwise.
func (o *Operator) UnmarshalJSON(d []byte) error {
	d = bytes.TrimSpace(d)
	if len(d) == 0 || d[0] != '{' {
		return fmt.Errorf("operator must be an object")
	}
	if format.Has(d, fieldParameters) {
		m := &Method{}
		if err := json.Unmarshal(d, m); err != nil {
			return err
		}
		*o = Operator{Method: m}
		return nil
	}
	a := &Attribute{}
	if err := json.Unmarshal(d, a); err != nil {
		return err
	}
	*o = Operator{Attribute: a}
	return nil
}

type OperatorField string

type OperatorDiff = libdiff.Change[OperatorField]

// Diff diffs two operators.  When the kind changes, the new kind is diffed
// against its default.  A removed operator is diffed against the default of
// its kind.
func (o Operator) Diff(to Operator, p policy.Policy) []OperatorDiff {
	switch {
	case to.Method != nil:
		from := Method{}
		if o.Method != nil {
			from = *o.Method
		}
		return operatorEntry(fieldMethod, from.Diff(*to.Method, p))
	case to.Attribute != nil:
		from := Attribute{}
		if o.Attribute != nil {
			from = *o.Attribute
		}
		return operatorEntry(fieldAttribute, from.Diff(*to.Attribute, p))
	case o.Method != nil:
		return operatorEntry(fieldMethod, o.Method.Diff(Method{}, p))
	case o.Attribute != nil:
		return operatorEntry(fieldAttribute, o.Attribute.Diff(Attribute{}, p))
	}
	return nil
}

func operatorEntry[D any](f OperatorField, d []D) []OperatorDiff {
	if len(d) == 0 {
		return nil
	}
	return []OperatorDiff{libdiff.Set(f, d)}
}

type Event struct {
	Extended
	Data libdiff.Map[Parameter] `json:"data"`
}

type EventField string

type EventDiff = libdiff.Change[EventField]

func (e Event) Diff(to Event, p policy.Policy) []EventDiff {
	res := libdiff.Retag[EventField](e.Extended.Diff(to.Extended, p))
	return mapField(res, fieldData, e.Data, to.Data, p, Parameter.Diff)
}

// Define is a named group of constants.  Defines nest through Subkeys.
type Define struct {
	Common
	Values  libdiff.Map[BasicMember] `json:"values,omitempty"`
	Subkeys libdiff.Map[Define]      `json:"subkeys,omitempty"`
}

type DefineField string

type DefineDiff = libdiff.Change[DefineField]

func (d Define) Diff(to Define, p policy.Policy) []DefineDiff {
	res := libdiff.Retag[DefineField](d.Common.Diff(to.Common, p))
	res = mapField(res, fieldValues, d.Values, to.Values, p, Common.Diff)
	return mapField(res, fieldSubkeys, d.Subkeys, to.Subkeys, p, Define.Diff)
}

type Concept struct {
	Extended
	Type Type `json:"type"`
}

type ConceptField string

type ConceptDiff = libdiff.Change[ConceptField]

func (c Concept) Diff(to Concept, p policy.Policy) []ConceptDiff {
	res := libdiff.Retag[ConceptField](c.Extended.Diff(to.Extended, p))
	return typeField(res, fieldType, c.Type, to.Type, p)
}

type GlobalObject struct {
	Common
	Type Type `json:"type"`
}

type GlobalObjectField string

type GlobalObjectDiff = libdiff.Change[GlobalObjectField]

func (g GlobalObject) Diff(to GlobalObject, p policy.Policy) []GlobalObjectDiff {
	res := libdiff.Retag[GlobalObjectField](g.Common.Diff(to.Common, p))
	return typeField(res, fieldType, g.Type, to.Type, p)
}

// TimeFrame is when a raised event is delivered.
type TimeFrame int

const (
	Instantly TimeFrame = iota
	CurrentTick
	FutureTick
)

func (tf TimeFrame) String() string {
	d, err := tf.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (tf TimeFrame) MarshalText() ([]byte, error) {
	switch tf {
	case Instantly:
		return []byte("instantly"), nil
	case CurrentTick:
		return []byte("current_tick"), nil
	case FutureTick:
		return []byte("future_tick"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a timeframe>", tf)
	}
}

func (tf *TimeFrame) UnmarshalText(d []byte) error {
	v, ok := map[string]TimeFrame{
		"instantly":    Instantly,
		"current_tick": CurrentTick,
		"future_tick":  FutureTick,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unknown timeframe %q", d)
	}
	*tf = v
	return nil
}

type EventRaised struct {
	Common
	Timeframe TimeFrame `json:"timeframe"`
	Optional  bool      `json:"optional"`
}

type EventRaisedField string

type EventRaisedDiff = libdiff.Change[EventRaisedField]

func (e EventRaised) Diff(to EventRaised, p policy.Policy) []EventRaisedDiff {
	res := libdiff.Retag[EventRaisedField](e.Common.Diff(to.Common, p))
	res = libdiff.Scalar(res, p, policy.Core, fieldTimeframe, e.Timeframe, to.Timeframe)
	return libdiff.Scalar(res, p, policy.Core, fieldOptional, e.Optional, to.Optional)
}

type Parameter struct {
	Common
	Type     Type `json:"type"`
	Optional bool `json:"optional"`
}

type ParameterField string

type ParameterDiff = libdiff.Change[ParameterField]

func (pm Parameter) Diff(to Parameter, p policy.Policy) []ParameterDiff {
	res := libdiff.Retag[ParameterField](pm.Common.Diff(to.Common, p))
	res = typeField(res, fieldType, pm.Type, to.Type, p)
	return libdiff.Scalar(res, p, policy.Core, fieldOptional, pm.Optional, to.Optional)
}

// ReturnParameter is a positional return value of a method.
type ReturnParameter struct {
	Order       int    `json:"order"`
	Description string `json:"description"`
	Type        Type   `json:"type"`
	Optional    bool   `json:"optional"`
}

type ReturnParameterField string

type ReturnParameterDiff = libdiff.Change[ReturnParameterField]

func (r ReturnParameter) Diff(to ReturnParameter, p policy.Policy) []ReturnParameterDiff {
	var res []ReturnParameterDiff
	res = libdiff.Scalar(res, p, policy.FullDetail, fieldOrder, r.Order, to.Order)
	res = libdiff.Scalar(res, p, policy.Description, fieldDescription, r.Description, to.Description)
	res = typeField(res, fieldType, r.Type, to.Type, p)
	return libdiff.Scalar(res, p, policy.Core, fieldOptional, r.Optional, to.Optional)
}

type ParameterGroup struct {
	Common
	Parameters libdiff.Map[Parameter] `json:"parameters"`
}

type ParameterGroupField string

type ParameterGroupDiff = libdiff.Change[ParameterGroupField]

func (g ParameterGroup) Diff(to ParameterGroup, p policy.Policy) []ParameterGroupDiff {
	res := libdiff.Retag[ParameterGroupField](g.Common.Diff(to.Common, p))
	return mapField(res, fieldParameters, g.Parameters, to.Parameters, p, Parameter.Diff)
}

type Method struct {
	Extended
	Raises                      libdiff.Map[EventRaised]    `json:"raises,omitempty"`
	Subclasses                  []string                    `json:"subclasses,omitempty"`
	Parameters                  libdiff.Map[Parameter]      `json:"parameters"`
	VariantParameterGroups      libdiff.Map[ParameterGroup] `json:"variant_parameter_groups,omitempty"`
	VariantParameterDescription string                      `json:"variant_parameter_description,omitempty"`
	VariadicType                *Type                       `json:"variadic_type,omitempty"`
	VariadicDescription         string                      `json:"variadic_description,omitempty"`
	TakesTable                  bool                        `json:"takes_table"`
	TableIsOptional             *bool                       `json:"table_is_optional,omitempty"`
	ReturnValues                []ReturnParameter           `json:"return_values"`
}

type MethodField string

type MethodDiff = libdiff.Change[MethodField]

func (m Method) Diff(to Method, p policy.Policy) []MethodDiff {
	res := libdiff.Retag[MethodField](m.Extended.Diff(to.Extended, p))
	res = mapField(res, fieldRaises, m.Raises, to.Raises, p, EventRaised.Diff)
	res = libdiff.Slice(res, p, policy.Core, fieldSubclasses, m.Subclasses, to.Subclasses)
	res = mapField(res, fieldParameters, m.Parameters, to.Parameters, p, Parameter.Diff)
	res = mapField(res, fieldVariantParameterGroups, m.VariantParameterGroups, to.VariantParameterGroups, p, ParameterGroup.Diff)
	res = libdiff.Scalar(res, p, policy.Description, fieldVariantParameterDescription,
		m.VariantParameterDescription, to.VariantParameterDescription)
	res = diffVariadicType(res, m.VariadicType, to.VariadicType, p)
	res = libdiff.Scalar(res, p, policy.Description, fieldVariadicDescription, m.VariadicDescription, to.VariadicDescription)
	res = libdiff.Scalar(res, p, policy.Core, fieldTakesTable, m.TakesTable, to.TakesTable)
	if !equalOptional(m.TableIsOptional, to.TableIsOptional) {
		res = append(res, libdiff.Set[MethodField](fieldTableIsOptional, to.TableIsOptional))
	}
	if d := libdiff.DiffSeq(m.ReturnValues, to.ReturnValues, p, ReturnParameter.Diff); !libdiff.Empty(d) {
		res = append(res, libdiff.Set[MethodField](fieldReturnValues, d))
	}
	return res
}

// diffVariadicType reports a removed variadic type as null and an added one
// as diffed against the default type.
func diffVariadicType(res []MethodDiff, from, to *Type, p policy.Policy) []MethodDiff {
	switch {
	case to == nil && from == nil:
		return res
	case to == nil:
		return append(res, libdiff.Set[MethodField](fieldVariadicType, nil))
	case from == nil:
		return typeField(res, fieldVariadicType, Type{}, *to, p)
	}
	return typeField(res, fieldVariadicType, *from, *to, p)
}

func equalOptional(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type Attribute struct {
	Extended
	Raises     libdiff.Map[EventRaised] `json:"raises,omitempty"`
	Subclasses []string                 `json:"subclasses,omitempty"`
	Type       Type                     `json:"type"`
	Optional   bool                     `json:"optional"`
	Read       bool                     `json:"read"`
	Write      bool                     `json:"write"`
}

type AttributeField string

type AttributeDiff = libdiff.Change[AttributeField]

func (a Attribute) Diff(to Attribute, p policy.Policy) []AttributeDiff {
	res := libdiff.Retag[AttributeField](a.Extended.Diff(to.Extended, p))
	res = mapField(res, fieldRaises, a.Raises, to.Raises, p, EventRaised.Diff)
	res = libdiff.Slice(res, p, policy.Core, fieldSubclasses, a.Subclasses, to.Subclasses)
	res = typeField(res, fieldType, a.Type, to.Type, p)
	res = libdiff.Scalar(res, p, policy.Core, fieldOptional, a.Optional, to.Optional)
	res = libdiff.Scalar(res, p, policy.Core, fieldRead, a.Read, to.Read)
	return libdiff.Scalar(res, p, policy.Core, fieldWrite, a.Write, to.Write)
}
