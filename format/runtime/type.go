package runtime

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/signadot/apidiff/format"
	"github.com/signadot/apidiff/libdiff"
	"github.com/signadot/apidiff/policy"
)

// Type is a type expression: either a simple type name or a [ComplexType].
// The zero value is the simple type with an empty name.
type Type struct {
	name    string
	complex ComplexType
}

func Simple(name string) Type {
	return Type{name: name}
}

func Complex(c ComplexType) Type {
	return Type{complex: c}
}

func (t Type) IsComplex() bool { return t.complex != nil }

func (t Type) Name() string { return t.name }

func (t Type) ComplexType() ComplexType { return t.complex }

func (t Type) String() string {
	if t.complex == nil {
		return t.name
	}
	return "<" + string(t.complex.Kind()) + ">"
}

func (t Type) MarshalJSON() ([]byte, error) {
	if t.complex == nil {
		return json.Marshal(t.name)
	}
	return format.MarshalTagged(fieldComplexType, string(t.complex.Kind()), t.complex)
}

func (t *Type) UnmarshalJSON(d []byte) error {
	d = bytes.TrimSpace(d)
	if bytes.Equal(d, []byte("null")) {
		*t = Type{}
		return nil
	}
	if len(d) != 0 && d[0] == '"' {
		*t = Type{}
		return json.Unmarshal(d, &t.name)
	}
	c, err := unmarshalComplex(d)
	if err != nil {
		return err
	}
	*t = Complex(c)
	return nil
}

type ComplexKind string

const (
	KindType        ComplexKind = "type"
	KindUnion       ComplexKind = "union"
	KindArray       ComplexKind = "array"
	KindDictionary  ComplexKind = "dictionary"
	KindCustomTable ComplexKind = "LuaCustomTable"
	KindFunction    ComplexKind = "function"
	KindLiteral     ComplexKind = "literal"
	KindLazyLoaded  ComplexKind = "LuaLazyLoadedValue"
	KindStruct      ComplexKind = "LuaStruct"
	KindTable       ComplexKind = "table"
	KindTuple       ComplexKind = "tuple"
	KindBuiltin     ComplexKind = "builtin"
)

// ComplexType is one of the complex type variants of the runtime API.
type ComplexType interface {
	Kind() ComplexKind
	empty() ComplexType
	diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff
}

// DescribedType is a type with its own description.
type DescribedType struct {
	Value       Type   `json:"value"`
	Description string `json:"description"`
}

type UnionType struct {
	Options    []Type `json:"options"`
	FullFormat bool   `json:"full_format"`
}

type ArrayType struct {
	Value Type `json:"value"`
}

type DictionaryType struct {
	Key   Type `json:"key"`
	Value Type `json:"value"`
}

type CustomTableType struct {
	Key   Type `json:"key"`
	Value Type `json:"value"`
}

type FunctionType struct {
	Parameters []Type `json:"parameters"`
}

type LiteralType struct {
	format.Literal
}

type LazyLoadedType struct {
	Value Type `json:"value"`
}

type StructType struct {
	Attributes libdiff.Map[Attribute] `json:"attributes"`
}

// Parameters is the payload shared by tables and tuples.
type Parameters struct {
	Parameters                  libdiff.Map[Parameter]      `json:"parameters"`
	VariantParameterGroups      libdiff.Map[ParameterGroup] `json:"variant_parameter_groups,omitempty"`
	VariantParameterDescription string                      `json:"variant_parameter_description,omitempty"`
}

type TableType struct {
	Parameters
}

type TupleType struct {
	Parameters
}

// Builtin is a type with no payload, such as double or LuaObject.
type Builtin struct{}

func (DescribedType) Kind() ComplexKind   { return KindType }
func (UnionType) Kind() ComplexKind       { return KindUnion }
func (ArrayType) Kind() ComplexKind       { return KindArray }
func (DictionaryType) Kind() ComplexKind  { return KindDictionary }
func (CustomTableType) Kind() ComplexKind { return KindCustomTable }
func (FunctionType) Kind() ComplexKind    { return KindFunction }
func (LiteralType) Kind() ComplexKind     { return KindLiteral }
func (LazyLoadedType) Kind() ComplexKind  { return KindLazyLoaded }
func (StructType) Kind() ComplexKind      { return KindStruct }
func (TableType) Kind() ComplexKind       { return KindTable }
func (TupleType) Kind() ComplexKind       { return KindTuple }
func (Builtin) Kind() ComplexKind         { return KindBuiltin }

func (DescribedType) empty() ComplexType   { return DescribedType{} }
func (UnionType) empty() ComplexType       { return UnionType{} }
func (ArrayType) empty() ComplexType       { return ArrayType{} }
func (DictionaryType) empty() ComplexType  { return DictionaryType{} }
func (CustomTableType) empty() ComplexType { return CustomTableType{} }
func (FunctionType) empty() ComplexType    { return FunctionType{} }
func (LiteralType) empty() ComplexType     { return LiteralType{} }
func (LazyLoadedType) empty() ComplexType  { return LazyLoadedType{} }
func (StructType) empty() ComplexType      { return StructType{} }
func (TableType) empty() ComplexType       { return TableType{} }
func (TupleType) empty() ComplexType       { return TupleType{} }
func (Builtin) empty() ComplexType         { return Builtin{} }

func unmarshalComplex(d []byte) (ComplexType, error) {
	tag, err := format.Tag(d, fieldComplexType)
	if err != nil {
		return nil, err
	}
	switch ComplexKind(tag) {
	case KindType:
		return decodeAs[DescribedType](d)
	case KindUnion:
		return decodeAs[UnionType](d)
	case KindArray:
		return decodeAs[ArrayType](d)
	case KindDictionary:
		return decodeAs[DictionaryType](d)
	case KindCustomTable:
		return decodeAs[CustomTableType](d)
	case KindFunction:
		return decodeAs[FunctionType](d)
	case KindLiteral:
		return decodeAs[LiteralType](d)
	case KindLazyLoaded:
		return decodeAs[LazyLoadedType](d)
	case KindStruct:
		return decodeAs[StructType](d)
	case KindTable:
		return decodeAs[TableType](d)
	case KindTuple:
		return decodeAs[TupleType](d)
	case KindBuiltin:
		return Builtin{}, nil
	}
	return nil, fmt.Errorf("unknown complex_type %q", tag)
}

func decodeAs[C ComplexType](d []byte) (ComplexType, error) {
	var c C
	if err := json.Unmarshal(d, &c); err != nil {
		return nil, err
	}
	return c, nil
}

type ComplexTypeField string

type ComplexTypeDiff = libdiff.Change[ComplexTypeField]

// TypeDiff is a [SimpleDiff] or a [ComplexDiff].  nil means no change.
type TypeDiff interface {
	typeDiff()
}

type SimpleDiff string

type ComplexDiff []ComplexTypeDiff

func (SimpleDiff) typeDiff()  {}
func (ComplexDiff) typeDiff() {}

// DiffType diffs two type expressions.  A change of complex variant is
// reported as a complex_type entry followed by the new variant diffed against
// its default.
func DiffType(from, to Type, p policy.Policy) TypeDiff {
	switch {
	case from.complex == nil && to.complex == nil:
		if from.name == to.name {
			return nil
		}
		return SimpleDiff(to.name)
	case to.complex == nil:
		return SimpleDiff(to.name)
	case from.complex == nil:
		return ComplexDiff(replaceComplex(to.complex, p))
	}
	var d []ComplexTypeDiff
	if from.complex.Kind() != to.complex.Kind() {
		d = replaceComplex(to.complex, p)
	} else {
		d = from.complex.diffSame(to.complex, p)
	}
	if len(d) == 0 {
		return nil
	}
	return ComplexDiff(d)
}

func replaceComplex(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	res := []ComplexTypeDiff{libdiff.Set[ComplexTypeField](fieldComplexType, string(to.Kind()))}
	return append(res, to.empty().diffSame(to, p)...)
}

func diffTypes(from, to []Type, p policy.Policy) []TypeDiff {
	seq := libdiff.DiffSeq(from, to, p, func(f, t Type, p policy.Policy) []TypeDiff {
		if d := DiffType(f, t, p); d != nil {
			return []TypeDiff{d}
		}
		return nil
	})
	if libdiff.Empty(seq) {
		return nil
	}
	res := make([]TypeDiff, len(seq))
	for i, d := range seq {
		if len(d) != 0 {
			res[i] = d[0]
		}
	}
	return res
}

func typeField[F ~string](res []libdiff.Change[F], f F, from, to Type, p policy.Policy) []libdiff.Change[F] {
	if d := DiffType(from, to, p); d != nil {
		res = append(res, libdiff.Set(f, d))
	}
	return res
}

func mapField[F ~string, T libdiff.Keyed, D libdiff.Entry](res []libdiff.Change[F], f F, from, to libdiff.Map[T], p policy.Policy, rule func(T, T, policy.Policy) []D) []libdiff.Change[F] {
	if d := libdiff.DiffMap(from, to, p, rule); d.Len() != 0 {
		res = append(res, libdiff.Set(f, d))
	}
	return res
}

func (t DescribedType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	u := to.(DescribedType)
	res := typeField[ComplexTypeField](nil, fieldValue, t.Value, u.Value, p)
	return libdiff.Scalar(res, p, policy.Description, fieldDescription, t.Description, u.Description)
}

func (un UnionType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	u := to.(UnionType)
	var res []ComplexTypeDiff
	if d := diffTypes(un.Options, u.Options, p); d != nil {
		res = append(res, libdiff.Set[ComplexTypeField](fieldOptions, d))
	}
	return libdiff.Scalar(res, p, policy.Core, fieldFullFormat, un.FullFormat, u.FullFormat)
}

func (a ArrayType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	return typeField[ComplexTypeField](nil, fieldValue, a.Value, to.(ArrayType).Value, p)
}

func (d DictionaryType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	u := to.(DictionaryType)
	return diffKeyValue(d.Key, d.Value, u.Key, u.Value, p)
}

func (c CustomTableType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	u := to.(CustomTableType)
	return diffKeyValue(c.Key, c.Value, u.Key, u.Value, p)
}

func diffKeyValue(key, value, toKey, toValue Type, p policy.Policy) []ComplexTypeDiff {
	res := typeField[ComplexTypeField](nil, fieldKey, key, toKey, p)
	return typeField(res, fieldValue, value, toValue, p)
}

func (f FunctionType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	u := to.(FunctionType)
	if d := diffTypes(f.Parameters, u.Parameters, p); d != nil {
		return []ComplexTypeDiff{libdiff.Set[ComplexTypeField](fieldParameters, d)}
	}
	return nil
}

func (l LiteralType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	return format.DiffLiteral[ComplexTypeField](nil, l.Literal, to.(LiteralType).Literal, p)
}

func (l LazyLoadedType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	return typeField[ComplexTypeField](nil, fieldValue, l.Value, to.(LazyLoadedType).Value, p)
}

func (s StructType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	u := to.(StructType)
	return mapField[ComplexTypeField](nil, fieldAttributes, s.Attributes, u.Attributes, p, Attribute.Diff)
}

func (t TableType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	return t.Parameters.diff(to.(TableType).Parameters, p)
}

func (t TupleType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	return t.Parameters.diff(to.(TupleType).Parameters, p)
}

func (ps Parameters) diff(to Parameters, p policy.Policy) []ComplexTypeDiff {
	res := mapField[ComplexTypeField](nil, fieldParameters, ps.Parameters, to.Parameters, p, Parameter.Diff)
	res = mapField(res, fieldVariantParameterGroups, ps.VariantParameterGroups, to.VariantParameterGroups, p, ParameterGroup.Diff)
	return libdiff.Scalar(res, p, policy.Description, fieldVariantParameterDescription,
		ps.VariantParameterDescription, to.VariantParameterDescription)
}

func (Builtin) diffSame(ComplexType, policy.Policy) []ComplexTypeDiff {
	return nil
}
