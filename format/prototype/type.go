package prototype

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

// Simple returns the simple type expression naming a type.
func Simple(name string) Type {
	return Type{name: name}
}

// Complex returns the complex type expression c.
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

// ComplexKind is the value of the complex_type tag of a complex type.
type ComplexKind string

const (
	KindArray      ComplexKind = "array"
	KindDictionary ComplexKind = "dictionary"
	KindTuple      ComplexKind = "tuple"
	KindUnion      ComplexKind = "union"
	KindType       ComplexKind = "type"
	KindLiteral    ComplexKind = "literal"
	KindStruct     ComplexKind = "struct"
	KindBuiltin    ComplexKind = "builtin"
)

// ComplexType is one of [ArrayType], [DictionaryType], [TupleType],
// [UnionType], [DescribedType], [LiteralType], [StructType] or [Builtin].
type ComplexType interface {
	Kind() ComplexKind
	// empty is the canonical default of the variant.
	empty() ComplexType
	// diffSame diffs the receiver with to, which has the same kind.
	diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff
}

type ArrayType struct {
	Value Type `json:"value"`
}

type DictionaryType struct {
	Key   Type `json:"key"`
	Value Type `json:"value"`
}

type TupleType struct {
	Values []Type `json:"values"`
}

type UnionType struct {
	Options    []Type `json:"options"`
	FullFormat bool   `json:"full_format"`
}

// DescribedType is a type with its own description.
type DescribedType struct {
	Value       Type   `json:"value"`
	Description string `json:"description"`
}

type LiteralType struct {
	format.Literal
}

type StructType struct{}

// Builtin marks a type implemented by the engine itself.
type Builtin struct{}

func (ArrayType) Kind() ComplexKind      { return KindArray }
func (DictionaryType) Kind() ComplexKind { return KindDictionary }
func (TupleType) Kind() ComplexKind      { return KindTuple }
func (UnionType) Kind() ComplexKind      { return KindUnion }
func (DescribedType) Kind() ComplexKind  { return KindType }
func (LiteralType) Kind() ComplexKind    { return KindLiteral }
func (StructType) Kind() ComplexKind     { return KindStruct }
func (Builtin) Kind() ComplexKind        { return KindBuiltin }

func (ArrayType) empty() ComplexType      { return ArrayType{} }
func (DictionaryType) empty() ComplexType { return DictionaryType{} }
func (TupleType) empty() ComplexType      { return TupleType{} }
func (UnionType) empty() ComplexType      { return UnionType{} }
func (DescribedType) empty() ComplexType  { return DescribedType{} }
func (LiteralType) empty() ComplexType    { return LiteralType{} }
func (StructType) empty() ComplexType     { return StructType{} }
func (Builtin) empty() ComplexType        { return Builtin{} }

func unmarshalComplex(d []byte) (ComplexType, error) {
	tag, err := format.Tag(d, fieldComplexType)
	if err != nil {
		return nil, err
	}
	var c ComplexType
	switch ComplexKind(tag) {
	case KindArray:
		c, err = decodeAs[ArrayType](d)
	case KindDictionary:
		c, err = decodeAs[DictionaryType](d)
	case KindTuple:
		c, err = decodeAs[TupleType](d)
	case KindUnion:
		c, err = decodeAs[UnionType](d)
	case KindType:
		c, err = decodeAs[DescribedType](d)
	case KindLiteral:
		c, err = decodeAs[LiteralType](d)
	case KindStruct:
		c = StructType{}
	case KindBuiltin:
		c = Builtin{}
	default:
		return nil, fmt.Errorf("unknown complex_type %q", tag)
	}
	return c, err
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

// TypeDiff is the diff of two type expressions: a [SimpleDiff] or a
// [ComplexDiff].  A nil TypeDiff means no change.
type TypeDiff interface {
	typeDiff()
}

// SimpleDiff holds the simple type a type expression changed to.
type SimpleDiff string

// ComplexDiff holds the change entries of a complex type expression.
type ComplexDiff []ComplexTypeDiff

func (SimpleDiff) typeDiff()  {}
func (ComplexDiff) typeDiff() {}

// DiffType diffs two type expressions.
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
	if d := diffComplex(from.complex, to.complex, p); len(d) != 0 {
		return ComplexDiff(d)
	}
	return nil
}

func diffComplex(from, to ComplexType, p policy.Policy) []ComplexTypeDiff {
	if from.Kind() != to.Kind() {
		return replaceComplex(to, p)
	}
	return from.diffSame(to, p)
}

// replaceComplex reports to as a fresh variant: a complex_type marker
// followed by to diffed against the default of its variant.
func replaceComplex(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	res := []ComplexTypeDiff{libdiff.Set[ComplexTypeField](fieldComplexType, string(to.Kind()))}
	return append(res, to.empty().diffSame(to, p)...)
}

// diffTypes diffs two type lists position by position.  Unchanged positions
// are nil and the result is nil when no position changed.
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

func typesField[F ~string](res []libdiff.Change[F], f F, from, to []Type, p policy.Policy) []libdiff.Change[F] {
	if d := diffTypes(from, to, p); d != nil {
		res = append(res, libdiff.Set(f, d))
	}
	return res
}

func (a ArrayType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	u := to.(ArrayType)
	return typeField[ComplexTypeField](nil, fieldValue, a.Value, u.Value, p)
}

func (d DictionaryType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	u := to.(DictionaryType)
	res := typeField[ComplexTypeField](nil, fieldKey, d.Key, u.Key, p)
	return typeField(res, fieldValue, d.Value, u.Value, p)
}

func (t TupleType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	u := to.(TupleType)
	return typesField[ComplexTypeField](nil, fieldValues, t.Values, u.Values, p)
}

func (un UnionType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	u := to.(UnionType)
	res := typesField[ComplexTypeField](nil, fieldOptions, un.Options, u.Options, p)
	return libdiff.Scalar(res, p, policy.Core, fieldFullFormat, un.FullFormat, u.FullFormat)
}

func (t DescribedType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	u := to.(DescribedType)
	res := typeField[ComplexTypeField](nil, fieldValue, t.Value, u.Value, p)
	return libdiff.Scalar(res, p, policy.Description, fieldDescription, t.Description, u.Description)
}

func (l LiteralType) diffSame(to ComplexType, p policy.Policy) []ComplexTypeDiff {
	u := to.(LiteralType)
	return format.DiffLiteral[ComplexTypeField](nil, l.Literal, u.Literal, p)
}

func (StructType) diffSame(ComplexType, policy.Policy) []ComplexTypeDiff {
	return nil
}

func (Builtin) diffSame(ComplexType, policy.Policy) []ComplexTypeDiff {
	return nil
}
