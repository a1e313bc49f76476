package libdiff

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/signadot/apidiff/policy"
)

// Change is one field level change entry: the changed field and its value in
// the target.
type Change[F ~string] struct {
	Field F
	Value any
}

// Set makes a change entry.
func Set[F ~string](f F, v any) Change[F] {
	return Change[F]{Field: f, Value: v}
}

func (c Change[F]) FieldName() string { return string(c.Field) }

func (c Change[F]) FieldValue() any { return c.Value }

// MarshalJSON encodes c as a single field object {"<field>": value}.
func (c Change[F]) MarshalJSON() ([]byte, error) {
	v, err := json.Marshal(c.Value)
	if err != nil {
		return nil, err
	}
	k, err := json.Marshal(string(c.Field))
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(make([]byte, 0, len(k)+len(v)+3))
	buf.WriteByte('{')
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Retag remaps the entries of a base rule into the field enumeration of a
// composite rule.  Field names are shared so only the type changes.
func Retag[T ~string, F ~string](cs []Change[F]) []Change[T] {
	if len(cs) == 0 {
		return nil
	}
	res := make([]Change[T], len(cs))
	for i, c := range cs {
		res[i] = Change[T]{Field: T(c.Field), Value: c.Value}
	}
	return res
}

// Scalar appends a change for f to res when from and to differ and p admits
// category c.
func Scalar[F ~string, V comparable](res []Change[F], p policy.Policy, c policy.Category, f F, from, to V) []Change[F] {
	if from == to || !p.Admits(c) {
		return res
	}
	return append(res, Set(f, to))
}

// Slice is [Scalar] for slices of comparable values.  A nil and an empty
// slice are equal.
func Slice[F ~string, E comparable](res []Change[F], p policy.Policy, c policy.Category, f F, from, to []E) []Change[F] {
	if slices.Equal(from, to) || !p.Admits(c) {
		return res
	}
	if to == nil {
		to = []E{}
	}
	return append(res, Set(f, to))
}
