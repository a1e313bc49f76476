package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/signadot/apidiff/libdiff"
	"github.com/signadot/apidiff/policy"
)

type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralUInt
	LiteralInt
	LiteralFloat
	LiteralBool
)

// LiteralValue is a string, unsigned, signed, floating point or boolean
// literal.  The zero value is the empty string.  LiteralValue is comparable.
type LiteralValue struct {
	Kind  LiteralKind
	Str   string
	UInt  uint64
	Int   int64
	Float float64
	Bool  bool
}

func StringValue(s string) LiteralValue   { return LiteralValue{Kind: LiteralString, Str: s} }
func UIntValue(u uint64) LiteralValue     { return LiteralValue{Kind: LiteralUInt, UInt: u} }
func IntValue(i int64) LiteralValue       { return LiteralValue{Kind: LiteralInt, Int: i} }
func FloatValue(f float64) LiteralValue   { return LiteralValue{Kind: LiteralFloat, Float: f} }
func BoolValue(b bool) LiteralValue       { return LiteralValue{Kind: LiteralBool, Bool: b} }

// Any returns the Go value held by v.
func (v LiteralValue) Any() any {
	switch v.Kind {
	case LiteralUInt:
		return v.UInt
	case LiteralInt:
		return v.Int
	case LiteralFloat:
		return v.Float
	case LiteralBool:
		return v.Bool
	default:
		return v.Str
	}
}

func (v LiteralValue) String() string {
	return fmt.Sprint(v.Any())
}

func (v LiteralValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON accepts a string, a boolean or a number.  Numbers are
// unsigned if they fit, then signed, then floating point.
func (v *LiteralValue) UnmarshalJSON(d []byte) error {
	d = bytes.TrimSpace(d)
	if len(d) == 0 {
		return fmt.Errorf("empty literal")
	}
	switch d[0] {
	case '"':
		var s string
		if err := json.Unmarshal(d, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(d, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
		return nil
	}
	s := string(d)
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		*v = UIntValue(u)
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		*v = IntValue(i)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid literal %s", s)
	}
	*v = FloatValue(f)
	return nil
}

// Literal is a literal value with an optional description.
type Literal struct {
	Value       LiteralValue `json:"value"`
	Description string       `json:"description,omitempty"`
}

// DiffLiteral appends the changes between two literals to res.  The value is
// always compared, the description only when p admits descriptions.
func DiffLiteral[F ~string](res []libdiff.Change[F], from, to Literal, p policy.Policy) []libdiff.Change[F] {
	res = libdiff.Scalar(res, p, policy.Core, "value", from.Value, to.Value)
	return libdiff.Scalar(res, p, policy.Description, "description", from.Description, to.Description)
}
