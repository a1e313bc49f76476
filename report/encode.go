package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/signadot/apidiff/libdiff"
)

type EncState struct {
	format Format
	colors *Colors
	header bool
}

type EncodeOption func(*EncState)

func EncodeFormat(f Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.colors = c }
}

// EncodeHeader controls whether text output starts with the versions
// compared.
func EncodeHeader(v bool) EncodeOption {
	return func(es *EncState) { es.header = v }
}

// Encode writes r to w.  Colors only apply to the text format.
func Encode(w io.Writer, r *Report, opts ...EncodeOption) error {
	es := &EncState{header: true}
	for _, opt := range opts {
		opt(es)
	}
	switch es.format {
	case JSONFormat:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case YAMLFormat:
		d, err := json.Marshal(r)
		if err != nil {
			return err
		}
		y, err := yaml.JSONToYAML(d)
		if err != nil {
			return err
		}
		_, err = w.Write(y)
		return err
	case TextFormat:
		return encodeText(w, r, es)
	default:
		return fmt.Errorf("%w: %d", ErrBadFormat, int(es.format))
	}
}

type textEncoder struct {
	w   io.Writer
	c   *Colors
	err error
}

func encodeText(w io.Writer, r *Report, es *EncState) error {
	e := &textEncoder{w: w, c: es.colors}
	if es.header {
		e.printf("%s\n", e.c.Color(HeaderColor, r.Source.String()+" -> "+r.Target.String()))
	}
	for _, s := range r.Sections {
		if s.Changes.Len() == 0 {
			continue
		}
		e.printf("%s:\n", e.c.Color(SectionColor, s.Name))
		for _, k := range s.Changes.Keys() {
			v, err := entryTree(s.Changes.Entries(k))
			if err != nil {
				return fmt.Errorf("section %s key %s: %w", s.Name, k, err)
			}
			e.field(1, k, KeyColor, v)
		}
	}
	return e.err
}

// textEntry is a change entry of the text tree.
type textEntry struct {
	name  string
	value any
}

// entryList is a list of change entries, printed as "name: value" lines.
type entryList []textEntry

var entryType = reflect.TypeFor[libdiff.Entry]()

// textTree converts a change value into the nodes the text encoder prints:
// an entryList for lists of change entries, maps for collections and json
// objects, []any for every other list and json scalars.
func textTree(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if c, ok := v.(libdiff.Collection); ok {
		res := make(map[string]any, c.Len())
		for _, k := range c.Keys() {
			t, err := entryTree(c.Entries(k))
			if err != nil {
				return nil, err
			}
			res[k] = t
		}
		return res, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return generic(v)
	}
	if rv.IsNil() {
		return nil, nil
	}
	if rv.Type().Elem().Implements(entryType) {
		es := make([]libdiff.Entry, rv.Len())
		for i := range es {
			es[i] = rv.Index(i).Interface().(libdiff.Entry)
		}
		return entryTree(es)
	}
	if _, ok := v.(json.Marshaler); ok {
		return generic(v)
	}
	res := make([]any, rv.Len())
	for i := range res {
		t, err := textTree(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		res[i] = t
	}
	return res, nil
}

func entryTree(es []libdiff.Entry) (entryList, error) {
	res := make(entryList, len(es))
	for i, e := range es {
		v, err := textTree(e.FieldValue())
		if err != nil {
			return nil, err
		}
		res[i] = textEntry{name: e.FieldName(), value: v}
	}
	return res, nil
}

// generic re-decodes the json encoding of v into maps, slices and
// json.Number.
func generic(v any) (any, error) {
	d, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	var res any
	if err := dec.Decode(&res); err != nil {
		return nil, err
	}
	return res, nil
}

func (e *textEncoder) printf(f string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, f, args...)
}

func pad(indent int) string { return strings.Repeat("  ", indent) }

func (e *textEncoder) field(indent int, key string, a ColorAttr, v any) {
	e.printf("%s%s:", pad(indent), e.c.Color(a, key))
	e.rest(indent, v)
}

// rest writes v after a field name or list marker, inline when v is a
// scalar.
func (e *textEncoder) rest(indent int, v any) {
	if s, ok := e.scalar(v); ok {
		e.printf(" %s\n", s)
		return
	}
	e.printf("\n")
	e.block(indent+1, v)
}

func (e *textEncoder) block(indent int, v any) {
	switch x := v.(type) {
	case entryList:
		for _, f := range x {
			e.field(indent, f.name, FieldColor, f.value)
		}
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(x)) {
			e.field(indent, k, FieldColor, x[k])
		}
	case []any:
		for i, item := range x {
			e.printf("%s%s:", pad(indent), e.c.Color(IndexColor, "["+strconv.Itoa(i)+"]"))
			e.rest(indent, item)
		}
	}
}

func (e *textEncoder) scalar(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return e.c.Color(NullColor, "null"), true
	case bool:
		return e.c.Color(BoolColor, strconv.FormatBool(x)), true
	case json.Number:
		return e.c.Color(NumberColor, x.String()), true
	case string:
		return e.c.Color(StringColor, strconv.Quote(x)), true
	case entryList:
		if len(x) == 0 {
			return "[]", true
		}
	case map[string]any:
		if len(x) == 0 {
			return "{}", true
		}
	case []any:
		if len(x) == 0 {
			return "[]", true
		}
	}
	return "", false
}
