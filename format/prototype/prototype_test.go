package prototype

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/apidiff/format"
	"github.com/signadot/apidiff/format/runtime"
	"github.com/signadot/apidiff/policy"
)

const sourceDoc = `{
  "application": "factorio",
  "stage": "prototype",
  "application_version": "2.0.7",
  "api_version": 6,
  "prototypes": [
    {
      "name": "EntityPrototype", "order": 0, "description": "an entity",
      "abstract": true, "deprecated": false,
      "properties": [
        {"name": "flags", "order": 0, "description": "", "override": false, "type": "EntityPrototypeFlags", "optional": true},
        {"name": "max_health", "order": 1, "description": "health", "override": false, "type": "float", "optional": true, "default": "10"}
      ]
    }
  ],
  "types": [
    {
      "name": "Color", "order": 0, "description": "", "abstract": false, "inline": false,
      "type": {"complex_type": "union", "options": ["string", {"complex_type": "array", "value": "float"}], "full_format": false}
    }
  ],
  "defines": [
    {"name": "difficulty", "order": 0, "description": "", "values": [{"name": "easy", "order": 0, "description": ""}]}
  ]
}`

const targetDoc = `{
  "application": "factorio",
  "stage": "prototype",
  "application_version": "2.0.8",
  "api_version": 6,
  "prototypes": [
    {
      "name": "EntityPrototype", "order": 0, "description": "a big entity",
      "abstract": true, "deprecated": false,
      "properties": [
        {"name": "hidden", "order": 0, "description": "", "override": false, "type": "bool", "optional": true},
        {"name": "max_health", "order": 1, "description": "health", "override": false, "type": "float", "optional": true, "default": "20"}
      ]
    },
    {
      "name": "TreePrototype", "order": 1, "description": "", "parent": "EntityPrototype",
      "abstract": false, "deprecated": false, "properties": []
    }
  ],
  "types": [
    {
      "name": "Color", "order": 0, "description": "", "abstract": false, "inline": false,
      "type": {"complex_type": "union", "options": ["string", {"complex_type": "array", "value": "double"}], "full_format": false}
    }
  ],
  "defines": [
    {"name": "difficulty", "order": 0, "description": "", "values": [
      {"name": "easy", "order": 0, "description": ""},
      {"name": "hard", "order": 1, "description": ""}
    ]}
  ]
}`

var allPolicies = []policy.Policy{
	policy.Default(),
	{Descriptions: true},
	{Examples: true},
	{Full: true},
}

func decodeDoc(t *testing.T, s string) *Doc {
	t.Helper()
	doc := &Doc{}
	if err := json.Unmarshal([]byte(s), doc); err != nil {
		t.Fatal(err)
	}
	return doc
}

func decodeType(t *testing.T, s string) Type {
	t.Helper()
	var typ Type
	if err := json.Unmarshal([]byte(s), &typ); err != nil {
		t.Fatalf("decoding %s: %v", s, err)
	}
	return typ
}

// jsonEqual compares the json encoding of got with want structurally.
func jsonEqual(t *testing.T, want string, got any) {
	t.Helper()
	d, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	var w, g any
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("bad expectation %s: %v", want, err)
	}
	if err := json.Unmarshal(d, &g); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(w, g); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s\ngot: %s", diff, d)
	}
}

func TestDiffIdentical(t *testing.T) {
	from, to := decodeDoc(t, sourceDoc), decodeDoc(t, sourceDoc)
	for _, p := range allPolicies {
		if d := Diff(from, to, p); !d.Empty() {
			t.Errorf("policy %s: identical snapshots differ", p)
		}
	}
}

func TestDiffDefaults(t *testing.T) {
	for _, p := range allPolicies {
		if d := Diff(&Doc{}, &Doc{}, p); !d.Empty() {
			t.Errorf("policy %s: empty snapshots differ", p)
		}
		if d := (Prototype{}).Diff(Prototype{}, p); d != nil {
			t.Errorf("policy %s: default prototypes differ: %v", p, d)
		}
		if d := (Property{}).Diff(Property{}, p); d != nil {
			t.Errorf("policy %s: default properties differ: %v", p, d)
		}
		if d := DiffType(Type{}, Type{}, p); d != nil {
			t.Errorf("policy %s: default types differ: %v", p, d)
		}
	}
}

func TestDiffDoc(t *testing.T) {
	d := Diff(decodeDoc(t, sourceDoc), decodeDoc(t, targetDoc), policy.Default())
	jsonEqual(t, `{
  "prototypes": {
    "EntityPrototype": [
      {"properties": {
        "flags": [{"name": ""}, {"type": ""}, {"optional": false}],
        "hidden": [{"name": "hidden"}, {"type": "bool"}, {"optional": true}],
        "max_health": [{"default": "20"}]
      }}
    ],
    "TreePrototype": [{"name": "TreePrototype"}, {"parent": "EntityPrototype"}]
  },
  "types": {
    "Color": [{"type": [{"options": [null, [{"value": "double"}]]}]}]
  },
  "defines": {
    "difficulty": [{"values": {"hard": [{"name": "hard"}]}}]
  }
}`, d)

	d = Diff(decodeDoc(t, sourceDoc), decodeDoc(t, targetDoc), policy.Policy{Descriptions: true})
	jsonEqual(t, `{"description": "a big entity"}`, d.Prototypes["EntityPrototype"][0])
}

func TestDiffPolicyGating(t *testing.T) {
	from := Property{Named: Named{Name: "foo", Order: 1, Common: Common{Description: "a"}}}
	to := Property{Named: Named{Name: "foo", Order: 2, Common: Common{Description: "b"}}}
	tests := []struct {
		p    policy.Policy
		want string
	}{
		{p: policy.Default(), want: `null`},
		{p: policy.Policy{Examples: true}, want: `null`},
		{p: policy.Policy{Descriptions: true}, want: `[{"description": "b"}]`},
		{p: policy.Policy{Full: true}, want: `[{"order": 2}, {"description": "b"}]`},
	}
	for _, tc := range tests {
		t.Run(tc.p.String(), func(t *testing.T) {
			jsonEqual(t, tc.want, from.Diff(to, tc.p))
		})
	}
}

func TestDiffCommonGating(t *testing.T) {
	base := Prototype{Named: Named{Name: "foo", Order: 1, Common: Common{
		Description: "a",
		Lists:       []string{"x"},
		Examples:    []string{"e1"},
		Images:      []format.Image{{Filename: "a.png"}},
	}}}
	policies := []policy.Policy{
		policy.Default(),
		{Descriptions: true},
		{Examples: true},
		{Full: true},
	}
	tests := []struct {
		name   string
		change func(*Prototype)
		want   []string
	}{
		{
			name:   "images",
			change: func(pt *Prototype) { pt.Images = []format.Image{{Filename: "b.png"}} },
			want:   []string{`null`, `null`, `null`, `[{"images": [{"filename": "b.png"}]}]`},
		},
		{
			name:   "lists",
			change: func(pt *Prototype) { pt.Lists = nil },
			want:   []string{`null`, `null`, `null`, `[{"lists": []}]`},
		},
		{
			name:   "examples",
			change: func(pt *Prototype) { pt.Examples = append(pt.Examples, "e2") },
			want:   []string{`null`, `null`, `[{"examples": ["e1", "e2"]}]`, `[{"examples": ["e1", "e2"]}]`},
		},
		{
			name:   "order",
			change: func(pt *Prototype) { pt.Order = 2 },
			want:   []string{`null`, `null`, `null`, `[{"order": 2}]`},
		},
		{
			name:   "description",
			change: func(pt *Prototype) { pt.Description = "b" },
			want:   []string{`null`, `[{"description": "b"}]`, `null`, `[{"description": "b"}]`},
		},
	}
	for _, tc := range tests {
		to := base
		to.Common = Common{
			Description: base.Description,
			Lists:       slices.Clone(base.Lists),
			Examples:    slices.Clone(base.Examples),
			Images:      slices.Clone(base.Images),
		}
		tc.change(&to)
		for i, p := range policies {
			t.Run(tc.name+"/"+p.String(), func(t *testing.T) {
				jsonEqual(t, tc.want[i], base.Diff(to, p))
			})
		}
	}
}

func TestDiffType(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		p        policy.Policy
		want     string
	}{
		{
			name: "same simple",
			from: `"int"`, to: `"int"`,
			want: `null`,
		},
		{
			name: "simple",
			from: `"int"`, to: `"uint"`,
			want: `"uint"`,
		},
		{
			name: "complex to simple",
			from: `{"complex_type": "array", "value": "int"}`, to: `"int"`,
			want: `"int"`,
		},
		{
			name: "simple to complex",
			from: `"int"`, to: `{"complex_type": "array", "value": "float"}`,
			want: `[{"complex_type": "array"}, {"value": "float"}]`,
		},
		{
			name: "variant change",
			from: `{"complex_type": "array", "value": "int"}`,
			to:   `{"complex_type": "dictionary", "key": "string", "value": "int"}`,
			want: `[{"complex_type": "dictionary"}, {"key": "string"}, {"value": "int"}]`,
		},
		{
			name: "nested",
			from: `{"complex_type": "array", "value": {"complex_type": "array", "value": "int"}}`,
			to:   `{"complex_type": "array", "value": {"complex_type": "array", "value": "uint"}}`,
			want: `[{"value": [{"value": "uint"}]}]`,
		},
		{
			name: "tuple append",
			from: `{"complex_type": "tuple", "values": ["int"]}`,
			to:   `{"complex_type": "tuple", "values": ["int", "string"]}`,
			want: `[{"values": [null, "string"]}]`,
		},
		{
			name: "union full format",
			from: `{"complex_type": "union", "options": ["a", "b"], "full_format": false}`,
			to:   `{"complex_type": "union", "options": ["a", "b"], "full_format": true}`,
			want: `[{"full_format": true}]`,
		},
		{
			name: "described without descriptions",
			from: `{"complex_type": "type", "value": "int", "description": "a"}`,
			to:   `{"complex_type": "type", "value": "int", "description": "b"}`,
			want: `null`,
		},
		{
			name: "described with descriptions",
			from: `{"complex_type": "type", "value": "int", "description": "a"}`,
			to:   `{"complex_type": "type", "value": "int", "description": "b"}`,
			p:    policy.Policy{Descriptions: true},
			want: `[{"description": "b"}]`,
		},
		{
			name: "literal",
			from: `{"complex_type": "literal", "value": 1}`,
			to:   `{"complex_type": "literal", "value": "one"}`,
			want: `[{"value": "one"}]`,
		},
		{
			name: "struct",
			from: `{"complex_type": "struct"}`, to: `{"complex_type": "struct"}`,
			want: `null`,
		},
		{
			name: "builtin",
			from: `{"complex_type": "builtin"}`, to: `{"complex_type": "builtin"}`,
			want: `null`,
		},
		{
			name: "builtin to array",
			from: `{"complex_type": "builtin"}`,
			to:   `{"complex_type": "array", "value": "int"}`,
			want: `[{"complex_type": "array"}, {"value": "int"}]`,
		},
		{
			name: "struct to builtin",
			from: `{"complex_type": "struct"}`, to: `{"complex_type": "builtin"}`,
			want: `[{"complex_type": "builtin"}]`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jsonEqual(t, tc.want, DiffType(decodeType(t, tc.from), decodeType(t, tc.to), tc.p))
		})
	}
}

func TestDecodeType(t *testing.T) {
	typ := decodeType(t, `{"complex_type": "dictionary", "key": "string", "value": {"complex_type": "array", "value": "uint8"}}`)
	if !typ.IsComplex() || typ.ComplexType().Kind() != KindDictionary {
		t.Fatalf("got %s, want dictionary", typ)
	}
	dict := typ.ComplexType().(DictionaryType)
	if dict.Key.Name() != "string" || dict.Value.ComplexType().Kind() != KindArray {
		t.Errorf("got key %s value %s", dict.Key, dict.Value)
	}
	jsonEqual(t, `{"complex_type": "dictionary", "key": "string", "value": {"complex_type": "array", "value": "uint8"}}`, typ)

	var bad Type
	if err := json.Unmarshal([]byte(`{"complex_type": "bogus"}`), &bad); err == nil {
		t.Error("unknown complex_type decoded")
	}
	if err := json.Unmarshal([]byte(`{"value": "int"}`), &bad); err == nil {
		t.Error("untagged complex type decoded")
	}
}

func TestInstanceLimit(t *testing.T) {
	for in, want := range map[string]InstanceLimit{`5`: "5", `"5"`: "5", `null`: ""} {
		var l InstanceLimit
		if err := json.Unmarshal([]byte(in), &l); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if l != want {
			t.Errorf("%s: got %q want %q", in, l, want)
		}
	}
	var l InstanceLimit
	if err := json.Unmarshal([]byte(`-1`), &l); err == nil {
		t.Error("negative instance limit decoded")
	}
}

func TestPropertyDefault(t *testing.T) {
	var text, lit, lit2 PropertyDefault
	for s, d := range map[string]*PropertyDefault{`"10"`: &text, `{"value": 10}`: &lit, `{"value": 10, "description": "ten"}`: &lit2} {
		if err := json.Unmarshal([]byte(s), d); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}
	if text.IsLiteral || text.Text != "10" || !lit.IsLiteral {
		t.Errorf("got %+v and %+v", text, lit)
	}
	if text.Equal(&lit) || lit.Equal(&lit2) || !lit.Equal(&lit) {
		t.Error("unexpected equality")
	}
	var none *PropertyDefault
	if !none.Equal(nil) || none.Equal(&text) {
		t.Error("unexpected equality of absent defaults")
	}
	from := Property{Named: Named{Name: "p"}, Default: &text}
	to := Property{Named: Named{Name: "p"}, Default: &lit}
	jsonEqual(t, `[{"default": {"value": 10}}]`, from.Diff(to, policy.Default()))
	jsonEqual(t, `[{"default": null}]`, from.Diff(Property{Named: Named{Name: "p"}}, policy.Default()))
}

func TestCustomProperties(t *testing.T) {
	from := Prototype{Named: Named{Name: "p"}}
	to := Prototype{Named: Named{Name: "p"}, CustomProperties: &CustomProperties{KeyType: Simple("string"), ValueType: Simple("float")}}
	jsonEqual(t, `[{"custom_properties": [{"key_type": "string"}, {"value_type": "float"}]}]`, from.Diff(to, policy.Default()))
	jsonEqual(t, `[{"custom_properties": [{"key_type": ""}, {"value_type": ""}]}]`, to.Diff(from, policy.Default()))
}

func TestDiffFull(t *testing.T) {
	d := DiffFull(decodeDoc(t, sourceDoc), policy.Default())
	if diff := cmp.Diff([]string{"name", "abstract", "properties"}, d.Prototypes.Fields("EntityPrototype")); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
	jsonEqual(t, `{"flags": [{"name": "flags"}, {"type": "EntityPrototypeFlags"}, {"optional": true}],
		"max_health": [{"name": "max_health"}, {"type": "float"}, {"optional": true}, {"default": "10"}]}`,
		d.Prototypes["EntityPrototype"][2].Value)
	jsonEqual(t, `[{"name": "difficulty"}, {"values": {"easy": [{"name": "easy"}]}}]`, d.Defines["difficulty"])
}

func TestSections(t *testing.T) {
	doc := decodeDoc(t, targetDoc)
	var names []string
	for _, c := range doc.Counts() {
		names = append(names, c.Name)
	}
	d := Diff(doc, doc, policy.Default())
	for i, s := range d.Sections() {
		if s.Name != names[i] {
			t.Errorf("section %d: %s != %s", i, s.Name, names[i])
		}
	}
	if doc.Counts()[0].N != 2 {
		t.Errorf("got %d prototypes", doc.Counts()[0].N)
	}
	v, ok := doc.Lookup("defines", "difficulty")
	if !ok || v.(runtime.Define).Values["hard"].Order != 1 {
		t.Errorf("lookup difficulty: %v %t", v, ok)
	}
	if _, ok := doc.Lookup("classes", "LuaEntity"); ok {
		t.Error("found entity in unknown section")
	}
}
