package libdiff

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/apidiff/policy"
)

type field string

type item struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
	Desc  string `json:"description"`
}

func (i item) Key() string { return i.Name }

func diffItem(from, to item, p policy.Policy) []Change[field] {
	var res []Change[field]
	res = Scalar(res, p, policy.Core, "name", from.Name, to.Name)
	res = Scalar(res, p, policy.FullDetail, "order", from.Order, to.Order)
	res = Scalar(res, p, policy.Description, "description", from.Desc, to.Desc)
	return res
}

func TestDiffMap(t *testing.T) {
	a := FromSlice([]item{
		{Name: "same", Order: 1},
		{Name: "changed", Order: 1},
		{Name: "gone", Order: 3},
	})
	b := FromSlice([]item{
		{Name: "same", Order: 1},
		{Name: "changed", Order: 2},
		{Name: "new", Order: 4},
	})
	p := policy.Policy{Full: true}
	got := DiffMap(a, b, p, diffItem)
	want := MapDiff[Change[field]]{
		"changed": diffItem(a["changed"], b["changed"], p),
		"gone":    diffItem(a["gone"], item{}, p),
		"new":     diffItem(item{}, b["new"], p),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DiffMap mismatch (-want +got):\n%s", diff)
	}
	if _, ok := got["same"]; ok {
		t.Errorf("unchanged key present")
	}
	if diff := cmp.Diff([]Change[field]{Set[field]("name", ""), Set[field]("order", 0)}, got["gone"]); diff != "" {
		t.Errorf("removal mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffMapPolicy(t *testing.T) {
	a := FromSlice([]item{{Name: "x", Order: 1}})
	b := FromSlice([]item{{Name: "x", Order: 2}})
	if got := DiffMap(a, b, policy.Default(), diffItem); got.Len() != 0 {
		t.Errorf("expected empty diff, got %v", got)
	}
	if got := DiffMap(a, b, policy.Policy{Full: true}, diffItem); got.Len() != 1 {
		t.Errorf("expected one changed key, got %v", got)
	}
}

func TestFull(t *testing.T) {
	m := FromSlice([]item{{Name: "a"}, {Name: "b", Order: 2}})
	got := Full(m, policy.Policy{Full: true}, diffItem)
	want := MapDiff[Change[field]]{
		"a": {Set[field]("name", "a")},
		"b": {Set[field]("name", "b"), Set[field]("order", 2)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Full mismatch (-want +got):\n%s", diff)
	}
}

func TestFromSliceLastWins(t *testing.T) {
	m := FromSlice([]item{{Name: "a", Order: 1}, {Name: "a", Order: 2}})
	if len(m) != 1 || m["a"].Order != 2 {
		t.Errorf("got %v", m)
	}
}

func TestMapJSON(t *testing.T) {
	var m Map[item]
	if err := json.Unmarshal([]byte(`[{"name":"b","order":2},{"name":"a","order":1}]`), &m); err != nil {
		t.Fatal(err)
	}
	d, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"name":"a","order":1,"description":""},{"name":"b","order":2,"description":""}]`
	if string(d) != want {
		t.Errorf("got %s want %s", d, want)
	}
}

func TestChangeJSON(t *testing.T) {
	d, err := json.Marshal([]Change[field]{Set[field]("description", "b"), Set[field]("order", 2)})
	if err != nil {
		t.Fatal(err)
	}
	if string(d) != `[{"description":"b"},{"order":2}]` {
		t.Errorf("got %s", d)
	}
}

func TestDiffSeq(t *testing.T) {
	p := policy.Default()
	a := []item{{Name: "a"}, {Name: "b"}}
	b := []item{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	got := DiffSeq(a, b, p, diffItem)
	want := [][]Change[field]{{}, {}, {Set[field]("name", "c")}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("append mismatch (-want +got):\n%s", diff)
	}
	if Empty(got) {
		t.Errorf("expected non-empty")
	}

	got = DiffSeq(b, a, p, diffItem)
	want = [][]Change[field]{{}, {}, {Set[field]("name", "")}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("truncate mismatch (-want +got):\n%s", diff)
	}

	// no alignment: an insertion at the front shifts every position
	got = DiffSeq(a, []item{{Name: "z"}, {Name: "a"}, {Name: "b"}}, p, diffItem)
	want = [][]Change[field]{
		{Set[field]("name", "z")},
		{Set[field]("name", "a")},
		{Set[field]("name", "b")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("insert mismatch (-want +got):\n%s", diff)
	}
	if !Empty(DiffSeq(a, a, p, diffItem)) {
		t.Errorf("identical sequences differ")
	}
}

func TestRetag(t *testing.T) {
	type other string
	got := Retag[other]([]Change[field]{Set[field]("name", "x")})
	if len(got) != 1 || got[0].Field != "name" || got[0].Value != "x" {
		t.Errorf("got %v", got)
	}
	if Retag[other, field](nil) != nil {
		t.Errorf("expected nil")
	}
}

func TestSlice(t *testing.T) {
	p := policy.Default()
	if got := Slice[field, string](nil, p, policy.Core, "lists", nil, []string{}); len(got) != 0 {
		t.Errorf("nil and empty must be equal: %v", got)
	}
	got := Slice[field](nil, p, policy.Core, "lists", []string{"a"}, nil)
	if diff := cmp.Diff([]Change[field]{Set[field]("lists", []string{})}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMapDiffRetain(t *testing.T) {
	d := MapDiff[Change[field]]{
		"a": {Set[field]("name", "a")},
		"b": {Set[field]("order", 1)},
	}
	got := d.Retain(func(key string, fields []string) bool {
		return fields[0] == "order"
	})
	if diff := cmp.Diff([]string{"b"}, got.Keys()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMapDiffEntries(t *testing.T) {
	d := MapDiff[Change[field]]{"a": {Set[field]("name", "a"), Set[field]("order", 2)}}
	es := d.Entries("a")
	if len(es) != 2 || es[1].FieldName() != "order" || es[1].FieldValue() != 2 {
		t.Errorf("got %v", es)
	}
	if len(d.Entries("missing")) != 0 {
		t.Errorf("expected no entries")
	}
}

func TestTextDiff(t *testing.T) {
	lines := TextDiff("a\nb\nc\n", "a\nB\nc\n")
	want := []Line{
		{Op: OpEqual, Text: "a"},
		{Op: OpDelete, Text: "b"},
		{Op: OpInsert, Text: "B"},
		{Op: OpEqual, Text: "c"},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if !Changed(lines) {
		t.Errorf("expected change")
	}
	if Changed(TextDiff("x\n", "x\n")) {
		t.Errorf("expected no change")
	}
}
