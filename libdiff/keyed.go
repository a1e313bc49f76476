package libdiff

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/signadot/apidiff/policy"
)

// Keyed is implemented by entities held in name keyed collections.
type Keyed interface {
	Key() string
}

// Map is a name keyed collection.  It decodes from a JSON list, folding on
// [Keyed.Key] with the last entry winning, and encodes back to a list sorted
// by key.
type Map[T Keyed] map[string]T

// FromSlice folds items into a Map.
func FromSlice[T Keyed](items []T) Map[T] {
	m := make(Map[T], len(items))
	for _, item := range items {
		m[item.Key()] = item
	}
	return m
}

// Slice returns the entities of m sorted by key.
func (m Map[T]) Slice() []T {
	res := make([]T, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		res = append(res, m[k])
	}
	return res
}

func (m *Map[T]) UnmarshalJSON(d []byte) error {
	var items []T
	if err := json.Unmarshal(d, &items); err != nil {
		return err
	}
	*m = FromSlice(items)
	return nil
}

func (m Map[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Slice())
}

// Entry is implemented by change entries.
type Entry interface {
	FieldName() string
	FieldValue() any
}

// MapDiff maps the key of every changed entity to its change entries.  It
// only holds non-empty entries.
type MapDiff[D Entry] map[string][]D

// DiffMap diffs two keyed collections with rule.
//
//   - a key in both from and to maps to rule(from[k], to[k]) when that is non-empty
//   - a key only in from maps to rule(from[k], zero)
//   - a key only in to maps to rule(zero, to[k])
//
// The result is never nil.
func DiffMap[T Keyed, D Entry](from, to Map[T], p policy.Policy, rule func(from, to T, p policy.Policy) []D) MapDiff[D] {
	var zero T
	res := MapDiff[D]{}
	for k, f := range from {
		t, ok := to[k]
		if !ok {
			t = zero
		}
		if d := rule(f, t, p); len(d) != 0 {
			res[k] = d
		}
	}
	for k, t := range to {
		if _, ok := from[k]; ok {
			continue
		}
		if d := rule(zero, t, p); len(d) != 0 {
			res[k] = d
		}
	}
	return res
}

// Full reports every entity of m as newly introduced.
func Full[T Keyed, D Entry](m Map[T], p policy.Policy, rule func(from, to T, p policy.Policy) []D) MapDiff[D] {
	return DiffMap(nil, m, p, rule)
}

func (d MapDiff[D]) Len() int { return len(d) }

// Keys returns the changed keys in sorted order.
func (d MapDiff[D]) Keys() []string {
	return slices.Sorted(maps.Keys(d))
}

// Fields returns the names of the changed fields of the entity at key.
func (d MapDiff[D]) Fields(key string) []string {
	entries := d[key]
	res := make([]string, len(entries))
	for i, e := range entries {
		res[i] = e.FieldName()
	}
	return res
}

// Entries returns the change entries of the entity at key.
func (d MapDiff[D]) Entries(key string) []Entry {
	entries := d[key]
	res := make([]Entry, len(entries))
	for i, e := range entries {
		res[i] = e
	}
	return res
}

// Retain returns the subset of d for which keep returns true.
func (d MapDiff[D]) Retain(keep func(key string, fields []string) bool) Collection {
	res := MapDiff[D]{}
	for k, v := range d {
		if keep(k, d.Fields(k)) {
			res[k] = v
		}
	}
	return res
}

// Collection is the schema independent view of a [MapDiff] used by reports.
type Collection interface {
	Len() int
	Keys() []string
	Fields(key string) []string
	Entries(key string) []Entry
	Retain(keep func(key string, fields []string) bool) Collection
}
