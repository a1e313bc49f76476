// Package runtime holds the schema of the runtime stage documentation and the
// rules diffing two of its snapshots.
//
// The shape mirrors [github.com/signadot/apidiff/format/prototype]: every
// entity kind has a field enumeration, a change entry alias and a Diff
// method, and type expressions are diffed by [DiffType].  Only the keyed
// collection and sequence machinery of libdiff is shared between the two.
package runtime

import (
	"github.com/signadot/apidiff/debug"
	"github.com/signadot/apidiff/format"
	"github.com/signadot/apidiff/libdiff"
	"github.com/signadot/apidiff/policy"
	"github.com/signadot/apidiff/report"
)

// Doc is a runtime stage snapshot.
type Doc struct {
	format.Header
	Classes         libdiff.Map[Class]        `json:"classes"`
	Events          libdiff.Map[Event]        `json:"events"`
	Defines         libdiff.Map[Define]       `json:"defines"`
	BuiltinTypes    libdiff.Map[BuiltinType]  `json:"builtin_types"`
	Concepts        libdiff.Map[Concept]      `json:"concepts"`
	GlobalObjects   libdiff.Map[GlobalObject] `json:"global_objects"`
	GlobalFunctions libdiff.Map[Method]       `json:"global_functions"`
}

type DocDiff struct {
	Classes         libdiff.MapDiff[ClassDiff]        `json:"classes"`
	Events          libdiff.MapDiff[EventDiff]        `json:"events"`
	Defines         libdiff.MapDiff[DefineDiff]       `json:"defines"`
	BuiltinTypes    libdiff.MapDiff[CommonDiff]       `json:"builtin_types"`
	Concepts        libdiff.MapDiff[ConceptDiff]      `json:"concepts"`
	GlobalObjects   libdiff.MapDiff[GlobalObjectDiff] `json:"global_objects"`
	GlobalFunctions libdiff.MapDiff[MethodDiff]       `json:"global_functions"`
}

func Diff(from, to *Doc, p policy.Policy) *DocDiff {
	if debug.Diff() {
		debug.Logf("runtime diff %s -> %s policy %s\n", from.ApplicationVersion, to.ApplicationVersion, p)
	}
	return &DocDiff{
		Classes:         libdiff.DiffMap(from.Classes, to.Classes, p, Class.Diff),
		Events:          libdiff.DiffMap(from.Events, to.Events, p, Event.Diff),
		Defines:         libdiff.DiffMap(from.Defines, to.Defines, p, Define.Diff),
		BuiltinTypes:    libdiff.DiffMap(from.BuiltinTypes, to.BuiltinTypes, p, BuiltinType.Diff),
		Concepts:        libdiff.DiffMap(from.Concepts, to.Concepts, p, Concept.Diff),
		GlobalObjects:   libdiff.DiffMap(from.GlobalObjects, to.GlobalObjects, p, GlobalObject.Diff),
		GlobalFunctions: libdiff.DiffMap(from.GlobalFunctions, to.GlobalFunctions, p, Method.Diff),
	}
}

// DiffFull reports every entity of doc as newly introduced.
func DiffFull(doc *Doc, p policy.Policy) *DocDiff {
	return &DocDiff{
		Classes:         libdiff.Full(doc.Classes, p, Class.Diff),
		Events:          libdiff.Full(doc.Events, p, Event.Diff),
		Defines:         libdiff.Full(doc.Defines, p, Define.Diff),
		BuiltinTypes:    libdiff.Full(doc.BuiltinTypes, p, BuiltinType.Diff),
		Concepts:        libdiff.Full(doc.Concepts, p, Concept.Diff),
		GlobalObjects:   libdiff.Full(doc.GlobalObjects, p, GlobalObject.Diff),
		GlobalFunctions: libdiff.Full(doc.GlobalFunctions, p, Method.Diff),
	}
}

func (d *DocDiff) Empty() bool {
	for _, s := range d.Sections() {
		if s.Changes.Len() != 0 {
			return false
		}
	}
	return true
}

func (d *DocDiff) Sections() []report.Section {
	return []report.Section{
		{Name: "classes", Changes: d.Classes},
		{Name: "events", Changes: d.Events},
		{Name: "defines", Changes: d.Defines},
		{Name: "builtin_types", Changes: d.BuiltinTypes},
		{Name: "concepts", Changes: d.Concepts},
		{Name: "global_objects", Changes: d.GlobalObjects},
		{Name: "global_functions", Changes: d.GlobalFunctions},
	}
}

func (doc *Doc) Counts() []report.Count {
	return []report.Count{
		{Name: "classes", N: len(doc.Classes)},
		{Name: "events", N: len(doc.Events)},
		{Name: "defines", N: len(doc.Defines)},
		{Name: "builtin_types", N: len(doc.BuiltinTypes)},
		{Name: "concepts", N: len(doc.Concepts)},
		{Name: "global_objects", N: len(doc.GlobalObjects)},
		{Name: "global_functions", N: len(doc.GlobalFunctions)},
	}
}

// Lookup returns the entity called name in the collection section.
func (doc *Doc) Lookup(section, name string) (any, bool) {
	var (
		v  any
		ok bool
	)
	switch section {
	case "classes":
		v, ok = doc.Classes[name]
	case "events":
		v, ok = doc.Events[name]
	case "defines":
		v, ok = doc.Defines[name]
	case "builtin_types":
		v, ok = doc.BuiltinTypes[name]
	case "concepts":
		v, ok = doc.Concepts[name]
	case "global_objects":
		v, ok = doc.GlobalObjects[name]
	case "global_functions":
		v, ok = doc.GlobalFunctions[name]
	}
	return v, ok
}
