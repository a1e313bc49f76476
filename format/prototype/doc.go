// Package prototype holds the schema of the prototype stage documentation
// and the rules diffing two of its snapshots.
//
// # Usage
//
//	var from, to prototype.Doc
//	// decode from and to with encoding/json
//	d := prototype.Diff(&from, &to, policy.Policy{Descriptions: true})
//	if !d.Empty() {
//		json.NewEncoder(os.Stdout).Encode(d)
//	}
//
// Every entity kind has a Diff method producing a list of change entries in
// field declaration order.  Type expressions are diffed by [DiffType].
//
// # Related Packages
//
//   - github.com/signadot/apidiff/libdiff for keyed collections and change entries
//   - github.com/signadot/apidiff/format/runtime for the runtime stage and the defines it shares
package prototype

import (
	"github.com/signadot/apidiff/debug"
	"github.com/signadot/apidiff/format"
	"github.com/signadot/apidiff/format/runtime"
	"github.com/signadot/apidiff/libdiff"
	"github.com/signadot/apidiff/policy"
	"github.com/signadot/apidiff/report"
)

// Doc is a prototype stage snapshot.
type Doc struct {
	format.Header
	Prototypes libdiff.Map[Prototype]      `json:"prototypes,omitempty"`
	Types      libdiff.Map[TypeConcept]    `json:"types,omitempty"`
	Defines    libdiff.Map[runtime.Define] `json:"defines,omitempty"`
}

// DocDiff is the diff tree of two prototype snapshots.
type DocDiff struct {
	Prototypes libdiff.MapDiff[PrototypeDiff]      `json:"prototypes"`
	Types      libdiff.MapDiff[TypeConceptDiff]    `json:"types"`
	Defines    libdiff.MapDiff[runtime.DefineDiff] `json:"defines"`
}

// Diff diffs two snapshots.
func Diff(from, to *Doc, p policy.Policy) *DocDiff {
	if debug.Diff() {
		debug.Logf("prototype diff %s -> %s policy %s\n", from.ApplicationVersion, to.ApplicationVersion, p)
	}
	return &DocDiff{
		Prototypes: libdiff.DiffMap(from.Prototypes, to.Prototypes, p, Prototype.Diff),
		Types:      libdiff.DiffMap(from.Types, to.Types, p, TypeConcept.Diff),
		Defines:    libdiff.DiffMap(from.Defines, to.Defines, p, runtime.Define.Diff),
	}
}

// DiffFull reports every entity of doc as newly introduced.
func DiffFull(doc *Doc, p policy.Policy) *DocDiff {
	return &DocDiff{
		Prototypes: libdiff.Full(doc.Prototypes, p, Prototype.Diff),
		Types:      libdiff.Full(doc.Types, p, TypeConcept.Diff),
		Defines:    libdiff.Full(doc.Defines, p, runtime.Define.Diff),
	}
}

func (d *DocDiff) Empty() bool {
	return d.Prototypes.Len() == 0 && d.Types.Len() == 0 && d.Defines.Len() == 0
}

// Sections returns the collections of d in document order.
func (d *DocDiff) Sections() []report.Section {
	return []report.Section{
		{Name: "prototypes", Changes: d.Prototypes},
		{Name: "types", Changes: d.Types},
		{Name: "defines", Changes: d.Defines},
	}
}

// Counts returns the size of each collection of doc.
func (doc *Doc) Counts() []report.Count {
	return []report.Count{
		{Name: "prototypes", N: len(doc.Prototypes)},
		{Name: "types", N: len(doc.Types)},
		{Name: "defines", N: len(doc.Defines)},
	}
}

// Lookup returns the entity called name in the collection section.
func (doc *Doc) Lookup(section, name string) (any, bool) {
	var (
		v  any
		ok bool
	)
	switch section {
	case "prototypes":
		v, ok = doc.Prototypes[name]
	case "types":
		v, ok = doc.Types[name]
	case "defines":
		v, ok = doc.Defines[name]
	}
	return v, ok
}
