// Package libdiff provides the schema independent machinery of apidiff.
//
// # Usage
//
//	// diff two name keyed collections with a per entity rule
//	d := libdiff.DiffMap(from.Classes, to.Classes, p, runtime.Class.Diff)
//
//	// diff two positional lists
//	s := libdiff.DiffSeq(from.ReturnValues, to.ReturnValues, p, runtime.ReturnParameter.Diff)
//
// A rule is a pure function of (from, to, policy) returning an ordered list
// of change entries.  Additions and removals are expressed by diffing against
// the zero value of the entity type, which every schema node treats as its
// canonical empty instance.  An empty result means "no change".
//
// # Related Packages
//
//   - github.com/signadot/apidiff/policy - which field categories are compared
//   - github.com/signadot/apidiff/format/prototype - prototype schema rules
//   - github.com/signadot/apidiff/format/runtime - runtime schema rules
package libdiff
