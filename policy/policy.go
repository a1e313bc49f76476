// Package policy decides which optional field categories may appear in a diff.
//
// A [Policy] is an immutable value threaded through every diff rule.  Rules
// ask [Policy.Admits] before emitting a change entry for a gated field, so
// the verbosity of a diff is a function of the policy alone.
package policy

import (
	"fmt"
	"strings"
)

// Category identifies the optional category a field belongs to.
type Category int

const (
	// Core fields (identity, structure, typed values) are always compared.
	Core Category = iota
	// Description covers descriptions and notes.
	Description
	// Example covers examples.
	Example
	// FullDetail covers declared order, lists and images.
	FullDetail
)

func (c Category) String() string {
	switch c {
	case Core:
		return "core"
	case Description:
		return "description"
	case Example:
		return "example"
	case FullDetail:
		return "full-detail"
	default:
		return fmt.Sprintf("<category %d>", int(c))
	}
}

// Policy holds the switches controlling which categories are admitted.
// Full implies Descriptions and Examples.
type Policy struct {
	Descriptions bool
	Examples     bool
	Full         bool
}

// Default returns the policy admitting only core changes.
func Default() Policy {
	return Policy{}
}

// Admits reports whether a change in category c should be emitted.
func (p Policy) Admits(c Category) bool {
	switch c {
	case Core:
		return true
	case Description:
		return p.Descriptions || p.Full
	case Example:
		return p.Examples || p.Full
	case FullDetail:
		return p.Full
	}
	return false
}

func (p Policy) String() string {
	var parts []string
	if p.Descriptions {
		parts = append(parts, "descriptions")
	}
	if p.Examples {
		parts = append(parts, "examples")
	}
	if p.Full {
		parts = append(parts, "full")
	}
	if len(parts) == 0 {
		return "core"
	}
	return strings.Join(parts, ",")
}
