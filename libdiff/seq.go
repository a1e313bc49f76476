package libdiff

import "github.com/signadot/apidiff/policy"

// DiffSeq diffs two lists position by position.  Index i of the result
// holds rule(from[i], to[i]), with the zero value standing in for a missing
// element on either side.  Unchanged positions hold empty lists.
//
// There is no alignment: inserting an element in the middle reports every
// later position as changed.
func DiffSeq[T any, D any](from, to []T, p policy.Policy, rule func(from, to T, p policy.Policy) []D) [][]D {
	var zero T
	res := make([][]D, 0, max(len(from), len(to)))
	for i, f := range from {
		t := zero
		if i < len(to) {
			t = to[i]
		}
		res = append(res, orEmpty(rule(f, t, p)))
	}
	for i := len(from); i < len(to); i++ {
		res = append(res, orEmpty(rule(zero, to[i], p)))
	}
	return res
}

func orEmpty[D any](d []D) []D {
	if d == nil {
		return []D{}
	}
	return d
}

// Empty reports whether no position of seq changed.
func Empty[D any](seq [][]D) bool {
	for _, d := range seq {
		if len(d) != 0 {
			return false
		}
	}
	return true
}
