package libdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the operation of a [Line].
type Op int

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
)

// Prefix returns the conventional one character prefix of op.
func (op Op) Prefix() string {
	switch op {
	case OpInsert:
		return "+"
	case OpDelete:
		return "-"
	default:
		return " "
	}
}

// Line is one line of a line oriented text diff.
type Line struct {
	Op   Op
	Text string
}

// TextDiff computes a line diff of from and to.
func TextDiff(from, to string) []Line {
	dmp := diffpatch.New()
	fromChars, toChars, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffMain(fromChars, toChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)
	var res []Line
	for i := range diffs {
		diff := &diffs[i]
		var op Op
		switch diff.Type {
		case diffpatch.DiffInsert:
			op = OpInsert
		case diffpatch.DiffDelete:
			op = OpDelete
		case diffpatch.DiffEqual:
			op = OpEqual
		}
		text := strings.TrimSuffix(diff.Text, "\n")
		for _, l := range strings.Split(text, "\n") {
			res = append(res, Line{Op: op, Text: l})
		}
	}
	return res
}

// Changed reports whether lines holds any insertion or deletion.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != OpEqual {
			return true
		}
	}
	return false
}
