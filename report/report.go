// Package report holds the diff tree handed to the outside world: one
// [Section] per collection of a snapshot, filtering with expressions, and
// encoding as json, yaml or coloured text.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/signadot/apidiff/debug"
	"github.com/signadot/apidiff/format"
	"github.com/signadot/apidiff/libdiff"
)

// Section is the diff of one keyed collection of a snapshot.
type Section struct {
	Name    string
	Changes libdiff.Collection
}

// Count is the size of one collection of a snapshot.
type Count struct {
	Name string
	N    int
}

type Report struct {
	Stage    format.Stage
	Source   format.Header
	Target   format.Header
	Sections []Section
}

func New(stage format.Stage, src, tgt format.Header, sections []Section) *Report {
	return &Report{Stage: stage, Source: src, Target: tgt, Sections: sections}
}

// Empty reports whether no section holds a change.
func (r *Report) Empty() bool {
	for _, s := range r.Sections {
		if s.Changes.Len() != 0 {
			return false
		}
	}
	return true
}

// Summary returns one line per section counting the changed entities.
func (r *Report) Summary() []string {
	res := make([]string, len(r.Sections))
	for i, s := range r.Sections {
		res[i] = fmt.Sprintf("=> %d %s changed", s.Changes.Len(), strings.ReplaceAll(s.Name, "_", " "))
	}
	return res
}

// Info describes a snapshot by its header and the sizes of its collections.
func Info(h format.Header, counts []Count) []string {
	w := 0
	for _, c := range counts {
		w = max(w, len(label(c.Name)))
	}
	res := []string{h.String()}
	for _, c := range counts {
		res = append(res, fmt.Sprintf(" - %-*s %d", w+1, label(c.Name)+":", c.N))
	}
	return res
}

func label(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Apply returns the report restricted to the entities matched by f.
func (r *Report) Apply(f *Filter) (*Report, error) {
	res := *r
	res.Sections = make([]Section, len(r.Sections))
	var err error
	for i, s := range r.Sections {
		res.Sections[i] = Section{
			Name: s.Name,
			Changes: s.Changes.Retain(func(key string, fields []string) bool {
				if err != nil {
					return false
				}
				ok, mErr := f.Match(s.Name, key, fields)
				if mErr != nil {
					err = mErr
					return false
				}
				if debug.Report() {
					debug.Logf("filter %s %s %v: %t\n", s.Name, key, fields, ok)
				}
				return ok
			}),
		}
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// MarshalJSON encodes r as an object mapping each section name to its
// changes, in section order.
func (r *Report) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, s := range r.Sections {
		if i != 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.Changes)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", s.Name, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
