package report

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var ErrBadFilter = errors.New("bad filter")

// Filter selects changed entities with a boolean expression over the
// variables section, name and fields (the changed field names).
//
//	section == "classes" && "methods" in fields
type Filter struct {
	src string
	prg *vm.Program
}

func filterEnv(section, name string, fields []string) map[string]any {
	if fields == nil {
		fields = []string{}
	}
	return map[string]any{
		"section": section,
		"name":    name,
		"fields":  fields,
	}
}

func NewFilter(src string) (*Filter, error) {
	prg, err := expr.Compile(src, expr.Env(filterEnv("", "", nil)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadFilter, err)
	}
	return &Filter{src: src, prg: prg}, nil
}

func (f *Filter) String() string { return f.src }

func (f *Filter) Match(section, name string, fields []string) (bool, error) {
	res, err := expr.Run(f.prg, filterEnv(section, name, fields))
	if err != nil {
		return false, fmt.Errorf("%w: %q on %s/%s: %w", ErrBadFilter, f.src, section, name, err)
	}
	b, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %T", ErrBadFilter, f.src, res)
	}
	return b, nil
}
