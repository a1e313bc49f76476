// Package debug writes diagnostics to stderr when the environment asks for
// them.  Each switch is read from APIDIFF_DEBUG_<NAME>; APIDIFF_DEBUG_ALL
// turns every switch on.
package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

const envPrefix = "APIDIFF_DEBUG_"

const (
	fetch  = "FETCH"
	diff   = "DIFF"
	report = "REPORT"
)

var switches = map[string]bool{}

func init() {
	all := boolEnv(envPrefix + "ALL")
	for _, name := range []string{fetch, diff, report} {
		switches[name] = all || boolEnv(envPrefix+name)
	}
}

func boolEnv(v string) bool {
	b, _ := strconv.ParseBool(os.Getenv(v))
	return b
}

// Fetch traces snapshot headers as they are loaded.
func Fetch() bool { return switches[fetch] }

// Diff traces the snapshots and policy of each diff.
func Diff() bool { return switches[diff] }

// Report traces report filtering.
func Report() bool { return switches[report] }

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// LogAny writes the json encoding of v on one line.
func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(append(d, '\n'))
}
