package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Renamer rewrites a single path component: a finder regex selects capture
// groups and a replacer template references them as $1, $2, ...
//
// A Renamer is immutable once built.
type Renamer struct {
	finder   *regexp.Regexp
	replacer string
}

// NewRenamer compiles finder. The replacer template is never validated up
// front. On an invalid finder the returned Renamer is nil; callers treat the
// nil value as the "invalid rule" state rather than failing.
func NewRenamer(finder, replacer string) (*Renamer, error) {
	re, err := regexp.Compile(finder)
	if err != nil {
		return nil, fmt.Errorf("compile matcher %q: %w", finder, err)
	}
	return &Renamer{finder: re, replacer: replacer}, nil
}

// Finder returns the source pattern of the matcher.
func (r *Renamer) Finder() string { return r.finder.String() }

// Replacer returns the raw replacement template.
func (r *Renamer) Replacer() string { return r.replacer }

// Process applies the rule to input.
//
// Without a match the template is returned verbatim. With a match, the
// placeholders are resolved in order $1, $2, ... and resolution halts at the
// first index whose group did not participate in the match or whose token is
// no longer present in the partially substituted string. Tokens past that
// point stay literal.
func (r *Renamer) Process(input string) string {
	loc := r.finder.FindStringSubmatchIndex(input)
	if loc == nil {
		return r.replacer
	}

	replaced := r.replacer
	for idx := 1; ; idx++ {
		if idx > r.finder.NumSubexp() || loc[2*idx] < 0 {
			return replaced
		}
		token := "$" + strconv.Itoa(idx)
		if !strings.Contains(replaced, token) {
			return replaced
		}
		replaced = strings.ReplaceAll(replaced, token, input[loc[2*idx]:loc[2*idx+1]])
	}
}
