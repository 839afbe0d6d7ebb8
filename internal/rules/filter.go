package rules

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyFilter is returned by BuildFileFilter for an empty extension list.
// It means "do not filter", not "reject everything".
var ErrEmptyFilter = errors.New("extension filter is empty")

// SplitExtensions splits a comma-separated extension list verbatim. Tokens
// are not trimmed and empty tokens are kept, so " mp4" stays " mp4".
func SplitExtensions(list string) []string {
	return strings.Split(list, ",")
}

// BuildFileFilter compiles an extension list into a single unanchored
// alternation of literal tokens. A token matches any extension that contains
// it: "mkv" accepts "mkv2". An empty token matches every extension.
func BuildFileFilter(list string) (*regexp.Regexp, error) {
	if list == "" {
		return nil, ErrEmptyFilter
	}
	exts := SplitExtensions(list)
	for i, ext := range exts {
		exts[i] = regexp.QuoteMeta(ext)
	}
	return regexp.Compile(strings.Join(exts, "|"))
}
