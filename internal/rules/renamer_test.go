package rules

import (
	"testing"
)

func TestRenamerProcess(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		finder   string
		replacer string
		input    string
		want     string
	}{
		{name: "IdentityPlain", finder: "(.+)", replacer: "$1", input: "foo", want: "foo"},
		{name: "IdentityKeepsLiteralToken", finder: "(.+)", replacer: "$1", input: "asd23$1", want: "asd23$1"},
		{name: "SuffixTemplate", finder: "(.+)", replacer: "$1_asdf", input: "foo", want: "foo_asdf"},
		{name: "SuffixTemplateLiteralToken", finder: "(.+)", replacer: "$1_asdf", input: "asd23$1", want: "asd23$1_asdf"},
		{name: "DigitsSingle", finder: `foo(\d+)`, replacer: "$1_foo", input: "foo1", want: "1_foo"},
		{name: "DigitsMany", finder: `foo(\d+)`, replacer: "$1_foo", input: "foo345", want: "345_foo"},
		{name: "NoMatchReturnsTemplate", finder: `foo(\d+)`, replacer: "$1_foo", input: "foo", want: "$1_foo"},
		{name: "NoMatchDigitsOnly", finder: `foo(\d+)`, replacer: "$1_foo", input: "1234", want: "$1_foo"},
		{name: "MatchAnywhere", finder: `(\d{4})`, replacer: "Film ($1)", input: "the.film.1999.1080p", want: "Film (1999)"},
		{name: "TwoGroupsSwapped", finder: `(\w+)-(\w+)`, replacer: "$2-$1", input: "left-right", want: "right-left"},
		{name: "MissingGroupStopsResolution", finder: "(.+)", replacer: "$2_$1", input: "foo", want: "$2_foo"},
		{name: "AbsentTokenStopsResolution", finder: `(a)(b)`, replacer: "$2", input: "ab", want: "$2"},
		{name: "NonParticipatingGroupStops", finder: `(x)?(b)`, replacer: "$1$2", input: "b", want: "$1$2"},
		{name: "TokenRepeated", finder: "(.+)", replacer: "$1/$1", input: "dup", want: "dup/dup"},
		{name: "NoGroupsLiteral", finder: "foo", replacer: "bar", input: "foo", want: "bar"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r, err := NewRenamer(tc.finder, tc.replacer)
			if err != nil {
				t.Fatalf("NewRenamer(%q, %q) error = %v", tc.finder, tc.replacer, err)
			}
			if got := r.Process(tc.input); got != tc.want {
				t.Errorf("Process(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNewRenamerInvalidFinder(t *testing.T) {
	t.Parallel()
	for _, finder := range []string{"(", "[a-", `\`, "a{2,1}"} {
		r, err := NewRenamer(finder, "$1")
		if err == nil || r != nil {
			t.Errorf("NewRenamer(%q) = (%v, %v), want (nil, error)", finder, r, err)
		}
	}
}

func TestRenamerAccessors(t *testing.T) {
	t.Parallel()
	r, err := NewRenamer(`(.+)\.x`, "$1_y")
	if err != nil {
		t.Fatal(err)
	}
	if r.Finder() != `(.+)\.x` || r.Replacer() != "$1_y" {
		t.Errorf("accessors = (%q, %q), want (%q, %q)", r.Finder(), r.Replacer(), `(.+)\.x`, "$1_y")
	}
}
