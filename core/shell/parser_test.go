package shell

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func noEnv(string) (string, bool) { return "", false }

func envWith(vars map[string]string) LookupEnv {
	return func(name string) (string, bool) {
		value, ok := vars[name]
		return value, ok
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		name     string
		line     string
		lookup   LookupEnv
		expected *Line
	}{
		{
			name:     "single command",
			line:     "echo hi",
			expected: &Line{Commands: []Command{{Args: []string{"echo", "hi"}}}},
		},
		{
			name:     "input redirection",
			line:     "prog <in.txt",
			expected: &Line{Commands: []Command{{Args: []string{"prog"}, InPath: "in.txt"}}},
		},
		{
			name:     "output redirection",
			line:     "prog >out.txt",
			expected: &Line{Commands: []Command{{Args: []string{"prog"}, OutPath: "out.txt"}}},
		},
		{
			name: "three stage pipeline",
			line: "a one | b | c two",
			expected: &Line{Commands: []Command{
				{Args: []string{"a", "one"}},
				{Args: []string{"b"}},
				{Args: []string{"c", "two"}},
			}},
		},
		{
			name: "adjacent pipes collapse",
			line: "a||b",
			expected: &Line{Commands: []Command{
				{Args: []string{"a"}},
				{Args: []string{"b"}},
			}},
		},
		{
			name:     "empty line",
			line:     "",
			expected: nil,
		},
		{
			name:     "only pipes",
			line:     "|||",
			expected: nil,
		},
		{
			name:     "set variable becomes an argument",
			line:     "echo $X",
			lookup:   envWith(map[string]string{"X": "5"}),
			expected: &Line{Commands: []Command{{Args: []string{"echo", "5"}}}},
		},
		{
			name:     "unset variable collapses",
			line:     "echo $X",
			expected: &Line{Commands: []Command{{Args: []string{"echo"}}}},
		},
		{
			name:     "empty value collapses",
			line:     "echo $X",
			lookup:   envWith(map[string]string{"X": ""}),
			expected: &Line{Commands: []Command{{Args: []string{"echo"}}}},
		},
		{
			name:   "substitution is a single token",
			line:   "echo $X",
			lookup: envWith(map[string]string{"X": "a b"}),
			// The value is one argument even when it contains spaces.
			expected: &Line{Commands: []Command{{Args: []string{"echo", "a b"}}}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lookup := tc.lookup
			if lookup == nil {
				lookup = noEnv
			}

			actual, err := Parse(tc.line, lookup)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		line     string
		expected error
	}{
		{"a <x <y", ErrMultipleInputRedirections},
		{"a <", ErrNoInputPath},
		{"a >x >y", ErrMultipleOutputRedirections},
		{"a >", ErrNoOutputPath},
		{"   ", ErrEmptyCommand},
		{"a | | b", ErrEmptyCommand},
		{"$X", ErrEmptyCommand},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			actual, err := Parse(tc.line, noEnv)
			assert.Nil(t, actual)
			assert.Equal(t, tc.expected, err)
		})
	}
}

// TestParseDiagnostics pins the exact diagnostic wording; it is part of the
// user interface.
func TestParseDiagnostics(t *testing.T) {
	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	lines := []string{
		"a <x <y",
		"a <",
		"a >x >y",
		"a >",
		"   ",
		"a | | b",
	}

	var buf bytes.Buffer
	for _, line := range lines {
		_, err := Parse(line, noEnv)
		fmt.Fprintf(&buf, "%q => %v\n", line, err)
	}

	g.Assert(t, "diagnostics", buf.Bytes())
}
