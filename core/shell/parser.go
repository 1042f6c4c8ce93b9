package shell

import (
	"errors"
	"strings"
)

// Parse diagnostics. The exact wording is an interface contract, snapshot
// tests pin it.
var (
	ErrMultipleInputRedirections  = errors.New("Parsing error: cannot have more than one input redirection")
	ErrMultipleOutputRedirections = errors.New("Parsing error: cannot have more than one output redirection")
	ErrNoInputPath                = errors.New("Parsing error: no path specified for input redirection")
	ErrNoOutputPath               = errors.New("Parsing error: no path specified for output redirection")
	ErrEmptyCommand               = errors.New("Parsing error: empty command")
)

// LookupEnv resolves a $NAME substitution. It mirrors os.LookupEnv: the
// boolean reports whether the variable is set.
type LookupEnv func(name string) (string, bool)

// Parse splits a raw input line into a Line of pipe-connected Commands.
//
// A line with no commands at all (empty, or nothing between the pipes)
// produces a nil Line and a nil error; the caller skips it silently. Any
// malformed segment discards the whole line and returns the diagnostic.
func Parse(line string, lookup LookupEnv) (*Line, error) {
	var segments []string
	for _, segment := range strings.Split(line, "|") {
		// Adjacent delimiters produce empty segments, they don't count as
		// commands. Blank (all whitespace) segments do, and fail below.
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	if len(segments) == 0 {
		return nil, nil
	}

	result := &Line{}
	for _, segment := range segments {
		command, err := parseCommand(segment, lookup)
		if err != nil {
			return nil, err
		}
		result.Commands = append(result.Commands, command)
	}
	return result, nil
}

// parseCommand tokenizes a single pipe segment on whitespace and classifies
// each token as a redirection, a substitution or a plain argument.
func parseCommand(segment string, lookup LookupEnv) (Command, error) {
	var result Command
	for _, token := range strings.Fields(segment) {
		switch {
		case token[0] == '<':
			if result.InPath != "" {
				return Command{}, ErrMultipleInputRedirections
			}
			if len(token) == 1 {
				return Command{}, ErrNoInputPath
			}
			result.InPath = token[1:]

		case token[0] == '>':
			if result.OutPath != "" {
				return Command{}, ErrMultipleOutputRedirections
			}
			if len(token) == 1 {
				return Command{}, ErrNoOutputPath
			}
			result.OutPath = token[1:]

		case token[0] == '$':
			// Single-token substitution: the whole token is replaced by the
			// variable's value, or collapses to nothing when the value is
			// empty or the variable is unset.
			value, _ := lookup(token[1:])
			if value != "" {
				result.Args = append(result.Args, value)
			}

		default:
			result.Args = append(result.Args, token)
		}
	}

	if len(result.Args) == 0 {
		return Command{}, ErrEmptyCommand
	}
	return result, nil
}
