package shell

import "errors"

// Validation diagnostics, pinned the same way as the parser's.
var (
	ErrInputNotFirst   = errors.New("Parsing error: cannot have input-redirection except in the first command")
	ErrOutputNotLast   = errors.New("Parsing error: cannot have output-redirection except in the last command")
	ErrCDInPipe        = errors.New("Parsing error: cannot have CD in pipe")
	ErrCDNotAlone      = errors.New("Parsing error: cannot have more that one command with CD")
	ErrCDWithInput     = errors.New("Parsing error: cannot have input-redirection with CD")
	ErrCDWithOutput    = errors.New("Parsing error: cannot have output-redirection with CD")
	ErrCDWrongArgCount = errors.New("Parsing error: cannot have more than one argument with CD")
)

// Check runs both placement checks over a parsed Line. A Line that fails
// either must be discarded without spawning any process.
func Check(l *Line) error {
	if err := CheckRedirections(l); err != nil {
		return err
	}
	return CheckCD(l)
}

// CheckRedirections verifies that only the first command redirects input and
// only the last command redirects output.
func CheckRedirections(l *Line) error {
	last := len(l.Commands) - 1
	for i := range l.Commands {
		if l.Commands[i].InPath != "" && i != 0 {
			return ErrInputNotFirst
		}
		if l.Commands[i].OutPath != "" && i != last {
			return ErrOutputNotLast
		}
	}
	return nil
}

// CheckCD verifies the directory-change built-in's placement: it must be the
// only command of the line, carry no redirections, and take exactly one
// argument.
func CheckCD(l *Line) error {
	for i := 1; i < len(l.Commands); i++ {
		if l.Commands[i].IsCD() {
			return ErrCDInPipe
		}
	}

	first := &l.Commands[0]
	if !first.IsCD() {
		return nil
	}

	switch {
	case len(l.Commands) > 1:
		return ErrCDNotAlone
	case first.InPath != "":
		return ErrCDWithInput
	case first.OutPath != "":
		return ErrCDWithOutput
	case len(first.Args) != 2:
		return ErrCDWrongArgCount
	}
	return nil
}
