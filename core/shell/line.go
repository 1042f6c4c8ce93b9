package shell

// BuiltinCD is the name of the directory-change built-in. It never spawns a
// process; the engine performs the change in the shell itself.
const BuiltinCD = "cd"

// Command is one stage of a Line: a program invocation with its arguments and
// optional I/O redirections. Args is never empty for a parsed Command and
// Args[0] is the program name.
type Command struct {
	Args []string

	// InPath and OutPath are redirection targets, empty when the stage uses
	// the surrounding stream instead.
	InPath  string
	OutPath string
}

// IsCD reports whether the command invokes the directory-change built-in.
func (c *Command) IsCD() bool {
	return c.Args[0] == BuiltinCD
}

// Line is an ordered chain of Commands connected by pipes, parsed from one
// line of input. Stdout of command i feeds stdin of command i+1.
type Line struct {
	Commands []Command
}
