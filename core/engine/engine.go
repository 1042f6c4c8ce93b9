// Package engine realizes validated Lines as communicating OS processes.
//
// The engine owns every descriptor it creates (redirection files and pipe
// ends) until it has handed the descriptor to a child and closed its own
// copy. No descriptor survives a Line's spawn phase in the shell process.
package engine

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"josephlewis.net/microsh/core/logger"
	"josephlewis.net/microsh/core/shell"
)

// outFileMode is the creation mode for output redirection targets:
// read-write for owner and group, read-only for others.
const outFileMode = 0664

// FatalError marks failures that leave the orchestrator in an unusable state
// (pipe or process creation). Callers must terminate the program; every other
// engine failure is confined to the current line.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Engine spawns one process per Command and supervises their termination.
// The zero value uses the shell process's standard streams.
type Engine struct {
	// Stdin, Stdout and Stderr are the default streams inherited by stages
	// without redirections. Nil means the corresponding os.Std* file.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Log receives spawn and termination records. May be nil.
	Log *logger.SessionLog

	// LookPath resolves a program name against PATH. Nil means exec.LookPath.
	LookPath func(file string) (string, error)

	// Chdir changes the working directory for the cd built-in. Nil means
	// os.Chdir.
	Chdir func(dir string) error
}

// Exec runs a validated Line to completion: it spawns every stage, releases
// the engine's descriptor copies, and waits for all children.
//
// Recoverable per-stage failures (unopenable redirection target, unknown
// program) are reported on Stderr and never returned; the returned error is
// always a *FatalError.
func (e *Engine) Exec(l *shell.Line) error {
	if l.Commands[0].IsCD() {
		// The validator guarantees a lone, unredirected, two-token command.
		if err := e.chdir(l.Commands[0].Args[1]); err != nil {
			fmt.Fprintf(e.stderr(), "cd: %v\n", err)
		}
		return nil
	}

	err := e.spawnAll(l)
	// Already-spawned stages are supervised even when a later stage failed
	// to launch; their write ends see EPIPE once the engine's copies close.
	e.Supervise()
	return err
}

// spawnAll launches the stages left to right, carrying the read end of the
// previous stage's pipe as the next stage's stdin.
func (e *Engine) spawnAll(l *shell.Line) error {
	var nextStdin *os.File
	for i := range l.Commands {
		c := &l.Commands[i]
		last := i == len(l.Commands)-1

		curStdin := nextStdin
		nextStdin = nil
		var curStdout *os.File

		if c.InPath != "" {
			fd, err := os.Open(c.InPath)
			if err != nil {
				fmt.Fprintln(e.stderr(), err)
				e.logError(err)
				closeDescriptor(curStdin)
				return nil
			}
			curStdin = fd
		}

		if c.OutPath != "" {
			fd, err := os.OpenFile(c.OutPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outFileMode)
			if err != nil {
				fmt.Fprintln(e.stderr(), err)
				e.logError(err)
				closeDescriptor(curStdin)
				return nil
			}
			curStdout = fd
		} else if !last {
			// Close-on-exec on both ends: the deliberate duplication into a
			// child's standard slots survives, stray inheritance into later
			// unrelated execs does not.
			var p [2]int
			if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
				closeDescriptor(curStdin)
				return &FatalError{fmt.Errorf("pipe: %w", err)}
			}
			nextStdin = os.NewFile(uintptr(p[0]), "pipe")
			curStdout = os.NewFile(uintptr(p[1]), "pipe")
		}

		err := e.spawn(c, curStdin, curStdout)

		// The children hold their own duplicates now; without this close the
		// readers never observe end-of-file.
		closeDescriptor(curStdin)
		closeDescriptor(curStdout)

		if err != nil {
			closeDescriptor(nextStdin)
			return err
		}
	}
	return nil
}

// spawn starts one stage with the given stdin/stdout descriptors, nil meaning
// the engine's default stream. A program that cannot be resolved is reported
// and skipped; its siblings are unaffected.
func (e *Engine) spawn(c *shell.Command, stdin, stdout *os.File) error {
	path, err := e.lookPath(c.Args[0])
	if err != nil {
		fmt.Fprintln(e.stderr(), err)
		e.logError(err)
		return nil
	}

	if stdin == nil {
		stdin = e.stdin()
	}
	if stdout == nil {
		stdout = e.stdout()
	}

	proc, err := os.StartProcess(path, c.Args, &os.ProcAttr{
		Files: []*os.File{stdin, stdout, e.stderr()},
	})
	if err != nil {
		return &FatalError{fmt.Errorf("start %s: %w", c.Args[0], err)}
	}

	e.Log.Log(logger.Record{Event: logger.EventSpawn, Argv: c.Args, PID: proc.Pid})

	// The supervisor reaps by waiting for any child; the handle is not
	// needed afterwards.
	_ = proc.Release()
	return nil
}

func (e *Engine) stdin() *os.File {
	if e.Stdin != nil {
		return e.Stdin
	}
	return os.Stdin
}

func (e *Engine) stdout() *os.File {
	if e.Stdout != nil {
		return e.Stdout
	}
	return os.Stdout
}

func (e *Engine) stderr() *os.File {
	if e.Stderr != nil {
		return e.Stderr
	}
	return os.Stderr
}

func (e *Engine) lookPath(file string) (string, error) {
	if e.LookPath != nil {
		return e.LookPath(file)
	}
	return exec.LookPath(file)
}

func (e *Engine) chdir(dir string) error {
	if e.Chdir != nil {
		return e.Chdir(dir)
	}
	return os.Chdir(dir)
}

func (e *Engine) logError(err error) {
	e.Log.Log(logger.Record{Event: logger.EventError, Error: err.Error()})
}

// closeDescriptor closes fd if it refers to an engine-created descriptor.
// Errors are ignored: the descriptor is gone either way.
func closeDescriptor(fd *os.File) {
	if fd != nil {
		_ = fd.Close()
	}
}
