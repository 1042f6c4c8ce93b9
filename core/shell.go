// Package core wires the interactive read loop to the parser, validator and
// execution engine.
package core

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"

	"josephlewis.net/microsh/core/config"
	"josephlewis.net/microsh/core/engine"
	"josephlewis.net/microsh/core/logger"
	"josephlewis.net/microsh/core/shell"
)

// Shell reads lines, runs them through parse/validate/execute, and prompts
// again once the line's children have been supervised.
type Shell struct {
	Engine   *engine.Engine
	Readline *readline.Instance

	// LookupEnv supplies $NAME substitutions. Nil means os.LookupEnv.
	LookupEnv shell.LookupEnv

	config      *config.Configuration
	promptColor *color.Color
	toClose     listCloser
}

// NewShell builds an interactive shell over the process's standard streams.
func NewShell(cfg *config.Configuration) (*Shell, error) {
	logFd, err := cfg.OpenSessionLog()
	if err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(&readline.Config{
		HistoryFile: cfg.HistoryPath(),
	})
	if err != nil {
		logFd.Close()
		return nil, err
	}

	s := &Shell{
		Engine:   &engine.Engine{Log: logger.New(logFd)},
		Readline: rl,
		config:   cfg,
	}
	s.toClose = append(s.toClose, logFd, rl)

	if cfg.Color {
		s.promptColor = color.New(color.FgGreen, color.Bold)
	}

	return s, nil
}

// Prompt builds the prompt: the working directory plus the configured suffix.
func (s *Shell) Prompt() string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "?"
	}
	if s.promptColor != nil {
		wd = s.promptColor.Sprint(wd)
	}
	return wd + s.config.Prompt
}

// Run reads and executes lines until end-of-input or "exit". The returned
// error is fatal (see engine.FatalError); the caller should terminate.
func (s *Shell) Run() error {
	for {
		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			continue // Ctrl-C at the prompt discards the line.

		case err != nil:
			log.Printf("Error readline: %v", err)
			continue

		case len(line) == 0:
			continue // empty line

		case line == "exit":
			return nil

		default:
			if err := s.Execute(line); err != nil {
				return err
			}
		}
	}
}

// Execute runs one raw line. Parse and validation failures print their
// diagnostic and abort only this line; the returned error is fatal.
func (s *Shell) Execute(line string) error {
	parsed, err := shell.Parse(line, s.lookupEnv())
	if err != nil {
		fmt.Fprintln(s.stderr(), err)
		return nil
	}
	if parsed == nil {
		return nil // nothing to run
	}

	if err := shell.Check(parsed); err != nil {
		fmt.Fprintln(s.stderr(), err)
		return nil
	}

	return s.Engine.Exec(parsed)
}

func (s *Shell) lookupEnv() shell.LookupEnv {
	if s.LookupEnv != nil {
		return s.LookupEnv
	}
	return os.LookupEnv
}

func (s *Shell) stderr() *os.File {
	if s.Engine.Stderr != nil {
		return s.Engine.Stderr
	}
	return os.Stderr
}

// Close releases the history and session log handles.
func (s *Shell) Close() error {
	return s.toClose.Close()
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
