package engine

import (
	"fmt"

	"golang.org/x/sys/unix"

	"josephlewis.net/microsh/core/logger"
)

// Supervise drains every child of the shell process, reporting abnormal
// terminations on Stdout. Children that exit zero are silent.
//
// The loop terminates on ECHILD, which is the expected "no more children"
// condition, not an error. One Line fully drains its children before the next
// line is read, so waiting for any child never crosses pipelines.
func (e *Engine) Supervise() {
	for {
		var status unix.WaitStatus
		pid, err := unix.Wait4(-1, &status, 0, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return
		}

		switch {
		case status.Exited():
			code := status.ExitStatus()
			e.Log.Log(logger.Record{Event: logger.EventExit, PID: pid, Status: code})
			if code != 0 {
				fmt.Fprintf(e.stdout(), "Child with PID %d exited with status %d.\n", pid, code)
			}

		case status.Signaled():
			sig := status.Signal()
			name := unix.SignalName(sig)
			e.Log.Log(logger.Record{Event: logger.EventSignal, PID: pid, Signal: name})
			fmt.Fprintf(e.stdout(), "Child with PID %d was killed by signal %d (%s).\n", pid, int(sig), name)
		}
	}
}
