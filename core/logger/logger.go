// Package logger records shell activity as a newline delimited JSON log.
package logger

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Record is one logged event. Exactly one of the event-specific fields is
// populated depending on Event.
type Record struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`

	// Argv of the spawned stage, for "spawn" events.
	Argv []string `json:"argv,omitempty"`

	// Process id, for "spawn" and termination events.
	PID int `json:"pid,omitempty"`

	// Exit status, for "exit" events.
	Status int `json:"status,omitempty"`

	// Signal name, for "signal" events.
	Signal string `json:"signal,omitempty"`

	// Error text, for "error" events.
	Error string `json:"error,omitempty"`
}

// Event names.
const (
	EventSpawn  = "spawn"
	EventExit   = "exit"
	EventSignal = "signal"
	EventError  = "error"
)

// SessionLog appends Records to a writer as newline delimited JSON. A nil
// *SessionLog is valid and discards everything, so callers don't need to
// guard logging sites.
type SessionLog struct {
	mu  sync.Mutex
	enc *json.Encoder
	now func() time.Time
}

// New creates a SessionLog writing to w.
func New(w io.Writer) *SessionLog {
	return &SessionLog{
		enc: json.NewEncoder(w),
		now: time.Now,
	}
}

// Log writes one record, stamping it with the current time.
func (l *SessionLog) Log(r Record) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	r.Time = l.now()
	// Best effort: a full disk shouldn't take the shell down.
	_ = l.enc.Encode(&r)
}

// Read parses a newline delimited JSON log, invoking handler once per record.
func Read(r io.Reader, handler func(Record)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var record Record
		if err := decoder.Decode(&record); err != nil {
			return err
		}
		handler(record)
	}
	return nil
}
