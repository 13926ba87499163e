package event

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/osse101/RewardArcade_Go/internal/logger"
)

// DeadLetterEntry is one line of the dead-letter log
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	Event         Event     `json:"event"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
}

// DeadLetterWriter appends undeliverable events as JSON lines
type DeadLetterWriter struct {
	mu      sync.Mutex
	out     io.WriteCloser
	written int
}

// NewDeadLetterWriter opens path for appending, creating it if needed
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgDeadLetterOpen, err)
	}
	return &DeadLetterWriter{out: f}, nil
}

// Write records event after its final failed attempt
func (w *DeadLetterWriter) Write(event Event, attempts int, lastError error) error {
	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     time.Now().UTC(),
		Event:         event,
		Attempts:      attempts,
	}
	if lastError != nil {
		entry.LastError = lastError.Error()
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgDeadLetterEncode, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.out.Write(append(line, '\n')); err != nil {
		return err
	}
	w.written++
	logger.FromContext(context.Background()).Warn(LogMsgEventDeadLettered,
		"event_type", event.Type,
		"event_id", event.ID,
		"attempts", attempts)
	return nil
}

// Written is the number of entries appended since the writer was opened
func (w *DeadLetterWriter) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

func (w *DeadLetterWriter) Close() error {
	return w.out.Close()
}

// ReadDeadLetters parses a dead-letter log. Entries from a newer schema
// version are rejected.
func ReadDeadLetters(r io.Reader) ([]DeadLetterEntry, error) {
	var entries []DeadLetterEntry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for line := 1; scanner.Scan(); line++ {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var entry DeadLetterEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("%s at line %d: %w", ErrMsgDeadLetterDecode, line, err)
		}
		if entry.SchemaVersion != DeadLetterSchemaVersion {
			return nil, fmt.Errorf("%s at line %d: schema %q", ErrMsgDeadLetterDecode, line, entry.SchemaVersion)
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}
