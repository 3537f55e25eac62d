// Package eventlog appends received webhook events to a JSON-lines file, one
// object per line, preserving the original payload verbatim.
package eventlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Entry is one persisted event record.
type Entry struct {
	ProcessedAt time.Time       `json:"processedAt"`
	EventID     string          `json:"eventId"`
	HookID      string          `json:"hookId"`
	ReceivedAt  time.Time       `json:"receivedAt"`
	Payload     json.RawMessage `json:"payload"`
}

// Writer appends entries to a log file. Safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// Open opens or creates the log file at path in append mode.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return &Writer{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends one entry. A zero ProcessedAt is stamped with the current
// time.
func (w *Writer) Write(e Entry) error {
	if e.ProcessedAt.IsZero() {
		e.ProcessedAt = time.Now()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return errors.New("event log is closed")
	}
	if err := w.enc.Encode(e); err != nil {
		return fmt.Errorf("write event log entry: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file. Subsequent writes fail.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	f := w.f
	w.f = nil
	w.enc = nil
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync event log: %w", err)
	}
	return f.Close()
}
