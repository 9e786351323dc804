// Package testutil provides logging helpers for tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// LogRecords collects JSON log lines so tests can assert on what was logged.
type LogRecords struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (r *LogRecords) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// All decodes every record logged so far.
func (r *LogRecords) All() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []map[string]any
	dec := json.NewDecoder(bytes.NewReader(r.buf.Bytes()))
	for dec.More() {
		var rec map[string]any
		if err := dec.Decode(&rec); err != nil {
			break
		}
		out = append(out, rec)
	}
	return out
}

// Find returns the first record with the given message.
func (r *LogRecords) Find(msg string) (map[string]any, bool) {
	for _, rec := range r.All() {
		if rec[slog.MessageKey] == msg {
			return rec, true
		}
	}
	return nil, false
}

// NewCaptureLogger returns a debug logger that records into the returned
// LogRecords.
func NewCaptureLogger(t testing.TB) (*slog.Logger, *LogRecords) {
	t.Helper()
	records := &LogRecords{}
	return slog.New(slog.NewJSONHandler(records, &slog.HandlerOptions{Level: slog.LevelDebug})), records
}
