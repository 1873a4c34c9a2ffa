package logging

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Logger writes one JSON object per line. Every entry carries "ts" in the
// configured location and a "level" derived from "status" when not given.
type Logger struct {
	mu  sync.Mutex
	enc *json.Encoder
	loc *time.Location
}

// New returns a Logger writing to w. A nil loc means UTC.
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{enc: json.NewEncoder(w), loc: loc}
}

// Default logs to stdout in UTC.
func Default() *Logger {
	return New(os.Stdout, time.UTC)
}

// Location returns the zone used for the "ts" field.
func (l *Logger) Location() *time.Location {
	return l.loc
}

// Log writes data as a single JSON line. data is modified in place.
func (l *Logger) Log(data map[string]any) {
	data["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(data); err != nil {
		log.Printf("failed to marshal log entry: %v", err)
	}
}

// Info logs msg with optional fields at info level.
func (l *Logger) Info(msg string, fields map[string]any) {
	l.Log(entry("info", msg, fields))
}

// Warn logs msg with optional fields at warn level.
func (l *Logger) Warn(msg string, fields map[string]any) {
	l.Log(entry("warn", msg, fields))
}

// Error logs msg and err at error level.
func (l *Logger) Error(msg string, err error, fields map[string]any) {
	e := entry("error", msg, fields)
	if err != nil {
		e["error"] = err.Error()
	}
	l.Log(e)
}

func entry(level, msg string, fields map[string]any) map[string]any {
	e := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		e[k] = v
	}
	e["level"] = level
	e["msg"] = msg
	return e
}
