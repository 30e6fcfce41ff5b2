package jobs

import (
	"strings"
	"sync"
	"time"
)

const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// LogEntry is one recorded job lifecycle event.
type LogEntry struct {
	Time    time.Time      `json:"time"`
	Job     string         `json:"job"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Log keeps the most recent job lifecycle events in a fixed capacity ring.
// Once full, new entries overwrite the oldest ones.
type Log struct {
	mu      sync.Mutex
	entries []LogEntry
	next    int
	size    int
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = 256
	}
	return &Log{
		entries: make([]LogEntry, capacity),
	}
}

func (l *Log) Append(job, level, message string, meta map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.next] = LogEntry{
		Time:    time.Now().UTC(),
		Job:     job,
		Level:   level,
		Message: message,
		Meta:    meta,
	}
	l.next = (l.next + 1) % len(l.entries)
	if l.size < len(l.entries) {
		l.size++
	}
}

// Tail returns up to limit of the most recent entries, ordered oldest to
// newest (the most recent entry is last), optionally filtered by level.
// A limit of 0 or less means all retained entries.
func (l *Log) Tail(limit int, level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 || limit > l.size {
		limit = l.size
	}

	result := make([]LogEntry, 0, limit)
	for i := 1; i <= l.size && len(result) < limit; i++ {
		idx := (l.next - i + len(l.entries)) % len(l.entries)
		e := l.entries[idx]
		if level != "" && !strings.EqualFold(e.Level, level) {
			continue
		}
		result = append(result, e)
	}

	// Collected newest first; flip so the most recent entry comes last.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return result
}

// Size returns the number of retained entries.
func (l *Log) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}
