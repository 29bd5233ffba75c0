package history

import (
	"sync"

	"pingcheck/internal/models"
)

// Log holds ping attempts in memory, newest first. It lives as long as the
// process and is never written to disk.
type Log struct {
	mu      sync.RWMutex
	entries []models.LogEntry
}

// New creates an empty log.
func New() *Log {
	return &Log{}
}

// Prepend records entry as the most recent attempt.
func (l *Log) Prepend(entry models.LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, models.LogEntry{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = entry
}

// Entries returns a copy of the log, newest first.
func (l *Log) Entries() []models.LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	copied := make([]models.LogEntry, len(l.entries))
	copy(copied, l.entries)
	return copied
}
