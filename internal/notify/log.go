// Package notify holds the append-only notification log.
//
// Every action component records its outcome here as a human-readable
// string. The log keeps append order, never dedups and never expires;
// it is emptied only by an explicit clear from a panel client.
package notify

import (
	"sync"
)

// Log is an append-only ordered record of notification messages.
// Safe for concurrent use: the session control thread appends while
// API handlers and stream subscribers read.
type Log struct {
	mu          sync.RWMutex
	entries     []string
	appended    int // lifetime appends, not reset by Clear
	subscribers []chan string
}

// NewLog creates an empty notification log.
func NewLog() *Log {
	return &Log{}
}

// Append records a message and fans it out to subscribers. Slow
// subscribers are skipped rather than blocking the control thread.
func (l *Log) Append(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, message)
	l.appended++
	for _, ch := range l.subscribers {
		select {
		case ch <- message:
		default:
		}
	}
}

// All returns a copy of every entry in append order.
func (l *Log) All() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Appended returns the lifetime append count. Unlike Len it survives
// Clear, so counters diffing it never miss appends that land in the
// same window as a clear.
func (l *Log) Appended() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.appended
}

// Clear empties the log. Only invoked on an external clear request.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Subscribers returns the number of active feed subscriptions.
func (l *Log) Subscribers() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subscribers)
}

// Subscribe registers a live feed of future messages. The returned
// cancel func must be called when the consumer goes away.
func (l *Log) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 64)

	l.mu.Lock()
	l.subscribers = append(l.subscribers, ch)
	l.mu.Unlock()

	cancel := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, sub := range l.subscribers {
			if sub == ch {
				l.subscribers = append(l.subscribers[:i], l.subscribers[i+1:]...)
				break
			}
		}
	}
	return ch, cancel
}
