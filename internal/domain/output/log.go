// Package output is the line-oriented surface every front-end renders.
package output

import (
	"sync"
	"time"
)

// Line is one rendered output entry.
type Line struct {
	Seq  uint64
	Text string
	At   time.Time
}

// Listener is invoked synchronously for every appended line, in order.
type Listener func(Line)

// Log is an append-only, bounded history of output lines.
type Log struct {
	mu        sync.RWMutex
	lines     []Line
	limit     int
	seq       uint64
	nextID    uint64
	listeners map[uint64]Listener
}

const defaultLimit = 1000

func NewLog(limit int) *Log {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Log{
		limit:     limit,
		listeners: make(map[uint64]Listener),
	}
}

// Print appends a line and notifies listeners.
func (l *Log) Print(text string) {
	l.mu.Lock()
	l.seq++
	line := Line{Seq: l.seq, Text: text, At: time.Now()}
	l.lines = append(l.lines, line)
	if len(l.lines) >= 2*l.limit {
		// [COMPACTION] amortised: one copy per limit lines, so the dropped prefix can be collected
		l.lines = append(make([]Line, 0, 2*l.limit), l.tail()...)
	}

	listeners := make([]Listener, 0, len(l.listeners))
	for _, fn := range l.listeners {
		listeners = append(listeners, fn)
	}
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(line)
	}
}

// tail is the retained window: at most limit most recent lines. Callers hold mu.
func (l *Log) tail() []Line {
	if over := len(l.lines) - l.limit; over > 0 {
		return l.lines[over:]
	}
	return l.lines
}

// Lines returns a copy of the retained history.
func (l *Log) Lines() []Line {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Line(nil), l.tail()...)
}

// Texts returns the retained history as plain strings.
func (l *Log) Texts() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	lines := l.tail()
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.Text
	}
	return out
}

// Subscribe registers fn and returns a function that removes it.
func (l *Log) Subscribe(fn Listener) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn

	return func() {
		l.mu.Lock()
		delete(l.listeners, id)
		l.mu.Unlock()
	}
}
