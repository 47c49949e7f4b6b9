package events

import (
	"sync"
	"time"
)

const (
	TaskPlaced  = "schedule.task.placed"
	TaskMoved   = "schedule.task.moved"
	TaskRemoved = "schedule.task.removed"
)

// Event is a committed schedule change, published for the rendering layer.
type Event struct {
	Type     string    `json:"type"`
	OrderNum string    `json:"order_num"`
	Resource string    `json:"resource"`
	Start    int       `json:"start"`
	At       time.Time `json:"at"`
}

type Log struct {
	mu     sync.RWMutex
	events []Event
}

func NewLog() *Log {
	return &Log{events: make([]Event, 0)}
}

func (l *Log) Append(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.At = time.Now()
	l.events = append(l.events, e)
}

// All returns a copy; callers may not observe later appends through it.
func (l *Log) All() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}
