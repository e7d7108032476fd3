// Package service implements the in-memory capture log
package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	ptime "snapgate/internal/platform/time"
	dom "snapgate/internal/services/capture/domain"
)

// DefaultPartition receives captures that carry no test file
const DefaultPartition = "default"

// Config for the capture log
type Config struct {
	// Capacity bounds each partition; older records are evicted first
	Capacity int
}

// Log implements domain.LogPort. Partitions are keyed by the capture's
// TestFile so parallel workers in one process evict independently.
// State is never shared across processes
type Log struct {
	mu    sync.Mutex
	cap   int
	order []string
	parts map[string][]dom.Capture

	now   func() time.Time
	newID func() string
}

// New constructs a capture log
func New(cfg Config) *Log {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1000
	}
	return &Log{
		cap:   cfg.Capacity,
		parts: make(map[string][]dom.Capture),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Append implements domain.LogPort
func (l *Log) Append(c dom.Capture) dom.Capture {
	key := c.TestFile
	if key == "" {
		key = DefaultPartition
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c.ID = l.newID()
	c.Timestamp = l.now()

	p, ok := l.parts[key]
	if !ok {
		l.order = append(l.order, key)
	}
	if len(p) >= l.cap {
		// FIFO eviction scoped to this partition
		copy(p, p[1:])
		p = p[:len(p)-1]
	}
	l.parts[key] = append(p, c)
	return c
}

// All implements domain.LogPort
func (l *Log) All() []dom.Capture {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// ByName implements domain.LogPort
func (l *Log) ByName(name string) []dom.Capture {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []dom.Capture
	for _, key := range l.order {
		for _, c := range l.parts[key] {
			if c.Name == name {
				out = append(out, c)
			}
		}
	}
	return out
}

// ByPartition implements domain.LogPort
func (l *Log) ByPartition(key string) []dom.Capture {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.parts[key]
	if len(p) == 0 {
		return nil
	}
	out := make([]dom.Capture, len(p))
	copy(out, p)
	return out
}

// Clear implements domain.LogPort
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clearLocked()
}

// ClearPartition implements domain.LogPort
func (l *Log) ClearPartition(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.parts[key]; !ok {
		return
	}
	delete(l.parts, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Size implements domain.LogPort
func (l *Log) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, p := range l.parts {
		n += len(p)
	}
	return n
}

// Flush implements domain.LogPort. The snapshot and the clear happen
// under one lock so no concurrent append can fall between them
func (l *Log) Flush(project, environment string) dom.RunPayload {
	l.mu.Lock()
	defer l.mu.Unlock()

	payload := dom.RunPayload{
		RunID:       l.newID(),
		Project:     project,
		Environment: environment,
		FinishedAt:  ptime.Ptr(l.now()),
		Captures:    l.snapshotLocked(),
	}
	l.clearLocked()
	return payload
}

func (l *Log) snapshotLocked() []dom.Capture {
	var out []dom.Capture
	for _, key := range l.order {
		out = append(out, l.parts[key]...)
	}
	return out
}

func (l *Log) clearLocked() {
	l.parts = make(map[string][]dom.Capture)
	l.order = nil
}
