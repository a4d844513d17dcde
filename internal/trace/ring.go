package trace

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
)

// RingTracer keeps the most recent events in a fixed-size buffer so a failed
// run can print what led up to the failure.
type RingTracer struct {
	mu       sync.RWMutex
	events   []Event
	capacity int
	head     int  // next write position
	full     bool // has wrapped around
	level    Level
}

// NewRingTracer creates a new RingTracer with specified capacity.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{
		events:   make([]Event, capacity),
		capacity: capacity,
		level:    level,
	}
}

// Emit adds an event to the ring buffer.
func (t *RingTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Kind, ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.head] = *ev
	t.head = (t.head + 1) % t.capacity
	if t.head == 0 {
		t.full = true
	}
}

// Snapshot returns a copy of all stored events in chronological order.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.full {
		return slices.Clone(t.events[:t.head])
	}
	return slices.Concat(t.events[t.head:], t.events[:t.head])
}

// Dump writes stored events as text lines, one per event.
func (t *RingTracer) Dump(w io.Writer) error {
	for _, ev := range t.Snapshot() {
		if _, err := io.WriteString(w, formatText(&ev)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }

// Level returns the current tracing level.
func (t *RingTracer) Level() Level { return t.level }

// Enabled returns true if tracing is active.
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

func formatText(ev *Event) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d %-6s %-6s %s", ev.Seq, ev.Kind, ev.Scope, ev.Name)
	if ev.Kind == KindSpanEnd {
		fmt.Fprintf(&sb, " (%s)", ev.Duration)
	}
	if ev.Detail != "" {
		sb.WriteString(" ")
		sb.WriteString(ev.Detail)
	}
	for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
		fmt.Fprintf(&sb, " %s=%s", k, ev.Extra[k])
	}
	sb.WriteByte('\n')
	return sb.String()
}
