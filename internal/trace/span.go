package trace

import (
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
)

// Span tracks one logical operation: a run, a pass or a class.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	scope    Scope
	name     string
	started  time.Time
	extra    map[string]string
}

// emit stamps ev with the time and the next sequence number and hands it to t.
func emit(t Tracer, ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	ev.Seq = seq.Add(1)
	t.Emit(&ev)
}

func passes(t Tracer, kind Kind, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(kind, scope)
}

// Begin starts a span under parent (0 for a root). A filtered span is
// detached and all of its methods do nothing.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !passes(t, KindSpanBegin, scope) {
		return &Span{}
	}
	s := &Span{
		tracer:   t,
		id:       spanIDs.Add(1),
		parentID: parent,
		scope:    scope,
		name:     name,
		started:  time.Now(),
	}
	emit(t, Event{Time: s.started, Kind: KindSpanBegin, Scope: scope, SpanID: s.id, ParentID: parent, Name: name})
	return s
}

func (s *Span) live() bool { return s != nil && s.tracer != nil && s.tracer.Enabled() }

// End emits the end event and returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	dur := time.Since(s.started)
	emit(s.tracer, Event{
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		Name:     s.name,
		Detail:   detail,
		Duration: dur,
		Extra:    s.extra,
	})
	return dur
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for detached spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event, e.g. one synthesized bridge.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if passes(t, KindPoint, scope) {
		emit(t, Event{Kind: KindPoint, Scope: scope, ParentID: parent, Name: name, Detail: detail})
	}
}

// Error emits an error event. Errors pass every level except off.
func Error(t Tracer, scope Scope, name string, err error, parent uint64) {
	if err != nil && passes(t, KindError, scope) {
		emit(t, Event{Kind: KindError, Scope: scope, ParentID: parent, Name: name, Detail: err.Error()})
	}
}
