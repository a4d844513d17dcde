package trace

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogTracer forwards events to a zap logger. Error events are logged at
// error level, span ends at info, everything else at debug.
type LogTracer struct {
	logger *zap.Logger
	level  Level
}

// NewLogTracer creates a LogTracer. A nil logger drops everything.
func NewLogTracer(logger *zap.Logger, level Level) *LogTracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogTracer{logger: logger.Named("trace"), level: level}
}

// Emit writes the event as one structured log entry.
func (t *LogTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Kind, ev.Scope) {
		return
	}
	lvl := zapcore.DebugLevel
	switch ev.Kind {
	case KindError:
		lvl = zapcore.ErrorLevel
	case KindSpanEnd:
		lvl = zapcore.InfoLevel
	}
	ce := t.logger.Check(lvl, ev.Name)
	if ce == nil {
		return
	}
	fields := make([]zap.Field, 0, 6+len(ev.Extra))
	fields = append(fields,
		zap.Uint64("seq", ev.Seq),
		zap.Stringer("kind", ev.Kind),
		zap.Stringer("scope", ev.Scope),
		zap.Uint64("span", ev.SpanID),
	)
	if ev.ParentID != 0 {
		fields = append(fields, zap.Uint64("parent", ev.ParentID))
	}
	if ev.Kind == KindSpanEnd {
		fields = append(fields, zap.Duration("dur", ev.Duration))
	}
	if ev.Detail != "" {
		fields = append(fields, zap.String("detail", ev.Detail))
	}
	for k, v := range ev.Extra {
		fields = append(fields, zap.String(k, v))
	}
	ce.Write(fields...)
}

// Flush syncs the logger.
func (t *LogTracer) Flush() error {
	// Sync on stderr/stdout returns EINVAL on some platforms.
	_ = t.logger.Sync() //nolint:errcheck
	return nil
}

// Close flushes the logger; it does not own it.
func (t *LogTracer) Close() error { return t.Flush() }

// Level returns the current tracing level.
func (t *LogTracer) Level() Level { return t.level }

// Enabled returns true if tracing is active.
func (t *LogTracer) Enabled() bool { return t.level > LevelOff }
