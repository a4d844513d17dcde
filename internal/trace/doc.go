// Package trace records spans and point events of a lowering run.
//
// A tracer travels through the pass in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeClass, "class:pkg.Box", parent)
//	defer span.End("")
//
// Levels filter by scope: phase keeps driver and pass events, detail adds
// per-class events, debug adds per-declaration events.
//
// Two sinks exist: RingTracer keeps the last N events in memory (tests and
// crash dumps) and LogTracer forwards every event to a zap logger.
package trace
