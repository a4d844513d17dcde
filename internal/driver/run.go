// Package driver runs the lowering pass over a loaded program: bridge
// synthesis followed by value-wrapper name mangling, class by class on a
// bounded pool of workers.
package driver

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"erasure/internal/bridgegen"
	"erasure/internal/mangle"
	"erasure/internal/observ"
	"erasure/internal/program"
	"erasure/internal/signature"
	"erasure/internal/symbols"
	"erasure/internal/trace"
	"erasure/internal/types"
)

// Options configure one Run.
type Options struct {
	// Jobs caps concurrent class workers; <= 0 means GOMAXPROCS.
	Jobs    int
	Mode    signature.Mode
	Bridges bool
	Mangle  bool
}

// DefaultOptions enables both subsystems in params mode.
func DefaultOptions() Options {
	return Options{Bridges: true, Mangle: true}
}

// MemberReport is the emitted name of one class member.
type MemberReport struct {
	Decl   symbols.DeclID
	Name   string // mangled when Suffix is set
	Suffix string
}

// ClassReport is what lowering did to one class.
type ClassReport struct {
	Class   types.ClassID
	Name    string
	Bridges []symbols.DeclID
	Members []MemberReport
}

// Result of a Run. Classes are in registration order regardless of which
// worker lowered them.
type Result struct {
	// RunID tags the log and trace output of this run. It is not part of
	// the artifact.
	RunID   string
	Classes []ClassReport
	Bridges int
	Mangled int
	Jobs    int
	Timing  observ.Report

	prog    *program.Program
	mode    signature.Mode
	lowerer *bridgegen.Lowerer
	sigs    *signature.Cache
}

type runner struct {
	prog    *program.Program
	opts    Options
	lowerer *bridgegen.Lowerer
	mangler *mangle.Generator
	tracer  trace.Tracer

	bridges atomic.Int64
	mangled atomic.Int64
}

// Run lowers every class of prog. Each class is owned by exactly one worker,
// which appends its bridges and then names its members. On error the classes
// already lowered keep their bridges; the failing class gets none.
func Run(ctx context.Context, prog *program.Program, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	runID := uuid.NewString()
	span := trace.Begin(tracer, trace.ScopeDriver, "run", trace.CurrentSpan(ctx)).WithExtra("run", runID)
	ctx = trace.WithSpan(ctx, span)
	log := Logger().With(zap.String("run", runID), zap.String("program", prog.Path), zap.Stringer("mode", opts.Mode))
	timer := observ.NewTimer()
	started := time.Now()

	idx := timer.Begin("validate")
	if err := prog.Decls.Validate(); err != nil {
		timer.End(idx, "failed")
		trace.Error(tracer, trace.ScopeDriver, "validate", err, span.ID())
		span.End("invalid program")
		return nil, fmt.Errorf("validate: %w", err)
	}
	timer.End(idx, "")

	sigs := signature.NewCache(signature.NewModel(prog.Types, prog.Decls, opts.Mode))
	r := &runner{
		prog:    prog,
		opts:    opts,
		lowerer: bridgegen.NewLowerer(prog.Types, prog.Decls, sigs),
		mangler: mangle.NewGenerator(prog.Types, prog.Decls, nil),
		tracer:  tracer,
	}

	classes := prog.Decls.Classes()
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	reports := make([]ClassReport, len(classes))

	idx = timer.Begin("lower")
	passSpan := trace.Begin(tracer, trace.ScopePass, "lower", span.ID())
	passCtx := trace.WithSpan(ctx, passSpan)
	g, gctx := errgroup.WithContext(passCtx)
	g.SetLimit(max(1, min(jobs, len(classes))))
	for i, class := range classes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep, err := r.lowerClass(gctx, class)
			if err != nil {
				return err
			}
			// indexes are unique per worker
			reports[i] = rep
			return nil
		})
	}
	err := g.Wait()
	passSpan.End("")
	timer.End(idx, fmt.Sprintf("%d classes, %d jobs", len(classes), jobs))

	if err != nil {
		trace.Error(tracer, trace.ScopeDriver, "lower", err, span.ID())
		span.End("failed")
		log.Error("lowering failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return nil, err
	}

	res := &Result{
		RunID:   runID,
		Classes: reports,
		Bridges: int(r.bridges.Load()),
		Mangled: int(r.mangled.Load()),
		Jobs:    jobs,
		Timing:  timer.Report(),
		prog:    prog,
		mode:    opts.Mode,
		lowerer: r.lowerer,
		sigs:    sigs,
	}
	span.WithExtra("bridges", strconv.Itoa(res.Bridges)).
		WithExtra("mangled", strconv.Itoa(res.Mangled)).
		End("")
	log.Info("lowering finished",
		zap.Int("classes", len(classes)),
		zap.Int("bridges", res.Bridges),
		zap.Int("mangled", res.Mangled),
		zap.Int("jobs", jobs),
		zap.Duration("elapsed", time.Since(started)),
	)
	return res, nil
}

func (r *runner) lowerClass(ctx context.Context, class types.ClassID) (ClassReport, error) {
	name := fmt.Sprintf("<class#%d>", class)
	if info, ok := r.prog.Types.Class(class); ok {
		name = info.FQName
	}
	span := trace.Begin(r.tracer, trace.ScopeClass, name, trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)
	rep := ClassReport{Class: class, Name: name}

	if r.opts.Bridges {
		ids, err := r.lowerer.LowerClass(ctx, class)
		if err != nil {
			trace.Error(r.tracer, trace.ScopeClass, name, err, span.ID())
			span.End("failed")
			return rep, fmt.Errorf("class %s: %w", name, err)
		}
		rep.Bridges = ids
		r.bridges.Add(int64(len(ids)))
	}

	tbl := r.prog.Decls
	members := tbl.Members(class)
	rep.Members = make([]MemberReport, len(members))
	for i, id := range members {
		d := tbl.Decl(id)
		m := MemberReport{Decl: id, Name: d.Name}
		if r.opts.Mangle {
			if suffix, ok := r.mangler.Suffix(id); ok {
				m.Suffix = suffix
				m.Name = mangle.MangledName(d.Name, suffix)
				r.mangled.Add(1)
				trace.Point(r.tracer, trace.ScopeDecl, "mangle:"+d.Name, m.Name, span.ID())
			}
		}
		rep.Members[i] = m
	}

	span.WithExtra("bridges", strconv.Itoa(len(rep.Bridges))).End("")
	return rep, nil
}

// Class returns the report for class, if it was lowered.
func (r *Result) Class(class types.ClassID) (ClassReport, bool) {
	for _, c := range r.Classes {
		if c.Class == class {
			return c, true
		}
	}
	return ClassReport{}, false
}
