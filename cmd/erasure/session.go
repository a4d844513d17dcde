package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"erasure/internal/config"
	"erasure/internal/driver"
	"erasure/internal/prof"
	"erasure/internal/trace"
)

// session holds what every subcommand shares: the effective configuration,
// the logger and the tracer.
type session struct {
	cfg        config.Config
	configPath string
	logger     *zap.Logger
	tracer     trace.Tracer
	profiler   *prof.Profiler
	useColor   bool
	closed     bool
}

func (s *session) open(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	path, _ := flags.GetString("config")
	var err error
	if path != "" {
		s.cfg, err = config.Load(path)
		s.configPath = path
	} else {
		s.cfg, s.configPath, err = config.Discover(".")
	}
	if err != nil {
		return err
	}
	if err := s.applyFlags(cmd); err != nil {
		return err
	}

	colorFlag, _ := flags.GetString("color")
	switch strings.ToLower(colorFlag) {
	case "on":
		s.useColor = true
	case "off":
		s.useColor = false
	case "auto", "":
		s.useColor = isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color %q (expected auto|on|off)", colorFlag)
	}
	color.NoColor = !s.useColor

	if s.logger, err = newLogger(s.cfg); err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	driver.SetLogger(s.logger)

	tc, err := s.cfg.Tracing()
	if err != nil {
		return err
	}
	tc.Logger = s.logger
	if s.tracer, err = trace.New(tc); err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), s.tracer)
	cmd.SetContext(ctx)

	if s.configPath != "" {
		s.logger.Debug("configuration loaded", zap.String("path", s.configPath))
	}

	var paths prof.Paths
	paths.CPU, _ = flags.GetString("cpu-profile")
	paths.Mem, _ = flags.GetString("mem-profile")
	paths.Trace, _ = flags.GetString("runtime-trace")
	if paths.Enabled() {
		if s.profiler, err = prof.Start(paths); err != nil {
			return err
		}
	}
	return nil
}

// applyFlags lets explicitly set flags win over the manifest.
func (s *session) applyFlags(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	if flags.Changed("trace-level") {
		s.cfg.Trace.Level, _ = flags.GetString("trace-level")
	}
	if flags.Changed("trace-mode") {
		s.cfg.Trace.Mode, _ = flags.GetString("trace-mode")
	}
	if flags.Changed("trace-ring-size") {
		s.cfg.Trace.RingSize, _ = flags.GetInt("trace-ring-size")
	}
	if flags.Changed("log-level") {
		s.cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-dev") {
		s.cfg.Log.Development, _ = flags.GetBool("log-dev")
	}

	local := cmd.Flags()
	if local.Lookup("jobs") != nil && local.Changed("jobs") {
		s.cfg.Pass.Jobs, _ = local.GetInt("jobs")
	}
	if local.Lookup("mode") != nil && local.Changed("mode") {
		s.cfg.Pass.SignatureMode, _ = local.GetString("mode")
	}
	if local.Lookup("no-bridges") != nil && local.Changed("no-bridges") {
		off, _ := local.GetBool("no-bridges")
		s.cfg.Pass.Bridges = !off
	}
	if local.Lookup("no-mangle") != nil && local.Changed("no-mangle") {
		off, _ := local.GetBool("no-mangle")
		s.cfg.Pass.Mangle = !off
	}
	if local.Lookup("output") != nil && local.Changed("output") {
		s.cfg.Output.Artifact, _ = local.GetString("output")
	}
	return s.cfg.Validate()
}

// close stops the profiler, flushes the tracer and syncs the logger. Only the
// first call does anything.
func (s *session) close(cmd *cobra.Command) {
	if s.closed {
		return
	}
	s.closed = true
	if err := s.profiler.Stop(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
	}
	if s.tracer != nil {
		if err := s.tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := s.tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	if s.logger != nil {
		_ = s.logger.Sync()
	}
}

// dumpRing writes buffered trace events to stderr after a failure.
func (s *session) dumpRing(cmd *cobra.Command) {
	var ring *trace.RingTracer
	switch t := s.tracer.(type) {
	case *trace.RingTracer:
		ring = t
	case *trace.MultiTracer:
		ring, _ = t.Ring()
	}
	if ring == nil {
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "trace (most recent events):")
	if err := ring.Dump(cmd.ErrOrStderr()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel())
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
