package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"erasure/internal/version"
)

// newRootCmd builds the command tree. Tests build a fresh tree per run.
func newRootCmd() *cobra.Command {
	s := &session{}
	root := &cobra.Command{
		Use:           "erasure",
		Short:         "Bridge synthesis and value-wrapper mangling for erased generics",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := s.open(cmd); err != nil {
				s.close(cmd)
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			s.close(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "path to erasure.toml (default: search upwards from the working directory)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "", "trace storage (log|ring|both)")
	pf.Int("trace-ring-size", 0, "ring buffer capacity for ring/both modes")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.Bool("log-dev", false, "human-readable development logging")
	pf.Bool("timings", false, "print phase timings")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	root.AddCommand(
		newLowerCmd(s),
		newMangleCmd(s),
		newReachCmd(),
		newVersionCmd(),
	)
	closeOnError(root, s)
	return root
}

// closeOnError releases the session when a subcommand fails; cobra skips
// PersistentPostRun after a RunE error.
func closeOnError(root *cobra.Command, s *session) {
	for _, c := range root.Commands() {
		run := c.RunE
		if run == nil {
			continue
		}
		c.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			if err != nil {
				s.close(cmd)
			}
			return err
		}
	}
}

// main runs the CLI and exits with status 1 on any error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
