package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"erasure/internal/driver"
	"erasure/internal/program"
)

var (
	bridgeColor = color.New(color.FgGreen)
	mangleColor = color.New(color.FgYellow)
)

func newLowerCmd(s *session) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "lower <program.yaml>",
		Short: "Synthesize bridges and mangle names for a resolved program",
		Long: "Synthesizes the bridge methods every class needs after generic\n" +
			"erasure and mangles members whose signatures mention value wrappers.\n\n" +
			"The default params mode keys signatures by name and parameters only.\n" +
			"An override that narrows just a generic return type (IntBox.get(): Int\n" +
			"over Box<T>.get(): T) gets its bridge only with --mode descriptor\n" +
			"(or signature_mode = \"descriptor\" under [pass]).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "table", "json":
			default:
				return fmt.Errorf("unsupported format %q (must be table or json)", format)
			}

			prog, err := program.Load(args[0])
			if err != nil {
				return err
			}
			opts := driver.Options{
				Jobs:    s.cfg.Pass.Jobs,
				Mode:    s.cfg.SignatureMode(),
				Bridges: s.cfg.Pass.Bridges,
				Mangle:  s.cfg.Pass.Mangle,
			}
			res, err := driver.Run(cmd.Context(), prog, opts)
			if err != nil {
				s.dumpRing(cmd)
				return err
			}

			artifact := res.Artifact()
			if path := s.cfg.Output.Artifact; path != "" {
				if err := driver.WriteArtifact(path, artifact); err != nil {
					return fmt.Errorf("write artifact: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(artifact); err != nil {
					return err
				}
			} else if err := renderLowered(out, artifact); err != nil {
				return err
			}

			if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
				fmt.Fprint(cmd.ErrOrStderr(), res.Timing.Summary())
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Int("jobs", 0, "concurrent class workers (0 = GOMAXPROCS)")
	f.String("mode", "", "signature mode (params|descriptor)")
	f.Bool("no-bridges", false, "skip bridge synthesis")
	f.Bool("no-mangle", false, "skip name mangling")
	f.StringP("output", "o", "", "write the lowered artifact (msgpack) to this path")
	f.StringVar(&format, "format", "table", "output format (table|json)")
	return cmd
}

// renderLowered lists bridges and mangled members; untouched members are
// left out. Colored cells go last so escape codes never skew padding.
func renderLowered(out io.Writer, a *driver.Artifact) error {
	t := newTable("CLASS", "MEMBER", "NOTE", "EMITTED")
	for _, c := range a.Classes {
		for _, m := range c.Members {
			switch {
			case m.Origin == "bridge":
				note := "calls " + m.Target
				if m.Delegate != "" {
					note += " (implemented by " + m.Delegate + ")"
				}
				t.add(c.Name, m.Signature, note, bridgeColor.Sprint(m.Emitted))
			case m.Emitted != m.Name:
				t.add(c.Name, m.Name+"("+strings.Join(m.Params, ", ")+")", "mangled", mangleColor.Sprint(m.Emitted))
			}
		}
	}
	if len(t.rows) == 0 {
		_, err := fmt.Fprintln(out, "nothing to lower")
		return err
	}
	return t.render(out)
}
