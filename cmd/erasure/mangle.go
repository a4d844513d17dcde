package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"erasure/internal/mangle"
	"erasure/internal/program"
	"erasure/internal/symbols"
)

func newMangleCmd(s *session) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "mangle <program.yaml> [Class#member...]",
		Short: "Show mangling signature strings and suffixes without lowering",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := program.Load(args[0])
			if err != nil {
				return err
			}
			keys := args[1:]
			if len(keys) == 0 {
				keys = prog.Keys()
			}

			gen := mangle.NewGenerator(prog.Types, prog.Decls, nil)
			t := newTable("MEMBER", "SIGNATURE", "EMITTED")
			for _, key := range keys {
				id, ok := prog.Lookup(key)
				if !ok {
					return fmt.Errorf("unknown member %s", key)
				}
				d := prog.Decls.Decl(id)
				suffix, ok := gen.Suffix(id)
				if !ok && !all {
					continue
				}
				sig := "-"
				if d.Kind != symbols.DeclConstructor {
					sig = gen.SignatureString(id)
				}
				emitted := d.Name
				if ok {
					emitted = mangleColor.Sprint(mangle.MangledName(d.Name, suffix))
				}
				t.add(key, sig, emitted)
			}
			s.logger.Debug("mangle listing", zap.Int("rows", len(t.rows)))
			if len(t.rows) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "no member needs a suffix")
				return err
			}
			return t.render(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also list members that keep their name")
	return cmd
}
